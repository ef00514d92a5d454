package decl

import "bindgen/internal/common"

// PrimitiveKind enumerates builtin primitive types.
type PrimitiveKind int

const (
	PrimitiveInvalid PrimitiveKind = iota
	PrimitiveBool
	PrimitiveI8
	PrimitiveI16
	PrimitiveI32
	PrimitiveI64
	PrimitiveU8
	PrimitiveU16
	PrimitiveU32
	PrimitiveU64
	PrimitiveF32
	PrimitiveF64
	PrimitiveString
	PrimitiveBytes
	PrimitiveTimestamp
	PrimitiveDuration
)

var primitiveNames = map[PrimitiveKind]string{
	PrimitiveBool:      "bool",
	PrimitiveI8:        "i8",
	PrimitiveI16:       "i16",
	PrimitiveI32:       "i32",
	PrimitiveI64:       "i64",
	PrimitiveU8:        "u8",
	PrimitiveU16:       "u16",
	PrimitiveU32:       "u32",
	PrimitiveU64:       "u64",
	PrimitiveF32:       "f32",
	PrimitiveF64:       "f64",
	PrimitiveString:    "string",
	PrimitiveBytes:     "bytes",
	PrimitiveTimestamp: "timestamp",
	PrimitiveDuration:  "duration",
}

var primitivesByName = func() map[string]PrimitiveKind {
	m := make(map[string]PrimitiveKind, len(primitiveNames))
	for k, name := range primitiveNames {
		m[name] = k
	}

	return m
}()

// String returns the declaration-syntax name of the primitive.
func (k PrimitiveKind) String() string {
	if name, ok := primitiveNames[k]; ok {
		return name
	}

	return common.UnknownStr
}

// Size returns the fixed wire size in bytes, or 0 for variable-length kinds.
func (k PrimitiveKind) Size() int {
	switch k {
	case PrimitiveBool, PrimitiveI8, PrimitiveU8:
		return 1
	case PrimitiveI16, PrimitiveU16:
		return 2
	case PrimitiveI32, PrimitiveU32, PrimitiveF32:
		return 4
	case PrimitiveI64, PrimitiveU64, PrimitiveF64:
		return 8
	case PrimitiveTimestamp, PrimitiveDuration:
		return 12 // seconds (i64) + nanoseconds (u32)
	default:
		return 0
	}
}

// LookupPrimitive returns the primitive kind for a builtin name.
func LookupPrimitive(name string) (PrimitiveKind, bool) {
	k, ok := primitivesByName[name]
	return k, ok
}

// Primitives returns every builtin kind in declaration order.
func Primitives() []PrimitiveKind {
	out := make([]PrimitiveKind, 0, len(primitiveNames))
	for k := PrimitiveBool; k <= PrimitiveDuration; k++ {
		out = append(out, k)
	}

	return out
}
