package loader

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// File is the YAML form of one component.
type File struct {
	Component   string           `yaml:"component"`
	Version     string           `yaml:"version,omitempty"`
	Externals   []ExternalSpec   `yaml:"externals,omitempty"`
	CustomTypes []CustomTypeSpec `yaml:"custom_types,omitempty"`
	Types       []TypeSpec       `yaml:"types,omitempty"`
	Functions   []FunctionSpec   `yaml:"functions,omitempty"`
}

// TypeSpec declares one local type. Exactly one definition key is set.
type TypeSpec struct {
	Name   string       `yaml:"name"`
	Doc    string       `yaml:"doc,omitempty"`
	Alias  string       `yaml:"alias,omitempty"`
	Record *FieldList   `yaml:"record,omitempty"`
	Enum   *VariantList `yaml:"enum,omitempty"`
	Error  *VariantList `yaml:"error,omitempty"`
	Object *ObjectSpec  `yaml:"object,omitempty"`
}

// ObjectSpec declares an object's constructors and methods.
type ObjectSpec struct {
	Constructors []FunctionSpec `yaml:"constructors,omitempty"`
	Methods      []FunctionSpec `yaml:"methods,omitempty"`
}

// FunctionSpec declares a function, constructor or method.
type FunctionSpec struct {
	Name    string    `yaml:"name"`
	Params  FieldList `yaml:"params,omitempty"`
	Returns string    `yaml:"returns,omitempty"`
	Throws  string    `yaml:"throws,omitempty"`
	Async   bool      `yaml:"async,omitempty"`
}

// ExternalSpec references a type owned by another component.
// It is written either as a bare name or as {name, from}.
type ExternalSpec struct {
	Name string `yaml:"name"`
	From string `yaml:"from,omitempty"`
}

// CustomTypeSpec declares a custom type over a wire type.
type CustomTypeSpec struct {
	Name     string `yaml:"name"`
	Wire     string `yaml:"wire"`
	ToWire   string `yaml:"to_wire"`
	FromWire string `yaml:"from_wire"`
}

// FieldSpec is one named, typed entry of a FieldList.
type FieldSpec struct {
	Name string
	Type string
}

// FieldList is an ordered list of fields. It is written as a mapping
// ({lat: f64, lon: f64}) whose key order is kept, or as a sequence of
// {name, type} entries.
type FieldList []FieldSpec

// VariantSpec is one case of an enum or error.
type VariantSpec struct {
	Name   string
	Fields FieldList
}

// VariantList is written as a sequence whose items are either a bare
// variant name or a single-key mapping from name to its fields.
type VariantList []VariantSpec

// --- ExternalSpec YAML methods ---

// UnmarshalYAML accepts "Point" or {name: Point, from: geo}.
func (e *ExternalSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&e.Name)

	case yaml.MappingNode:
		type plain ExternalSpec

		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}

		*e = ExternalSpec(p)

		return nil

	default:
		return fmt.Errorf("line %d: expected external name or {name, from}, got %v", node.Line, kindName(node.Kind))
	}
}

// MarshalYAML writes unpinned references as a bare name.
func (e ExternalSpec) MarshalYAML() (any, error) {
	if e.From == "" {
		return e.Name, nil
	}

	type plain ExternalSpec

	return plain(e), nil
}

// --- FieldList YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for FieldList.
func (f *FieldList) UnmarshalYAML(node *yaml.Node) error {
	out := FieldList{}

	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			field, err := decodeFieldPair(node.Content[i], node.Content[i+1])
			if err != nil {
				return err
			}

			out = append(out, field)
		}

	case yaml.SequenceNode:
		for _, item := range node.Content {
			field, err := decodeFieldItem(item)
			if err != nil {
				return err
			}

			out = append(out, field)
		}

	default:
		return fmt.Errorf("line %d: expected field mapping or list, got %v", node.Line, kindName(node.Kind))
	}

	*f = out

	return nil
}

func decodeFieldPair(key, value *yaml.Node) (FieldSpec, error) {
	var field FieldSpec

	if err := key.Decode(&field.Name); err != nil {
		return FieldSpec{}, fmt.Errorf("line %d: invalid field name: %w", key.Line, err)
	}

	if value.Kind != yaml.ScalarNode {
		return FieldSpec{}, fmt.Errorf("line %d: field %q: expected a type expression", value.Line, field.Name)
	}

	field.Type = value.Value

	return field, nil
}

func decodeFieldItem(item *yaml.Node) (FieldSpec, error) {
	if item.Kind != yaml.MappingNode {
		return FieldSpec{}, fmt.Errorf("line %d: expected {name, type} or {field: type}", item.Line)
	}

	var named struct {
		Name string `yaml:"name"`
		Type string `yaml:"type"`
	}

	if err := item.Decode(&named); err == nil && named.Name != "" && named.Type != "" && len(item.Content) == 4 {
		return FieldSpec{Name: named.Name, Type: named.Type}, nil
	}

	if len(item.Content) != 2 {
		return FieldSpec{}, fmt.Errorf("line %d: expected single key-value map like {lat: f64}", item.Line)
	}

	return decodeFieldPair(item.Content[0], item.Content[1])
}

// MarshalYAML writes the list as an ordered mapping.
func (f FieldList) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
	for _, field := range f {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: field.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Value: field.Type},
		)
	}

	return node, nil
}

// --- VariantList YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for VariantList.
func (v *VariantList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: expected a list of variants, got %v", node.Line, kindName(node.Kind))
	}

	out := VariantList{}

	for _, item := range node.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			out = append(out, VariantSpec{Name: item.Value})

		case yaml.MappingNode:
			if len(item.Content) != 2 {
				return errors.New("expected single key-value map like {Drive: {speed: f64}}")
			}

			var fields FieldList
			if err := item.Content[1].Decode(&fields); err != nil {
				return fmt.Errorf("variant %q: %w", item.Content[0].Value, err)
			}

			out = append(out, VariantSpec{Name: item.Content[0].Value, Fields: fields})

		default:
			return fmt.Errorf("line %d: expected variant name or map, got %v", item.Line, kindName(item.Kind))
		}
	}

	*v = out

	return nil
}

// MarshalYAML writes data-less variants as bare names.
func (v VariantList) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode}

	for _, variant := range v {
		name := &yaml.Node{Kind: yaml.ScalarNode, Value: variant.Name}
		if len(variant.Fields) == 0 {
			node.Content = append(node.Content, name)
			continue
		}

		fields, err := variant.Fields.MarshalYAML()
		if err != nil {
			return nil, err
		}

		node.Content = append(node.Content, &yaml.Node{
			Kind:    yaml.MappingNode,
			Content: []*yaml.Node{name, fields.(*yaml.Node)},
		})
	}

	return node, nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}
