package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "Point", 5},
		{"Point", "", 5},
		{"Point", "Point", 0},
		{"Point", "Pointt", 1},
		{"Point", "Piont", 1},
		{"Point", "Pint", 1},
		{"kitten", "sitting", 3},
		{"ca", "abc", 3},
		{"Straße", "Strasse", 2},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(tt.a, tt.b))
			assert.Equal(t, tt.want, Distance(tt.b, tt.a))
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	assert.InDelta(t, 1.0, Similarity("Point", "Point"), 1e-9)
	assert.InDelta(t, 0.8, Similarity("Point", "Piont"), 1e-9)
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 1e-9)
	assert.InDelta(t, 5.0/6.0, Similarity("Straße", "Strase"), 1e-9)
}
