package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	// Vector (3, 4) has magnitude 5.
	v := Normalize([]float32{3, 4})
	assert.InDelta(t, 0.6, v[0], 0.001)
	assert.InDelta(t, 0.8, v[1], 0.001)

	var magnitude float32
	for _, x := range v {
		magnitude += x * x
	}
	assert.InDelta(t, 1.0, magnitude, 0.001)
}

func TestNormalizeZeroVector(t *testing.T) {
	v := Normalize([]float32{0, 0, 0})
	assert.Equal(t, []float32{0, 0, 0}, v)
}

func TestNormalizeEmpty(t *testing.T) {
	assert.Empty(t, Normalize(nil))
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 0}, []float32{2, 0}), 0.001)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 0.001)
	assert.InDelta(t, -1.0, Cosine([]float32{1, 0}, []float32{-1, 0}), 0.001)
	assert.Zero(t, Cosine([]float32{0, 0}, []float32{1, 1}))
	assert.Zero(t, Cosine(nil, []float32{1}))
}
