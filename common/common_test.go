package common

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, SliceToBytes([]float32{}))

	data := []float32{1, -2.5}
	b := SliceToBytes(data)
	require.Len(t, b, 8)
	assert.Equal(t, float32(1), math.Float32frombits(binary.NativeEndian.Uint32(b[0:4])))
	assert.Equal(t, float32(-2.5), math.Float32frombits(binary.NativeEndian.Uint32(b[4:8])))
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 3, Coalesce(0, 3))
	assert.Equal(t, "", Coalesce[string]())
}
