package safemath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdd64(t *testing.T) {
	v, ok := Add64(1, 2)
	assert.True(t, ok)
	assert.Equal(t, uint64(3), v)

	_, ok = Add64(math.MaxUint64, 1)
	assert.False(t, ok)
}

func TestSub64(t *testing.T) {
	v, ok := Sub64(5, 3)
	assert.True(t, ok)
	assert.Equal(t, uint64(2), v)

	_, ok = Sub64(3, 5)
	assert.False(t, ok)
}

func TestMul64(t *testing.T) {
	v, ok := Mul64(1<<32, 1<<31)
	assert.True(t, ok)
	assert.Equal(t, uint64(1)<<63, v)

	_, ok = Mul64(1<<32, 1<<32)
	assert.False(t, ok)
}

func TestMulDivFloor(t *testing.T) {
	v, ok := MulDivFloor(10, 3, 4)
	assert.True(t, ok)
	assert.Equal(t, uint64(7), v) // 30/4 = 7.5 -> 7

	// 128-bit intermediate: (2^64-1) * 2 / 4 fits in 64 bits.
	v, ok = MulDivFloor(math.MaxUint64, 2, 4)
	assert.True(t, ok)
	assert.Equal(t, uint64(math.MaxUint64/2), v)

	_, ok = MulDivFloor(1, 1, 0)
	assert.False(t, ok)

	_, ok = MulDivFloor(math.MaxUint64, 3, 2)
	assert.False(t, ok)
}

func TestMulDivCeil(t *testing.T) {
	v, ok := MulDivCeil(10, 3, 4)
	assert.True(t, ok)
	assert.Equal(t, uint64(8), v) // 30/4 = 7.5 -> 8

	v, ok = MulDivCeil(10, 2, 4)
	assert.True(t, ok)
	assert.Equal(t, uint64(5), v) // exact, no bump

	_, ok = MulDivCeil(1, 1, 0)
	assert.False(t, ok)
}
