package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRingAlignsEachAllocation(t *testing.T) {
	r := newFrameRing(1024)

	off, err := r.alloc(make([]byte, 80))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), off)

	off, err = r.alloc([]byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, uint64(256), off)
	assert.Equal(t, []byte{1, 2, 3}, r.data[256:259])
	assert.Len(t, r.used(), 259)
}

func TestFrameRingKeepsEarlierBytes(t *testing.T) {
	r := newFrameRing(1024)
	block := []byte{7, 7, 7, 7}

	first, err := r.alloc(block)
	require.NoError(t, err)
	block[0] = 9
	second, err := r.alloc(block)
	require.NoError(t, err)

	assert.Equal(t, byte(7), r.data[first])
	assert.Equal(t, byte(9), r.data[second])
}

func TestFrameRingExhausted(t *testing.T) {
	r := newFrameRing(512)
	_, err := r.alloc(make([]byte, 320))
	require.NoError(t, err)
	_, err = r.alloc(make([]byte, 320))
	assert.ErrorIs(t, err, ErrFrameSpaceExhausted)

	r.reset()
	assert.Empty(t, r.used())
	_, err = r.alloc(make([]byte, 320))
	assert.NoError(t, err)
}

func TestFrameRingRoundsSizeUp(t *testing.T) {
	assert.Equal(t, uint64(512), newFrameRing(300).size())
	assert.Equal(t, uint64(0), alignUp(0, bindingAlignment))
	assert.Equal(t, uint64(256), alignUp(1, bindingAlignment))
}

func TestPresentModeFor(t *testing.T) {
	assert.Equal(t, PresentModeVSync, PresentModeFor(true))
	assert.Equal(t, PresentModeUncapped, PresentModeFor(false))
}

func TestMSAASampleCountValid(t *testing.T) {
	assert.True(t, MSAAOff.Valid())
	assert.True(t, MSAA4x.Valid())
	assert.False(t, MSAASampleCount(8).Valid())
	assert.False(t, MSAASampleCount(0).Valid())
}
