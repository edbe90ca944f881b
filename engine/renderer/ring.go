package renderer

import "fmt"

// bindingAlignment is the WebGPU default for both minUniformBufferOffsetAlignment and
// minStorageBufferOffsetAlignment.
const bindingAlignment = 256

// frameRing is the CPU staging copy of a per-frame GPU buffer. Each allocation gets its own
// aligned slice so every draw of the frame keeps the bytes it was applied with. The used
// prefix is uploaded once per frame before submission.
type frameRing struct {
	data   []byte
	cursor uint64
}

func newFrameRing(size uint64) *frameRing {
	size = alignUp(size, bindingAlignment)
	return &frameRing{data: make([]byte, size)}
}

// alloc copies b into the ring and returns its offset.
func (r *frameRing) alloc(b []byte) (uint64, error) {
	offset := alignUp(r.cursor, bindingAlignment)
	end := offset + uint64(len(b))
	if end > uint64(len(r.data)) {
		return 0, fmt.Errorf("%w: need %d bytes at offset %d, ring holds %d", ErrFrameSpaceExhausted, len(b), offset, len(r.data))
	}
	copy(r.data[offset:end], b)
	r.cursor = end
	return offset, nil
}

// used returns the prefix written since the last reset.
func (r *frameRing) used() []byte {
	return r.data[:r.cursor]
}

func (r *frameRing) size() uint64 {
	return uint64(len(r.data))
}

func (r *frameRing) reset() {
	r.cursor = 0
}

func alignUp(v, align uint64) uint64 {
	return (v + align - 1) / align * align
}
