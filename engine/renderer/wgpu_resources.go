package renderer

import (
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-mirror/engine/light"
	"github.com/cogentcore/webgpu/wgpu"
)

// wgpuTexture is the Texture implementation of the wgpu device.
type wgpuTexture struct {
	label   string
	texture *wgpu.Texture
	view    *wgpu.TextureView
	width   int
	height  int
}

var _ Texture = &wgpuTexture{}

func (t *wgpuTexture) Label() string {
	return t.label
}

func (t *wgpuTexture) Size() (int, int) {
	return t.width, t.height
}

func (t *wgpuTexture) Release() {
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}

// wgpuSampler is the Sampler implementation of the wgpu device.
type wgpuSampler struct {
	name    string
	sampler *wgpu.Sampler
}

var _ Sampler = &wgpuSampler{}

func (s *wgpuSampler) Name() string {
	return s.name
}

// wgpuStorage is a point light storage allocation. Writes made outside a frame go straight
// to the buffer. Writes made while a frame is being recorded are staged in the frame's
// storage ring so draws applied before and after the write each see their own records;
// the last staged write is copied into the buffer once the frame is submitted.
type wgpuStorage struct {
	dev    *wgpuDevice
	label  string
	buffer *wgpu.Buffer
	size   uint64

	pending    []byte
	ringOffset uint64
}

var _ light.Storage = &wgpuStorage{}

func (s *wgpuStorage) Write(data []byte) {
	d := s.dev
	d.mu.Lock()
	defer d.mu.Unlock()

	if s.buffer == nil {
		return
	}
	if uint64(len(data)) > s.size {
		data = data[:s.size]
	}

	if d.pass == nil {
		d.queue.WriteBuffer(s.buffer, 0, data)
		return
	}

	offset, err := d.storageRing.alloc(data)
	if err != nil {
		// Out of ring space: the records still reach the buffer, only the in-frame ordering is lost.
		log.Printf("[Renderer] %s: %v", s.label, err)
		d.queue.WriteBuffer(s.buffer, 0, data)
		return
	}
	s.pending = append(s.pending[:0], data...)
	s.ringOffset = offset
}

func (s *wgpuStorage) Size() uint64 {
	return s.size
}

func (s *wgpuStorage) Release() {
	d := s.dev
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.storages, s)
	if s.buffer != nil {
		s.buffer.Release()
		s.buffer = nil
	}
	s.pending = nil
}

// entry returns the bind group entry the storage is bound with at this point of the frame.
// Callers hold the device lock.
func (s *wgpuStorage) entry(binding uint32) (wgpu.BindGroupEntry, error) {
	if s.buffer == nil {
		return wgpu.BindGroupEntry{}, fmt.Errorf("storage %q was released: %w", s.label, ErrUnboundResource)
	}
	if s.pending != nil {
		return wgpu.BindGroupEntry{
			Binding: binding,
			Buffer:  s.dev.storageBuffer,
			Offset:  s.ringOffset,
			Size:    uint64(len(s.pending)),
		}, nil
	}
	return wgpu.BindGroupEntry{
		Binding: binding,
		Buffer:  s.buffer,
		Offset:  0,
		Size:    s.size,
	}, nil
}

// flush copies the last in-frame write into the buffer after the frame was submitted.
// Callers hold the device lock.
func (s *wgpuStorage) flush() {
	if s.pending == nil || s.buffer == nil {
		return
	}
	s.dev.queue.WriteBuffer(s.buffer, 0, s.pending)
	s.pending = nil
}
