package light

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrCapacityExceeded is returned when an active count outside [0, capacity] is requested.
	ErrCapacityExceeded = errors.New("light: active count exceeds buffer capacity")

	// ErrAlreadyMapped is returned by BeginUpdate while a write view is still open.
	ErrAlreadyMapped = errors.New("light: buffer is already mapped")

	// ErrNotMapped is returned by EndUpdate when no write view is open.
	ErrNotMapped = errors.New("light: buffer is not mapped")
)

// Storage is a GPU storage allocation that point light records are written into.
type Storage interface {
	// Write replaces the allocation contents starting at offset 0.
	//
	// Parameters:
	//   - data: the marshaled records
	Write(data []byte)

	// Size returns the allocation size in bytes.
	//
	// Returns:
	//   - uint64: the size in bytes
	Size() uint64

	// Release frees the allocation. The storage must not be used afterwards.
	Release()
}

// StorageAllocator creates GPU storage allocations for the dynamic light buffer.
type StorageAllocator interface {
	// AllocateStorage creates a read-only storage allocation.
	//
	// Parameters:
	//   - label: debug label for the allocation
	//   - size: the allocation size in bytes
	//
	// Returns:
	//   - Storage: the new allocation
	//   - error: error if the allocation fails
	AllocateStorage(label string, size uint64) (Storage, error)
}

// Handle identifies one storage allocation of a DynamicBuffer. A new generation is
// issued on every reallocation, so a handle held across SetActiveCount is stale.
type Handle struct {
	Generation uint64
	Storage    Storage
}

// DynamicBuffer owns one GPU storage allocation sized to exactly the active count of
// point light records, together with a private staging copy used by write views.
type DynamicBuffer struct {
	mu         *sync.Mutex
	allocator  StorageAllocator
	label      string
	capacity   int
	count      int
	generation uint64
	storage    Storage
	staging    []PointLight
	view       *WriteView
}

// WriteView is the open mapping of a DynamicBuffer returned by BeginUpdate. It is
// invalidated by EndUpdate, after which Set panics.
type WriteView struct {
	records []PointLight
	closed  bool
}

// NewDynamicBuffer creates an empty buffer with the given capacity. No storage is
// allocated until SetActiveCount is called.
//
// Parameters:
//   - allocator: the GPU storage allocator
//   - capacity: the maximum active count
//
// Returns:
//   - *DynamicBuffer: the new buffer
func NewDynamicBuffer(allocator StorageAllocator, capacity int) *DynamicBuffer {
	if allocator == nil {
		panic("light: failed to create dynamic buffer: nil storage allocator")
	}
	return &DynamicBuffer{
		mu:        &sync.Mutex{},
		allocator: allocator,
		label:     "Point Light Buffer",
		capacity:  capacity,
	}
}

// Capacity returns the maximum active count.
//
// Returns:
//   - int: the capacity
func (b *DynamicBuffer) Capacity() int {
	return b.capacity
}

// Count returns the current active count.
//
// Returns:
//   - int: the active count
func (b *DynamicBuffer) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// SetActiveCount releases the current storage and allocates a new one sized for n
// records, even when n equals the current count. A zero count allocates a single
// record placeholder because WebGPU forbids zero-size bindings.
//
// Parameters:
//   - n: the new active count
//
// Returns:
//   - Handle: the handle of the new allocation
//   - error: ErrCapacityExceeded if n is out of range, ErrAlreadyMapped while a view is open,
//     or the allocator's error
func (b *DynamicBuffer) SetActiveCount(n int) (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n < 0 || n > b.capacity {
		return Handle{}, fmt.Errorf("%w: requested %d, capacity %d", ErrCapacityExceeded, n, b.capacity)
	}
	if b.view != nil {
		return Handle{}, ErrAlreadyMapped
	}

	if b.storage != nil {
		b.storage.Release()
		b.storage = nil
	}

	size := uint64(max(n, 1) * PointLightSize)
	storage, err := b.allocator.AllocateStorage(b.label, size)
	if err != nil {
		return Handle{}, fmt.Errorf("failed to allocate point light storage: %w", err)
	}

	b.storage = storage
	b.count = n
	b.staging = make([]PointLight, n)
	b.generation++
	return Handle{Generation: b.generation, Storage: b.storage}, nil
}

// BeginUpdate opens a write view over the staging records.
//
// Returns:
//   - *WriteView: the open view with Len() equal to the active count
//   - error: ErrAlreadyMapped if a view is already open
func (b *DynamicBuffer) BeginUpdate() (*WriteView, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.view != nil {
		return nil, ErrAlreadyMapped
	}
	b.view = &WriteView{records: b.staging}
	return b.view, nil
}

// EndUpdate marshals the staging records, writes them to the GPU storage and
// invalidates the open view.
//
// Returns:
//   - error: ErrNotMapped if no view is open
func (b *DynamicBuffer) EndUpdate() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.view == nil {
		return ErrNotMapped
	}
	b.view.closed = true
	b.view = nil

	if b.storage != nil && len(b.staging) > 0 {
		b.storage.Write(MarshalPointLights(b.staging))
	}
	return nil
}

// Handle returns the handle of the current allocation. Reading the handle while a
// write view is mapped is a contract violation and panics.
//
// Returns:
//   - Handle: the current handle, zero if nothing has been allocated
func (b *DynamicBuffer) Handle() Handle {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.view != nil {
		panic("light: failed to read buffer handle: buffer is mapped")
	}
	return Handle{Generation: b.generation, Storage: b.storage}
}

// Release frees the storage allocation.
func (b *DynamicBuffer) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.storage != nil {
		b.storage.Release()
		b.storage = nil
	}
	b.staging = nil
	b.count = 0
}

// Len returns the number of records in the view.
//
// Returns:
//   - int: the active count at the time the view was opened
func (v *WriteView) Len() int {
	return len(v.records)
}

// Set writes one record into the view.
//
// Parameters:
//   - i: the record index in [0, Len())
//   - p: the record to write
func (v *WriteView) Set(i int, p PointLight) {
	if v.closed {
		panic("light: failed to write record: view is unmapped")
	}
	v.records[i] = p
}

// Records returns the view's backing records. The slice is only valid until EndUpdate.
//
// Returns:
//   - []PointLight: the staging records
func (v *WriteView) Records() []PointLight {
	if v.closed {
		panic("light: failed to read records: view is unmapped")
	}
	return v.records
}
