package light

import (
	"encoding/binary"
	"errors"
	"math"
)

type fakeStorage struct {
	size     uint64
	writes   [][]byte
	released bool
}

func (s *fakeStorage) Write(data []byte) {
	s.writes = append(s.writes, append([]byte(nil), data...))
}

func (s *fakeStorage) Size() uint64 { return s.size }

func (s *fakeStorage) Release() { s.released = true }

func (s *fakeStorage) last() []byte {
	if len(s.writes) == 0 {
		return nil
	}
	return s.writes[len(s.writes)-1]
}

type fakeAllocator struct {
	allocations []*fakeStorage
	fail        bool
}

func (a *fakeAllocator) AllocateStorage(_ string, size uint64) (Storage, error) {
	if a.fail {
		return nil, errors.New("out of memory")
	}
	s := &fakeStorage{size: size}
	a.allocations = append(a.allocations, s)
	return s, nil
}

func (a *fakeAllocator) current() *fakeStorage {
	return a.allocations[len(a.allocations)-1]
}

// positionAt decodes the position of record i from a marshaled payload.
func positionAt(data []byte, i int) [3]float32 {
	base := i * PointLightSize
	var out [3]float32
	for c := 0; c < 3; c++ {
		out[c] = math.Float32frombits(binary.LittleEndian.Uint32(data[base+c*4:]))
	}
	return out
}
