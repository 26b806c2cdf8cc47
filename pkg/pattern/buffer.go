package pattern

import (
	"fmt"
	"sync"
)

// Buffer is an exclusively held contiguous byte region backing one test
// case. It is created by Generate, mutated in place by the transform,
// inspected by the verifier, and returned to its pool by Release.
type Buffer struct {
	data []byte
	pool *Pool
}

// Bytes returns the backing byte slice. The slice is only valid until
// Release is called.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the buffer length in bytes.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Release returns the buffer to its pool. The buffer must not be used
// afterwards. Release is idempotent so it can sit in a defer on every
// exit path.
func (b *Buffer) Release() {
	if b.data == nil {
		return
	}
	b.pool.put(b.data)
	b.data = nil
}

// Pool reuses sample buffers across test cases so each case acquires and
// releases its buffer explicitly rather than leaning on the collector.
type Pool struct {
	p sync.Pool
}

// NewPool creates an empty buffer pool.
func NewPool() *Pool {
	return &Pool{}
}

// Get acquires a buffer of exactly n bytes.
func (p *Pool) Get(n int) (*Buffer, error) {
	if n <= 0 {
		return nil, fmt.Errorf("buffer length must be positive, got %d", n)
	}
	if v := p.p.Get(); v != nil {
		data := v.([]byte)
		if cap(data) >= n {
			return &Buffer{data: data[:n], pool: p}, nil
		}
		// Too small for this case, let it go
	}
	return &Buffer{data: make([]byte, n), pool: p}, nil
}

func (p *Pool) put(data []byte) {
	p.p.Put(data[:cap(data)])
}
