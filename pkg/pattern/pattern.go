// Package pattern generates and verifies the deterministic counting
// pattern used to exercise the sample-stream interleaver. A buffer holds
// consecutive little-endian 16-bit words, word i carrying i mod 65536;
// the verifier re-derives that sequence under a sample stride and a
// per-channel starting count.
package pattern

import (
	"encoding/binary"
	"fmt"
)

// Fill writes the counting pattern over buf: the 16-bit word at index i
// holds i mod 65536. len(buf) must be even.
func Fill(buf []byte) {
	for i := 0; i < len(buf)/2; i++ {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(i))
	}
}

// Generate acquires a buffer of n bytes from pool and fills it with the
// counting pattern. n must be positive and even.
func Generate(pool *Pool, n int) (*Buffer, error) {
	if n%2 != 0 {
		return nil, fmt.Errorf("pattern length must be even, got %d", n)
	}
	buf, err := pool.Get(n)
	if err != nil {
		return nil, err
	}
	Fill(buf.Bytes())
	return buf, nil
}
