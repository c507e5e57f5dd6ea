// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package bufferpool recycles the staging buffers used to load log records.
//
// A log holds one record per instrumented file, and reading a large log
// stages thousands of them in sequence. Pool keeps those staging buffers
// from churning the allocator.
package bufferpool

import (
	"sync"
)

// Pool maintains a pool of fixed-capacity buffers. It allocates a new
// buffer when none is available.
type Pool struct {
	// Size is the capacity of the buffers in this pool.
	Size int

	base sync.Pool
}

// Get returns a buffer with the pool's capacity, allocating one if none is
// available.
//
// The caller should return the buffer to the pool by calling its Release
// method when done with it.
func (bp *Pool) Get() *Buffer {
	b, ok := bp.base.Get().(*Buffer)
	if !ok {
		// Create a blank buffer. When it is released, it will be added back
		// to the pool.
		b = &Buffer{
			bytes: make([]byte, bp.Size),
		}
	}

	b.pool = bp
	b.size = -1
	return b
}

func (bp *Pool) put(b *Buffer) { bp.base.Put(b) }

// Buffer is a byte buffer that can be released into a Pool for reuse.
//
// Failure to release a Buffer will not cause a memory leak, but will
// prevent its reuse.
type Buffer struct {
	bytes []byte
	size  int

	pool *Pool
}

// Bytes returns this buffer's byte slice, honoring any Truncate.
func (b *Buffer) Bytes() []byte {
	if b.size >= 0 {
		return b.bytes[:b.size]
	}
	return b.bytes
}

// Len returns the number of bytes returned by Bytes.
func (b *Buffer) Len() int { return len(b.Bytes()) }

// Truncate caps the number of bytes returned by Bytes. The underlying
// capacity is unchanged, and is restored on the next Get.
func (b *Buffer) Truncate(size int) {
	b.size = size
}

// Release returns the buffer to its pool.
//
// The Buffer, and any slice obtained from Bytes, must not be used after
// Release. A Buffer must only be released once.
func (b *Buffer) Release() {
	var pool *Pool
	pool, b.pool = b.pool, nil
	pool.put(b)
}
