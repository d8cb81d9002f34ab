// Package ringbuffer decouples the IQ reader from the sample processor.
package ringbuffer

import (
	"errors"
	"sync"
)

// ErrClosed is returned when writing to a closed buffer.
var ErrClosed = errors.New("ring buffer closed")

// RingBuffer is a blocking, concurrent-safe ring buffer for one writer and one
// reader.
type RingBuffer[T any] struct {
	buf        []T
	readIndex  int
	writeIndex int
	closed     bool
	mu         sync.Mutex
	cond       *sync.Cond
}

// New creates a new RingBuffer of a given size. One slot is kept free to tell
// a full buffer from an empty one.
func New[T any](size int) *RingBuffer[T] {
	rb := &RingBuffer[T]{
		buf: make([]T, size),
	}
	rb.cond = sync.NewCond(&rb.mu)
	return rb
}

// availableWrite returns the number of samples that can be written; mu must be held.
func (rb *RingBuffer[T]) availableWrite() int {
	return len(rb.buf) - rb.availableRead() - 1
}

// availableRead returns the number of samples available for reading; mu must be held.
func (rb *RingBuffer[T]) availableRead() int {
	if rb.writeIndex >= rb.readIndex {
		return rb.writeIndex - rb.readIndex
	}
	return len(rb.buf) - rb.readIndex + rb.writeIndex
}

// Len returns the number of buffered samples.
func (rb *RingBuffer[T]) Len() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.availableRead()
}

// Close marks the buffer as closed and wakes any waiting reader or writer.
// Buffered samples remain readable.
func (rb *RingBuffer[T]) Close() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.closed = true
	rb.cond.Broadcast()
}

// Write adds data to the buffer, blocking until space is available.
func (rb *RingBuffer[T]) Write(data []T) error {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for i := 0; i < len(data); {
		for !rb.closed && rb.availableWrite() == 0 {
			rb.cond.Wait()
		}
		if rb.closed {
			return ErrClosed
		}

		// Copy up to the end of the slice or up to the free space, whichever
		// comes first.
		end := len(rb.buf)
		if rb.readIndex > rb.writeIndex {
			end = rb.readIndex - 1
		} else if rb.readIndex == 0 {
			end = len(rb.buf) - 1
		}
		written := copy(rb.buf[rb.writeIndex:end], data[i:])
		rb.writeIndex = (rb.writeIndex + written) % len(rb.buf)
		i += written

		rb.cond.Broadcast() // Signal reader that data is available.
	}
	return nil
}

// Read retrieves n samples from the buffer, blocking until they are available.
// Once the buffer is closed, Read returns whatever is left, and nil when empty.
func (rb *RingBuffer[T]) Read(n int) []T {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for !rb.closed && rb.availableRead() < n {
		rb.cond.Wait()
	}

	readSize := min(n, rb.availableRead())
	if readSize == 0 {
		return nil
	}

	data := make([]T, readSize)
	if rb.readIndex+readSize <= len(rb.buf) {
		copy(data, rb.buf[rb.readIndex:rb.readIndex+readSize])
	} else {
		part1 := len(rb.buf) - rb.readIndex
		copy(data, rb.buf[rb.readIndex:])
		copy(data[part1:], rb.buf[0:readSize-part1])
	}
	rb.readIndex = (rb.readIndex + readSize) % len(rb.buf)
	rb.cond.Broadcast()
	return data
}
