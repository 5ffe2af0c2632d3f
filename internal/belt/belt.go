// Package belt provides a backpressured, single-pass byte stream used to
// move payloads between HTTP, compression, and object storage without
// buffering whole files in memory.
package belt

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"
)

// DefaultCapacity is the buffer size, in pending chunks, used by the
// convenience constructors.
const DefaultCapacity = 16

// readChunkSize is the chunk size used when pumping an io.Reader into a
// belt.
const readChunkSize = 32 * 1024

// ErrClosedPipe is returned by Writer.Write after the writer has been
// closed.
var ErrClosedPipe = errors.New("belt: write on closed pipe")

// Compression tags a belt with the codec its chunks are currently encoded
// with. The zero value means plain bytes. Values double as HTTP
// Content-Encoding wire names.
type Compression string

// Zstd is the only supported compression at the moment. Compression is an
// open set: adding an algorithm means adding a constant and a case in
// compress.go, callers are untouched.
const Zstd Compression = "zstd"

// state is shared between the writer and reader halves of a pipe.
type state struct {
	ch        chan []byte
	done      chan struct{} // producer finished
	gone      chan struct{} // consumer gave up
	counter   atomic.Int64
	err       atomic.Value // error set by CloseWithError
	closeOnce sync.Once
	abortOnce sync.Once
}

func (s *state) close(err error) {
	s.closeOnce.Do(func() {
		if err != nil {
			s.err.Store(err)
		}
		close(s.done)
	})
}

func (s *state) abort() {
	s.abortOnce.Do(func() {
		close(s.gone)
	})
}

func (s *state) closeErr() error {
	if v := s.err.Load(); v != nil {
		return v.(error)
	}
	return nil
}

// Writer is the producer half of a belt pipe. Write blocks while the
// bounded buffer is full, which is the backpressure that keeps memory use
// at O(capacity), not O(payload).
type Writer struct {
	st *state
}

// Write sends a copy of p down the belt as a single chunk. It blocks until
// buffer space is available.
func (w *Writer) Write(p []byte) (int, error) {
	select {
	case <-w.st.done:
		return 0, ErrClosedPipe
	case <-w.st.gone:
		return 0, ErrClosedPipe
	default:
	}
	if len(p) == 0 {
		return 0, nil
	}
	chunk := make([]byte, len(p))
	copy(chunk, p)
	select {
	case w.st.ch <- chunk:
		w.st.counter.Add(int64(len(chunk)))
		return len(p), nil
	case <-w.st.done:
		return 0, ErrClosedPipe
	case <-w.st.gone:
		return 0, ErrClosedPipe
	}
}

// Close terminates the stream. The consumer sees io.EOF once buffered
// chunks are drained: end-of-data, not an error.
func (w *Writer) Close() error {
	w.st.close(nil)
	return nil
}

// CloseWithError terminates the stream with err. The consumer drains any
// buffered chunks and then observes err, which is how mid-stream failures
// (for example corrupt compressed data) surface at the chunk where they
// were detected.
func (w *Writer) CloseWithError(err error) error {
	if err == nil {
		err = io.ErrClosedPipe
	}
	w.st.close(err)
	return nil
}

// Belt is the consumer half: a finite, single-consumption sequence of byte
// chunks that also reads incrementally as an io.Reader. It is not
// restartable.
type Belt struct {
	st       *state
	comp     Compression
	cur      []byte
	finished bool
	err      error
}

// Pipe creates a connected Writer/Belt pair with a bounded buffer of
// capacity pending chunks.
func Pipe(capacity int) (*Writer, *Belt) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	st := &state{
		ch:   make(chan []byte, capacity),
		done: make(chan struct{}),
		gone: make(chan struct{}),
	}
	return &Writer{st: st}, &Belt{st: st}
}

// FromReader pumps r into a new belt on a background goroutine. If r is an
// io.Closer it is closed when drained.
func FromReader(r io.Reader) *Belt {
	w, b := Pipe(DefaultCapacity)
	go func() {
		buf := make([]byte, readChunkSize)
		_, err := io.CopyBuffer(w, r, buf)
		if c, ok := r.(io.Closer); ok {
			if cerr := c.Close(); err == nil {
				err = cerr
			}
		}
		if err != nil {
			w.CloseWithError(err)
			return
		}
		w.Close()
	}()
	return b
}

// FromBytes wraps an in-memory payload in a single-chunk belt.
func FromBytes(p []byte) *Belt {
	w, b := Pipe(1)
	go func() {
		if len(p) > 0 {
			w.Write(p)
		}
		w.Close()
	}()
	return b
}

// Next returns the next chunk, io.EOF at a clean end of stream, or the
// error the producer closed with. Buffered chunks are always delivered
// before the end-of-stream signal.
func (b *Belt) Next() ([]byte, error) {
	if b.finished {
		return nil, b.endErr()
	}
	select {
	case chunk := <-b.st.ch:
		return chunk, nil
	default:
	}
	select {
	case chunk := <-b.st.ch:
		return chunk, nil
	case <-b.st.done:
		// a chunk may have been buffered between the two selects
		select {
		case chunk := <-b.st.ch:
			return chunk, nil
		default:
			b.finished = true
			return nil, b.endErr()
		}
	}
}

// Close abandons the stream from the consumer side. Blocked and future
// producer writes fail with ErrClosedPipe, so a consumer that stops
// mid-stream (a failed storage upload, a disconnected HTTP client) unwinds
// the producing goroutine instead of leaking it. Closing a fully drained
// belt is a no-op; closing mid-stream makes further Next calls return
// ErrClosedPipe.
func (b *Belt) Close() error {
	b.st.abort()
	if !b.finished {
		b.finished = true
		b.err = ErrClosedPipe
	}
	return nil
}

func (b *Belt) endErr() error {
	if b.err == nil {
		if b.err = b.st.closeErr(); b.err == nil {
			b.err = io.EOF
		}
	}
	return b.err
}

// Read implements io.Reader over the chunk sequence.
func (b *Belt) Read(p []byte) (int, error) {
	for len(b.cur) == 0 {
		chunk, err := b.Next()
		if err != nil {
			return 0, err
		}
		b.cur = chunk
	}
	n := copy(p, b.cur)
	b.cur = b.cur[n:]
	return n, nil
}

// Counter reports the total bytes that have passed through the producer
// side so far. It is safe to call without draining the stream; after the
// stream completes it is the payload's total size.
func (b *Belt) Counter() int64 {
	return b.st.counter.Load()
}

// Compression returns the codec the belt's chunks are currently encoded
// with, or the zero value for plain bytes.
func (b *Belt) Compression() Compression {
	return b.comp
}

// WithCompression tags the belt as carrying bytes already encoded with c.
// Used when re-reading stored compressed bytes, e.g. from the artifact
// cache.
func (b *Belt) WithCompression(c Compression) *Belt {
	b.comp = c
	return b
}

// Collect drains the belt into memory. Intended for tests and for payloads
// known to be small, such as decoded thumbnails.
func (b *Belt) Collect() ([]byte, error) {
	var out []byte
	for {
		chunk, err := b.Next()
		if err != nil {
			if err == io.EOF {
				return out, nil
			}
			return nil, err
		}
		out = append(out, chunk...)
	}
}
