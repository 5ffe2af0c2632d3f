package belt_test

import (
	"bytes"
	"crypto/rand"
	"errors"
	"io"
	"testing"

	"photodrop/internal/belt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBelt_PipeRoundTrip(t *testing.T) {
	// Arrange
	payload := make([]byte, 100*1024)
	_, err := rand.Read(payload)
	require.NoError(t, err)

	w, b := belt.Pipe(4)
	go func() {
		for i := 0; i < len(payload); i += 7000 {
			end := i + 7000
			if end > len(payload) {
				end = len(payload)
			}
			if _, err := w.Write(payload[i:end]); err != nil {
				w.CloseWithError(err)
				return
			}
		}
		w.Close()
	}()

	// Act
	got, err := b.Collect()

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, int64(len(payload)), b.Counter())
}

func TestBelt_NextReturnsEOFAfterClose(t *testing.T) {
	// Arrange
	w, b := belt.Pipe(2)
	_, err := w.Write([]byte("chunk"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	// Act
	first, firstErr := b.Next()
	_, secondErr := b.Next()
	_, thirdErr := b.Next()

	// Assert
	assert.NoError(t, firstErr)
	assert.Equal(t, []byte("chunk"), first)
	assert.Equal(t, io.EOF, secondErr)
	assert.Equal(t, io.EOF, thirdErr)
}

func TestBelt_CloseWithErrorDeliversBufferedChunksFirst(t *testing.T) {
	// Arrange
	boom := errors.New("upstream exploded")
	w, b := belt.Pipe(4)
	_, err := w.Write([]byte("one"))
	require.NoError(t, err)
	_, err = w.Write([]byte("two"))
	require.NoError(t, err)
	require.NoError(t, w.CloseWithError(boom))

	// Act
	first, firstErr := b.Next()
	second, secondErr := b.Next()
	_, thirdErr := b.Next()

	// Assert
	assert.NoError(t, firstErr)
	assert.Equal(t, []byte("one"), first)
	assert.NoError(t, secondErr)
	assert.Equal(t, []byte("two"), second)
	assert.Equal(t, boom, thirdErr)
}

func TestBelt_WriteAfterCloseFails(t *testing.T) {
	// Arrange
	w, _ := belt.Pipe(1)
	require.NoError(t, w.Close())

	// Act
	n, err := w.Write([]byte("late"))

	// Assert
	assert.Zero(t, n)
	assert.Equal(t, belt.ErrClosedPipe, err)
}

func TestBelt_CloseUnblocksBlockedWriter(t *testing.T) {
	// Arrange
	w, b := belt.Pipe(1)
	writeErr := make(chan error, 1)
	go func() {
		for {
			if _, err := w.Write([]byte("chunk")); err != nil {
				writeErr <- err
				return
			}
		}
	}()

	first, err := b.Next()
	require.NoError(t, err)
	require.Equal(t, []byte("chunk"), first)

	// Act
	require.NoError(t, b.Close())

	// Assert
	assert.Equal(t, belt.ErrClosedPipe, <-writeErr)
	_, err = b.Next()
	assert.Equal(t, belt.ErrClosedPipe, err)
}

func TestBelt_CloseAfterDrainIsNoOp(t *testing.T) {
	// Arrange
	b := belt.FromBytes([]byte("payload"))
	_, err := b.Collect()
	require.NoError(t, err)

	// Act
	require.NoError(t, b.Close())

	// Assert
	_, err = b.Next()
	assert.Equal(t, io.EOF, err)
}

func TestBelt_ReadImplementsIOReader(t *testing.T) {
	// Arrange
	payload := bytes.Repeat([]byte("abc123"), 5000)
	b := belt.FromBytes(payload)

	// Act
	got, err := io.ReadAll(b)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestBelt_FromReaderPumpsAndCloses(t *testing.T) {
	// Arrange
	payload := make([]byte, 200*1024)
	_, err := rand.Read(payload)
	require.NoError(t, err)
	src := &closeTrackingReader{Reader: bytes.NewReader(payload)}

	// Act
	got, err := belt.FromReader(src).Collect()

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.True(t, src.closed)
}

func TestBelt_FromReaderPropagatesReadError(t *testing.T) {
	// Arrange
	boom := errors.New("disk on fire")
	src := io.MultiReader(bytes.NewReader([]byte("partial")), &failingReader{err: boom})

	// Act
	_, err := belt.FromReader(src).Collect()

	// Assert
	assert.Equal(t, boom, err)
}

func TestBelt_FromBytesEmptyPayload(t *testing.T) {
	// Arrange
	b := belt.FromBytes(nil)

	// Act
	got, err := b.Collect()

	// Assert
	assert.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, b.Counter())
}

func TestBelt_WithCompressionTagsBelt(t *testing.T) {
	// Arrange
	b := belt.FromBytes([]byte("payload"))

	// Act
	tagged := b.WithCompression(belt.Zstd)

	// Assert
	assert.Equal(t, belt.Zstd, tagged.Compression())
	assert.Equal(t, belt.Compression(""), belt.FromBytes(nil).Compression())
}

type closeTrackingReader struct {
	io.Reader
	closed bool
}

func (r *closeTrackingReader) Close() error {
	r.closed = true
	return nil
}

type failingReader struct {
	err error
}

func (r *failingReader) Read([]byte) (int, error) {
	return 0, r.err
}
