package belt

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// AdaptToCompression returns a belt carrying the same payload encoded with
// algo. If the belt already carries algo it is returned unchanged. The
// transcode runs on a background goroutine chunk by chunk, so the adapted
// belt keeps the source's backpressure.
func (b *Belt) AdaptToCompression(algo Compression) (*Belt, error) {
	if b.comp == algo {
		return b, nil
	}
	if b.comp != "" {
		// no direct transcoding between codecs; decompress first
		plain, err := b.AdaptToNoCompression()
		if err != nil {
			return nil, err
		}
		return plain.AdaptToCompression(algo)
	}
	switch algo {
	case Zstd:
		w, out := Pipe(DefaultCapacity)
		go func() {
			enc, err := zstd.NewWriter(w)
			if err != nil {
				b.Close()
				w.CloseWithError(err)
				return
			}
			if _, err := io.Copy(enc, b); err != nil {
				enc.Close()
				// the error may be the adapted belt's consumer giving up;
				// either way the source must be unwound too
				b.Close()
				w.CloseWithError(err)
				return
			}
			if err := enc.Close(); err != nil {
				b.Close()
				w.CloseWithError(err)
				return
			}
			w.Close()
		}()
		return out.WithCompression(Zstd), nil
	default:
		return nil, fmt.Errorf("belt: unsupported compression %q", algo)
	}
}

// AdaptToNoCompression returns a belt carrying the payload as plain bytes.
// An untagged belt is returned unchanged. Corrupt compressed input is not
// detected up front: the decode goroutine closes the output belt with the
// decoder's error at the chunk where corruption is hit, after any chunks
// already decoded have been delivered.
func (b *Belt) AdaptToNoCompression() (*Belt, error) {
	switch b.comp {
	case "":
		return b, nil
	case Zstd:
		w, out := Pipe(DefaultCapacity)
		go func() {
			dec, err := zstd.NewReader(b)
			if err != nil {
				b.Close()
				w.CloseWithError(err)
				return
			}
			_, err = io.Copy(w, dec)
			dec.Close()
			if err != nil {
				b.Close()
				w.CloseWithError(err)
				return
			}
			w.Close()
		}()
		return out, nil
	default:
		return nil, fmt.Errorf("belt: unsupported compression %q", b.comp)
	}
}
