package static

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"
)

var (
	gzipReaderPool = sync.Pool{
		New: func() interface{} { return new(gzip.Reader) },
	}
	brotliReaderPool = sync.Pool{
		New: func() interface{} { return brotli.NewReader(nil) },
	}
	// emptyReader resets pooled readers without a nil source.
	emptyReader = strings.NewReader("")
)

// decodingTransport advertises br/gzip/deflate and decodes the response body
// according to Content-Encoding. Setting Accept-Encoding ourselves disables the
// transparent gzip handling of net/http, so every supported layer is decoded here.
type decodingTransport struct {
	next http.RoundTripper
}

func newDecodingTransport(next http.RoundTripper) *decodingTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &decodingTransport{next: next}
}

func (t *decodingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Accept-Encoding") == "" {
		req.Header.Set("Accept-Encoding", "br, gzip, deflate")
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if err := decodeBody(resp); err != nil {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}
	return resp, nil
}

// decodedBody closes the decoder, the wrapped body, and returns pooled readers.
type decodedBody struct {
	io.ReadCloser
	wrapped io.ReadCloser
	release func()
}

func (b *decodedBody) Close() error {
	if b.release != nil {
		b.release()
		b.release = nil
	}
	return errors.Join(b.ReadCloser.Close(), b.wrapped.Close())
}

// decodeBody unwraps every Content-Encoding layer, last applied first. On
// error the body may be partially consumed and must be discarded.
func decodeBody(resp *http.Response) error {
	if resp == nil || resp.Body == nil {
		return nil
	}
	encodings := resp.Header.Values("Content-Encoding")
	if len(encodings) == 0 {
		return nil
	}

	for i := len(encodings) - 1; i >= 0; i-- {
		var (
			reader  io.ReadCloser
			release func()
		)

		switch strings.ToLower(strings.TrimSpace(encodings[i])) {
		case "gzip", "x-gzip":
			zr := gzipReaderPool.Get().(*gzip.Reader)
			if err := zr.Reset(resp.Body); err != nil {
				gzipReaderPool.Put(zr)
				return fmt.Errorf("gzip: %w", err)
			}
			reader = zr
			release = func() {
				_ = zr.Reset(emptyReader)
				gzipReaderPool.Put(zr)
			}
		case "br":
			br := brotliReaderPool.Get().(*brotli.Reader)
			if err := br.Reset(resp.Body); err != nil {
				brotliReaderPool.Put(br)
				return fmt.Errorf("brotli: %w", err)
			}
			reader = io.NopCloser(br)
			release = func() {
				_ = br.Reset(emptyReader)
				brotliReaderPool.Put(br)
			}
		case "deflate":
			fr, err := openDeflate(resp.Body)
			if err != nil {
				return fmt.Errorf("deflate: %w", err)
			}
			reader = fr
		case "identity", "":
			continue
		default:
			return fmt.Errorf("unsupported Content-Encoding %q", encodings[i])
		}

		resp.Body = &decodedBody{ReadCloser: reader, wrapped: resp.Body, release: release}
	}

	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true
	return nil
}

// openDeflate reads zlib-wrapped deflate and falls back to raw deflate, which
// some servers send despite RFC 9110.
func openDeflate(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(2)
	if err == nil && head[0]&0x0f == 8 && (uint16(head[0])<<8|uint16(head[1]))%31 == 0 {
		return zlib.NewReader(br)
	}
	return flate.NewReader(br), nil
}
