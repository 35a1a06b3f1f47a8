package xio

import (
	"context"
	"io"
)

// NewCanceledReadCloser wraps in so that reads fail with ctx.Err() once ctx
// is done. The returned io.ReadCloser must be closed when it is no longer
// needed, which also closes in.
func NewCanceledReadCloser(ctx context.Context, in io.ReadCloser) io.ReadCloser {
	pr, pw := io.Pipe()
	done, cancel := context.WithCancel(context.Background())
	p := &canceledReadCloser{cancel: cancel, pr: pr, pw: pw}

	go func() {
		_, err := io.Copy(pw, in)
		// once ctx is done the pipe already carries ctx.Err()
		if ctx.Err() == nil {
			p.closeWithError(err)
		}
		CloseAndSkipError(in)
	}()
	go func() {
		select {
		case <-ctx.Done():
			p.closeWithError(ctx.Err())
		case <-done.Done():
		}
	}()
	return p
}

type canceledReadCloser struct {
	cancel func()
	pr     *io.PipeReader
	pw     *io.PipeWriter
}

func (p *canceledReadCloser) Read(buf []byte) (int, error) {
	return p.pr.Read(buf)
}

// Close makes later reads return io.EOF.
func (p *canceledReadCloser) Close() error {
	p.closeWithError(io.EOF)
	return nil
}

func (p *canceledReadCloser) closeWithError(err error) {
	_ = p.pw.CloseWithError(err)
	p.cancel()
}
