package corpus

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"
)

const initialLineBuffer = 64 * 1024

type readerStream struct {
	scanner *bufio.Scanner
	closer  io.Closer
}

// NewReaderStream streams the lines of r. Line terminators (\n or \r\n)
// are stripped. Lines longer than maxLineBytes make Err report
// bufio.ErrTooLong; zero means the default limit.
func NewReaderStream(r io.Reader, maxLineBytes int) Stream {
	scanner := bufio.NewScanner(r)

	if maxLineBytes <= 0 {
		maxLineBytes = DefaultOptions().MaxLineBytes
	}
	size := initialLineBuffer
	if maxLineBytes < size {
		size = maxLineBytes
	}
	scanner.Buffer(make([]byte, 0, size), maxLineBytes)

	stream := &readerStream{scanner: scanner}
	if c, ok := r.(io.Closer); ok {
		stream.closer = c
	}
	return stream
}

func (s *readerStream) Scan() bool   { return s.scanner.Scan() }
func (s *readerStream) Text() string { return s.scanner.Text() }

func (s *readerStream) Err() error {
	if err := s.scanner.Err(); err != nil {
		return errors.Wrap(err, "reading corpus")
	}
	return nil
}

func (s *readerStream) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// OpenFile opens a corpus stored in a local file
func OpenFile(path string, opts Options) (Stream, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &BadIdentifierError{Identifier: path, Err: err}
	}
	if info.IsDir() {
		return nil, &BadIdentifierError{Identifier: path, Err: errors.New("is a directory")}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &BadIdentifierError{Identifier: path, Err: err}
	}

	return NewReaderStream(file, opts.MaxLineBytes), nil
}
