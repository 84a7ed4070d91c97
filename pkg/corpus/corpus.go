// Package corpus resolves corpus identifiers to ordered streams of text lines.
//
// An identifier is a local file path, "-" for standard input, or a Redis
// list URL of the form redis://host:port/db?key=<list>, where each list
// element is one line.
package corpus

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// StdinIdentifier names the corpus read from standard input
const StdinIdentifier = "-"

// ErrBadIdentifier is matched (with errors.Is) by every failure to resolve
// a corpus identifier to a readable stream.
var ErrBadIdentifier = errors.New("bad corpus identifier")

// Stream produces the lines of one corpus in order. It follows the
// bufio.Scanner protocol: call Scan until it returns false, then check Err.
type Stream interface {
	Scan() bool
	Text() string
	Err() error
	Close() error
}

// BadIdentifierError reports an identifier that could not be opened.
type BadIdentifierError struct {
	Identifier string
	Err        error
}

func (e *BadIdentifierError) Error() string {
	return fmt.Sprintf("%s %q: %v", ErrBadIdentifier, e.Identifier, e.Err)
}

func (e *BadIdentifierError) Unwrap() error { return e.Err }

func (e *BadIdentifierError) Is(target error) bool { return target == ErrBadIdentifier }

// Options tune stream construction
type Options struct {
	MaxLineBytes     int
	RedisBatchSize   int
	RedisDialTimeout time.Duration

	// Stdin backs the "-" identifier; nil means os.Stdin
	Stdin io.Reader
}

// DefaultOptions mirrors the defaults of the configuration file
func DefaultOptions() Options {
	return Options{
		MaxLineBytes:     1 << 20,
		RedisBatchSize:   500,
		RedisDialTimeout: 2 * time.Second,
	}
}

// Open resolves identifier to a stream. Resolution failures are
// *BadIdentifierError values.
func Open(ctx context.Context, identifier string, opts Options) (Stream, error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, &BadIdentifierError{Identifier: identifier, Err: errors.New("empty identifier")}
	}

	if identifier == StdinIdentifier {
		in := opts.Stdin
		if in == nil {
			in = os.Stdin
		}
		return NewReaderStream(io.NopCloser(in), opts.MaxLineBytes), nil
	}

	if isRedisIdentifier(identifier) {
		return openRedis(ctx, identifier, opts)
	}

	return OpenFile(identifier, opts)
}
