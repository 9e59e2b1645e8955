package models

import (
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	// DefaultBufferSize is the chunk size used to read the underlying stream.
	DefaultBufferSize = 1024

	// DefaultMaxTokenSize bounds a single token. Longer tokens fail the
	// tokenizer with ErrTokenTooLong.
	DefaultMaxTokenSize = 64 * 1024

	maxEmptyReads = 100
)

// ErrTokenTooLong is reported when a token exceeds the tokenizer's limit.
var ErrTokenTooLong = errors.New("token too long")

// Token is a single whitespace-delimited word.
type Token struct {
	Text string
	Line int // 1-based line the token starts on
}

// Tokenizer splits a byte stream into whitespace-delimited tokens, reading
// the stream in fixed-size chunks. A '#' starts a comment that runs to the
// end of the line; comment text never appears in tokens.
//
// A Tokenizer is forward-only and cannot be restarted.
type Tokenizer struct {
	r      io.Reader
	closer io.Closer

	buf    []byte
	pos, n int

	// MaxTokenSize limits the length of a single token.
	MaxTokenSize int

	line    int
	comment bool
	done    bool
	err     error
}

// NewTokenizer creates a tokenizer over r. A bufSize <= 0 selects
// DefaultBufferSize.
func NewTokenizer(r io.Reader, bufSize int) *Tokenizer {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	return &Tokenizer{
		r:            r,
		buf:          make([]byte, bufSize),
		MaxTokenSize: DefaultMaxTokenSize,
		line:         1,
	}
}

// OpenTokenizer opens path and returns a tokenizer that owns the file.
// The caller must Close it.
func OpenTokenizer(path string, bufSize int) (*Tokenizer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	t := NewTokenizer(f, bufSize)
	t.closer = f
	return t, nil
}

// Close releases the underlying file if the tokenizer opened it.
func (t *Tokenizer) Close() error {
	if t.closer == nil {
		return nil
	}
	err := t.closer.Close()
	t.closer = nil
	return err
}

// Err returns the first read error encountered, if any. io.EOF is not an error.
func (t *Tokenizer) Err() error {
	return t.err
}

// Line returns the line the tokenizer is currently positioned on.
func (t *Tokenizer) Line() int {
	return t.line
}

// Next returns the next token. ok is false once the stream is exhausted or a
// read error occurred; check Err to tell the two apart.
func (t *Tokenizer) Next() (tok Token, ok bool) {
	var word []byte
	start := 0

	for {
		if t.pos >= t.n && !t.fill() {
			break
		}
		c := t.buf[t.pos]

		if t.comment {
			t.pos++
			if c == '\n' {
				t.comment = false
				t.line++
			}
			continue
		}

		switch {
		case c == '#':
			t.comment = true
			t.pos++
			if len(word) > 0 {
				return Token{Text: string(word), Line: start}, true
			}
		case isSpace(c):
			if len(word) > 0 {
				// Leave the delimiter for the next call.
				return Token{Text: string(word), Line: start}, true
			}
			t.pos++
			if c == '\n' {
				t.line++
			}
		default:
			if len(word) == 0 {
				start = t.line
			}
			word = append(word, c)
			t.pos++
			if t.MaxTokenSize > 0 && len(word) > t.MaxTokenSize {
				t.err = fmt.Errorf("line %d: %w (limit %d bytes)", start, ErrTokenTooLong, t.MaxTokenSize)
				t.done = true
				t.pos, t.n = 0, 0
				return Token{}, false
			}
		}
	}

	if len(word) > 0 && t.err == nil {
		return Token{Text: string(word), Line: start}, true
	}
	return Token{}, false
}

// fill refills the buffer. It returns false once no more bytes are available.
func (t *Tokenizer) fill() bool {
	for empty := 0; !t.done; {
		n, err := t.r.Read(t.buf)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				t.err = err
			}
			t.done = true
		}
		if n > 0 {
			t.pos, t.n = 0, n
			return true
		}
		if err == nil {
			empty++
			if empty >= maxEmptyReads {
				t.err = io.ErrNoProgress
				t.done = true
			}
		}
	}
	return false
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
