package logparser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// openDay opens a day file and, for anything other than UTF-8, wraps it in
// a decoder for the named encoding (any WHATWG label, e.g. "windows-1252").
func openDay(path, encoding string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	r, err := decodingReader(f, encoding)
	if err != nil {
		f.Close()
		return nil, err
	}
	return struct {
		io.Reader
		io.Closer
	}{r, f}, nil
}

func decodingReader(r io.Reader, encoding string) (io.Reader, error) {
	if isUTF8(encoding) {
		return r, nil
	}
	enc, err := htmlindex.Get(encoding)
	if err != nil {
		return nil, fmt.Errorf("%w: unsupported encoding %q: %w", ErrUnreadable, encoding, err)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// ValidEncoding reports whether name is an encoding label openDay accepts.
func ValidEncoding(name string) bool {
	if isUTF8(name) {
		return true
	}
	_, err := htmlindex.Get(name)
	return err == nil
}

func isUTF8(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return true
	}
	return false
}
