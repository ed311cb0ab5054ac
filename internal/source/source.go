// Package source fetches the raw delimited text behind a dataset from a
// file, standard input, or an http(s) URL, and decodes it to UTF-8.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Stdin is the location that reads from standard input.
const Stdin = "-"

// EncodingAuto decodes UTF-8, switching to UTF-16 when a byte order mark says so.
const EncodingAuto = "auto"

// LoadError reports a source that could not be read or decoded. Status is
// the HTTP status code for URL sources and 0 otherwise.
type LoadError struct {
	Source string
	Status int
	Err    error
}

func (e *LoadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: HTTP %d: %v", e.Source, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Options controls how a source is read.
type Options struct {
	// Encoding is an encoding label such as "utf-8", "utf-16le" or
	// "shift_jis". Empty means EncodingAuto.
	Encoding string
	// Client is used for URL sources; nil means http.DefaultClient.
	Client *http.Client
	// Stdin replaces os.Stdin for the "-" location.
	Stdin io.Reader
}

// IsURL reports whether location is fetched over HTTP.
func IsURL(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// IsFile reports whether location names a local file.
func IsFile(location string) bool {
	return location != "" && location != Stdin && !IsURL(location)
}

// Load reads location and returns its decoded text. Every failure is a
// *LoadError.
func Load(ctx context.Context, location string, opts Options) (string, error) {
	dec, err := NewDecoder(opts.Encoding)
	if err != nil {
		return "", &LoadError{Source: location, Err: err}
	}
	data, err := read(ctx, location, opts)
	if err != nil {
		return "", err
	}
	text, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", &LoadError{Source: location, Err: fmt.Errorf("decode %s: %w", encodingName(opts.Encoding), err)}
	}
	return string(text), nil
}

func read(ctx context.Context, location string, opts Options) ([]byte, error) {
	switch {
	case location == "":
		return nil, &LoadError{Source: location, Err: errors.New("no source given")}
	case location == Stdin:
		r := opts.Stdin
		if r == nil {
			r = os.Stdin
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, &LoadError{Source: "stdin", Err: err}
		}
		return data, nil
	case IsURL(location):
		return fetch(ctx, location, opts.Client)
	default:
		data, err := os.ReadFile(location)
		if err != nil {
			return nil, &LoadError{Source: location, Err: err}
		}
		return data, nil
	}
}

func fetch(ctx context.Context, url string, client *http.Client) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &LoadError{Source: url, Err: err}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &LoadError{Source: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &LoadError{Source: url, Status: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &LoadError{Source: url, Status: resp.StatusCode, Err: err}
	}
	return data, nil
}

// NewDecoder returns a transformer that decodes name to UTF-8. A leading
// byte order mark always wins over name and is removed from the output.
func NewDecoder(name string) (transform.Transformer, error) {
	enc, err := lookup(name)
	if err != nil {
		return nil, err
	}
	return unicode.BOMOverride(enc.NewDecoder()), nil
}

func lookup(name string) (encoding.Encoding, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "", EncodingAuto, "utf-8", "utf8":
		return unicode.UTF8, nil
	case "utf-16", "utf16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case "sjis", "shiftjis", "cp932":
		n = "shift_jis"
	}
	enc, err := htmlindex.Get(n)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q", name)
	}
	return enc, nil
}

// ValidateEncoding reports whether name is an encoding Load understands.
func ValidateEncoding(name string) error {
	_, err := lookup(name)
	return err
}

func encodingName(name string) string {
	if name == "" {
		return EncodingAuto
	}
	return name
}
