// Package format renders matched repositories as they arrive.
//
// Every Formatter follows the same lifecycle: Open once, Emit for each
// repository, then Close exactly once. Close is told whether the run faulted;
// only the array rendering reacts to that, by leaving its closing bracket off
// so a truncated listing is never mistaken for valid JSON.
package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"unicode/utf16"
	"unicode/utf8"

	ghub "github.com/stahnma/repolist/internal/github"
)

// Kind selects an output rendering.
type Kind int

const (
	// Names prints one full name per line. It is the default.
	Names Kind = iota
	// JSON prints each repository as an indented JSON object.
	JSON
	// Array prints all repositories as a single JSON array.
	Array
)

func (k Kind) String() string {
	switch k {
	case Names:
		return "names"
	case JSON:
		return "json"
	case Array:
		return "array"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Formatter renders a stream of repositories.
type Formatter interface {
	Open() error
	Emit(r ghub.Repo) error
	Close(faulted bool) error
	// Count returns the number of repositories emitted so far.
	Count() int
}

var constructors = map[Kind]func(io.Writer) Formatter{
	Names: func(w io.Writer) Formatter { return &namesFormatter{w: w} },
	JSON:  func(w io.Writer) Formatter { return &jsonFormatter{w: w} },
	Array: func(w io.Writer) Formatter { return &arrayFormatter{w: w} },
}

// New returns a Formatter of the given kind writing to w.
func New(kind Kind, w io.Writer) (Formatter, error) {
	ctor, ok := constructors[kind]
	if !ok {
		return nil, fmt.Errorf("unknown output format %v", kind)
	}
	return ctor(w), nil
}

const indent = "    "

// indentJSON re-indents raw with four spaces per level. Every line after the
// first starts with prefix.
func indentJSON(raw []byte, prefix string) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), prefix, indent); err != nil {
		return nil, fmt.Errorf("formatting repository JSON: %w", err)
	}
	return escapeNonASCII(buf.Bytes()), nil
}

// escapeNonASCII rewrites every non-ASCII character as a \uXXXX escape, using
// a surrogate pair outside the Basic Multilingual Plane. Valid JSON only
// carries such characters inside strings, so the document keeps its meaning.
func escapeNonASCII(b []byte) []byte {
	if !slices.ContainsFunc(b, func(c byte) bool { return c >= utf8.RuneSelf }) {
		return b
	}
	out := make([]byte, 0, len(b)+len(b)/4)
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		b = b[size:]
		switch {
		case r < utf8.RuneSelf:
			out = append(out, byte(r))
		case r > 0xFFFF:
			r1, r2 := utf16.EncodeRune(r)
			out = fmt.Appendf(out, `\u%04x\u%04x`, r1, r2)
		default:
			out = fmt.Appendf(out, `\u%04x`, r)
		}
	}
	return out
}

type namesFormatter struct {
	w     io.Writer
	count int
}

func (f *namesFormatter) Open() error { return nil }

func (f *namesFormatter) Emit(r ghub.Repo) error {
	name, err := r.FullName()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(f.w, name); err != nil {
		return err
	}
	f.count++
	return nil
}

func (f *namesFormatter) Close(bool) error { return nil }

func (f *namesFormatter) Count() int { return f.count }

type jsonFormatter struct {
	w     io.Writer
	count int
}

func (f *jsonFormatter) Open() error { return nil }

func (f *jsonFormatter) Emit(r ghub.Repo) error {
	out, err := indentJSON(r.Raw(), "")
	if err != nil {
		return err
	}
	if _, err := f.w.Write(append(out, '\n')); err != nil {
		return err
	}
	f.count++
	return nil
}

func (f *jsonFormatter) Close(bool) error { return nil }

func (f *jsonFormatter) Count() int { return f.count }

// arrayFormatter writes "[" on Open and each element on its own indented
// block. The newline before the closing bracket is written by Close, so the
// output of a faulted run ends right after the last complete element.
type arrayFormatter struct {
	w     io.Writer
	count int
}

func (f *arrayFormatter) Open() error {
	_, err := io.WriteString(f.w, "[")
	return err
}

func (f *arrayFormatter) Emit(r ghub.Repo) error {
	out, err := indentJSON(r.Raw(), indent)
	if err != nil {
		return err
	}
	sep := ",\n" + indent
	if f.count == 0 {
		sep = "\n" + indent
	}
	if _, err := io.WriteString(f.w, sep); err != nil {
		return err
	}
	if _, err := f.w.Write(out); err != nil {
		return err
	}
	f.count++
	return nil
}

func (f *arrayFormatter) Close(faulted bool) error {
	if faulted {
		return nil
	}
	end := "]\n"
	if f.count > 0 {
		end = "\n]\n"
	}
	_, err := io.WriteString(f.w, end)
	return err
}

func (f *arrayFormatter) Count() int { return f.count }
