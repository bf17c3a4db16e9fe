// Package objio defines contracts for reading and writing objects in
// arbitrary, caller-defined formats. The package itself ships no format:
// implementations live in subpackages (binio, jsonio, yamlio, gobio,
// protoio, cfgio) or in downstream code, one per (object type, format)
// pair.
package objio

import (
	"io"
)

// Reader reads a single object of type T from a byte stream. Read consumes
// from the stream's current position and leaves it advanced past the bytes
// that encode the object; how many that is belongs to the format.
// Implementations report malformed input as an error, never as a panic.
// Formats that can tell an exhausted source from an object report the
// former as io.EOF, which is what ReadAll relies on.
type Reader[T any] interface {
	Read(r io.Reader) (T, error)
}

// Writer writes a single object of type T to a byte stream. Write advances
// the stream but does not flush or close it, and must not mutate obj.
type Writer[T any] interface {
	Write(w io.Writer, obj T) error
}

// Codec pairs both capabilities for a single format.
type Codec[T any] interface {
	Reader[T]
	Writer[T]
}

// ReaderFunc adapts a function to the Reader interface.
type ReaderFunc[T any] func(r io.Reader) (T, error)

func (f ReaderFunc[T]) Read(r io.Reader) (T, error) { return f(r) }

// WriterFunc adapts a function to the Writer interface.
type WriterFunc[T any] func(w io.Writer, obj T) error

func (f WriterFunc[T]) Write(w io.Writer, obj T) error { return f(w, obj) }

var _ Reader[int] = (ReaderFunc[int])(nil)
var _ Writer[int] = (WriterFunc[int])(nil)
