package objio

import (
	"fmt"
	"github.com/pkg/errors"
	"io"
)

// StringWriter returns a Writer that emits each object's String form.
func StringWriter[T fmt.Stringer]() Writer[T] {
	return WriterFunc[T](func(w io.Writer, obj T) error {
		_, err := io.WriteString(w, obj.String())
		return WrapIO("write", err)
	})
}

// ParseReader returns a Reader that consumes the rest of the stream and
// hands it to parse as a string.
func ParseReader[T any](parse func(s string) (T, error)) Reader[T] {
	return ReaderFunc[T](func(r io.Reader) (T, error) {
		var zero T
		data, err := io.ReadAll(r)
		if err != nil {
			return zero, WrapIO("read", err)
		}
		obj, err := parse(string(data))
		if err != nil {
			return zero, errors.Wrap(err, "failed to parse object")
		}
		return obj, nil
	})
}
