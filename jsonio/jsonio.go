// Package jsonio reads and writes objects as JSON documents using
// encoding/json.
package jsonio

import (
	"encoding/json"
	"github.com/jungnoh/objio"
	"github.com/pkg/errors"
	"io"
)

// Codec encodes one object per document. Read consumes its source to the
// end, so a source holds a single document; to store a sequence of
// documents on one stream, frame the codec with objio.NewFramed.
type Codec[T any] struct {
	prefix string
	indent string
}

var (
	_ objio.Codec[int]     = Codec[int]{}
	_ objio.Converter[int] = Codec[int]{}
)

// New returns a Codec producing compact documents.
func New[T any]() Codec[T] {
	return Codec[T]{}
}

// WithIndent returns a copy of c that writes documents indented in the
// manner of json.MarshalIndent.
func (c Codec[T]) WithIndent(prefix, indent string) Codec[T] {
	c.prefix = prefix
	c.indent = indent
	return c
}

// Marshal encodes obj as a JSON document.
func (c Codec[T]) Marshal(obj T) ([]byte, error) {
	if c.prefix != "" || c.indent != "" {
		return json.MarshalIndent(obj, c.prefix, c.indent)
	}
	return json.Marshal(obj)
}

// Unmarshal decodes an object from a JSON document.
func (c Codec[T]) Unmarshal(data []byte) (T, error) {
	var obj T
	if err := json.Unmarshal(data, &obj); err != nil {
		var zero T
		return zero, err
	}
	return obj, nil
}

// Read decodes one object from the remainder of r. An empty source reports
// io.EOF.
func (c Codec[T]) Read(r io.Reader) (T, error) {
	var zero T
	data, err := io.ReadAll(r)
	if err != nil {
		return zero, objio.WrapIO("read", err)
	}
	if len(data) == 0 {
		return zero, io.EOF
	}
	obj, err := c.Unmarshal(data)
	if err != nil {
		return zero, errors.Wrap(err, "failed to unmarshal object")
	}
	return obj, nil
}

// Write encodes obj to w as a single document.
func (c Codec[T]) Write(w io.Writer, obj T) error {
	data, err := c.Marshal(obj)
	if err != nil {
		return errors.Wrap(err, "failed to marshal object")
	}
	if _, err := w.Write(data); err != nil {
		return objio.WrapIO("write", err)
	}
	return nil
}
