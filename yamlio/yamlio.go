// Package yamlio reads and writes objects as YAML documents using
// gopkg.in/yaml.v3.
package yamlio

import (
	"bytes"
	"github.com/jungnoh/objio"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"io"
)

// Codec encodes one object per document. Read consumes its source to the
// end, so a source holds a single document; to store a sequence of
// documents on one stream, frame the codec with objio.NewFramed.
type Codec[T any] struct {
	indent int
}

var (
	_ objio.Codec[int]     = Codec[int]{}
	_ objio.Converter[int] = Codec[int]{}
)

// New returns a Codec using the default indentation.
func New[T any]() Codec[T] {
	return Codec[T]{}
}

// WithIndent returns a copy of c that indents nested nodes by the given
// number of spaces.
func (c Codec[T]) WithIndent(spaces int) Codec[T] {
	c.indent = spaces
	return c
}

// Marshal encodes obj as a YAML document.
func (c Codec[T]) Marshal(obj T) ([]byte, error) {
	if c.indent > 0 {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(c.indent)
		if err := enc.Encode(obj); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return yaml.Marshal(obj)
}

// Unmarshal decodes an object from a YAML document.
func (c Codec[T]) Unmarshal(data []byte) (T, error) {
	var obj T
	if err := yaml.Unmarshal(data, &obj); err != nil {
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
