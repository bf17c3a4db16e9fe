// Package binio reads and writes objects through their fixed-size binary
// layout, as defined by encoding/binary. It suits scalar types and structs
// of scalars; types without a fixed size (strings, maps, variable-length
// slices) are rejected.
package binio

import (
	"bytes"
	"encoding/binary"
	"github.com/jungnoh/objio"
	"github.com/pkg/errors"
	"io"
)

// Codec encodes objects of type T with a byte order. Records are exactly
// binary.Size(T) bytes with no framing, so any number of objects can share
// one source across repeated Read calls.
type Codec[T any] struct {
	order binary.ByteOrder
}

var (
	_ objio.Codec[int32]     = Codec[int32]{}
	_ objio.Converter[int32] = Codec[int32]{}
)

// New returns a Codec using little-endian byte order.
func New[T any]() Codec[T] {
	return Codec[T]{order: binary.LittleEndian}
}

// WithOrder returns a copy of c using the given byte order.
func (c Codec[T]) WithOrder(order binary.ByteOrder) Codec[T] {
	c.order = order
	return c
}

// Write encodes obj to w.
func (c Codec[T]) Write(w io.Writer, obj T) error {
	if binary.Size(obj) < 0 {
		return errors.Errorf("type %T does not have a fixed-size binary layout", obj)
	}
	if err := binary.Write(w, c.order, obj); err != nil {
		return objio.WrapIO("write", err)
	}
	return nil
}

// Read decodes one object from r. A source exhausted at an object boundary
// reports io.EOF; a partial object reports an IOError wrapping
// io.ErrUnexpectedEOF.
func (c Codec[T]) Read(r io.Reader) (T, error) {
	var obj T
	if binary.Size(obj) < 0 {
		return obj, errors.Errorf("type %T does not have a fixed-size binary layout", obj)
	}
	if err := binary.Read(r, c.order, &obj); err != nil {
		if err == io.EOF {
			return obj, io.EOF
		}
		var zero T
		return zero, objio.WrapIO("read", err)
	}
	return obj, nil
}

// Marshal encodes obj into a new buffer.
func (c Codec[T]) Marshal(obj T) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Write(&buf, obj); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes an object from the start of data.
func (c Codec[T]) Unmarshal(data []byte) (T, error) {
	return c.Read(bytes.NewReader(data))
}
