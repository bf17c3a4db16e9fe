// Package gobio reads and writes objects as self-describing gob records
// using encoding/gob.
package gobio

import (
	"bytes"
	"encoding/gob"
	"github.com/jungnoh/objio"
	"github.com/pkg/errors"
	"io"
)

// Codec encodes each object with a fresh gob encoder, so every record
// carries its own type description and can be decoded on its own. Records
// are self-delimiting, so any number of objects can share one source
// across repeated Read calls.
type Codec[T any] struct{}

var (
	_ objio.Codec[int]     = Codec[int]{}
	_ objio.Converter[int] = Codec[int]{}
)

// New returns a gob Codec for T.
func New[T any]() Codec[T] {
	return Codec[T]{}
}

// Marshal encodes obj as a standalone gob record.
func (c Codec[T]) Marshal(obj T) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(obj); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes an object from a standalone gob record.
func (c Codec[T]) Unmarshal(data []byte) (T, error) {
	var obj T
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&obj); err != nil {
		var zero T
		return zero, err
	}
	return obj, nil
}

// Read decodes one record from r. A source exhausted at a record boundary
// reports io.EOF; a partial record reports an IOError wrapping
// io.ErrUnexpectedEOF.
func (c Codec[T]) Read(r io.Reader) (T, error) {
	var obj T
	if _, ok := r.(io.ByteReader); !ok {
		r = exactByteReader{r: r}
	}
	if err := gob.NewDecoder(r).Decode(&obj); err != nil {
		var zero T
		if err == io.EOF {
			return zero, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return zero, objio.WrapIO("read", err)
		}
		return zero, errors.Wrap(err, "failed to unmarshal object")
	}
	return obj, nil
}

// Write encodes obj to w as one record.
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

// exactByteReader adds an unbuffered ReadByte to a plain reader.
// gob.NewDecoder buffers ahead of the record when its source cannot read
// single bytes, and the overrun would be lost between fresh decoders.
type exactByteReader struct {
	r io.Reader
}

func (e exactByteReader) Read(p []byte) (int, error) {
	return e.r.Read(p)
}

func (e exactByteReader) ReadByte() (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(e.r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}
