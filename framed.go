package objio

import (
	"encoding/binary"
	"github.com/pkg/errors"
	"io"
	"math"
)

// DefaultMaxRecordSize caps how much memory a framed read will allocate
// for a single record. Reads past the cap fail with ErrTooLarge, which
// keeps a corrupt length prefix from turning into an enormous allocation.
const DefaultMaxRecordSize = 64 << 20

// Framed lifts a Converter into a stream Codec by prefixing each marshaled
// record with its length as a little-endian uint32. Records are
// self-delimiting, so any number of objects can share one source across
// repeated Read calls.
type Framed[T any] struct {
	conv Converter[T]
	max  int
}

var _ Codec[int] = Framed[int]{}

// NewFramed returns a Framed bridge over conv with the default record size
// cap.
func NewFramed[T any](conv Converter[T]) Framed[T] {
	return Framed[T]{conv: conv, max: DefaultMaxRecordSize}
}

// WithMaxRecordSize returns a copy of f that rejects records larger than
// max bytes, on both the read and the write side. A max of zero or less
// disables the cap; Write still rejects records whose length does not fit
// the uint32 prefix.
func (f Framed[T]) WithMaxRecordSize(max int) Framed[T] {
	f.max = max
	return f
}

// Write marshals obj and appends one length-prefixed record to w.
func (f Framed[T]) Write(w io.Writer, obj T) error {
	buf, err := f.conv.Marshal(obj)
	if err != nil {
		return errors.Wrap(err, "failed to marshal object")
	}
	if (f.max > 0 && len(buf) > f.max) || uint64(len(buf)) > math.MaxUint32 {
		return errors.Wrapf(ErrTooLarge, "marshaled object is %d bytes", len(buf))
	}
	var lenBytes [4]byte
	binary.LittleEndian.PutUint32(lenBytes[:], uint32(len(buf)))
	if _, err := w.Write(lenBytes[:]); err != nil {
		return WrapIO("write", err)
	}
	if _, err := w.Write(buf); err != nil {
		return WrapIO("write", err)
	}
	return nil
}

// Read consumes one length-prefixed record from r. A source exhausted at a
// record boundary reports io.EOF; a partial record reports an IOError
// wrapping io.ErrUnexpectedEOF.
func (f Framed[T]) Read(r io.Reader) (T, error) {
	var zero T
	var lenBytes [4]byte
	if _, err := io.ReadFull(r, lenBytes[:]); err != nil {
		if err == io.EOF {
			return zero, io.EOF
		}
		return zero, WrapIO("read", err)
	}
	length := binary.LittleEndian.Uint32(lenBytes[:])
	if f.max > 0 && int64(length) > int64(f.max) {
		return zero, errors.Wrapf(ErrTooLarge, "record declares %d bytes", length)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return zero, WrapIO("read", err)
	}
	obj, err := f.conv.Unmarshal(buf)
	if err != nil {
		return zero, errors.Wrap(err, "failed to unmarshal object")
	}
	return obj, nil
}
