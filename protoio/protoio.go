// Package protoio reads and writes protocol buffer messages, in the
// binary wire format and in protobuf JSON.
package protoio

import (
	"github.com/jungnoh/objio"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"io"
)

// Binary encodes messages in the protobuf wire format. An empty input is a
// valid encoding of the empty message, so Read never reports io.EOF; wire
// records are not self-delimiting either, so to store a sequence of
// messages on one stream, frame the codec with objio.NewFramed.
type Binary[T proto.Message] struct {
	marshal   proto.MarshalOptions
	unmarshal proto.UnmarshalOptions
}

// NewBinary returns a wire-format codec for the message type T.
func NewBinary[T proto.Message]() Binary[T] {
	return Binary[T]{}
}

// WithDeterministic returns a copy of c that marshals maps in a stable
// order.
func (c Binary[T]) WithDeterministic(deterministic bool) Binary[T] {
	c.marshal.Deterministic = deterministic
	return c
}

// WithDiscardUnknown returns a copy of c that ignores unknown fields
// instead of preserving them.
func (c Binary[T]) WithDiscardUnknown(discard bool) Binary[T] {
	c.unmarshal.DiscardUnknown = discard
	return c
}

// Marshal encodes obj in the wire format.
func (c Binary[T]) Marshal(obj T) ([]byte, error) {
	return c.marshal.Marshal(obj)
}

// Unmarshal decodes a message from wire-format data.
func (c Binary[T]) Unmarshal(data []byte) (T, error) {
	obj := newMessage[T]()
	if err := c.unmarshal.Unmarshal(data, obj); err != nil {
		var zero T
		return zero, err
	}
	return obj, nil
}

// Read decodes one message from the remainder of r.
func (c Binary[T]) Read(r io.Reader) (T, error) {
	var zero T
	data, err := io.ReadAll(r)
	if err != nil {
		return zero, objio.WrapIO("read", err)
	}
	obj, err := c.Unmarshal(data)
	if err != nil {
		return zero, errors.Wrap(err, "failed to unmarshal object")
	}
	return obj, nil
}

// Write encodes obj to w.
func (c Binary[T]) Write(w io.Writer, obj T) error {
	data, err := c.Marshal(obj)
	if err != nil {
		return errors.Wrap(err, "failed to marshal object")
	}
	if _, err := w.Write(data); err != nil {
		return objio.WrapIO("write", err)
	}
	return nil
}

// JSON encodes messages in the protobuf JSON mapping. Read consumes its
// source to the end, so a source holds a single document; to store a
// sequence of messages on one stream, frame the codec with
// objio.NewFramed.
type JSON[T proto.Message] struct {
	marshal   protojson.MarshalOptions
	unmarshal protojson.UnmarshalOptions
}

// NewJSON returns a protobuf JSON codec for the message type T.
func NewJSON[T proto.Message]() JSON[T] {
	return JSON[T]{}
}

// WithIndent returns a copy of c that writes documents indented with the
// given string.
func (c JSON[T]) WithIndent(indent string) JSON[T] {
	c.marshal.Indent = indent
	return c
}

// WithEmitUnpopulated returns a copy of c that writes unpopulated fields
// instead of omitting them.
func (c JSON[T]) WithEmitUnpopulated(emit bool) JSON[T] {
	c.marshal.EmitUnpopulated = emit
	return c
}

// WithDiscardUnknown returns a copy of c that ignores unknown fields
// instead of rejecting them.
func (c JSON[T]) WithDiscardUnknown(discard bool) JSON[T] {
	c.unmarshal.DiscardUnknown = discard
	return c
}

// Marshal encodes obj as a protobuf JSON document.
func (c JSON[T]) Marshal(obj T) ([]byte, error) {
	return c.marshal.Marshal(obj)
}

// Unmarshal decodes a message from a protobuf JSON document.
func (c JSON[T]) Unmarshal(data []byte) (T, error) {
	obj := newMessage[T]()
	if err := c.unmarshal.Unmarshal(data, obj); err != nil {
		var zero T
		return zero, err
	}
	return obj, nil
}

// Read decodes one message from the remainder of r. An empty source
// reports io.EOF.
func (c JSON[T]) Read(r io.Reader) (T, error) {
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
func (c JSON[T]) Write(w io.Writer, obj T) error {
	data, err := c.Marshal(obj)
	if err != nil {
		return errors.Wrap(err, "failed to marshal object")
	}
	if _, err := w.Write(data); err != nil {
		return objio.WrapIO("write", err)
	}
	return nil
}

// newMessage returns a fresh instance of the generated message type T.
// The nil zero value of a generated pointer type still carries its
// descriptor, which is all New needs.
func newMessage[T proto.Message]() T {
	var zero T
	return zero.ProtoReflect().New().Interface().(T)
}
