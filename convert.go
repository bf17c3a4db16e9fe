package objio

// Converter marshals objects of type T to and from byte slices. It is the
// buffer-oriented sibling of the Reader/Writer pair, for formats that
// naturally produce and consume whole slices. NewFramed lifts a Converter
// into a stream Codec.
type Converter[T any] interface {
	Marshal(obj T) ([]byte, error)
	Unmarshal(data []byte) (T, error)
}

// Buffer adapts a stream Codec into a Converter by staging each object in
// an in-memory buffer.
func Buffer[T any](c Codec[T]) Converter[T] {
	return buffered[T]{c}
}

type buffered[T any] struct {
	codec Codec[T]
}

func (b buffered[T]) Marshal(obj T) ([]byte, error) {
	return WriteBytes[T](b.codec, obj)
}

func (b buffered[T]) Unmarshal(data []byte) (T, error) {
	return ReadBytes[T](b.codec, data)
}
