package objio

import (
	"bytes"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/pkg/errors"
	"io"
	"strings"
)

// ReadBytes reads one object from data.
func ReadBytes[T any](r Reader[T], data []byte) (T, error) {
	return r.Read(bytes.NewReader(data))
}

// ReadString reads one object from s.
func ReadString[T any](r Reader[T], s string) (T, error) {
	return r.Read(strings.NewReader(s))
}

// ReadFile reads one object from the named file. A nil fs reads from the
// host filesystem.
func ReadFile[T any](fs billy.Basic, r Reader[T], path string) (T, error) {
	if fs == nil {
		fs = osfs.Default
	}
	var zero T
	file, err := fs.Open(path)
	if err != nil {
		return zero, WrapIO("read", err)
	}
	defer file.Close()
	obj, err := r.Read(file)
	if err != nil {
		return zero, errors.Wrapf(err, "failed to read object from %s", path)
	}
	return obj, nil
}

// ReadAll reads objects from src until it is exhausted. It relies on the
// Reader convention of reporting a source with no further object as
// io.EOF, so it only suits self-delimiting formats; formats that consume
// the whole source per object should go through NewFramed instead. A Read
// that succeeds without consuming any bytes fails the whole call, so a
// format with no end-of-source signal cannot loop forever.
func ReadAll[T any](r Reader[T], src io.Reader) ([]T, error) {
	counter := &countingReader{r: src}
	var guarded io.Reader = counter
	if _, ok := src.(io.ByteReader); ok {
		guarded = countingByteReader{countingReader: counter}
	}
	var objs []T
	for {
		before := counter.n
		obj, err := r.Read(guarded)
		if errors.Is(err, io.EOF) {
			return objs, nil
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read object %d", len(objs))
		}
		if counter.n == before {
			return nil, errors.Errorf("failed to read object %d: reader consumed no bytes", len(objs))
		}
		objs = append(objs, obj)
	}
}

// countingReader counts the bytes its source yields, so ReadAll can detect
// a reader that succeeds without consuming anything.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// countingByteReader keeps the source's io.ByteReader visible through the
// count, for readers that only read exact bytes when the source can.
type countingByteReader struct {
	*countingReader
}

func (c countingByteReader) ReadByte() (byte, error) {
	b, err := c.r.(io.ByteReader).ReadByte()
	if err == nil {
		c.n++
	}
	return b, err
}
