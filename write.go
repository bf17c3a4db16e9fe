package objio

import (
	"bytes"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/pkg/errors"
	"io"
	"os"
	"strings"
)

// WriteBytes marshals obj into a fresh byte slice.
func WriteBytes[T any](w Writer[T], obj T) ([]byte, error) {
	var buf bytes.Buffer
	if err := w.Write(&buf, obj); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteString marshals obj into a string.
func WriteString[T any](w Writer[T], obj T) (string, error) {
	var sb strings.Builder
	if err := w.Write(&sb, obj); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// WriteFile writes obj to the named file, creating it if needed and
// truncating it otherwise. A nil fs writes to the host filesystem.
func WriteFile[T any](fs billy.Basic, w Writer[T], path string, obj T, perm os.FileMode) error {
	if fs == nil {
		fs = osfs.Default
	}
	file, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return WrapIO("write", err)
	}
	if err := w.Write(file, obj); err != nil {
		file.Close()
		return errors.Wrapf(err, "failed to write object to %s", path)
	}
	return WrapIO("write", file.Close())
}

// WriteAll writes objs to dst in order.
func WriteAll[T any](w Writer[T], dst io.Writer, objs ...T) error {
	for i, obj := range objs {
		if err := w.Write(dst, obj); err != nil {
			return errors.Wrapf(err, "failed to write object %d", i)
		}
	}
	return nil
}
