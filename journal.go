package objio

import (
	"encoding/binary"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/pkg/errors"
	"io"
	"os"
	"sync"
)

// Journal is an append-only log of objects backed by a single file.
// Records use the Framed layout, so a journal file is an ordinary framed
// stream; reopening an existing journal picks up after the last complete
// record. A Journal is safe for concurrent use, but a journal file should
// have at most one open writer.
type Journal[T any] struct {
	opts   JournalOptions[T]
	framed Framed[T]
	file   billy.File
	count  int
	closed bool
	mu     sync.Mutex
}

// OpenJournal opens or creates the journal file named by opts.Path.
// Opening fails if the file ends in a torn record; the returned error then
// wraps io.ErrUnexpectedEOF and the caller decides how to recover.
func OpenJournal[T any](opts JournalOptions[T]) (*Journal[T], error) {
	if opts.Converter == nil {
		return nil, errors.New("journal requires a converter")
	}
	if opts.Path == "" {
		return nil, errors.New("journal requires a path")
	}
	if opts.Filesystem == nil {
		opts.Filesystem = osfs.Default
	}
	if opts.FileMode == 0 {
		opts.FileMode = 0o644
	}
	framed := NewFramed(opts.Converter)
	if opts.MaxRecordSize > 0 {
		framed = framed.WithMaxRecordSize(opts.MaxRecordSize)
	}
	j := &Journal[T]{opts: opts, framed: framed}
	if err := j.load(); err != nil {
		return nil, errors.Wrap(err, "failed to load journal")
	}
	return j, nil
}

// Append marshals obj and appends one record to the journal.
func (j *Journal[T]) Append(obj T) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return ErrClosed
	}
	if err := j.framed.Write(j.file, obj); err != nil {
		return errors.Wrap(err, "failed to append object")
	}
	j.count++
	if j.opts.AlwaysSync {
		return errors.Wrap(j.syncLocked(), "failed to sync journal")
	}
	return nil
}

// AppendMany appends objs in order, syncing at most once.
func (j *Journal[T]) AppendMany(objs []T) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return ErrClosed
	}
	for i, obj := range objs {
		if err := j.framed.Write(j.file, obj); err != nil {
			return errors.Wrapf(err, "failed to append object (appended %d)", i)
		}
		j.count++
	}
	if j.opts.AlwaysSync {
		return errors.Wrap(j.syncLocked(), "failed to sync journal")
	}
	return nil
}

// Len returns the number of records in the journal.
func (j *Journal[T]) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.count
}

// Replay streams every record to fn in append order. Records appended
// after Replay starts are not observed. An error from fn stops the replay
// and is returned verbatim.
func (j *Journal[T]) Replay(fn func(obj T) error) error {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return ErrClosed
	}
	count := j.count
	j.mu.Unlock()

	file, err := j.opts.Filesystem.Open(j.opts.Path)
	if err != nil {
		return WrapIO("read", err)
	}
	defer file.Close()
	for i := 0; i < count; i++ {
		obj, err := j.framed.Read(file)
		if err != nil {
			return errors.Wrapf(err, "failed to read record %d", i)
		}
		if err := fn(obj); err != nil {
			return err
		}
	}
	return nil
}

// All replays the journal into a slice.
func (j *Journal[T]) All() ([]T, error) {
	objs := make([]T, 0, j.Len())
	err := j.Replay(func(obj T) error {
		objs = append(objs, obj)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return objs, nil
}

// Sync flushes appended records to stable storage, when the filesystem
// supports it.
func (j *Journal[T]) Sync() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return ErrClosed
	}
	return errors.Wrap(j.syncLocked(), "failed to sync journal")
}

// Close releases the journal file. Using the journal afterwards returns
// ErrClosed; closing twice is a no-op.
func (j *Journal[T]) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true
	return errors.Wrap(j.file.Close(), "failed to close journal file")
}

func (j *Journal[T]) load() error {
	count, err := j.scan()
	if err != nil {
		return err
	}
	file, err := j.opts.Filesystem.OpenFile(j.opts.Path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, j.opts.FileMode)
	if err != nil {
		return errors.Wrap(err, "failed to open journal file")
	}
	j.count = count
	j.file = file
	return nil
}

// scan counts complete records without unmarshaling them.
func (j *Journal[T]) scan() (int, error) {
	fi, err := j.opts.Filesystem.Stat(j.opts.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, WrapIO("read", err)
	}
	size := fi.Size()
	file, err := j.opts.Filesystem.Open(j.opts.Path)
	if err != nil {
		return 0, WrapIO("read", err)
	}
	defer file.Close()

	count := 0
	var pos int64
	var lenBytes [4]byte
	for pos < size {
		if _, err := io.ReadFull(file, lenBytes[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return count, errors.Wrapf(WrapIO("read", io.ErrUnexpectedEOF), "journal ends in a torn record after %d records", count)
			}
			return count, WrapIO("read", err)
		}
		pos += 4
		length := int64(binary.LittleEndian.Uint32(lenBytes[:]))
		if j.framed.max > 0 && length > int64(j.framed.max) {
			return count, errors.Wrapf(ErrTooLarge, "record %d declares %d bytes", count, length)
		}
		pos += length
		if pos > size {
			return count, errors.Wrapf(WrapIO("read", io.ErrUnexpectedEOF), "journal ends in a torn record after %d records", count)
		}
		if _, err := file.Seek(length, io.SeekCurrent); err != nil {
			return count, WrapIO("read", err)
		}
		count++
	}
	return count, nil
}

func (j *Journal[T]) syncLocked() error {
	s, ok := j.file.(interface{ Sync() error })
	if !ok {
		return nil
	}
	return s.Sync()
}
