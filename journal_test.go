package objio_test

import (
	"fmt"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/jungnoh/objio"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"io"
	"os"
	"path"
	"testing"
	"time"
)

func memJournalOptions() (billy.Filesystem, objio.JournalOptions[string]) {
	fs := memfs.New()
	return fs, objio.JournalOptions[string]{
		Filesystem: fs,
		Path:       "app.journal",
		Converter:  StringConverter{},
	}
}

func TestJournalAppendReplay(t *testing.T) {
	_, opts := memJournalOptions()
	journal, err := objio.OpenJournal(opts)
	assert.Nil(t, err)

	assert.Nil(t, journal.Append("a"))
	assert.Nil(t, journal.Append("b"))
	assert.Nil(t, journal.AppendMany([]string{"c", "d"}))
	assert.Equal(t, 4, journal.Len())

	objs, err := journal.All()
	assert.Nil(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, objs)
	assert.Nil(t, journal.Close())
}

func TestJournalPersist(t *testing.T) {
	_, opts := memJournalOptions()

	journal, err := objio.OpenJournal(opts)
	assert.Nil(t, err)
	assert.Nil(t, journal.AppendMany([]string{"a", "b", "c", "d", "e"}))
	assert.Nil(t, journal.Close())

	journal, err = objio.OpenJournal(opts)
	assert.Nil(t, err)
	assert.Equal(t, 5, journal.Len())
	assert.Nil(t, journal.Append("f"))

	objs, err := journal.All()
	assert.Nil(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, objs)
	assert.Nil(t, journal.Close())
}

func TestJournalClosed(t *testing.T) {
	_, opts := memJournalOptions()
	journal, err := objio.OpenJournal(opts)
	assert.Nil(t, err)
	assert.Nil(t, journal.Close())
	assert.Nil(t, journal.Close())

	assert.Equal(t, objio.ErrClosed, journal.Append("a"))
	assert.Equal(t, objio.ErrClosed, journal.AppendMany([]string{"a"}))
	assert.Equal(t, objio.ErrClosed, journal.Sync())
	assert.Equal(t, objio.ErrClosed, journal.Replay(func(string) error { return nil }))
}

func TestJournalTornTail(t *testing.T) {
	fs, opts := memJournalOptions()

	journal, err := objio.OpenJournal(opts)
	assert.Nil(t, err)
	assert.Nil(t, journal.AppendMany([]string{"a", "b"}))
	assert.Nil(t, journal.Close())

	file, err := fs.OpenFile(opts.Path, os.O_WRONLY|os.O_APPEND, 0o644)
	assert.Nil(t, err)
	_, err = file.Write([]byte{0x09, 0x00, 0x00, 0x00, 'p', 'a', 'r'})
	assert.Nil(t, err)
	assert.Nil(t, file.Close())

	_, err = objio.OpenJournal(opts)
	assert.NotNil(t, err)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestJournalReplayEarlyStop(t *testing.T) {
	_, opts := memJournalOptions()
	journal, err := objio.OpenJournal(opts)
	assert.Nil(t, err)
	assert.Nil(t, journal.AppendMany([]string{"a", "b", "c"}))

	stop := errors.New("stop")
	seen := 0
	err = journal.Replay(func(obj string) error {
		seen++
		if obj == "b" {
			return stop
		}
		return nil
	})
	assert.Equal(t, stop, err)
	assert.Equal(t, 2, seen)
	assert.Nil(t, journal.Close())
}

func TestJournalAppendDuringReplay(t *testing.T) {
	_, opts := memJournalOptions()
	journal, err := objio.OpenJournal(opts)
	assert.Nil(t, err)
	assert.Nil(t, journal.AppendMany([]string{"a", "b"}))

	err = journal.Replay(func(obj string) error {
		return journal.Append(obj + obj)
	})
	assert.Nil(t, err)
	assert.Equal(t, 4, journal.Len())

	objs, err := journal.All()
	assert.Nil(t, err)
	assert.Equal(t, []string{"a", "b", "aa", "bb"}, objs)
	assert.Nil(t, journal.Close())
}

func TestJournalMaxRecordSize(t *testing.T) {
	_, opts := memJournalOptions()
	opts.MaxRecordSize = 4

	journal, err := objio.OpenJournal(opts)
	assert.Nil(t, err)
	assert.Nil(t, journal.Append("ok"))
	assert.True(t, errors.Is(journal.Append("too large"), objio.ErrTooLarge))
	assert.Equal(t, 1, journal.Len())
	assert.Nil(t, journal.Close())

	journal, err = objio.OpenJournal(opts)
	assert.Nil(t, err)
	assert.Equal(t, 1, journal.Len())
	assert.Nil(t, journal.Close())
}

func TestJournalValidation(t *testing.T) {
	_, err := objio.OpenJournal(objio.JournalOptions[string]{Path: "app.journal"})
	assert.NotNil(t, err)

	_, err = objio.OpenJournal(objio.JournalOptions[string]{Converter: StringConverter{}})
	assert.NotNil(t, err)
}

func TestJournalHostFilesystem(t *testing.T) {
	target := path.Join(os.TempDir(), fmt.Sprintf("%d.journal", time.Now().UnixNano()))
	defer os.Remove(target)

	journal, err := objio.OpenJournal(objio.JournalOptions[string]{
		Path:       target,
		Converter:  StringConverter{},
		AlwaysSync: true,
	})
	assert.Nil(t, err)
	assert.Nil(t, journal.Append("a"))
	assert.Nil(t, journal.Append("b"))
	assert.Nil(t, journal.Close())

	journal, err = objio.OpenJournal(objio.JournalOptions[string]{
		Path:      target,
		Converter: StringConverter{},
	})
	assert.Nil(t, err)
	objs, err := journal.All()
	assert.Nil(t, err)
	assert.Equal(t, []string{"a", "b"}, objs)
	assert.Nil(t, journal.Close())
}
