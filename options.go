package objio

import (
	"github.com/go-git/go-billy/v5"
	"os"
)

// JournalOptions configures a Journal. Path and Converter are required;
// everything else has a working default.
type JournalOptions[T any] struct {
	// Filesystem holds the journal file. Nil means the host filesystem.
	Filesystem billy.Basic
	// Path of the journal file within Filesystem.
	Path string
	// FileMode for a newly created journal file. Zero means 0o644.
	FileMode os.FileMode
	// AlwaysSync flushes to stable storage after every append, when the
	// filesystem supports it.
	AlwaysSync bool
	// MaxRecordSize caps the size of a single record. Zero means
	// DefaultMaxRecordSize.
	MaxRecordSize int
	// Converter marshals journal entries.
	Converter Converter[T]
}
