package store

import (
	"time"

	"github.com/dbmrq/romple/internal/dat"
)

// Status is the verification status of a scanned file or DAT entry.
type Status string

const (
	// StatusCorrect means the file's CRC and name both match the DAT.
	StatusCorrect Status = "correct"
	// StatusWrongFilename means the CRC matches but the filename differs.
	StatusWrongFilename Status = "wrong_filename"
	// StatusBroken means the file is unreadable or its CRC matches no DAT
	// entry while its name resembles one.
	StatusBroken Status = "broken"
	// StatusNotRecognized means nothing in the DAT resembles the file.
	StatusNotRecognized Status = "not_recognized"
	// StatusMissing means the DAT entry has no file on disk.
	StatusMissing Status = "missing"
	// StatusDuplicate means another file with the same CRC exists.
	StatusDuplicate Status = "duplicate"
	// StatusMovedExtra means the file was moved to the extra folder.
	StatusMovedExtra Status = "moved_extra"
	// StatusMovedBroken means the file was moved to the broken folder.
	StatusMovedBroken Status = "moved_broken"
	// StatusIgnored means the user chose to ignore the file.
	StatusIgnored Status = "ignored"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusCorrect, StatusWrongFilename, StatusBroken, StatusNotRecognized,
		StatusMissing, StatusDuplicate, StatusMovedExtra, StatusMovedBroken,
		StatusIgnored:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// System is an imported DAT system.
type System struct {
	ID        int64
	Name      string
	DATPath   string
	GameCount int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Game is a DAT entry persisted for a system.
type Game struct {
	ID       int64
	SystemID int64
	dat.Game
}

// ScanResult is one persisted scan outcome for a (system, path) pair.
type ScanResult struct {
	ID            int64
	SystemID      int64
	FilePath      string
	FileSize      int64
	CRC32         string
	Status        Status
	MatchedGameID *int64
	Similarity    float64
	ErrorMessage  string
	// OriginalStatus remembers the pre-ignore status so unignore can
	// restore it. Empty when the result was never ignored.
	OriginalStatus Status
	ScannedAt      time.Time
}
