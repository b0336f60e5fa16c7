// Package dat parses No-Intro style DAT files and imports them into the
// romple database.
package dat

import (
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dbmrq/romple/internal/errors"
)

// maxDATSize caps DAT input to keep a corrupt file from exhausting memory.
const maxDATSize = 256 * 1024 * 1024

// xmlFile mirrors the DAT document structure.
type xmlFile struct {
	XMLName xml.Name  `xml:"datafile"`
	Header  xmlHeader `xml:"header"`
	Games   []xmlGame `xml:"game"`
}

type xmlHeader struct {
	Name        string `xml:"name"`
	Description string `xml:"description"`
	Version     string `xml:"version"`
}

type xmlGame struct {
	Name      string   `xml:"name,attr"`
	CloneOfID string   `xml:"cloneofid,attr"`
	ROMs      []xmlROM `xml:"rom"`
}

type xmlROM struct {
	Name   string `xml:"name,attr"`
	Size   int64  `xml:"size,attr"`
	CRC    string `xml:"crc,attr"`
	MD5    string `xml:"md5,attr"`
	SHA1   string `xml:"sha1,attr"`
	Status string `xml:"status,attr"`
}

// Game is one DAT entry with its name attributes extracted.
type Game struct {
	DATGameName    string
	DATROMName     string
	MajorName      string
	Region         string
	Languages      string
	IsBeta         bool
	IsDemo         bool
	IsProto        bool
	IsUnlicensed   bool
	ReleaseVersion int
	IsTranslation  bool
	IsVerified     bool
	IsModified     bool
	IsPirate       bool
	IsHack         bool
	IsTrainer      bool
	IsOverdump     bool
	CRC32          string
	Size           int64
	MD5            string
	SHA1           string
	CloneOf        string
	DiscInfo       string
}

// File is a parsed DAT file.
type File struct {
	SystemName  string
	Description string
	Version     string
	Path        string
	Games       []Game
}

// Parse decodes a DAT document from r.
func Parse(r io.Reader) (*File, error) {
	dec := xml.NewDecoder(io.LimitReader(r, maxDATSize))
	dec.Strict = true
	// Disable entity expansion; DAT files never need it.
	dec.Entity = make(map[string]string)

	var doc xmlFile
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}

	f := &File{
		SystemName:  doc.Header.Name,
		Description: doc.Header.Description,
		Version:     doc.Header.Version,
	}

	for _, g := range doc.Games {
		if len(g.ROMs) == 0 {
			continue
		}
		rom := g.ROMs[0]

		game := parseGameName(g.Name)
		game.DATGameName = g.Name
		game.DATROMName = rom.Name
		game.CRC32 = strings.ToLower(rom.CRC)
		game.Size = rom.Size
		game.MD5 = strings.ToLower(rom.MD5)
		game.SHA1 = strings.ToLower(rom.SHA1)
		game.CloneOf = g.CloneOfID
		game.IsVerified = game.IsVerified || rom.Status == "verified"

		f.Games = append(f.Games, game)
	}

	return f, nil
}

// ParseFile parses the DAT file at path. When the header carries no system
// name, the file stem is used instead.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, errors.DATParseError(path, err)
	}
	defer func() { _ = f.Close() }()

	parsed, err := Parse(f)
	if err != nil {
		return nil, errors.DATParseError(path, err)
	}

	parsed.Path = path
	if parsed.SystemName == "" {
		parsed.SystemName = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return parsed, nil
}

// ScanFolder lists DAT files (.dat or .xml) under dir, recursively, sorted.
func ScanFolder(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".dat", ".xml":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
