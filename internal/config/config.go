// Package config provides configuration data structures for romple.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Config represents the complete romple configuration loaded from .romple/config.yaml.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"  json:"database"`
	DAT       DATConfig       `yaml:"dat"       json:"dat"`
	Scan      ScanConfig      `yaml:"scan"      json:"scan"`
	Match     MatchConfig     `yaml:"match"     json:"match"`
	Organize  OrganizeConfig  `yaml:"organize"  json:"organize"`
	Filter    FilterConfig    `yaml:"filter"    json:"filter"`
	Manifests ManifestsConfig `yaml:"manifests" json:"manifests"`
	// Systems holds per-system overrides keyed by system name.
	Systems map[string]SystemConfig `yaml:"systems" json:"systems"`
	// IgnoredCRCs lists CRC32 values the user has chosen to ignore globally.
	IgnoredCRCs []string `yaml:"ignored_crcs" json:"ignored_crcs"`
}

// DatabaseConfig configures the SQLite database location.
type DatabaseConfig struct {
	// Path is the SQLite database file. Empty means <home>/.romple/romple.db.
	Path string `yaml:"path" json:"path"`
}

// DATConfig configures DAT file ingestion.
type DATConfig struct {
	// Folder is the default folder scanned for DAT files.
	Folder string `yaml:"folder" json:"folder"`
}

// ScanConfig configures ROM folder scanning.
type ScanConfig struct {
	// ChunkSizeMB is the read chunk size for checksum calculation (default: 64).
	ChunkSizeMB int `yaml:"chunk_size_mb" json:"chunk_size_mb"`
	// Workers is the number of parallel scan workers (default: 4).
	Workers int `yaml:"workers" json:"workers"`
	// Hashes enables MD5/SHA1 in addition to CRC32 (default: false).
	Hashes bool `yaml:"hashes" json:"hashes"`
}

// MatchConfig configures fuzzy filename matching.
type MatchConfig struct {
	// Threshold is the minimum similarity score to accept a fuzzy match (default: 0.7).
	Threshold float64 `yaml:"threshold" json:"threshold"`
	// MaxCandidates is the number of name-search candidates considered per file (default: 5).
	MaxCandidates int `yaml:"max_candidates" json:"max_candidates"`
}

// DuplicateHandling defines what the organizer does with duplicate ROMs.
type DuplicateHandling string

const (
	// DuplicateKeepAll leaves duplicates in place.
	DuplicateKeepAll DuplicateHandling = "keep_all"
	// DuplicateMoveExtra moves all but one copy to the extra folder.
	DuplicateMoveExtra DuplicateHandling = "move_extra"
)

// OrganizeConfig configures file curation.
type OrganizeConfig struct {
	// BrokenFolder is the side folder for broken files (default: "broken").
	BrokenFolder string `yaml:"broken_folder" json:"broken_folder"`
	// ExtraFolder is the side folder for unrecognized files (default: "_extra").
	ExtraFolder string `yaml:"extra_folder" json:"extra_folder"`
	// FilteredFolder is the side folder for filtered-out files (default: "_filtered").
	FilteredFolder string `yaml:"filtered_folder" json:"filtered_folder"`
	// MultiDiscFolder is the side folder for multi-disc sets (default: "_multi").
	MultiDiscFolder string `yaml:"multi_disc_folder" json:"multi_disc_folder"`
	// AutoCreateFolders creates side folders on demand (default: true).
	AutoCreateFolders bool `yaml:"auto_create_folders" json:"auto_create_folders"`
	// Duplicates controls duplicate handling (default: keep_all).
	Duplicates DuplicateHandling `yaml:"duplicates" json:"duplicates"`
}

// FilterConfig configures which DAT entries count toward a complete set.
type FilterConfig struct {
	ShowBeta        bool `yaml:"show_beta"        json:"show_beta"`
	ShowDemo        bool `yaml:"show_demo"        json:"show_demo"`
	ShowProto       bool `yaml:"show_proto"       json:"show_proto"`
	ShowUnlicensed  bool `yaml:"show_unlicensed"  json:"show_unlicensed"`
	ShowTranslation bool `yaml:"show_translation" json:"show_translation"`
	ShowModified    bool `yaml:"show_modified"    json:"show_modified"`
	ShowOverdump    bool `yaml:"show_overdump"    json:"show_overdump"`
	// RegionPriority orders regions from most to least preferred.
	RegionPriority []string `yaml:"region_priority" json:"region_priority"`
	// LanguagePriority orders languages from most to least preferred.
	LanguagePriority []string `yaml:"language_priority" json:"language_priority"`
}

// ManifestsConfig configures optional tool dependency manifests.
type ManifestsConfig struct {
	// Paths lists requirement manifests checked by "romple deps check".
	Paths []string `yaml:"paths" json:"paths"`
}

// SystemConfig holds per-system settings.
type SystemConfig struct {
	// ROMFolders are the folders scanned for this system.
	ROMFolders []string `yaml:"rom_folders" json:"rom_folders"`
}

// Default values.
const (
	DefaultChunkSizeMB    = 64
	DefaultScanWorkers    = 4
	DefaultMatchThreshold = 0.7
	DefaultMaxCandidates  = 5
)

// DefaultRegionPriority is the built-in region preference order.
var DefaultRegionPriority = []string{
	"USA", "Japan", "Europe", "World", "UK",
	"Australia", "Canada", "France", "Germany", "Italy",
	"Netherlands", "Spain", "Sweden",
}

// DefaultLanguagePriority is the built-in language preference order.
var DefaultLanguagePriority = []string{"En", "Es", "Fr", "De", "It", "Pt", "Ja"}

// NewConfig returns a new Config with default values applied.
func NewConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: defaultDatabasePath(),
		},
		DAT: DATConfig{},
		Scan: ScanConfig{
			ChunkSizeMB: DefaultChunkSizeMB,
			Workers:     DefaultScanWorkers,
		},
		Match: MatchConfig{
			Threshold:     DefaultMatchThreshold,
			MaxCandidates: DefaultMaxCandidates,
		},
		Organize: OrganizeConfig{
			BrokenFolder:      "broken",
			ExtraFolder:       "_extra",
			FilteredFolder:    "_filtered",
			MultiDiscFolder:   "_multi",
			AutoCreateFolders: true,
			Duplicates:        DuplicateKeepAll,
		},
		Filter: FilterConfig{
			ShowBeta:         true,
			ShowDemo:         true,
			ShowProto:        true,
			ShowUnlicensed:   true,
			ShowTranslation:  true,
			ShowModified:     true,
			ShowOverdump:     true,
			RegionPriority:   append([]string(nil), DefaultRegionPriority...),
			LanguagePriority: append([]string(nil), DefaultLanguagePriority...),
		},
		Systems:     map[string]SystemConfig{},
		IgnoredCRCs: []string{},
	}
}

// defaultDatabasePath returns the database path under the user's home directory.
func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".romple", "romple.db")
	}
	return filepath.Join(home, ".romple", "romple.db")
}

// ApplyDefaults applies default values to any unset fields.
// This is used after loading config from file to fill in missing values.
func (c *Config) ApplyDefaults() {
	defaults := NewConfig()

	if c.Database.Path == "" {
		c.Database.Path = defaults.Database.Path
	}
	if c.Scan.ChunkSizeMB == 0 {
		c.Scan.ChunkSizeMB = defaults.Scan.ChunkSizeMB
	}
	if c.Scan.Workers == 0 {
		c.Scan.Workers = defaults.Scan.Workers
	}
	if c.Match.Threshold == 0 {
		c.Match.Threshold = defaults.Match.Threshold
	}
	if c.Match.MaxCandidates == 0 {
		c.Match.MaxCandidates = defaults.Match.MaxCandidates
	}
	if c.Organize.BrokenFolder == "" {
		c.Organize.BrokenFolder = defaults.Organize.BrokenFolder
	}
	if c.Organize.ExtraFolder == "" {
		c.Organize.ExtraFolder = defaults.Organize.ExtraFolder
	}
	if c.Organize.FilteredFolder == "" {
		c.Organize.FilteredFolder = defaults.Organize.FilteredFolder
	}
	if c.Organize.MultiDiscFolder == "" {
		c.Organize.MultiDiscFolder = defaults.Organize.MultiDiscFolder
	}
	if c.Organize.Duplicates == "" {
		c.Organize.Duplicates = defaults.Organize.Duplicates
	}
	if len(c.Filter.RegionPriority) == 0 {
		c.Filter.RegionPriority = defaults.Filter.RegionPriority
	}
	if len(c.Filter.LanguagePriority) == 0 {
		c.Filter.LanguagePriority = defaults.Filter.LanguagePriority
	}
	if c.Systems == nil {
		c.Systems = map[string]SystemConfig{}
	}
	if c.IgnoredCRCs == nil {
		c.IgnoredCRCs = []string{}
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	msg := "multiple validation errors:"
	for _, err := range e {
		msg += "\n  - " + err.Error()
	}
	return msg
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Scan.ChunkSizeMB < 1 {
		errs = append(errs, &ValidationError{
			Field:   "scan.chunk_size_mb",
			Message: "must be at least 1",
		})
	}
	if c.Scan.Workers < 1 {
		errs = append(errs, &ValidationError{
			Field:   "scan.workers",
			Message: "must be at least 1",
		})
	}
	if c.Match.Threshold < 0 || c.Match.Threshold > 1 {
		errs = append(errs, &ValidationError{
			Field:   "match.threshold",
			Message: "must be between 0 and 1",
		})
	}
	if c.Match.MaxCandidates < 1 {
		errs = append(errs, &ValidationError{
			Field:   "match.max_candidates",
			Message: "must be at least 1",
		})
	}
	switch c.Organize.Duplicates {
	case DuplicateKeepAll, DuplicateMoveExtra:
	default:
		errs = append(errs, &ValidationError{
			Field:   "organize.duplicates",
			Message: "must be one of: keep_all, move_extra",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ROMFolders returns the configured ROM folders for a system name.
// Lookup is case-insensitive because viper lowercases config keys.
func (c *Config) ROMFolders(system string) []string {
	if sc, ok := c.Systems[system]; ok {
		return sc.ROMFolders
	}
	for name, sc := range c.Systems {
		if strings.EqualFold(name, system) {
			return sc.ROMFolders
		}
	}
	return nil
}
