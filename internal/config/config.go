// Package config loads the studio configuration: built-in defaults overlaid
// with an optional studio.toml. API credentials stay in the environment
// (GOOGLE_SERVICE_ACCOUNT_JSON, OPENAI_API_KEY, ANTHROPIC_API_KEY,
// GOOGLE_API_KEY, XAI_API_KEY) and are read where they are used.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// DefaultPath is the config file looked for when none is given.
const DefaultPath = "studio.toml"

// Defaults.
const (
	DefaultTaskQueue       = "datastudio"
	DefaultRunsDBPath      = "datastudio-runs.db"
	DefaultFolderName      = "Generated Reports"
	DefaultSheetName       = "Sheet1"
	DefaultFilenamePattern = "{{Company}} - {{Industry}} Report"
	DefaultTheme           = "Cyber Neon"
)

// Config is the studio configuration.
type Config struct {
	Theme           string `toml:"theme"`
	TaskQueue       string `toml:"task_queue"`
	RunsDBPath      string `toml:"runs_db"`
	FolderName      string `toml:"folder"`
	SpreadsheetID   string `toml:"spreadsheet_id"`
	SheetName       string `toml:"sheet_name"`
	TemplateDocID   string `toml:"template_doc_id"`
	FilenamePattern string `toml:"filename_pattern"`
	AgentsFile      string `toml:"agents_file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Theme:           DefaultTheme,
		TaskQueue:       DefaultTaskQueue,
		RunsDBPath:      DefaultRunsDBPath,
		FolderName:      DefaultFolderName,
		SheetName:       DefaultSheetName,
		FilenamePattern: DefaultFilenamePattern,
	}
}

// Load reads the config file at path, applying defaults for unset fields.
// With an empty path, studio.toml is used when present; a missing file is
// not an error and yields the defaults.
func Load(path string) (Config, error) {
	explicit := path != ""
	if path == "" {
		path = DefaultPath
	}

	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Theme == "" {
		c.Theme = DefaultTheme
	}
	if c.TaskQueue == "" {
		c.TaskQueue = DefaultTaskQueue
	}
	if c.RunsDBPath == "" {
		c.RunsDBPath = DefaultRunsDBPath
	}
	if c.FolderName == "" {
		c.FolderName = DefaultFolderName
	}
	if c.SheetName == "" {
		c.SheetName = DefaultSheetName
	}
	if c.FilenamePattern == "" {
		c.FilenamePattern = DefaultFilenamePattern
	}
}
