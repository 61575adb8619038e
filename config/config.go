// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

// ExtractConfig are the settings of the extract command
type ExtractConfig struct {
	// In is the .dna file or directory to read
	In string `mapstructure:"in"`

	// Out is the report path; its extension picks the format
	Out string `mapstructure:"out"`

	// Recursive walks sub-directories of In
	Recursive bool `mapstructure:"recursive"`

	// Workers caps how many files are processed at once
	Workers int `mapstructure:"workers"`
}

// WatchConfig are the settings of watch mode
type WatchConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Debounce is the quiet window that coalesces bursts of
	// file events into one re-extraction
	Debounce time.Duration `mapstructure:"debounce"`
}

// NamesConfig adjusts sequence-name cleaning
type NamesConfig struct {
	// StripSuffixes are the file extensions removed from recorded
	// sequence names, without the leading dot
	StripSuffixes []string `mapstructure:"strip-suffixes"`
}

// Config is the root-level settings struct and is a mix
// of settings available in settings.yaml and those
// available from the command line
type Config struct {
	Extract ExtractConfig `mapstructure:"extract"`
	Watch   WatchConfig   `mapstructure:"watch"`
	Names   NamesConfig   `mapstructure:"names"`
}

// formats the report writer understands, by output extension
var outFormats = []string{".xlsx", ".csv", ".json"}

// New returns a Config populated by Viper settings (either from the
// local settings.yaml) and/or command line arguments
func New() (Config, error) {
	viper.SetDefault("extract.in", ".")
	viper.SetDefault("extract.out", "history.xlsx")
	viper.SetDefault("extract.workers", 1)
	viper.SetDefault("watch.debounce", time.Second)
	viper.SetDefault("names.strip-suffixes", []string{"dna", "gb"})

	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	return c, nil
}

// Validate checks the settings before a run starts.
func (c Config) Validate() error {
	if err := validation.ValidateStruct(&c.Extract,
		validation.Field(&c.Extract.In, validation.Required),
		validation.Field(&c.Extract.Out, validation.Required, validation.By(knownFormat)),
		validation.Field(&c.Extract.Workers, validation.Required, validation.Min(1)),
	); err != nil {
		return err
	}

	if c.Watch.Enabled {
		if err := validation.ValidateStruct(&c.Watch,
			validation.Field(&c.Watch.Debounce, validation.Required, validation.Min(time.Millisecond)),
		); err != nil {
			return err
		}
	}

	return validation.ValidateStruct(&c.Names,
		validation.Field(&c.Names.StripSuffixes, validation.Each(validation.Required)),
	)
}

func knownFormat(value interface{}) error {
	out, _ := value.(string)
	ext := strings.ToLower(filepath.Ext(out))
	for _, f := range outFormats {
		if ext == f {
			return nil
		}
	}
	return fmt.Errorf("unknown output format %q (use %s)", ext, strings.Join(outFormats, ", "))
}
