// Package config loads the optional exbatch.toml file and overlays it on the
// built-in defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ukaji3/exbatch-go/pkg/exbatch"
	"github.com/ukaji3/exbatch-go/pkg/exbatch/dialog"
)

// Config is the resolved runtime configuration of the CLI.
type Config struct {
	LogLevel string
	Options  exbatch.Options
	// DialogAddr is the listen address of the dialog HTTP host.
	DialogAddr string
}

// exbatch.toml key mapping.
type fileConfig struct {
	LogLevel      string           `toml:"log_level"`
	Sheet         string           `toml:"sheet"`
	TableName     string           `toml:"table_name"`
	MinAPIVersion string           `toml:"min_api_version"`
	Dialog        dialogFileConfig `toml:"dialog"`
}

type dialogFileConfig struct {
	URL     string `toml:"url"`
	Addr    string `toml:"addr"`
	Height  int    `toml:"height"`
	Width   int    `toml:"width"`
	Element string `toml:"element"`
	Overlap string `toml:"overlap"`
}

func Default() Config {
	opts := exbatch.DefaultOptions()
	// The local dialog host serves the page itself.
	opts.Dialog.URL = "http://localhost/popup.html"
	return Config{
		LogLevel:   "info",
		Options:    opts,
		DialogAddr: "127.0.0.1:3000",
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("sheet") {
		cfg.Options.Sheet = strings.TrimSpace(raw.Sheet)
	}
	if meta.IsDefined("table_name") {
		cfg.Options.TableName = strings.TrimSpace(raw.TableName)
	}
	if meta.IsDefined("min_api_version") {
		cfg.Options.MinAPIVersion = strings.TrimSpace(raw.MinAPIVersion)
	}
	if meta.IsDefined("dialog", "url") {
		cfg.Options.Dialog.URL = strings.TrimSpace(raw.Dialog.URL)
	}
	if meta.IsDefined("dialog", "addr") {
		cfg.DialogAddr = strings.TrimSpace(raw.Dialog.Addr)
	}
	if meta.IsDefined("dialog", "height") {
		cfg.Options.Dialog.Display.Height = raw.Dialog.Height
	}
	if meta.IsDefined("dialog", "width") {
		cfg.Options.Dialog.Display.Width = raw.Dialog.Width
	}
	if meta.IsDefined("dialog", "element") {
		cfg.Options.Dialog.Element = strings.TrimSpace(raw.Dialog.Element)
	}
	if meta.IsDefined("dialog", "overlap") {
		cfg.Options.Dialog.Overlap = dialog.OverlapPolicy(strings.ToLower(strings.TrimSpace(raw.Dialog.Overlap)))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Options.TableName == "" {
		return fmt.Errorf("table_name must not be empty")
	}
	if c.Options.MinAPIVersion == "" {
		return fmt.Errorf("min_api_version must not be empty")
	}
	return c.Options.Dialog.Validate()
}
