package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Dir is the in-repo directory holding notes, schema, templates and
// optional configuration
const Dir = ".relnotes"

type Config struct {
	Notes  NotesConfig  `toml:"notes"`
	Tags   TagsConfig   `toml:"tags"`
	GitHub GitHubConfig `toml:"github"`
}

type NotesConfig struct {
	// Dir holds note artifacts, relative to the repository root
	Dir string `toml:"dir"`
	// Schema is the schema descriptor path, relative to the repository root
	Schema string `toml:"schema"`
}

type TagsConfig struct {
	// Match is a glob(7) pattern restricting which tags attribute releases
	Match string `toml:"match"`
}

type GitHubConfig struct {
	// APIURL overrides the REST endpoint (GitHub Enterprise)
	APIURL string `toml:"api_url"`
	// Remote names the remote used to identify the hosted repository
	Remote string `toml:"remote"`
}

func DefaultConfig() *Config {
	return &Config{
		Notes: NotesConfig{
			Dir:    Dir + "/notes",
			Schema: Dir + "/schema.yaml",
		},
		GitHub: GitHubConfig{
			Remote: "origin",
		},
	}
}

// Load reads .relnotes/config.toml under the repository root, falling
// back to defaults when the file doesn't exist
func Load(root string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filepath.Join(root, Dir, "config.toml"))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Notes.Dir == "" {
		cfg.Notes.Dir = Dir + "/notes"
	}
	if cfg.Notes.Schema == "" {
		cfg.Notes.Schema = Dir + "/schema.yaml"
	}
	if cfg.GitHub.Remote == "" {
		cfg.GitHub.Remote = "origin"
	}

	return cfg, nil
}

// SchemaPath returns the absolute schema descriptor path
func (c *Config) SchemaPath(root string) string {
	return filepath.Join(root, filepath.FromSlash(c.Notes.Schema))
}

// NotesPath returns the absolute notes directory path
func (c *Config) NotesPath(root string) string {
	return filepath.Join(root, filepath.FromSlash(c.Notes.Dir))
}

// TemplatePath returns the absolute path of the log template for a
// style; style "default" maps to log.tpl
func (c *Config) TemplatePath(root, style string) string {
	name := "log.tpl"
	if style != "" && style != "default" {
		name = "log_" + style + ".tpl"
	}
	return filepath.Join(root, Dir, name)
}
