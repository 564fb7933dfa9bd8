package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/itsmostafa/docidx/internal/docindex"
)

// DefaultFile is read when no config path is given. It is optional.
const DefaultFile = ".docidx.yaml"

type Config struct {
	Project struct {
		Root string `yaml:"root"`
	} `yaml:"project"`
	Parser struct {
		MaxIncludeDepth int    `yaml:"max_include_depth"`
		Collisions      string `yaml:"collisions"` // suffix | overwrite
		MarkdownFences  bool   `yaml:"markdown_fences"`
	} `yaml:"parser"`
	Watch struct {
		Interval time.Duration `yaml:"interval"`
		Debounce time.Duration `yaml:"debounce"`
		Patterns []string      `yaml:"patterns"`
	} `yaml:"watch"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Store struct {
		Path string `yaml:"path"`
	} `yaml:"store"`
}

// Default returns the built-in configuration.
func Default() *Config {
	var cfg Config
	cfg.Project.Root = "."
	cfg.Parser.MaxIncludeDepth = docindex.DefaultMaxIncludeDepth
	cfg.Parser.Collisions = string(docindex.CollisionSuffix)
	cfg.Watch.Interval = time.Second
	cfg.Watch.Debounce = 200 * time.Millisecond
	cfg.Watch.Patterns = []string{
		"**/*.adoc",
		"**/*.ad",
		"**/*.asciidoc",
		"**/*.md",
		"**/*.markdown",
	}
	cfg.Log.Level = "warn"
	cfg.Store.Path = "docidx.db"
	return &cfg
}

// Load builds the configuration from defaults, the YAML file at path and
// DOCIDX_* environment variables, in that order. A .env file in the working
// directory is loaded first if present. An empty path reads DefaultFile when
// it exists.
func Load(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	required := path != ""
	if path == "" {
		path = DefaultFile
	}
	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case required || !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// 3. Override with Environment Variables if present
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if root := os.Getenv("DOCIDX_ROOT"); root != "" {
		c.Project.Root = root
	}
	if depth := os.Getenv("DOCIDX_MAX_INCLUDE_DEPTH"); depth != "" {
		n, err := strconv.Atoi(depth)
		if err != nil {
			return fmt.Errorf("invalid DOCIDX_MAX_INCLUDE_DEPTH %q: %w", depth, err)
		}
		c.Parser.MaxIncludeDepth = n
	}
	if policy := os.Getenv("DOCIDX_COLLISIONS"); policy != "" {
		c.Parser.Collisions = policy
	}
	if fences := os.Getenv("DOCIDX_MARKDOWN_FENCES"); fences != "" {
		b, err := strconv.ParseBool(fences)
		if err != nil {
			return fmt.Errorf("invalid DOCIDX_MARKDOWN_FENCES %q: %w", fences, err)
		}
		c.Parser.MarkdownFences = b
	}
	if level := os.Getenv("DOCIDX_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if store := os.Getenv("DOCIDX_STORE_PATH"); store != "" {
		c.Store.Path = store
	}
	return nil
}

// Validate rejects configurations the parser or watcher cannot run with.
func (c *Config) Validate() error {
	if _, err := c.NewParser(); err != nil {
		return err
	}
	if c.Watch.Interval <= 0 {
		return fmt.Errorf("watch interval must be positive, got %s", c.Watch.Interval)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch debounce must not be negative, got %s", c.Watch.Debounce)
	}
	if len(c.Watch.Patterns) == 0 {
		return errors.New("watch patterns must not be empty")
	}
	return nil
}

// NewParser returns a parser configured from the parser section.
func (c *Config) NewParser() (*docindex.Parser, error) {
	policy, err := docindex.ParseCollisionPolicy(c.Parser.Collisions)
	if err != nil {
		return nil, err
	}
	p := &docindex.Parser{
		MaxIncludeDepth: c.Parser.MaxIncludeDepth,
		Collisions:      policy,
		MarkdownFences:  c.Parser.MarkdownFences,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
