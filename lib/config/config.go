package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vyPal/exprtree/lib/parser"
	"github.com/vyPal/exprtree/lib/pipeline"
	"github.com/vyPal/exprtree/util"
)

// FileName is the config file looked up in the working directory.
const FileName = "exprtree.yaml"

// Trailing token handling.
const (
	TrailingError  = "error"
	TrailingIgnore = "ignore"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Parser ParserConfig `yaml:"parser"`
	Output OutputConfig `yaml:"output"`
}

type ServerConfig struct {
	Address        string   `yaml:"address"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
	CacheSize      int      `yaml:"cacheSize"`
	MaxBodyBytes   int64    `yaml:"maxBodyBytes"`
	Debug          bool     `yaml:"debug"`
}

type ParserConfig struct {
	Engine   string `yaml:"engine"`
	Trailing string `yaml:"trailing"`
	MaxDepth int    `yaml:"maxDepth"`
}

type OutputConfig struct {
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Address:        ":3000",
			AllowedOrigins: []string{"*"},
			CacheSize:      1024,
			MaxBodyBytes:   1 << 16,
		},
		Parser: ParserConfig{
			Engine:   pipeline.EngineDescent,
			Trailing: TrailingError,
			MaxDepth: parser.DefaultMaxDepth,
		},
		Output: OutputConfig{
			Format: "json",
		},
	}
}

// Validate reports the first setting that has no meaning.
func (c *Config) Validate() error {
	switch c.Parser.Engine {
	case pipeline.EngineDescent, pipeline.EngineGrammar:
	default:
		return errors.Errorf("parser.engine: unknown engine %q", c.Parser.Engine)
	}
	switch c.Parser.Trailing {
	case TrailingError, TrailingIgnore:
	default:
		return errors.Errorf("parser.trailing: must be %q or %q, got %q", TrailingError, TrailingIgnore, c.Parser.Trailing)
	}
	switch c.Output.Format {
	case "json", "yaml", "tree":
	default:
		return errors.Errorf("output.format: unknown format %q", c.Output.Format)
	}
	if c.Parser.MaxDepth < 0 {
		return errors.New("parser.maxDepth: must not be negative")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New("server.maxBodyBytes: must be positive")
	}
	return nil
}

// ParserOptions translates the parser section into parser options.
func (c *Config) ParserOptions() []parser.Option {
	opts := []parser.Option{parser.MaxDepth(c.Parser.MaxDepth)}
	if c.Parser.Trailing == TrailingIgnore {
		opts = append(opts, parser.Permissive())
	}
	return opts
}

// Load reads path on top of the defaults. Settings missing from the file
// keep their default values.
func Load(path string) (Config, error) {
	conf := Default()

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&conf); err != nil {
		return Config{}, errors.Wrapf(err, "decoding %s", path)
	}
	if err := conf.Validate(); err != nil {
		return Config{}, errors.Wrap(err, path)
	}
	return conf, nil
}

// Find loads FileName from dir, or returns the defaults when it is absent.
func Find(dir string) (Config, error) {
	conf, err := Load(filepath.Join(dir, FileName))
	if os.IsNotExist(err) {
		return Default(), nil
	}
	return conf, err
}

// Save writes c to path. An existing file is only replaced when overwrite
// is set or the user agrees to it; saved reports whether anything was
// written.
func (c *Config) Save(path string, overwrite bool) (saved bool, err error) {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		if !overwrite && !util.PromptYN(path+" already exists. Overwrite?", false) {
			return false, nil
		}
	}

	yml, err := yaml.Marshal(c)
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(path, yml, 0644); err != nil {
		return false, errors.Wrapf(err, "writing %s", path)
	}
	return true, nil
}
