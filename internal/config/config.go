package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultName     = "lxf-git"
	DefaultEntryURL = "http://www.liaoxuefeng.com/wiki/0013739516305929606dd18361248578c67b8067c8c017b000"
	DefaultProvider = "liaoxuefeng"
	DefaultRenderer = "wkhtmltopdf"
)

type Config struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Provider string `yaml:"provider"`

	Output        string `yaml:"output"`
	WorkDir       string `yaml:"work_dir"`
	Renderer      string `yaml:"renderer"`
	RendererBin   string `yaml:"renderer_bin"`
	Workers       int    `yaml:"workers"`
	KeepFragments bool   `yaml:"keep_fragments"`
	SkipBroken    bool   `yaml:"skip_broken"`
	Debug         bool   `yaml:"debug"`

	DefaultRange string `yaml:"default_range"`
	DefaultList  string `yaml:"default_list"`

	Cookie     string        `yaml:"cookie"`
	CookieFile string        `yaml:"cookie_file"`
	UserAgent  string        `yaml:"user_agent"`
	Cloudflare bool          `yaml:"cloudflare"`
	Timeout    time.Duration `yaml:"timeout"`
}

// Options carries command-line overrides. Zero values leave the loaded
// config untouched.
type Options struct {
	IgnoreConfig  bool
	Debug         bool
	Name          string
	URL           string
	Provider      string
	Output        string
	WorkDir       string
	Renderer      string
	RendererBin   string
	Workers       int
	KeepFragments bool
	SkipBroken    bool
	DefaultRange  string
	DefaultList   string
	Cookie        string
	CookieFile    string
	UserAgent     string
	Cloudflare    bool
}

func DefaultConfig() *Config {
	return &Config{
		Name:     DefaultName,
		URL:      DefaultEntryURL,
		Provider: DefaultProvider,
		Output:   ".",
		WorkDir:  ".",
		Renderer: DefaultRenderer,
		Workers:  1,
	}
}

func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func loadYAML(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	return &c, nil
}

// LoadMerged returns the active profile (or the built-in defaults) with
// opts applied on top, plus a description of where it came from.
func LoadMerged(opts Options) (*Config, string, error) {
	if opts.IgnoreConfig {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(ignored config)", nil
	}

	activePath, err := ActiveConfigPath()
	if err == ErrNoConfig || activePath == "" {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(default config in memory)\nRun `tocpdf config init` to create an actual config\n", nil
	}
	if err != nil {
		return nil, "", err
	}

	cfg, err := loadYAML(activePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config %s: %w", activePath, err)
	}

	mergeConfig(cfg, opts)
	normalizeDefaults(cfg)

	return cfg, activePath, nil
}

func mergeConfig(c *Config, o Options) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&c.Name, o.Name)
	set(&c.URL, o.URL)
	set(&c.Provider, o.Provider)
	set(&c.Output, o.Output)
	set(&c.WorkDir, o.WorkDir)
	set(&c.Renderer, o.Renderer)
	set(&c.RendererBin, o.RendererBin)
	set(&c.DefaultRange, o.DefaultRange)
	set(&c.DefaultList, o.DefaultList)
	set(&c.Cookie, o.Cookie)
	set(&c.CookieFile, o.CookieFile)
	set(&c.UserAgent, o.UserAgent)

	if o.Workers != 0 {
		c.Workers = o.Workers
	}
	if o.KeepFragments {
		c.KeepFragments = true
	}
	if o.SkipBroken {
		c.SkipBroken = true
	}
	if o.Debug {
		c.Debug = true
	}
	if o.Cloudflare {
		c.Cloudflare = true
	}
}

func normalizeDefaults(c *Config) {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.URL == "" {
		c.URL = DefaultEntryURL
	}
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.Output == "" {
		c.Output = "."
	}
	if c.WorkDir == "" {
		c.WorkDir = "."
	}
	if c.Renderer == "" {
		c.Renderer = DefaultRenderer
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
}

func (c *Config) Print(w io.Writer) {
	p := func(format string, args ...any) {
		_, _ = fmt.Fprintf(w, format, args...)
	}

	p(" -name: %s\n", c.Name)
	p(" -url: %s\n", c.URL)
	p(" -provider: %s\n", c.Provider)
	p(" -output: %s\n", c.Output)
	p(" -work_dir: %s\n", c.WorkDir)
	p(" -renderer: %s\n", c.Renderer)
	if c.RendererBin != "" {
		p(" -renderer_bin: %s\n", c.RendererBin)
	}
	p(" -workers: %d\n", c.Workers)
	if c.KeepFragments {
		p(" -keep_fragments: %t\n", c.KeepFragments)
	}
	if c.SkipBroken {
		p(" -skip_broken: %t\n", c.SkipBroken)
	}
	if c.Debug {
		p(" -debug: %t\n", c.Debug)
	}
	if c.DefaultRange != "" {
		p(" -range: %s\n", c.DefaultRange)
	}
	if c.DefaultList != "" {
		p(" -list: %s\n", c.DefaultList)
	}
	if c.CookieFile != "" {
		p(" -cookie_file: %s\n", c.CookieFile)
	}
	if c.Cloudflare {
		p(" -cloudflare: %t\n", c.Cloudflare)
	}
	if c.Timeout > 0 {
		p(" -timeout: %s\n", c.Timeout)
	}
}
