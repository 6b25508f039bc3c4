package config

import "time"

// File is the structure of the .rbpscraper YAML configuration file.
// Every field is optional; command line flags take precedence.
type File struct {
	Descriptor    string         `yaml:"descriptor,omitempty"`
	URL           string         `yaml:"url,omitempty"`
	Output        string         `yaml:"output,omitempty"`
	Cookie        string         `yaml:"cookie,omitempty"`
	UserAgent     string         `yaml:"userAgent,omitempty"`
	Proxy         string         `yaml:"proxy,omitempty"`
	Timeout       time.Duration  `yaml:"timeout,omitempty"`
	SearchDelay   *time.Duration `yaml:"searchDelay,omitempty"`
	DetailDelay   *time.Duration `yaml:"detailDelay,omitempty"`
	ProgressStep  int            `yaml:"progressStep,omitempty"`
	SkipText      bool           `yaml:"skipText,omitempty"`
	RespectRobots bool           `yaml:"respectRobots,omitempty"`
}

// Apply copies the values set in the file onto cfg.
// Delays are pointers so that an explicit 0s in the file can override a
// non-zero default.
func (f *File) Apply(cfg *Config) {
	if f.Descriptor != "" {
		cfg.Descriptor = f.Descriptor
	}
	if f.URL != "" {
		cfg.SearchURL = f.URL
	}
	if f.Output != "" {
		cfg.OutputDir = f.Output
	}
	if f.Cookie != "" {
		cfg.Cookie = f.Cookie
	}
	if f.UserAgent != "" {
		cfg.UserAgent = f.UserAgent
	}
	if f.Proxy != "" {
		cfg.ProxyAddress = f.Proxy
	}
	if f.Timeout > 0 {
		cfg.Timeout = f.Timeout
	}
	if f.SearchDelay != nil {
		cfg.SearchDelay = *f.SearchDelay
	}
	if f.DetailDelay != nil {
		cfg.DetailDelay = *f.DetailDelay
	}
	if f.ProgressStep > 0 {
		cfg.ProgressStep = f.ProgressStep
	}
	if f.SkipText {
		cfg.SkipText = true
	}
	if f.RespectRobots {
		cfg.RespectRobots = true
	}
}
