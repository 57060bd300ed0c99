package log

import (
	"fmt"
	"os"
	"strings"
)

// Config declares a logger: level, format (text|json) and output
// (stderr|stdout|null).
type Config struct {
	Level  string   `json:"level" yaml:"level" env:"LEVEL"`
	Format string   `json:"format" yaml:"format" env:"FORMAT"`
	Output string   `json:"output" yaml:"output" env:"OUTPUT"`
	Redact []string `json:"redact" yaml:"redact" env:"REDACT" envSeparator:","`
}

// ApplyConfig builds a Logger from cfg. A nil cfg yields info/text/stderr.
func ApplyConfig(cfg *Config) (Logger, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	var formatter Formatter
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		formatter = &TextFormatter{}
	case "json":
		formatter = &JSONFormatter{}
	default:
		return nil, fmt.Errorf("log: unknown format %q", cfg.Format)
	}
	var output Output
	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		output = NewConsoleOutput()
	case "stdout":
		output = NewWriterOutput(os.Stdout)
	case "null":
		output = NullOutput{}
	default:
		return nil, fmt.Errorf("log: unknown output %q", cfg.Output)
	}
	return NewLogger(
		WithLevel(level),
		WithFormatter(formatter),
		WithOutput(output),
		WithRedaction(cfg.Redact...),
	), nil
}
