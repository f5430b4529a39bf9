package config

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
)

const (
	DefaultOutput      = "export"
	DefaultTitle       = "Source Code Export"
	DefaultMaxFileSize = 1 << 20 // 1 MiB

	validationTagRequired = "required"
)

func DefaultPatterns() []string {
	return []string{"**/*"}
}

// DefaultExcludes are directory names never descended into.
func DefaultExcludes() []string {
	return []string{
		".git", "node_modules", "vendor", "dist", "target",
		"__pycache__", ".idea", ".vscode", "bin", "obj",
	}
}

type Config struct {
	Output    string            `koanf:"output"  validate:"omitempty,dirpath"`
	Sources   map[string]Source `koanf:"sources" validate:"required,dive"`
	ConfigDir string            `koanf:"-"`
}

type Source struct {
	Path           string   `koanf:"path"            validate:"required"`
	Out            string   `koanf:"out"             validate:"omitempty,md_filename"`
	Title          string   `koanf:"title"`
	Patterns       []string `koanf:"patterns"`
	Exclude        []string `koanf:"exclude"`
	StripComments  bool     `koanf:"strip_comments"`
	LineNumbers    bool     `koanf:"line_numbers"`
	DedupeHeadings *bool    `koanf:"dedupe_headings"`
	MaxFileSize    int64    `koanf:"max_file_size"   validate:"omitempty,min=0"`
	Attachments    []string `koanf:"attachments"     validate:"omitempty,dive,url"`
}

// Dedupe reports whether heading disambiguation is enabled; defaults to on.
func (s Source) Dedupe() bool {
	return s.DedupeHeadings == nil || *s.DedupeHeadings
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("md_filename", func(fl validator.FieldLevel) bool {
		return isMarkdownFilename(fl.Field().String())
	})

	return v
}

func (c *Config) ApplyDefaults() {
	if c.Output == "" {
		c.Output = DefaultOutput
	}

	for sourceName, sourceCfg := range c.Sources {
		if len(sourceCfg.Patterns) == 0 {
			sourceCfg.Patterns = DefaultPatterns()
		}
		if sourceCfg.Out == "" {
			sourceCfg.Out = sourceName + ".md"
		}
		if sourceCfg.Title == "" {
			sourceCfg.Title = DefaultTitle
		}
		if sourceCfg.MaxFileSize == 0 {
			sourceCfg.MaxFileSize = DefaultMaxFileSize
		}

		c.Sources[sourceName] = sourceCfg
	}
}

func (c *Config) Validate() error {
	v := newValidator()

	for sourceName, sourceCfg := range c.Sources {
		valErr := v.Struct(sourceCfg)
		if valErr == nil {
			continue
		}

		var validationErrors validator.ValidationErrors
		if !errors.As(valErr, &validationErrors) {
			return oops.
				Code("CONFIG_INVALID").
				With("source", sourceName).
				Wrapf(valErr, "validating source %q", sourceName)
		}

		for _, fe := range validationErrors {
			return mapValidationError(sourceName, sourceCfg, fe)
		}
	}

	return nil
}

func mapValidationError(sourceName string, sourceCfg Source, fe validator.FieldError) error {
	field := strings.ToLower(fe.Field())

	switch {
	case fe.Tag() == validationTagRequired && field == "path":
		return oops.
			Code("CONFIG_INVALID").
			With("source", sourceName).
			With("field", "path").
			Hint("Set path to the root directory to export").
			Errorf("missing path for source %q", sourceName)

	case fe.Tag() == "md_filename":
		return oops.
			Code("CONFIG_INVALID").
			With("source", sourceName).
			With("field", "out").
			With("value", sourceCfg.Out).
			Hint("Output filename must end in .md and contain no path separators").
			Errorf("invalid output filename %q for source %q", sourceCfg.Out, sourceName)

	case fe.Tag() == "url":
		return oops.
			Code("CONFIG_INVALID").
			With("source", sourceName).
			With("field", "attachments").
			Hint("Attachments must be absolute http(s) URLs").
			Errorf("invalid attachment url for source %q", sourceName)

	case fe.Tag() == "min" && field == "maxfilesize":
		return oops.
			Code("CONFIG_INVALID").
			With("source", sourceName).
			With("field", "max_file_size").
			Errorf("max_file_size must not be negative for source %q", sourceName)

	default:
		return oops.
			Code("CONFIG_INVALID").
			With("source", sourceName).
			With("field", field).
			With("tag", fe.Tag()).
			Errorf("validation failed for field %q in source %q", field, sourceName)
	}
}

// RootDir resolves a source's path relative to the config file directory.
func (c *Config) RootDir(sourceCfg Source) string {
	if filepath.IsAbs(sourceCfg.Path) {
		return filepath.Clean(sourceCfg.Path)
	}

	return filepath.Clean(filepath.Join(c.ConfigDir, sourceCfg.Path))
}

// OutputPath resolves the destination file for a source.
func (c *Config) OutputPath(sourceCfg Source) string {
	outputDir := c.Output
	if !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(c.ConfigDir, outputDir)
	}

	return filepath.Join(outputDir, sourceCfg.Out)
}

// OutputDir resolves the directory generated documents are written to.
func (c *Config) OutputDir() string {
	if filepath.IsAbs(c.Output) {
		return c.Output
	}

	return filepath.Join(c.ConfigDir, c.Output)
}

func isMarkdownFilename(name string) bool {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return false
	}

	return strings.HasSuffix(strings.ToLower(name), ".md")
}
