// Package config loads the generator settings from config files, the
// environment and command line flags
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/a13labs/hypgen/pkg/parser"
	"github.com/a13labs/hypgen/pkg/walker"
)

// EnvPrefix prefixes every environment variable, e.g. HYPGEN_SOURCE_DIR
const EnvPrefix = "HYPGEN"

// TypeMapping adds one entry to the C++ type name table. It is a list
// entry rather than a map because config keys are case-insensitive.
type TypeMapping struct {
	Cpp     string `json:"cpp" yaml:"cpp" toml:"cpp" mapstructure:"cpp"`
	Binding string `json:"binding" yaml:"binding" toml:"binding" mapstructure:"binding"`
}

// Format configures the optional clang-format pass over generated C++.
// An empty ClangFormat disables it.
type Format struct {
	ClangFormat string `json:"clang_format,omitempty" yaml:"clang_format,omitempty" toml:"clang_format,omitempty" mapstructure:"clang_format"`
	Style       string `json:"style,omitempty" yaml:"style,omitempty" toml:"style,omitempty" mapstructure:"style"`
}

type Log struct {
	Level string `json:"level,omitempty" yaml:"level,omitempty" toml:"level,omitempty" mapstructure:"level"`
}

// Config controls a generation run.
//
// SourceDir    – root of the C++ sources to scan
// CppOutDir    – where .generated.cpp files are written
// CSharpOutDir – where .cs files are written
// MetadataFile – the timestamp cache; .yaml/.yml selects YAML, anything else JSON
// Ignore       – paths under SourceDir that are never scanned
// Extensions   – file extensions that are scanned
// TypeMap      – extra entries for the type name table
// Format       – clang-format settings for the C++ output
// DryRun       – do everything but write files
type Config struct {
	SourceDir    string         `json:"source_dir,omitempty" yaml:"source_dir,omitempty" toml:"source_dir,omitempty" mapstructure:"source_dir"`
	CppOutDir    string         `json:"cpp_out_dir,omitempty" yaml:"cpp_out_dir,omitempty" toml:"cpp_out_dir,omitempty" mapstructure:"cpp_out_dir"`
	CSharpOutDir string         `json:"csharp_out_dir,omitempty" yaml:"csharp_out_dir,omitempty" toml:"csharp_out_dir,omitempty" mapstructure:"csharp_out_dir"`
	MetadataFile string         `json:"metadata_file,omitempty" yaml:"metadata_file,omitempty" toml:"metadata_file,omitempty" mapstructure:"metadata_file"`
	Ignore       []string       `json:"ignore,omitempty" yaml:"ignore,omitempty" toml:"ignore,omitempty" mapstructure:"ignore"`
	Extensions   []string       `json:"extensions,omitempty" yaml:"extensions,omitempty" toml:"extensions,omitempty" mapstructure:"extensions"`
	TypeMap      []TypeMapping  `json:"type_map,omitempty" yaml:"type_map,omitempty" toml:"type_map,omitempty" mapstructure:"type_map"`
	Format       Format         `json:"format,omitempty" yaml:"format,omitempty" toml:"format,omitempty" mapstructure:"format"`
	Log          Log            `json:"log,omitempty" yaml:"log,omitempty" toml:"log,omitempty" mapstructure:"log"`
	Parser       parser.Options `json:"parser,omitempty" yaml:"parser,omitempty" toml:"parser,omitempty" mapstructure:"parser"`
	DryRun       bool           `json:"dry_run,omitempty" yaml:"dry_run,omitempty" toml:"dry_run,omitempty" mapstructure:"dry_run"`
}

// New returns the defaults with opts applied
func New(opts ...Option) *Config {
	c := &Config{
		SourceDir:    ".",
		CppOutDir:    filepath.Join("build", "generated", "cpp"),
		CSharpOutDir: filepath.Join("build", "generated", "csharp"),
		MetadataFile: filepath.Join("build", "generated", "metadata.json"),
		Ignore:       slices.Clone(walker.DefaultIgnore),
		Extensions:   slices.Clone(walker.DefaultExtensions),
		Log:          Log{Level: "info"},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetDefaults registers every key with v so environment variables are
// seen by Unmarshal
func SetDefaults(v *viper.Viper) {
	d := New()
	v.SetDefault("source_dir", d.SourceDir)
	v.SetDefault("cpp_out_dir", d.CppOutDir)
	v.SetDefault("csharp_out_dir", d.CSharpOutDir)
	v.SetDefault("metadata_file", d.MetadataFile)
	v.SetDefault("ignore", d.Ignore)
	v.SetDefault("extensions", d.Extensions)
	v.SetDefault("type_map", []TypeMapping{})
	v.SetDefault("format.clang_format", d.Format.ClangFormat)
	v.SetDefault("format.style", d.Format.Style)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("parser.convert_void_to_zero_params", d.Parser.ConvertVoidToZeroParams)
	v.SetDefault("dry_run", d.DryRun)
}

// Load reads files in order, later files overriding earlier ones, then
// the environment. Without files a hypgen.{yaml,toml,json} in the working
// directory is used when present.
func Load(v *viper.Viper, files []string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if len(files) == 0 {
		v.SetConfigName("hypgen")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	for i, file := range files {
		v.SetConfigFile(file)
		read := v.MergeInConfig
		if i == 0 {
			read = v.ReadInConfig
		}
		if err := read(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	c.Normalize()
	return c, c.Validate()
}

// Normalize cleans paths and drops duplicate list entries
func (c *Config) Normalize() {
	c.SourceDir = cleanPath(c.SourceDir, ".")
	c.CppOutDir = cleanPath(c.CppOutDir, "")
	c.CSharpOutDir = cleanPath(c.CSharpOutDir, c.CppOutDir)
	c.MetadataFile = cleanPath(c.MetadataFile, "")
	if c.MetadataFile == "" && c.CppOutDir != "" {
		c.MetadataFile = filepath.Join(c.CppOutDir, "metadata.json")
	}

	var ignore []string
	for _, entry := range c.Ignore {
		entry = filepath.ToSlash(strings.TrimSpace(entry))
		if entry != "" && !slices.Contains(ignore, entry) {
			ignore = append(ignore, entry)
		}
	}
	c.Ignore = ignore

	var exts []string
	for _, ext := range c.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if !slices.Contains(exts, ext) {
			exts = append(exts, ext)
		}
	}
	c.Extensions = exts
}

// Validate reports settings a run cannot work with
func (c *Config) Validate() error {
	if c.CppOutDir == "" {
		return errors.New("cpp_out_dir is required")
	}
	if c.MetadataFile == "" {
		return errors.New("metadata_file is required")
	}
	if len(c.Extensions) == 0 {
		return errors.New("extensions must not be empty")
	}
	for _, m := range c.TypeMap {
		if strings.TrimSpace(m.Cpp) == "" || strings.TrimSpace(m.Binding) == "" {
			return fmt.Errorf("type_map entry %q -> %q needs both names", m.Cpp, m.Binding)
		}
	}
	return nil
}

// TypeTable returns TypeMap as a lookup table
func (c *Config) TypeTable() map[string]string {
	table := make(map[string]string, len(c.TypeMap))
	for _, m := range c.TypeMap {
		table[strings.TrimSpace(m.Cpp)] = strings.TrimSpace(m.Binding)
	}
	return table
}

func cleanPath(p, fallback string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return fallback
	}
	return filepath.Clean(p)
}

// functional option pattern ---------------------------------------------------

type Option func(*Config)

func WithSourceDir(d string) Option    { return func(c *Config) { c.SourceDir = d } }
func WithCppOutDir(d string) Option    { return func(c *Config) { c.CppOutDir = d } }
func WithCSharpOutDir(d string) Option { return func(c *Config) { c.CSharpOutDir = d } }
func WithMetadataFile(f string) Option { return func(c *Config) { c.MetadataFile = f } }
func WithDryRun() Option               { return func(c *Config) { c.DryRun = true } }
func WithLogLevel(l string) Option     { return func(c *Config) { c.Log.Level = l } }

func WithParserOptions(o parser.Options) Option { return func(c *Config) { c.Parser = o } }

func WithIgnore(paths ...string) Option {
	return func(c *Config) { c.Ignore = append(c.Ignore, paths...) }
}
func WithTypeMapping(cpp, binding string) Option {
	return func(c *Config) { c.TypeMap = append(c.TypeMap, TypeMapping{Cpp: cpp, Binding: binding}) }
}
func WithClangFormat(command, style string) Option {
	return func(c *Config) { c.Format = Format{ClangFormat: command, Style: style} }
}
