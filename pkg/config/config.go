// Package config loads build settings and server configuration.
//
// Build settings live in a TOML or YAML file, chosen by extension:
//
//	generate_export_marked_nodes = true
//	build_prototype_flow = true
//	behavior_namespace = "shop"
//
//	[fonts]
//	default = "LiberationSans SDF"
//
//	[[fonts.faces]]
//	family = "Inter"
//	weight = 400
//	handle = "Inter-Regular SDF"
//
// Environment variables in the file are expanded before decoding. The
// server reads its configuration from FIGTREE_* environment variables,
// optionally seeded from .env files.
package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/figtree/pkg/errors"
	"github.com/matzehuels/figtree/pkg/fonts"
)

// Settings control a build.
type Settings struct {
	GenerateExportMarkedNodes bool          `toml:"generate_export_marked_nodes" yaml:"generate_export_marked_nodes"`
	BuildPrototypeFlow        bool          `toml:"build_prototype_flow" yaml:"build_prototype_flow"`
	CenterPivots              bool          `toml:"center_pivots" yaml:"center_pivots"`
	KeepSourceIDs             bool          `toml:"keep_source_ids" yaml:"keep_source_ids"`
	BehaviorNamespace         string        `toml:"behavior_namespace" yaml:"behavior_namespace"`
	Fonts                     FontSettings  `toml:"fonts" yaml:"fonts"`
	Assets                    AssetSettings `toml:"assets" yaml:"assets"`
}

// FontSettings is the font mapping table.
type FontSettings struct {
	Default string        `toml:"default" yaml:"default"`
	Faces   []fonts.Entry `toml:"faces" yaml:"faces"`
}

// AssetSettings locate and limit server-rendered bitmaps.
type AssetSettings struct {
	Dir     string `toml:"dir" yaml:"dir"`
	MaxSize int    `toml:"max_size" yaml:"max_size"`
	OutDir  string `toml:"out_dir" yaml:"out_dir"`
}

// MaxAssetSize is the largest accepted assets.max_size.
const MaxAssetSize = 8192

var namespaceRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// Default returns the settings used without a settings file.
func Default() *Settings {
	return &Settings{
		BuildPrototypeFlow: true,
		Fonts:              FontSettings{Default: fonts.DefaultHandle},
	}
}

// Validate checks the settings. Errors carry errors.ErrCodeInvalidSettings.
func (s *Settings) Validate() error {
	if err := validation.ValidateStruct(s,
		validation.Field(&s.BehaviorNamespace, validation.Match(namespaceRe)),
	); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSettings, err, "invalid settings")
	}
	if err := s.Fonts.Validate(); err != nil {
		return err
	}
	if err := s.Assets.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSettings, err, "assets")
	}
	return nil
}

// Validate checks every font face.
func (f *FontSettings) Validate() error {
	for i := range f.Faces {
		e := &f.Faces[i]
		err := validation.ValidateStruct(e,
			validation.Field(&e.Family, validation.Required),
			validation.Field(&e.Weight, validation.Required, validation.Min(1), validation.Max(1000)),
			validation.Field(&e.Handle, validation.Required),
		)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSettings, err, "fonts.faces[%d]", i)
		}
	}
	return nil
}

// Validate checks the asset limits.
func (a *AssetSettings) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.MaxSize, validation.Min(0), validation.Max(MaxAssetSize)),
		validation.Field(&a.OutDir, validation.When(a.MaxSize > 0, validation.Required)),
	)
}

// FontTable builds the font mapper described by the settings.
func (s *Settings) FontTable() *fonts.Table {
	return fonts.NewTable(s.Fonts.Default, s.Fonts.Faces...)
}

// Format is a settings file format.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported settings file %s (use .toml, .yaml or .yml)", filepath.Base(path))
}

// Load reads, decodes and validates a settings file. Unset fields keep
// their Default values.
func Load(path string) (*Settings, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "settings file %s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSettings, err, "read %s", path)
	}
	return Decode(data, format)
}

// Decode decodes and validates settings.
func Decode(data []byte, format Format) (*Settings, error) {
	s := Default()
	expanded := os.ExpandEnv(string(data))
	var err error
	switch format {
	case FormatTOML:
		_, err = toml.Decode(expanded, s)
	case FormatYAML:
		err = yaml.Unmarshal([]byte(expanded), s)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported settings format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSettings, err, "decode %s settings", format)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
