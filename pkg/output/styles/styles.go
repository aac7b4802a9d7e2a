// Package styles defines the visual styling of the console run report.
//
// Styles use semantic names and adaptive colors that adjust to light and dark
// terminal themes. The defaults are embedded from styles.yaml; a user file
// with the same shape can replace them.
package styles

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/musiclib/libsync/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Semantic style names used by the report renderer.
const (
	Title   = "ReportTitle"
	Scope   = "ReportScope"
	Warning = "ReportWarning"
	Error   = "ReportError"
	Muted   = "ReportMuted"
)

//go:embed styles.yaml
var defaultStyles []byte

// ColorDef represents an adaptive color definition in YAML
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef represents a style definition in YAML
type StyleDef struct {
	Bold        bool   `yaml:"bold,omitempty"`
	Italic      bool   `yaml:"italic,omitempty"`
	Underline   bool   `yaml:"underline,omitempty"`
	Foreground  string `yaml:"foreground,omitempty"`
	Background  string `yaml:"background,omitempty"`
	PaddingLeft int    `yaml:"paddingLeft,omitempty"`
}

// Config represents the complete styles configuration
type Config struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

// Default returns the embedded style configuration.
func Default() *Config {
	cfg, err := Parse(defaultStyles)
	if err != nil {
		panic(fmt.Sprintf("embedded styles.yaml is invalid: %v", err))
	}
	return cfg
}

// Load reads a style configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStylesLoad, "failed to read styles file %s", path)
	}
	return Parse(data)
}

// Parse decodes a YAML style configuration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrStylesLoad, "failed to parse styles.yaml")
	}
	return &cfg, nil
}

// Registry maps semantic names to lipgloss styles bound to one renderer.
type Registry struct {
	renderer *lipgloss.Renderer
	styles   map[string]lipgloss.Style
}

// Build binds every style in cfg to r. A nil renderer uses lipgloss's
// default renderer.
func (c *Config) Build(r *lipgloss.Renderer) Registry {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(c.Colors))
	for name, def := range c.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	reg := Registry{renderer: r, styles: make(map[string]lipgloss.Style, len(c.Styles))}
	for name, def := range c.Styles {
		reg.styles[name] = buildStyle(r, def, colors)
	}
	return reg
}

// buildStyle constructs a lipgloss style from a style definition
func buildStyle(r *lipgloss.Renderer, def StyleDef, colors map[string]lipgloss.AdaptiveColor) lipgloss.Style {
	style := r.NewStyle()

	if def.Bold {
		style = style.Bold(true)
	}
	if def.Italic {
		style = style.Italic(true)
	}
	if def.Underline {
		style = style.Underline(true)
	}

	if def.Foreground != "" {
		if color, ok := colors[def.Foreground]; ok {
			style = style.Foreground(color)
		}
	}
	if def.Background != "" {
		if color, ok := colors[def.Background]; ok {
			style = style.Background(color)
		}
	}

	if def.PaddingLeft > 0 {
		style = style.PaddingLeft(def.PaddingLeft)
	}

	return style
}

// Get safely retrieves a style from the registry. Unknown names yield an
// unstyled style.
func (reg Registry) Get(name string) lipgloss.Style {
	if style, ok := reg.styles[name]; ok {
		return style
	}
	if reg.renderer != nil {
		return reg.renderer.NewStyle()
	}
	return lipgloss.NewStyle()
}

// Has reports whether name is defined.
func (reg Registry) Has(name string) bool {
	_, ok := reg.styles[name]
	return ok
}

// IsZero reports whether reg was never built.
func (reg Registry) IsZero() bool {
	return reg.styles == nil
}
