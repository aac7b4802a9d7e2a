package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/musiclib/libsync/pkg/errors"
	"github.com/musiclib/libsync/pkg/logging"
	"github.com/musiclib/libsync/pkg/paths"
	"github.com/musiclib/libsync/pkg/ui"
)

// EnvPrefix prefixes environment overrides. A double underscore separates
// the section from the key, as in LIBSYNC_LIBRARY__ROOT.
const EnvPrefix = "LIBSYNC_"

//go:embed embedded/defaults.toml
var defaultConfig []byte

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// LoadOptions selects the sources Load reads besides the defaults.
type LoadOptions struct {
	// File is an explicit config file. It must exist.
	File string
	// Overrides are dotted keys applied last, typically from flags.
	Overrides map[string]interface{}
}

// DefaultsContent returns the embedded default configuration.
func DefaultsContent() string {
	return string(defaultConfig)
}

// Load builds the effective configuration.
func Load(opts LoadOptions) (*Config, error) {
	log := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User config file
	path, required := configPath(opts.File)
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path).
				WithDetail("path", path)
		}
		log.Debug().Str("path", path).Msg("loaded config file")
	} else if required {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not found", path).
			WithDetail("path", path)
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	// 4. Overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	// 5. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	// 6. Post-process and validate
	postProcessConfig(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// configPath returns the user config file to read and whether it has to
// exist.
func configPath(explicit string) (string, bool) {
	if explicit != "" {
		return paths.ExpandHome(explicit), true
	}
	return paths.ConfigFile(), os.Getenv(paths.EnvConfigFile) != ""
}

// envKey maps LIBSYNC_SECTION__KEY to section.key. Variables without a
// section, such as LIBSYNC_STATE_DIR, are skipped.
func envKey(s string) string {
	name := strings.TrimPrefix(s, EnvPrefix)
	if !strings.Contains(name, "__") {
		return ""
	}
	return strings.ToLower(strings.ReplaceAll(name, "__", "."))
}

func postProcessConfig(cfg *Config) {
	cfg.Library.Root = paths.ExpandHome(strings.TrimSpace(cfg.Library.Root))
	for i, ext := range cfg.Library.AudioExtensions {
		cfg.Library.AudioExtensions[i] = normalizeExt(ext)
	}
	if cfg.Library.PreferredExtension != "" {
		cfg.Library.PreferredExtension = normalizeExt(cfg.Library.PreferredExtension)
	}

	if cfg.Report.File == "" {
		cfg.Report.File = paths.ReportFile()
	}
	cfg.Report.File = paths.ExpandHome(cfg.Report.File)
	if cfg.Logging.DetailFile == "" {
		cfg.Logging.DetailFile = paths.DetailLogFile()
	}
	cfg.Logging.DetailFile = paths.ExpandHome(cfg.Logging.DetailFile)
	cfg.Output.StylesFile = paths.ExpandHome(cfg.Output.StylesFile)
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Validate checks cfg for values libsync cannot work with.
func (c *Config) Validate() error {
	if c.Library.Root == "" {
		return errors.New(errors.ErrConfigValid, "library.root must be set")
	}
	if len(c.Library.AudioExtensions) == 0 {
		return errors.New(errors.ErrConfigValid, "library.audio_extensions must not be empty")
	}
	if ext := c.Library.PreferredExtension; ext != "" && !c.Library.IsAudio(ext) {
		return errors.Newf(errors.ErrConfigValid,
			"library.preferred_extension %s is not one of library.audio_extensions", ext).
			WithDetail("preferred_extension", ext)
	}
	if _, err := ui.ParseFormat(c.Output.Format); err != nil {
		return errors.Wrapf(err, errors.ErrConfigValid, "invalid output.format %q", c.Output.Format)
	}
	if c.Logging.Verbosity < 0 {
		return errors.Newf(errors.ErrConfigValid, "logging.verbosity must not be negative, got %d", c.Logging.Verbosity)
	}
	return nil
}
