package config

// Config is the effective libsync configuration.
type Config struct {
	Library Library `koanf:"library" toml:"library"`
	Report  Report  `koanf:"report" toml:"report"`
	Logging Logging `koanf:"logging" toml:"logging"`
	Output  Output  `koanf:"output" toml:"output"`
}

// Library describes the music library being scanned.
type Library struct {
	Root               string   `koanf:"root" toml:"root"`
	AudioExtensions    []string `koanf:"audio_extensions" toml:"audio_extensions"`
	PreferredExtension string   `koanf:"preferred_extension" toml:"preferred_extension"`
	JunkFiles          []string `koanf:"junk_files" toml:"junk_files"`
	CoverNames         []string `koanf:"cover_names" toml:"cover_names"`
}

// Report configures the persisted run report.
type Report struct {
	File  string `koanf:"file" toml:"file"`
	Title string `koanf:"title" toml:"title"`
}

// Logging configures the detail stream and diagnostics.
type Logging struct {
	DetailFile string `koanf:"detail_file" toml:"detail_file"`
	Verbosity  int    `koanf:"verbosity" toml:"verbosity"`
}

// Output configures the console rendering.
type Output struct {
	Format     string `koanf:"format" toml:"format"`
	StylesFile string `koanf:"styles_file" toml:"styles_file"`
}

// IsAudio reports whether ext, with its leading dot, is a configured audio
// extension. The comparison ignores case.
func (l Library) IsAudio(ext string) bool {
	ext = normalizeExt(ext)
	for _, e := range l.AudioExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// IsJunk reports whether name is a configured junk file name.
func (l Library) IsJunk(name string) bool {
	for _, j := range l.JunkFiles {
		if j == name {
			return true
		}
	}
	return false
}
