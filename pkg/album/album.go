// Package album derives the scope labels under which album work is reported.
//
// Labels are built either from tags ("Artist - Album (Year)") or from the
// album's folder below the library root, so the same album gets the same
// label whichever way it was found.
package album

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/musiclib/libsync/pkg/report"
)

var (
	discFolder   = regexp.MustCompile(`(?i)^(cd|disc|disk)\s*\d+$`)
	yearedFolder = regexp.MustCompile(`^\((\d{4})\)\s*(.+)$`)
)

// Info identifies an album.
type Info struct {
	Artist string
	Album  string
	Year   string
}

// Label returns "Artist - Album (Year)", or "Artist - Album" without a year.
func Label(artist, album, year string) string {
	return Info{Artist: artist, Album: album, Year: year}.Label()
}

// Label returns the display label of i.
func (i Info) Label() string {
	if i.Year != "" {
		return i.Artist + " - " + i.Album + " (" + i.Year + ")"
	}
	return i.Artist + " - " + i.Album
}

// Vars returns the placeholder values of i.
func (i Info) Vars() map[string]string {
	return map[string]string{
		"artist": i.Artist,
		"album":  i.Album,
		"year":   i.Year,
	}
}

// Scope returns the report scope of i.
func (i Info) Scope() report.Scope {
	return report.Scope{Label: i.Label(), Vars: i.Vars()}
}

// Scope returns the report scope for an album known by its tags.
func Scope(artist, album, year string) report.Scope {
	return Info{Artist: artist, Album: album, Year: year}.Scope()
}

// IsDiscFolder reports whether name is a per-disc folder such as "CD2".
func IsDiscFolder(name string) bool {
	return discFolder.MatchString(name)
}

// AlbumDir returns the album folder dir belongs to, collapsing a trailing
// disc folder.
func AlbumDir(dir string) string {
	if IsDiscFolder(filepath.Base(dir)) {
		return filepath.Dir(dir)
	}
	return dir
}

// FromDir parses an album folder laid out as root/Artist/Album. The second
// return value is false when dir is not below root or has no artist folder.
func FromDir(root, dir string) (Info, bool) {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return Info{}, false
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) >= 2 && IsDiscFolder(parts[len(parts)-1]) {
		parts = parts[:len(parts)-1]
	}
	if len(parts) < 2 {
		return Info{}, false
	}

	info := Info{Artist: parts[0], Album: parts[1]}
	if m := yearedFolder.FindStringSubmatch(parts[1]); m != nil {
		info.Year = m[1]
		info.Album = strings.TrimSpace(m[2])
	}
	return info, true
}

// LabelFromDir returns the label of the album folder dir. Folders that do not
// follow the Artist/Album layout fall back to their path.
func LabelFromDir(root, dir string) string {
	if info, ok := FromDir(root, dir); ok {
		return info.Label()
	}
	rel, err := filepath.Rel(root, dir)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(dir)
	}
	return filepath.ToSlash(rel)
}

// ScopeFromDir returns the report scope of the album folder dir.
func ScopeFromDir(root, dir string) report.Scope {
	if info, ok := FromDir(root, dir); ok {
		return info.Scope()
	}
	return report.Scope{Label: LabelFromDir(root, dir)}
}
