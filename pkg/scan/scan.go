// Package scan takes a read-only inventory of a music library and reports
// it through a report.Aggregator. Nothing on disk is changed.
package scan

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/musiclib/libsync/pkg/album"
	"github.com/musiclib/libsync/pkg/config"
	"github.com/musiclib/libsync/pkg/errors"
	"github.com/musiclib/libsync/pkg/logging"
	"github.com/musiclib/libsync/pkg/report"
	"github.com/rs/zerolog"
)

// RootLabel is the scope label of audio files lying directly in the
// library root.
const RootLabel = "Library root"

// Result summarises a scan.
type Result struct {
	Albums        int
	Tracks        int
	MissingCovers int
}

type albumEntry struct {
	dir    string
	tracks []string
	junk   []string
	files  map[string]bool
}

// Scanner walks one library.
type Scanner struct {
	agg *report.Aggregator
	lib config.Library
	log zerolog.Logger
}

// New returns a scanner reporting to agg.
func New(agg *report.Aggregator, lib config.Library) *Scanner {
	return &Scanner{agg: agg, lib: lib, log: logging.GetLogger("scan")}
}

// Run scans the library. Unreadable entries are reported as errors and
// skipped; only a missing root or a cancelled context stops the scan.
func (s *Scanner) Run(ctx context.Context) (*Result, error) {
	done := logging.LogOperationStart(s.log, "scan")
	defer done()

	albums, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}

	res := &Result{Albums: len(albums)}
	step := s.agg.OpenHeader("Step 1: Inventory library", report.Summary("%msg% (%count% tracks)"))
	for _, al := range albums {
		s.inScope(al, func() {
			for _, track := range al.tracks {
				res.Tracks++
				s.inventoryTrack(track)
			}
			for _, junk := range al.junk {
				s.withLeaf(junk, func() {
					s.agg.Verbose("SKIP junk file %item%")
				})
			}
		})
	}

	step = s.agg.ReplaceHeader(step, "Step 2: Check artwork",
		report.Summary("%msg% (%count% albums without cover)"))
	for _, al := range albums {
		if s.hasCover(al) {
			continue
		}
		res.MissingCovers++
		s.inScope(al, func() {
			s.withLeaf(s.rel(al.dir), func() {
				s.agg.Warn("No cover image for %item%")
			})
		})
	}

	step = s.agg.ReplaceHeader(step, "Step 3: Report", report.AlwaysShow())
	s.agg.Info("Scanned {albums} albums, {tracks} tracks, {missing} without cover",
		report.With("albums", strconv.Itoa(res.Albums)),
		report.With("tracks", strconv.Itoa(res.Tracks)),
		report.With("missing", strconv.Itoa(res.MissingCovers)))
	s.agg.CloseHeader(step)

	s.log.Info().Int("albums", res.Albums).Int("tracks", res.Tracks).Msg("scan finished")
	return res, nil
}

func (s *Scanner) inventoryTrack(track string) {
	s.withLeaf(track, func() {
		s.agg.Info("FOUND %item%")
		ext := strings.ToLower(filepath.Ext(track))
		if pref := s.lib.PreferredExtension; pref != "" && ext != pref {
			s.agg.Warn("%item% is {ext}, not {preferred}",
				report.With("ext", ext), report.With("preferred", pref))
		}
	})
}

func (s *Scanner) inScope(al *albumEntry, fn func()) {
	key := s.agg.SetScope(s.scopeOf(al))
	defer s.agg.UnsetScope(key)
	fn()
}

func (s *Scanner) withLeaf(id string, fn func()) {
	key := s.agg.SetLeaf(id)
	defer s.agg.UnsetLeaf(key)
	fn()
}

func (s *Scanner) scopeOf(al *albumEntry) report.Scope {
	if filepath.Clean(al.dir) == filepath.Clean(s.lib.Root) {
		return report.Scope{Label: RootLabel}
	}
	return album.ScopeFromDir(s.lib.Root, al.dir)
}

func (s *Scanner) hasCover(al *albumEntry) bool {
	for _, name := range s.lib.CoverNames {
		if al.files[strings.ToLower(name)] {
			return true
		}
	}
	return false
}

func (s *Scanner) rel(path string) string {
	rel, err := filepath.Rel(s.lib.Root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// collect walks the library and groups files by album folder, sorted by
// folder path.
func (s *Scanner) collect(ctx context.Context) ([]*albumEntry, error) {
	root := s.lib.Root
	byDir := make(map[string]*albumEntry)
	entry := func(dir string) *albumEntry {
		dir = album.AlbumDir(dir)
		al, ok := byDir[dir]
		if !ok {
			al = &albumEntry{dir: dir, files: make(map[string]bool)}
			byDir[dir] = al
		}
		return al
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return err
			}
			s.agg.Error("Cannot read {path}: {err}", report.InScope(""),
				report.With("path", s.rel(path)), report.With("err", err.Error()))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		name := d.Name()
		dir := filepath.Dir(path)
		switch {
		case s.lib.IsAudio(filepath.Ext(name)):
			al := entry(dir)
			al.tracks = append(al.tracks, s.rel(path))
		case s.lib.IsJunk(name):
			al := entry(dir)
			al.junk = append(al.junk, s.rel(path))
		default:
			entry(dir).files[strings.ToLower(name)] = true
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(err, errors.ErrScanWalk, "scan cancelled")
		}
		return nil, errors.Wrapf(err, errors.ErrScanWalk, "failed to scan library %s", root).
			WithDetail("root", root)
	}

	albums := make([]*albumEntry, 0, len(byDir))
	for _, al := range byDir {
		if len(al.tracks) == 0 {
			s.log.Trace().Str("dir", al.dir).Msg("no audio files, skipped")
			continue
		}
		sort.Strings(al.tracks)
		sort.Strings(al.junk)
		albums = append(albums, al)
	}
	sort.Slice(albums, func(i, j int) bool { return albums[i].dir < albums[j].dir })
	return albums, nil
}
