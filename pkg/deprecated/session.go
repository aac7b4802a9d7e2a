// Package deprecated keeps the unkeyed context API that predates
// report.Aggregator's open/close keys. It will be removed once no caller
// uses it.
// Please use github.com/musiclib/libsync/pkg/report instead.
package deprecated

import (
	"github.com/musiclib/libsync/pkg/album"
	"github.com/musiclib/libsync/pkg/report"
)

// Session remembers the keys of the scope and leaf it opened so callers can
// switch album and item without holding keys themselves.
//
// Deprecated: Use report.Aggregator with SetScope/UnsetScope and
// SetLeaf/UnsetLeaf instead.
type Session struct {
	agg      *report.Aggregator
	scopeKey string
	leafKey  string
}

// NewSession wraps agg.
//
// Deprecated: Use report.Aggregator directly.
func NewSession(agg *report.Aggregator) *Session {
	return &Session{agg: agg}
}

// PushHeader opens a header from a summary template and a detail message.
//
// Deprecated: Use report.Aggregator.OpenHeader with report.Summary and
// report.Category.
func (s *Session) PushHeader(category, template, msg, countToken string) string {
	opts := []report.HeaderOption{report.Summary(template)}
	if category != "" {
		opts = append(opts, report.Category(category))
	}
	if countToken != "" {
		opts = append(opts, report.CountToken(countToken))
	}
	return s.agg.OpenHeader(msg, opts...)
}

// PopHeader closes the header opened with key.
//
// Deprecated: Use report.Aggregator.CloseHeader.
func (s *Session) PopHeader(key string) {
	s.agg.CloseHeader(key)
}

// SetHeader replaces the innermost header with a new one.
//
// Deprecated: Use report.Aggregator.ReplaceHeader.
func (s *Session) SetHeader(prevKey, msg, template string) string {
	if template == "" {
		return s.agg.ReplaceHeader(prevKey, msg)
	}
	return s.agg.ReplaceHeader(prevKey, msg, report.Summary(template))
}

// SetAlbum switches the open scope to the given album. An empty artist or
// album clears it.
//
// Deprecated: Use report.Aggregator.SetScope with album.Scope.
func (s *Session) SetAlbum(artist, albumName, year string) {
	if s.scopeKey != "" {
		s.agg.UnsetScope(s.scopeKey)
		s.scopeKey = ""
	}
	if artist == "" || albumName == "" {
		return
	}
	s.scopeKey = s.agg.SetScope(album.Scope(artist, albumName, year))
}

// SetItem switches the open leaf to id. An empty id clears it.
//
// Deprecated: Use report.Aggregator.SetLeaf and UnsetLeaf.
func (s *Session) SetItem(id string) {
	if s.leafKey != "" {
		s.agg.UnsetLeaf(s.leafKey)
		s.leafKey = ""
	}
	if id == "" {
		return
	}
	s.leafKey = s.agg.SetLeaf(id)
}

// WriteSummary renders the report.
//
// Deprecated: Use report.Aggregator.Render.
func (s *Session) WriteSummary(mode string, dryRun bool) {
	s.agg.Render(mode, dryRun)
}
