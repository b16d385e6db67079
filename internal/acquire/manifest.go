package acquire

import (
	"strings"
)

// Manifest is the subset of downloader info JSON the acquirer reads. A
// collection carries its members in Entries; a single item has none.
type Manifest struct {
	Type       string      `json:"_type"`
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	WebpageURL string      `json:"webpage_url"`
	Entries    []*Manifest `json:"entries"`
}

// Entry is one resolved manifest record with fallbacks applied.
type Entry struct {
	ID    string
	Title string
	URL   string
}

// NormalizeEntries flattens a manifest into entries. A present entries list
// (even an empty one) is taken as the collection; otherwise the manifest is
// the single entry. Null members are dropped. ID falls back to "unknown",
// title to the ID, and URL to sourceURL.
func NormalizeEntries(m *Manifest, sourceURL string) []Entry {
	if m == nil {
		return nil
	}
	members := []*Manifest{m}
	if m.Entries != nil {
		members = m.Entries
	}
	entries := make([]Entry, 0, len(members))
	for _, member := range members {
		if member == nil {
			continue
		}
		entries = append(entries, newEntry(member, sourceURL))
	}
	return entries
}

func newEntry(m *Manifest, sourceURL string) Entry {
	id := strings.TrimSpace(m.ID)
	if id == "" {
		id = "unknown"
	}
	title := strings.TrimSpace(m.Title)
	if title == "" {
		title = id
	}
	url := strings.TrimSpace(m.WebpageURL)
	if url == "" {
		url = sourceURL
	}
	return Entry{ID: id, Title: title, URL: url}
}

// IsCollection reports whether the manifest describes more than one item.
func (m *Manifest) IsCollection() bool {
	return m != nil && (m.Entries != nil || m.Type == "playlist" || m.Type == "multi_video")
}

var playlistIndicators = []string{"list=", "/playlist", "/playlists/", "playlist?"}

// LooksLikePlaylist guesses from the URL alone.
func LooksLikePlaylist(url string) bool {
	lower := strings.ToLower(url)
	for _, indicator := range playlistIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}
