package media

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Key is the composite identifier of one indexed media item.
// PostIndex alone is not unique (a post can carry several media items);
// the pair is.
type Key struct {
	PostIndex  int
	MediaIndex int
}

// String renders the key in "post:media" form, used for map keys and
// pagination cursors.
func (k Key) String() string {
	return fmt.Sprintf("%d:%d", k.PostIndex, k.MediaIndex)
}

// ParseKey parses the "post:media" form produced by Key.String.
func ParseKey(s string) (Key, error) {
	post, mediaIdx, ok := strings.Cut(s, ":")
	if !ok {
		return Key{}, fmt.Errorf("invalid media key %q", s)
	}
	p, err := strconv.Atoi(post)
	if err != nil {
		return Key{}, fmt.Errorf("invalid media key %q", s)
	}
	m, err := strconv.Atoi(mediaIdx)
	if err != nil {
		return Key{}, fmt.Errorf("invalid media key %q", s)
	}
	return Key{PostIndex: p, MediaIndex: m}, nil
}

// Record is one indexed media item (immutable value object).
// Title is the only field used by ranking; URI, IsVideo and CreatedAt
// are display fields passed through untouched.
type Record struct {
	key       Key
	title     string
	uri       string
	isVideo   bool
	createdAt time.Time
	embedding []float32
}

// NewRecord creates a Record. Title may be empty here; whether an
// untitled record is indexable is the corpus store's decision.
func NewRecord(
	key Key, title, uri string, isVideo bool,
	createdAt time.Time, embedding []float32,
) Record {
	return Record{
		key:       key,
		title:     title,
		uri:       uri,
		isVideo:   isVideo,
		createdAt: createdAt,
		embedding: embedding,
	}
}

// Key returns the composite identifier.
func (r *Record) Key() Key { return r.key }

// Title returns the display title (the only ranked field).
func (r *Record) Title() string { return r.title }

// URI returns the media location.
func (r *Record) URI() string { return r.uri }

// IsVideo reports whether the media item is a video.
func (r *Record) IsVideo() bool { return r.isVideo }

// CreatedAt returns the item creation time.
func (r *Record) CreatedAt() time.Time { return r.createdAt }

// Embedding returns the precomputed embedding vector.
func (r *Record) Embedding() []float32 { return r.embedding }
