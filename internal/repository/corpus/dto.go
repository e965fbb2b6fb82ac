package corpusrepo

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/korthouse/mediadex/internal/domain/media"
)

// Hash field names of a record stored in Redis.
const (
	fieldPostIndex  = "post_index"
	fieldMediaIndex = "media_index"
	fieldTitle      = "title"
	fieldURI        = "uri"
	fieldIsVideo    = "is_video"
	fieldCreatedAt  = "created_at"
	fieldVector     = "__vector"
)

// parseHashFields converts a flat hash map into a media Record.
func parseHashFields(m map[string]string) (media.Record, error) {
	postIndex, err := strconv.Atoi(m[fieldPostIndex])
	if err != nil {
		return media.Record{}, fmt.Errorf("invalid %s %q", fieldPostIndex, m[fieldPostIndex])
	}
	mediaIndex, err := strconv.Atoi(m[fieldMediaIndex])
	if err != nil {
		return media.Record{}, fmt.Errorf("invalid %s %q", fieldMediaIndex, m[fieldMediaIndex])
	}

	var createdAt time.Time
	if v := m[fieldCreatedAt]; v != "" {
		createdAt, err = time.Parse(time.RFC3339, v)
		if err != nil {
			return media.Record{}, fmt.Errorf("invalid %s %q", fieldCreatedAt, v)
		}
	}

	return media.NewRecord(
		media.Key{PostIndex: postIndex, MediaIndex: mediaIndex},
		m[fieldTitle],
		m[fieldURI],
		m[fieldIsVideo] == "1" || m[fieldIsVideo] == "true",
		createdAt,
		bytesToVector(m[fieldVector]),
	), nil
}

// buildHashFields converts a Record into a flat map[string]string for
// HSET; used by ingestion tooling and tests.
func buildHashFields(rec *media.Record) map[string]string {
	isVideo := "0"
	if rec.IsVideo() {
		isVideo = "1"
	}
	return map[string]string{
		fieldPostIndex:  strconv.Itoa(rec.Key().PostIndex),
		fieldMediaIndex: strconv.Itoa(rec.Key().MediaIndex),
		fieldTitle:      rec.Title(),
		fieldURI:        rec.URI(),
		fieldIsVideo:    isVideo,
		fieldCreatedAt:  rec.CreatedAt().Format(time.RFC3339),
		fieldVector:     vectorToBytes(rec.Embedding()),
	}
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// bytesToVector deserializes a binary string back to []float32.
func bytesToVector(s string) []float32 {
	b := []byte(s)
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
