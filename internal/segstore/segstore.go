// Package segstore keeps computed segment sets between a diff and the merge
// that applies a selection from it. Segment ids are only meaningful within
// the diff that produced them, so a merge must use the stored set rather
// than a fresh diff.
package segstore

import (
	"context"
	"encoding/hex"
	"errors"
	"time"

	"chronicle/redline/internal/semdiff"

	"golang.org/x/crypto/blake2b"
)

// ErrNotFound indicates the segment set is missing or expired.
var ErrNotFound = errors.New("segment set not found or expired")

// DefaultTTL applies when Save is called with a non-positive ttl.
const DefaultTTL = 24 * time.Hour

// SegmentSet is one stored diff result.
type SegmentSet struct {
	ID         string            `json:"id"`
	DocumentID string            `json:"document_id"`
	From       string            `json:"from"`
	To         string            `json:"to"`
	Backend    string            `json:"backend"`
	Segments   []semdiff.Segment `json:"segments"`
	CreatedAt  time.Time         `json:"created_at"`
}

// Store is implemented by RedisStore, FileStore and MemoryStore.
type Store interface {
	Save(ctx context.Context, set SegmentSet, ttl time.Duration) error
	Load(ctx context.Context, id string) (SegmentSet, error)
	Delete(ctx context.Context, id string) error
}

// DiffID derives a content-addressed id for a diff. The same inputs always
// give the same id, so recomputing a diff overwrites the same entry.
func DiffID(parts ...[]byte) string {
	h, _ := blake2b.New256(nil)
	for _, part := range parts {
		_, _ = h.Write(part)
		_, _ = h.Write([]byte{0})
	}
	return "dif_" + hex.EncodeToString(h.Sum(nil))[:24]
}
