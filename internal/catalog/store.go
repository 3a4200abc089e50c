package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hexturmite/internal/hexrule"
)

// Entry is one compiled rule recorded in the catalog.
type Entry struct {
	ID        string
	Name      string
	Digest    string
	Spec      string
	States    int
	Colors    int
	Alphabet  int
	Rules     int
	Note      string
	CreatedAt time.Time
}

// NewEntry describes a compiled rule. The ID is a fresh UUID; stores keep
// the existing ID when an entry with the same digest is saved again.
func NewEntry(c *hexrule.Compiled, note string) Entry {
	return Entry{
		ID:        uuid.NewString(),
		Name:      c.Name,
		Digest:    c.Digest,
		Spec:      c.Spec.String(),
		States:    c.Spec.States(),
		Colors:    c.Spec.Colors(),
		Alphabet:  c.Alphabet(),
		Rules:     len(c.Rules),
		Note:      note,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

// Store persists catalog entries keyed by spec digest.
type Store interface {
	Init(ctx context.Context) error
	Save(ctx context.Context, e Entry) (Entry, error)
	Get(ctx context.Context, id string) (Entry, bool, error)
	GetByDigest(ctx context.Context, digest string) (Entry, bool, error)
	List(ctx context.Context) ([]Entry, error)
}

// CloseIfSupported closes stores that hold resources.
func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
