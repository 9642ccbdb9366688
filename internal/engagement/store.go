package engagement

import (
	"context"

	"toolscout/internal/models"
)

// MetadataStore is the remote system of record for per-user engagement
// id-sets. Writes replace the full sets; the reconciler always sends a set
// computed from its live mirror, never a stale snapshot.
type MetadataStore interface {
	ReadEngagement(ctx context.Context, userID string) (models.EngagementSets, error)
	WriteEngagement(ctx context.Context, userID string, sets models.EngagementSets) error
}
