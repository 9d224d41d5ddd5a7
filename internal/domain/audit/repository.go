package audit

import "context"

type Repository interface {
	// Append inserts records in order. Ids and timestamps are assigned when empty.
	Append(ctx context.Context, records ...Record) error
	ListByEntity(ctx context.Context, tenantID string, entityType EntityType, entityID string) ([]Record, error)
}
