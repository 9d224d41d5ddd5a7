package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/audit"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/google/uuid"
)

type auditRepositoryImpl struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) audit.Repository {
	return &auditRepositoryImpl{db: db}
}

// Append implements audit.Repository.
func (r *auditRepositoryImpl) Append(ctx context.Context, records ...audit.Record) error {
	if len(records) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	const cols = 10
	values := make([]string, 0, len(records))
	args := make([]interface{}, 0, len(records)*cols)
	now := time.Now().UTC()

	for i, rec := range records {
		if rec.FieldName == "" {
			return audit.ErrEmptyFieldName
		}
		if rec.TenantID == "" || rec.EntityID == "" {
			return audit.ErrMissingEntity
		}
		if rec.ID == "" {
			id, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("generate id: %w", err)
			}
			rec.ID = id.String()
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}

		placeholders := make([]string, cols)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", i*cols+j+1)
		}
		values = append(values, "("+strings.Join(placeholders, ", ")+")")
		args = append(args,
			rec.ID, rec.TenantID, rec.EntityType, rec.EntityID, rec.ChangedBy,
			rec.FieldName, rec.OldValue, rec.NewValue, rec.Reason, rec.CreatedAt,
		)
	}

	query := `
		INSERT INTO audit_records (
			id, tenant_id, entity_type, entity_id, changed_by,
			field_name, old_value, new_value, reason, created_at
		) VALUES ` + strings.Join(values, ", ")

	_, err := q.Exec(ctx, query, args...)
	return err
}

// ListByEntity implements audit.Repository.
func (r *auditRepositoryImpl) ListByEntity(ctx context.Context, tenantID string, entityType audit.EntityType, entityID string) ([]audit.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, entity_type, entity_id, changed_by,
			   field_name, old_value, new_value, reason, created_at
		FROM audit_records
		WHERE tenant_id = $1 AND entity_type = $2 AND entity_id = $3
		ORDER BY created_at, id
	`

	rows, err := q.Query(ctx, query, tenantID, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]audit.Record, 0)
	for rows.Next() {
		var rec audit.Record
		if err := rows.Scan(
			&rec.ID, &rec.TenantID, &rec.EntityType, &rec.EntityID, &rec.ChangedBy,
			&rec.FieldName, &rec.OldValue, &rec.NewValue, &rec.Reason, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
