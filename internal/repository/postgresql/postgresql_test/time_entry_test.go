package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/audit"
	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/timeentry"
	"github.com/cmlabs-hris/hris-timekeeping/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeEntryRepository_OpenEntryIsUnique(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewTimeEntryRepository(setup.DB)
	ctx := context.Background()

	tenantID, userID := newID(t), newID(t)
	clockIn := time.Now().UTC().Truncate(time.Second)

	created, err := repo.Create(ctx, timeentry.TimeEntry{
		TenantID:       tenantID,
		UserID:         userID,
		ClockIn:        clockIn,
		EntryType:      timeentry.EntryTypeClock,
		ApprovalStatus: approval.StatusApproved,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	_, err = repo.Create(ctx, timeentry.TimeEntry{
		TenantID:       tenantID,
		UserID:         userID,
		ClockIn:        clockIn.Add(time.Minute),
		EntryType:      timeentry.EntryTypeClock,
		ApprovalStatus: approval.StatusApproved,
	})
	assert.ErrorIs(t, err, timeentry.ErrAlreadyClockedIn)

	open, err := repo.GetOpenEntry(ctx, tenantID, userID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, open.ID)

	// other tenants never see the row
	_, err = repo.GetByID(ctx, newID(t), created.ID)
	assert.ErrorIs(t, err, timeentry.ErrTimeEntryNotFound)
}

func TestTimeEntryRepository_UpdateStatusIsConditional(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewTimeEntryRepository(setup.DB)
	ctx := context.Background()

	start := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)
	entry, err := repo.Create(ctx, timeentry.TimeEntry{
		TenantID:       newID(t),
		UserID:         newID(t),
		ClockIn:        start,
		ClockOut:       &end,
		EntryType:      timeentry.EntryTypeManual,
		ApprovalStatus: approval.StatusPending,
	})
	require.NoError(t, err)

	approver := newID(t)
	now := time.Now().UTC()
	entry.ApprovalStatus = approval.StatusApproved
	entry.ApprovedBy = &approver
	entry.ApprovedAt = &now
	require.NoError(t, repo.UpdateStatus(ctx, entry, approval.StatusPending))

	// second writer still believes the entry is pending
	entry.ApprovalStatus = approval.StatusRejected
	err = repo.UpdateStatus(ctx, entry, approval.StatusPending)
	assert.ErrorIs(t, err, approval.ErrStatusChanged)

	got, err := repo.GetByID(ctx, entry.TenantID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, approval.StatusApproved, got.ApprovalStatus)

	inRange, err := repo.ListInRange(ctx, entry.TenantID, entry.UserID, start.Add(-time.Hour), end, approval.StatusApproved)
	require.NoError(t, err)
	assert.Len(t, inRange, 1)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewTimeEntryRepository(setup.DB)
	auditRepo := postgresql.NewAuditRepository(setup.DB)
	tx := postgresql.NewTransactor(setup.DB)
	ctx := context.Background()

	tenantID, userID := newID(t), newID(t)
	boom := errors.New("boom")

	err := tx.WithinTx(ctx, func(ctx context.Context) error {
		entry, err := repo.Create(ctx, timeentry.TimeEntry{
			TenantID:       tenantID,
			UserID:         userID,
			ClockIn:        time.Now().UTC(),
			EntryType:      timeentry.EntryTypeClock,
			ApprovalStatus: approval.StatusApproved,
		})
		require.NoError(t, err)

		changes := audit.Changes{TenantID: tenantID, EntityType: audit.EntityTimeEntry, EntityID: entry.ID, ChangedBy: userID}
		changes.Set("approval_status", "", string(approval.StatusApproved))
		require.NoError(t, auditRepo.Append(ctx, changes.Records()...))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.GetOpenEntry(ctx, tenantID, userID)
	assert.ErrorIs(t, err, timeentry.ErrTimeEntryNotFound)
}

func TestAuditRepository_AppendAndList(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewAuditRepository(setup.DB)
	ctx := context.Background()

	tenantID, entityID, actor := newID(t), newID(t), newID(t)
	changes := audit.Changes{
		TenantID:   tenantID,
		EntityType: audit.EntityTimeEntry,
		EntityID:   entityID,
		ChangedBy:  actor,
		Reason:     "typo",
	}
	changes.Set("break_minutes", "30", "45")
	changes.Set("notes", "a", "b")
	require.NoError(t, repo.Append(ctx, changes.Records()...))

	records, err := repo.ListByEntity(ctx, tenantID, audit.EntityTimeEntry, entityID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "break_minutes", records[0].FieldName)
	assert.Equal(t, "45", *records[0].NewValue)
	assert.Equal(t, "typo", *records[0].Reason)
}
