package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"timeline-service/internal/model"
	"timeline-service/internal/service/timeline"
)

const milestoneColumns = `id, timeline_id, title, description, sort_order, duration_days,
       start_date, end_date, completion_date, status, created_at, updated_at, deleted_at`

// MilestoneRepository is the pgx-backed timeline.Store. Mutations run inside
// InTx; the row locks taken by the FOR UPDATE reads serialize concurrent
// mutations of the same timeline, so no other writer ever observes a
// half-shifted ordinal set or a half-cascaded date chain.
type MilestoneRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewMilestoneRepository(db *pgxpool.Pool, logger *zap.Logger) *MilestoneRepository {
	return &MilestoneRepository{
		db:     db,
		logger: logger,
	}
}

// InTx runs fn inside one transaction. Any error from fn rolls the whole
// transaction back.
func (r *MilestoneRepository) InTx(ctx context.Context, fn func(tx timeline.Tx) error) error {
	pgtx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer pgtx.Rollback(ctx) // no-op after a successful commit

	if err := fn(&milestoneTx{tx: pgtx, logger: r.logger}); err != nil {
		return err
	}
	if err := pgtx.Commit(ctx); err != nil {
		r.logger.Error("Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *MilestoneRepository) GetTimeline(ctx context.Context, timelineID int) (*model.Timeline, error) {
	query := `
        SELECT id, title, start_date, status, created_at, updated_at
        FROM timelines
        WHERE id = $1
    `
	var tl model.Timeline
	err := r.db.QueryRow(ctx, query, timelineID).Scan(
		&tl.ID,
		&tl.Title,
		&tl.StartDate,
		&tl.Status,
		&tl.CreatedAt,
		&tl.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get timeline", zap.Int("timeline_id", timelineID), zap.Error(err))
		return nil, err
	}
	return &tl, nil
}

func (r *MilestoneRepository) ListMilestones(ctx context.Context, timelineID int) ([]*model.Milestone, error) {
	r.logger.Debug("Listing milestones", zap.Int("timeline_id", timelineID))
	query := `
        SELECT ` + milestoneColumns + `
        FROM milestones
        WHERE timeline_id = $1 AND deleted_at IS NULL
        ORDER BY sort_order ASC
    `
	rows, err := r.db.Query(ctx, query, timelineID)
	if err != nil {
		r.logger.Error("Failed to query milestones",
			zap.Int("timeline_id", timelineID),
			zap.Error(err),
		)
		return nil, err
	}
	defer rows.Close()
	return scanMilestones(rows)
}

// milestoneTx provides the row operations of one open transaction.
type milestoneTx struct {
	tx     pgx.Tx
	logger *zap.Logger
}

func (t *milestoneTx) GetTimeline(ctx context.Context, timelineID int) (*model.Timeline, error) {
	// The timeline row is locked so concurrent tail-appends against the same
	// timeline serialize even when the milestone table is empty.
	query := `
        SELECT id, title, start_date, status, created_at, updated_at
        FROM timelines
        WHERE id = $1
        FOR UPDATE
    `
	var tl model.Timeline
	err := t.tx.QueryRow(ctx, query, timelineID).Scan(
		&tl.ID,
		&tl.Title,
		&tl.StartDate,
		&tl.Status,
		&tl.CreatedAt,
		&tl.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		t.logger.Error("Failed to get timeline", zap.Int("timeline_id", timelineID), zap.Error(err))
		return nil, err
	}
	return &tl, nil
}

func (t *milestoneTx) GetMilestone(ctx context.Context, timelineID, id int) (*model.Milestone, error) {
	query := `
        SELECT ` + milestoneColumns + `
        FROM milestones
        WHERE timeline_id = $1 AND id = $2 AND deleted_at IS NULL
        FOR UPDATE
    `
	return t.queryOne(ctx, query, timelineID, id)
}

func (t *milestoneTx) GetMilestoneByOrder(ctx context.Context, timelineID, order int) (*model.Milestone, error) {
	query := `
        SELECT ` + milestoneColumns + `
        FROM milestones
        WHERE timeline_id = $1 AND sort_order = $2 AND deleted_at IS NULL
        FOR UPDATE
    `
	return t.queryOne(ctx, query, timelineID, order)
}

func (t *milestoneTx) LastMilestone(ctx context.Context, timelineID int) (*model.Milestone, error) {
	query := `
        SELECT ` + milestoneColumns + `
        FROM milestones
        WHERE timeline_id = $1 AND deleted_at IS NULL
        ORDER BY sort_order DESC
        LIMIT 1
        FOR UPDATE
    `
	return t.queryOne(ctx, query, timelineID)
}

func (t *milestoneTx) ListAfterOrder(ctx context.Context, timelineID, order int) ([]*model.Milestone, error) {
	query := `
        SELECT ` + milestoneColumns + `
        FROM milestones
        WHERE timeline_id = $1 AND sort_order > $2 AND deleted_at IS NULL
        ORDER BY sort_order ASC
        FOR UPDATE
    `
	rows, err := t.tx.Query(ctx, query, timelineID, order)
	if err != nil {
		t.logger.Error("Failed to query milestone suffix",
			zap.Int("timeline_id", timelineID),
			zap.Int("after_order", order),
			zap.Error(err),
		)
		return nil, err
	}
	defer rows.Close()
	return scanMilestones(rows)
}

func (t *milestoneTx) OrderInUse(ctx context.Context, timelineID, order, excludeID int) (bool, error) {
	query := `
        SELECT count(*)
        FROM milestones
        WHERE timeline_id = $1 AND sort_order = $2 AND id <> $3 AND deleted_at IS NULL
    `
	var count int
	if err := t.tx.QueryRow(ctx, query, timelineID, order, excludeID).Scan(&count); err != nil {
		t.logger.Error("Failed to check ordinal occupancy",
			zap.Int("timeline_id", timelineID),
			zap.Int("sort_order", order),
			zap.Error(err),
		)
		return false, err
	}
	return count > 0, nil
}

func (t *milestoneTx) InsertMilestone(ctx context.Context, m *model.Milestone) (int, error) {
	t.logger.Debug("Inserting milestone",
		zap.Int("timeline_id", m.TimelineID),
		zap.String("title", m.Title),
		zap.Int("sort_order", m.SortOrder),
	)
	query := `
        INSERT INTO milestones (timeline_id, title, description, sort_order, duration_days,
                                start_date, end_date, completion_date, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id
    `
	var id int
	err := t.tx.QueryRow(ctx, query,
		m.TimelineID,
		m.Title,
		m.Description,
		m.SortOrder,
		m.DurationDays,
		m.StartDate,
		m.EndDate,
		m.CompletionDate,
		m.Status,
		m.CreatedAt,
		m.UpdatedAt,
	).Scan(&id)
	if err != nil {
		t.logger.Error("Failed to insert milestone",
			zap.Int("timeline_id", m.TimelineID),
			zap.Error(err),
		)
		return 0, err
	}
	return id, nil
}

// UpdateMilestone persists the merged field changes of the targeted row.
// start_date stays untouched on this path: a milestone's own start is owned
// by its predecessor's schedule, never by the caller.
func (t *milestoneTx) UpdateMilestone(ctx context.Context, m *model.Milestone) error {
	query := `
        UPDATE milestones
        SET title = $2, description = $3, sort_order = $4, duration_days = $5,
            end_date = $6, completion_date = $7, status = $8, updated_at = $9
        WHERE id = $1
    `
	_, err := t.tx.Exec(ctx, query,
		m.ID,
		m.Title,
		m.Description,
		m.SortOrder,
		m.DurationDays,
		m.EndDate,
		m.CompletionDate,
		m.Status,
		m.UpdatedAt,
	)
	if err != nil {
		t.logger.Error("Failed to update milestone",
			zap.Int("milestone_id", m.ID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// ShiftOrders moves every non-deleted sibling with an ordinal in [lo, hi] by
// delta, excluding excludeID.
func (t *milestoneTx) ShiftOrders(ctx context.Context, timelineID, lo, hi, delta, excludeID int) (int64, error) {
	query := `
        UPDATE milestones
        SET sort_order = sort_order + $2, updated_at = NOW()
        WHERE timeline_id = $1 AND sort_order BETWEEN $3 AND $4
          AND id <> $5 AND deleted_at IS NULL
    `
	result, err := t.tx.Exec(ctx, query, timelineID, delta, lo, hi, excludeID)
	if err != nil {
		t.logger.Error("Failed to shift milestone ordinals",
			zap.Int("timeline_id", timelineID),
			zap.Int("lo", lo),
			zap.Int("hi", hi),
			zap.Int("delta", delta),
			zap.Error(err),
		)
		return 0, err
	}
	return result.RowsAffected(), nil
}

func (t *milestoneTx) UpdateSchedule(ctx context.Context, id int, start, end time.Time) error {
	query := `
        UPDATE milestones
        SET start_date = $2, end_date = $3, updated_at = NOW()
        WHERE id = $1
    `
	_, err := t.tx.Exec(ctx, query, id, start, end)
	if err != nil {
		t.logger.Error("Failed to update milestone schedule",
			zap.Int("milestone_id", id),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (t *milestoneTx) SoftDeleteMilestone(ctx context.Context, id int) error {
	query := `
        UPDATE milestones
        SET deleted_at = NOW(), updated_at = NOW()
        WHERE id = $1 AND deleted_at IS NULL
    `
	_, err := t.tx.Exec(ctx, query, id)
	if err != nil {
		t.logger.Error("Failed to soft-delete milestone",
			zap.Int("milestone_id", id),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (t *milestoneTx) queryOne(ctx context.Context, query string, args ...any) (*model.Milestone, error) {
	var m model.Milestone
	err := t.tx.QueryRow(ctx, query, args...).Scan(
		&m.ID,
		&m.TimelineID,
		&m.Title,
		&m.Description,
		&m.SortOrder,
		&m.DurationDays,
		&m.StartDate,
		&m.EndDate,
		&m.CompletionDate,
		&m.Status,
		&m.CreatedAt,
		&m.UpdatedAt,
		&m.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		t.logger.Error("Failed to query milestone", zap.Error(err))
		return nil, err
	}
	return &m, nil
}

func scanMilestones(rows pgx.Rows) ([]*model.Milestone, error) {
	milestones := []*model.Milestone{}
	for rows.Next() {
		var m model.Milestone
		if err := rows.Scan(
			&m.ID,
			&m.TimelineID,
			&m.Title,
			&m.Description,
			&m.SortOrder,
			&m.DurationDays,
			&m.StartDate,
			&m.EndDate,
			&m.CompletionDate,
			&m.Status,
			&m.CreatedAt,
			&m.UpdatedAt,
			&m.DeletedAt,
		); err != nil {
			return nil, err
		}
		milestones = append(milestones, &m)
	}
	return milestones, rows.Err()
}
