package timeline

import (
	"context"
	"time"

	"timeline-service/internal/model"
)

// Store is the persistence surface the service runs against. The pgx
// implementation lives in internal/repository; tests use an in-memory fake.
type Store interface {
	// InTx runs fn inside one transaction. fn returning an error aborts the
	// transaction with no partial writes.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	// Plain reads outside any transaction.
	GetTimeline(ctx context.Context, timelineID int) (*model.Timeline, error)
	ListMilestones(ctx context.Context, timelineID int) ([]*model.Milestone, error)
}

// Tx is the set of row operations available inside one transaction. Reads
// lock the rows they touch, so two updates against the same timeline
// serialize at the store and neither observes a half-shifted ordinal set or
// a half-cascaded date chain. Lookups that may legitimately miss return a
// nil milestone rather than an error.
type Tx interface {
	GetTimeline(ctx context.Context, timelineID int) (*model.Timeline, error)
	GetMilestone(ctx context.Context, timelineID, id int) (*model.Milestone, error)
	GetMilestoneByOrder(ctx context.Context, timelineID, order int) (*model.Milestone, error)
	LastMilestone(ctx context.Context, timelineID int) (*model.Milestone, error)
	ListAfterOrder(ctx context.Context, timelineID, order int) ([]*model.Milestone, error)
	OrderInUse(ctx context.Context, timelineID, order, excludeID int) (bool, error)
	InsertMilestone(ctx context.Context, m *model.Milestone) (int, error)
	UpdateMilestone(ctx context.Context, m *model.Milestone) error
	ShiftOrders(ctx context.Context, timelineID, lo, hi, delta, excludeID int) (int64, error)
	UpdateSchedule(ctx context.Context, id int, start, end time.Time) error
	SoftDeleteMilestone(ctx context.Context, id int) error
}
