package timeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"timeline-service/internal/model"
	"timeline-service/internal/mq"
	"timeline-service/pkg/logger"
	"timeline-service/pkg/metrics"
	"timeline-service/pkg/trace"
)

// maxOrder is the upper bound used for open-ended ordinal shifts.
const maxOrder = 1 << 30

// Publisher is the change-notification bus. Publishing happens after the
// transaction commits and is fire-and-forget: a failed publish is logged,
// never surfaced as a request failure.
type Publisher interface {
	Publish(routingKey string, payload any, correlationID string) error
}

// Cache is the timeline milestone-list cache. Nil-safe: a Service built
// without one skips caching entirely.
type Cache interface {
	GetMilestones(ctx context.Context, timelineID int) ([]*model.Milestone, bool)
	SetMilestones(ctx context.Context, timelineID int, milestones []*model.Milestone)
	Invalidate(ctx context.Context, timelineID int)
}

// Service sequences milestone mutations. Every mutation runs as one store
// transaction: validation, the field merge, sibling ordinal shifts, and the
// successor schedule cascade either all commit or all abort.
type Service struct {
	store     Store
	publisher Publisher
	cache     Cache
	logger    *zap.Logger
}

func NewService(store Store, publisher Publisher, cache Cache, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		cache:     cache,
		logger:    logger,
	}
}

// UpdateRequest is the caller-supplied partial mutation. Nil fields keep the
// stored value. Start and end dates are absent on purpose: the start is
// anchored to the predecessor and the end is derived from the duration,
// neither is ever caller-settable.
type UpdateRequest struct {
	Title          *string
	Description    *string
	Status         *string
	SortOrder      *int
	DurationDays   *int
	CompletionDate *time.Time
}

type CreateRequest struct {
	Title        string
	Description  string
	DurationDays int
}

// UpdateMilestone applies one partial mutation to a milestone and restores
// the timeline's ordering and schedule invariants around it. On success the
// non-deleted milestones of the timeline have dense unique ordinals and each
// one starts the day after its predecessor's effective end.
func (s *Service) UpdateMilestone(ctx context.Context, timelineID, milestoneID int, req UpdateRequest) (*model.Milestone, error) {
	started := time.Now()
	log := logger.WithTrace(ctx, s.logger)

	var original, updated model.Milestone
	var reorderShifts int64
	var cascadeWrites int
	err := s.store.InTx(ctx, func(tx Tx) error {
		m, err := tx.GetMilestone(ctx, timelineID, milestoneID)
		if err != nil {
			return err
		}
		if m == nil {
			return ErrMilestoneNotFound
		}
		original = *m

		// Domain rule, checked against the stored state before any write.
		if req.CompletionDate != nil {
			cd := model.DateUTC(*req.CompletionDate)
			if cd.Before(model.DateUTC(m.StartDate)) {
				return &ValidationError{Field: "completion_date", Reason: "precedes milestone start date"}
			}
		}

		orderChanged := req.SortOrder != nil && *req.SortOrder != m.SortOrder
		scheduleChanged := mergeFields(m, req)
		m.UpdatedAt = time.Now().UTC()
		if err := tx.UpdateMilestone(ctx, m); err != nil {
			return err
		}

		if orderChanged {
			reorderShifts, err = s.reorder(ctx, tx, log, m, original.SortOrder)
			if err != nil {
				return err
			}
		}
		// The cascade runs only when the effective end moved. An ordinal
		// shift alone leaves every schedule as it was.
		if scheduleChanged {
			cascadeWrites, err = s.cascade(ctx, tx, log, m)
			if err != nil {
				return err
			}
		}
		updated = *m
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Counters move only for committed work. An aborted transaction rolls
	// its shifts and schedule writes back, so they must not be recorded.
	metrics.AddReorderShifts(reorderShifts)
	metrics.AddCascadeWrites(cascadeWrites)

	payload := mq.MilestoneUpdatedPayload{
		Original:   original,
		Updated:    updated,
		OccurredAt: time.Now().UTC(),
	}
	s.afterCommit(ctx, log, mq.RoutingKeyMilestoneUpdated, payload, timelineID)
	metrics.ObserveMutationDuration("update", time.Since(started))

	log.Info("milestone updated",
		zap.Int("timeline_id", timelineID),
		zap.Int("milestone_id", milestoneID),
	)
	return &updated, nil
}

// CreateMilestone appends a milestone at the tail of its timeline: the next
// free ordinal, starting the day after the last sibling's effective end, or
// on the timeline's anchor date when the timeline is empty.
func (s *Service) CreateMilestone(ctx context.Context, timelineID int, req CreateRequest) (*model.Milestone, error) {
	started := time.Now()
	log := logger.WithTrace(ctx, s.logger)

	var created model.Milestone
	err := s.store.InTx(ctx, func(tx Tx) error {
		tl, err := tx.GetTimeline(ctx, timelineID)
		if err != nil {
			return err
		}
		if tl == nil {
			return ErrTimelineNotFound
		}

		order := 1
		start := model.DateUTC(tl.StartDate)
		last, err := tx.LastMilestone(ctx, timelineID)
		if err != nil {
			return err
		}
		if last != nil {
			order = last.SortOrder + 1
			start = model.AddDays(last.EffectiveEnd(), 1)
		}

		now := time.Now().UTC()
		m := &model.Milestone{
			TimelineID:   timelineID,
			Title:        req.Title,
			Description:  req.Description,
			SortOrder:    order,
			DurationDays: req.DurationDays,
			StartDate:    start,
			EndDate:      model.ScheduleEnd(start, req.DurationDays),
			Status:       model.MilestoneStatusPending,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		id, err := tx.InsertMilestone(ctx, m)
		if err != nil {
			return err
		}
		m.ID = id
		created = *m
		return nil
	})
	if err != nil {
		return nil, err
	}

	payload := mq.MilestoneCreatedPayload{Milestone: created, OccurredAt: time.Now().UTC()}
	s.afterCommit(ctx, log, mq.RoutingKeyMilestoneCreated, payload, timelineID)
	metrics.ObserveMutationDuration("create", time.Since(started))

	log.Info("milestone created",
		zap.Int("timeline_id", timelineID),
		zap.Int("milestone_id", created.ID),
		zap.Int("sort_order", created.SortOrder),
	)
	return &created, nil
}

// DeleteMilestone soft-deletes a milestone, closes the ordinal gap it leaves
// behind, and reanchors the schedule of everything after it off the
// predecessor's effective end (or the timeline anchor when the first
// milestone was removed).
func (s *Service) DeleteMilestone(ctx context.Context, timelineID, milestoneID int) error {
	started := time.Now()
	log := logger.WithTrace(ctx, s.logger)

	var deleted model.Milestone
	var reorderShifts int64
	var cascadeWrites int
	err := s.store.InTx(ctx, func(tx Tx) error {
		m, err := tx.GetMilestone(ctx, timelineID, milestoneID)
		if err != nil {
			return err
		}
		if m == nil {
			return ErrMilestoneNotFound
		}
		deleted = *m

		if err := tx.SoftDeleteMilestone(ctx, m.ID); err != nil {
			return err
		}
		// Everything after the removed milestone slides down one slot.
		reorderShifts, err = tx.ShiftOrders(ctx, timelineID, m.SortOrder+1, maxOrder, -1, m.ID)
		if err != nil {
			return err
		}

		cursor, err := s.cascadeSeed(ctx, tx, timelineID, m.SortOrder-1)
		if err != nil {
			return err
		}
		successors, err := tx.ListAfterOrder(ctx, timelineID, m.SortOrder-1)
		if err != nil {
			return err
		}
		writes := CascadeFrom(cursor, successors)
		for _, w := range writes {
			if err := tx.UpdateSchedule(ctx, w.MilestoneID, w.StartDate, w.EndDate); err != nil {
				return err
			}
		}
		cascadeWrites = len(writes)
		return nil
	})
	if err != nil {
		return err
	}
	metrics.AddReorderShifts(reorderShifts)
	metrics.AddCascadeWrites(cascadeWrites)

	payload := mq.MilestoneDeletedPayload{Milestone: deleted, OccurredAt: time.Now().UTC()}
	s.afterCommit(ctx, log, mq.RoutingKeyMilestoneDeleted, payload, timelineID)
	metrics.ObserveMutationDuration("delete", time.Since(started))

	log.Info("milestone deleted",
		zap.Int("timeline_id", timelineID),
		zap.Int("milestone_id", milestoneID),
	)
	return nil
}

// GetTimeline returns one timeline.
func (s *Service) GetTimeline(ctx context.Context, timelineID int) (*model.Timeline, error) {
	tl, err := s.store.GetTimeline(ctx, timelineID)
	if err != nil {
		return nil, err
	}
	if tl == nil {
		return nil, ErrTimelineNotFound
	}
	return tl, nil
}

// ListMilestones returns the non-deleted milestones of a timeline in ordinal
// order, through the snapshot cache when one is configured.
func (s *Service) ListMilestones(ctx context.Context, timelineID int) ([]*model.Milestone, error) {
	if s.cache != nil {
		if milestones, ok := s.cache.GetMilestones(ctx, timelineID); ok {
			metrics.RecordCacheOutcome("hit")
			return milestones, nil
		}
		metrics.RecordCacheOutcome("miss")
	}

	milestones, err := s.store.ListMilestones(ctx, timelineID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetMilestones(ctx, timelineID, milestones)
	}
	return milestones, nil
}

// mergeFields applies the caller's partial update over the stored row and
// reports whether the milestone's effective end moved. A duration change
// rederives the milestone's own end date from its existing start.
func mergeFields(m *model.Milestone, req UpdateRequest) bool {
	scheduleChanged := false
	if req.Title != nil {
		m.Title = *req.Title
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.Status != nil {
		m.Status = *req.Status
	}
	if req.SortOrder != nil {
		m.SortOrder = *req.SortOrder
	}
	if req.DurationDays != nil && *req.DurationDays != m.DurationDays {
		m.DurationDays = *req.DurationDays
		m.EndDate = model.ScheduleEnd(m.StartDate, m.DurationDays)
		scheduleChanged = true
	}
	if req.CompletionDate != nil {
		cd := model.DateUTC(*req.CompletionDate)
		if m.CompletionDate == nil || !model.SameDate(*m.CompletionDate, cd) {
			m.CompletionDate = &cd
			scheduleChanged = true
		}
	}
	return scheduleChanged
}

// reorder closes the ordinal gap around a moved milestone and returns the
// number of sibling rows it shifted. The count is reported back so the
// caller can record it once the transaction has committed.
func (s *Service) reorder(ctx context.Context, tx Tx, log *zap.Logger, m *model.Milestone, oldOrder int) (int64, error) {
	plan, ok := PlanReorder(oldOrder, m.SortOrder)
	if !ok {
		return 0, nil
	}
	occupied, err := tx.OrderInUse(ctx, m.TimelineID, m.SortOrder, m.ID)
	if err != nil {
		return 0, err
	}
	if !occupied {
		// The caller moved into an empty slot: there is no gap to close.
		// Keeping the ordinal set dense on this path is the caller's
		// responsibility.
		return 0, nil
	}
	shifted, err := tx.ShiftOrders(ctx, m.TimelineID, plan.Lo, plan.Hi, plan.Delta, m.ID)
	if err != nil {
		return 0, err
	}
	log.Debug("reorder shifts applied",
		zap.Int("timeline_id", m.TimelineID),
		zap.Int("milestone_id", m.ID),
		zap.Int("lo", plan.Lo),
		zap.Int("hi", plan.Hi),
		zap.Int("delta", plan.Delta),
		zap.Int64("rows_shifted", shifted),
	)
	return shifted, nil
}

// cascade rewrites the schedules of the milestone's successors and returns
// the number of rows it rewrote, again for post-commit recording.
func (s *Service) cascade(ctx context.Context, tx Tx, log *zap.Logger, m *model.Milestone) (int, error) {
	successors, err := tx.ListAfterOrder(ctx, m.TimelineID, m.SortOrder)
	if err != nil {
		return 0, err
	}
	writes := CascadeAfter(m, successors)
	for _, w := range writes {
		if err := tx.UpdateSchedule(ctx, w.MilestoneID, w.StartDate, w.EndDate); err != nil {
			return 0, err
		}
	}
	log.Debug("schedule cascade applied",
		zap.Int("timeline_id", m.TimelineID),
		zap.Int("milestone_id", m.ID),
		zap.Int("successors", len(successors)),
		zap.Int("rows_written", len(writes)),
	)
	return len(writes), nil
}

// cascadeSeed is the first available start date following the milestone at
// predOrder, falling back to the timeline anchor when there is no
// predecessor.
func (s *Service) cascadeSeed(ctx context.Context, tx Tx, timelineID, predOrder int) (time.Time, error) {
	if predOrder >= 1 {
		pred, err := tx.GetMilestoneByOrder(ctx, timelineID, predOrder)
		if err != nil {
			return time.Time{}, err
		}
		if pred != nil {
			return model.AddDays(pred.EffectiveEnd(), 1), nil
		}
	}
	tl, err := tx.GetTimeline(ctx, timelineID)
	if err != nil {
		return time.Time{}, err
	}
	if tl == nil {
		return time.Time{}, ErrTimelineNotFound
	}
	return model.DateUTC(tl.StartDate), nil
}

// afterCommit publishes the single change event and drops the timeline's
// cached milestone list. Both happen outside the transaction: the mutation
// is already durable, so a failure here is logged and swallowed.
func (s *Service) afterCommit(ctx context.Context, log *zap.Logger, routingKey string, payload any, timelineID int) {
	correlationID := trace.FromContext(ctx)
	if correlationID == "" {
		correlationID = trace.GenerateTraceID()
	}
	if err := s.publisher.Publish(routingKey, payload, correlationID); err != nil {
		metrics.IncPublishFailure(routingKey)
		log.Error("change event publish failed",
			zap.String("routing_key", routingKey),
			zap.String("correlation_id", correlationID),
			zap.Error(err),
		)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, timelineID)
	}
}
