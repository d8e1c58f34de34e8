package timeline

import (
	"time"

	"timeline-service/internal/model"
)

// ScheduleWrite is one stale successor the cascade must persist.
type ScheduleWrite struct {
	MilestoneID int
	StartDate   time.Time
	EndDate     time.Time
}

// CascadeAfter recomputes the schedule of every successor of updated, seeded
// with the first free day after its effective end. successors must be the
// milestones with a higher ordinal in the same timeline, sorted ascending.
func CascadeAfter(updated *model.Milestone, successors []*model.Milestone) []ScheduleWrite {
	return CascadeFrom(model.AddDays(updated.EffectiveEnd(), 1), successors)
}

// CascadeFrom walks successors in ordinal order with cursor as the first
// available start date. A successor whose stored start already equals the
// cursor is left alone, but the walk continues off its existing effective
// end: one consistent item says nothing about the rest of the suffix. Stale
// successors get their start and end rewritten in place and reported as
// writes, and the cursor advances off the new dates (the completion date
// still wins over the recomputed end when present).
//
// Re-running the walk over an already-consistent suffix yields zero writes.
func CascadeFrom(cursor time.Time, successors []*model.Milestone) []ScheduleWrite {
	var writes []ScheduleWrite
	for _, s := range successors {
		if model.SameDate(cursor, s.StartDate) {
			cursor = model.AddDays(s.EffectiveEnd(), 1)
			continue
		}
		s.StartDate = model.DateUTC(cursor)
		s.EndDate = model.ScheduleEnd(s.StartDate, s.DurationDays)
		writes = append(writes, ScheduleWrite{
			MilestoneID: s.ID,
			StartDate:   s.StartDate,
			EndDate:     s.EndDate,
		})
		cursor = model.AddDays(s.EffectiveEnd(), 1)
	}
	return writes
}
