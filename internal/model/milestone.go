package model

import "time"

const (
	MilestoneStatusPending    = "pending"
	MilestoneStatusInProgress = "in_progress"
	MilestoneStatusCompleted  = "completed"
)

type Timeline struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	StartDate time.Time `json:"start_date"` // anchor date for the first milestone
	Status    string    `json:"status"`     // active / archived
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Milestone is one time-boxed work item of a timeline. SortOrder values of
// the non-deleted milestones of a timeline are consecutive integers starting
// at 1, and each milestone starts the day after its predecessor's effective
// end. EndDate is always derived from StartDate and DurationDays.
type Milestone struct {
	ID             int        `json:"id"`
	TimelineID     int        `json:"timeline_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	SortOrder      int        `json:"sort_order"`
	DurationDays   int        `json:"duration_days"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        time.Time  `json:"end_date"`
	CompletionDate *time.Time `json:"completion_date,omitempty"`
	Status         string     `json:"status"` // pending / in_progress / completed
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"-"` // soft-delete marker, never exposed
}

// EffectiveEnd is the date the next sibling's schedule hangs off: the
// completion date when the milestone finished off-plan, the planned end
// otherwise.
func (m *Milestone) EffectiveEnd() time.Time {
	if m.CompletionDate != nil {
		return *m.CompletionDate
	}
	return m.EndDate
}

// ScheduleEnd derives the planned end date from a start date and a duration
// in days. A one-day milestone starts and ends on the same date.
func ScheduleEnd(start time.Time, durationDays int) time.Time {
	return AddDays(start, durationDays-1)
}
