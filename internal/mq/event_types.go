package mq

import (
	"time"

	"timeline-service/internal/model"
)

const (
	RoutingKeyMilestoneCreated = "milestone.created"
	RoutingKeyMilestoneUpdated = "milestone.updated"
	RoutingKeyMilestoneDeleted = "milestone.deleted"
)

// MilestoneUpdatedPayload carries the before/after snapshots of the one
// milestone the caller targeted. Sibling ordinal and date adjustments made
// in the same transaction are intentionally not published: consumers treat
// this single event as authoritative for the whole timeline's consistency
// window, so derived indexes never see conflicting partial updates.
type MilestoneUpdatedPayload struct {
	Original   model.Milestone `json:"original"`
	Updated    model.Milestone `json:"updated"`
	OccurredAt time.Time       `json:"occurred_at"`
}

type MilestoneCreatedPayload struct {
	Milestone  model.Milestone `json:"milestone"`
	OccurredAt time.Time       `json:"occurred_at"`
}

type MilestoneDeletedPayload struct {
	Milestone  model.Milestone `json:"milestone"`
	OccurredAt time.Time       `json:"occurred_at"`
}
