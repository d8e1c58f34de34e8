package handler

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"timeline-service/internal/model"
	"timeline-service/internal/service/timeline"
)

// Request payloads deliberately have no start_date or end_date fields: a
// milestone's start is owned by its predecessor's schedule and its end is
// derived from the duration. Unknown body keys are ignored by the decoder,
// so neither date can reach the service from a caller.

type createMilestoneRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	DurationDays int    `json:"duration_days"`
}

func (r createMilestoneRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Description, validation.Length(0, 2000)),
		validation.Field(&r.DurationDays, validation.Required, validation.Min(1)),
	)
}

func (r createMilestoneRequest) toService() timeline.CreateRequest {
	return timeline.CreateRequest{
		Title:        r.Title,
		Description:  r.Description,
		DurationDays: r.DurationDays,
	}
}

type updateMilestoneRequest struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	Status         *string    `json:"status"`
	SortOrder      *int       `json:"sort_order"`
	DurationDays   *int       `json:"duration_days"`
	CompletionDate *time.Time `json:"completion_date"`
}

func (r updateMilestoneRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Length(1, 200)),
		validation.Field(&r.Description, validation.Length(0, 2000)),
		validation.Field(&r.Status, validation.In(
			model.MilestoneStatusPending,
			model.MilestoneStatusInProgress,
			model.MilestoneStatusCompleted,
		)),
		validation.Field(&r.SortOrder, validation.Min(1)),
		validation.Field(&r.DurationDays, validation.Min(1)),
	)
}

func (r updateMilestoneRequest) toService() timeline.UpdateRequest {
	return timeline.UpdateRequest{
		Title:          r.Title,
		Description:    r.Description,
		Status:         r.Status,
		SortOrder:      r.SortOrder,
		DurationDays:   r.DurationDays,
		CompletionDate: r.CompletionDate,
	}
}
