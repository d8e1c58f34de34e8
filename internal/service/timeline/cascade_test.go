package timeline

import (
	"testing"
	"time"

	"timeline-service/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// chain builds a contiguous suffix of milestones starting at start, with the
// given durations and ordinals following firstOrder.
func chain(firstOrder int, start time.Time, durations ...int) []*model.Milestone {
	ms := make([]*model.Milestone, 0, len(durations))
	cursor := start
	for i, dur := range durations {
		m := &model.Milestone{
			ID:           100 + i,
			SortOrder:    firstOrder + i,
			DurationDays: dur,
			StartDate:    cursor,
			EndDate:      model.ScheduleEnd(cursor, dur),
		}
		ms = append(ms, m)
		cursor = model.AddDays(m.EndDate, 1)
	}
	return ms
}

func TestCascadeFrom_ConsistentSuffixWritesNothing(t *testing.T) {
	successors := chain(2, date(2024, 1, 15), 3, 7, 2)
	writes := CascadeFrom(date(2024, 1, 15), successors)
	if len(writes) != 0 {
		t.Fatalf("writes = %d, want 0 on an already-consistent suffix", len(writes))
	}
}

func TestCascadeAfter_DurationGrowthRipples(t *testing.T) {
	// Updated item: start 2024-01-10, duration now 10, so end 2024-01-19.
	updated := &model.Milestone{
		ID:           1,
		SortOrder:    1,
		DurationDays: 10,
		StartDate:    date(2024, 1, 10),
		EndDate:      model.ScheduleEnd(date(2024, 1, 10), 10),
	}
	// Successors laid out for the old 5-day duration (first starts 01-15).
	successors := chain(2, date(2024, 1, 15), 4, 6)

	writes := CascadeAfter(updated, successors)
	if len(writes) != 2 {
		t.Fatalf("writes = %d, want 2", len(writes))
	}
	if !writes[0].StartDate.Equal(date(2024, 1, 20)) {
		t.Errorf("first successor start = %v, want 2024-01-20", writes[0].StartDate)
	}
	if !writes[0].EndDate.Equal(date(2024, 1, 23)) {
		t.Errorf("first successor end = %v, want 2024-01-23", writes[0].EndDate)
	}
	if !writes[1].StartDate.Equal(date(2024, 1, 24)) {
		t.Errorf("second successor start = %v, want 2024-01-24", writes[1].StartDate)
	}
}

func TestCascadeFrom_SkipsConsistentItemButContinues(t *testing.T) {
	// First successor already starts on the cursor date; the second one is
	// stale relative to the first's effective end.
	first := &model.Milestone{
		ID:           101,
		SortOrder:    2,
		DurationDays: 3,
		StartDate:    date(2024, 3, 1),
		EndDate:      date(2024, 3, 3),
	}
	second := &model.Milestone{
		ID:           102,
		SortOrder:    3,
		DurationDays: 2,
		StartDate:    date(2024, 3, 10), // should be 2024-03-04
		EndDate:      date(2024, 3, 11),
	}

	writes := CascadeFrom(date(2024, 3, 1), []*model.Milestone{first, second})
	if len(writes) != 1 {
		t.Fatalf("writes = %d, want 1", len(writes))
	}
	if writes[0].MilestoneID != 102 {
		t.Errorf("rewritten id = %d, want 102", writes[0].MilestoneID)
	}
	if !writes[0].StartDate.Equal(date(2024, 3, 4)) {
		t.Errorf("start = %v, want 2024-03-04", writes[0].StartDate)
	}
	if !writes[0].EndDate.Equal(date(2024, 3, 5)) {
		t.Errorf("end = %v, want 2024-03-05", writes[0].EndDate)
	}
}

func TestCascadeFrom_CompletionDateWinsOverPlannedEnd(t *testing.T) {
	// The first successor finished late: its completion date, not its planned
	// end, anchors the item after it.
	done := date(2024, 5, 12)
	first := &model.Milestone{
		ID:             101,
		SortOrder:      2,
		DurationDays:   3,
		StartDate:      date(2024, 5, 1),
		EndDate:        date(2024, 5, 3),
		CompletionDate: &done,
	}
	second := &model.Milestone{
		ID:           102,
		SortOrder:    3,
		DurationDays: 1,
		StartDate:    date(2024, 5, 4),
		EndDate:      date(2024, 5, 4),
	}

	writes := CascadeFrom(date(2024, 5, 1), []*model.Milestone{first, second})
	if len(writes) != 1 {
		t.Fatalf("writes = %d, want 1", len(writes))
	}
	if !writes[0].StartDate.Equal(date(2024, 5, 13)) {
		t.Errorf("start = %v, want 2024-05-13 (day after completion)", writes[0].StartDate)
	}
}

func TestCascadeFrom_RewrittenItemKeepsCompletionAsAnchor(t *testing.T) {
	// A rewritten successor that carries a completion date still anchors the
	// next item off the completion date, not the recomputed end.
	done := date(2024, 6, 20)
	first := &model.Milestone{
		ID:             101,
		SortOrder:      2,
		DurationDays:   5,
		StartDate:      date(2024, 6, 1), // stale, will be rewritten
		EndDate:        date(2024, 6, 5),
		CompletionDate: &done,
	}
	second := &model.Milestone{
		ID:           102,
		SortOrder:    3,
		DurationDays: 2,
		StartDate:    date(2024, 6, 21), // already hangs off the completion
		EndDate:      date(2024, 6, 22),
	}

	writes := CascadeFrom(date(2024, 6, 3), []*model.Milestone{first, second})
	if len(writes) != 1 {
		t.Fatalf("writes = %d, want 1 (second item already consistent)", len(writes))
	}
	if writes[0].MilestoneID != 101 {
		t.Errorf("rewritten id = %d, want 101", writes[0].MilestoneID)
	}
}

func TestCascadeFrom_EmptySuffix(t *testing.T) {
	if writes := CascadeFrom(date(2024, 1, 1), nil); len(writes) != 0 {
		t.Fatalf("writes = %d, want 0 for an empty suffix", len(writes))
	}
}
