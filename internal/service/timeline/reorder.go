package timeline

// ReorderPlan is the closed ordinal interval [Lo, Hi] of siblings that must
// shift by Delta to close the gap a move leaves behind. The moved milestone
// itself is excluded when the plan is executed.
type ReorderPlan struct {
	Lo    int
	Hi    int
	Delta int
}

// PlanReorder computes the sibling shifts for moving a milestone from
// oldOrder to newOrder within one timeline. Moving later slides everything
// in (oldOrder, newOrder] back one slot; moving earlier slides everything in
// [newOrder, oldOrder) forward one slot. Because the shifts touch only the
// interval between the two positions and move each sibling exactly one slot,
// they can never produce duplicate ordinals.
//
// Returns false when oldOrder == newOrder. The plan also applies only when
// the target ordinal is occupied by a sibling; the caller checks occupancy
// and skips the shift for a move into an empty slot.
func PlanReorder(oldOrder, newOrder int) (ReorderPlan, bool) {
	if oldOrder == newOrder {
		return ReorderPlan{}, false
	}
	if oldOrder < newOrder {
		return ReorderPlan{Lo: oldOrder + 1, Hi: newOrder, Delta: -1}, true
	}
	return ReorderPlan{Lo: newOrder, Hi: oldOrder - 1, Delta: 1}, true
}
