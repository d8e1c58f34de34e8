package timeline

import "testing"

func TestPlanReorder_SamePosition(t *testing.T) {
	if _, ok := PlanReorder(3, 3); ok {
		t.Fatal("moving to the same ordinal should produce no plan")
	}
}

func TestPlanReorder_MoveLater(t *testing.T) {
	plan, ok := PlanReorder(2, 5)
	if !ok {
		t.Fatal("expected a plan")
	}
	if plan.Lo != 3 || plan.Hi != 5 {
		t.Errorf("interval = [%d, %d], want [3, 5]", plan.Lo, plan.Hi)
	}
	if plan.Delta != -1 {
		t.Errorf("delta = %d, want -1", plan.Delta)
	}
}

func TestPlanReorder_MoveEarlier(t *testing.T) {
	plan, ok := PlanReorder(5, 2)
	if !ok {
		t.Fatal("expected a plan")
	}
	if plan.Lo != 2 || plan.Hi != 4 {
		t.Errorf("interval = [%d, %d], want [2, 4]", plan.Lo, plan.Hi)
	}
	if plan.Delta != 1 {
		t.Errorf("delta = %d, want 1", plan.Delta)
	}
}

func TestPlanReorder_AdjacentSwap(t *testing.T) {
	plan, ok := PlanReorder(4, 5)
	if !ok {
		t.Fatal("expected a plan")
	}
	if plan.Lo != 5 || plan.Hi != 5 || plan.Delta != -1 {
		t.Errorf("plan = %+v, want shift of ordinal 5 by -1", plan)
	}

	plan, ok = PlanReorder(5, 4)
	if !ok {
		t.Fatal("expected a plan")
	}
	if plan.Lo != 4 || plan.Hi != 4 || plan.Delta != 1 {
		t.Errorf("plan = %+v, want shift of ordinal 4 by +1", plan)
	}
}

// The shifted interval never contains the moved item's old position, so a
// one-slot shift cannot collide with any untouched sibling.
func TestPlanReorder_IntervalExcludesOldPosition(t *testing.T) {
	cases := []struct{ oldOrder, newOrder int }{
		{1, 6}, {6, 1}, {3, 4}, {4, 3}, {2, 9},
	}
	for _, c := range cases {
		plan, ok := PlanReorder(c.oldOrder, c.newOrder)
		if !ok {
			t.Fatalf("PlanReorder(%d, %d): expected a plan", c.oldOrder, c.newOrder)
		}
		if c.oldOrder >= plan.Lo && c.oldOrder <= plan.Hi {
			t.Errorf("PlanReorder(%d, %d): interval [%d, %d] contains the old position",
				c.oldOrder, c.newOrder, plan.Lo, plan.Hi)
		}
		if c.newOrder < plan.Lo || c.newOrder > plan.Hi {
			t.Errorf("PlanReorder(%d, %d): interval [%d, %d] misses the target position",
				c.oldOrder, c.newOrder, plan.Lo, plan.Hi)
		}
	}
}
