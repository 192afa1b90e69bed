package interview

import (
	"errors"
	"math/rand"
	"testing"
)

func TestObserve_IncreaseOnTwoExcellent(t *testing.T) {
	tr := NewTracker(LevelJunior)

	adj, err := tr.Observe(AssessmentExcellent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adj != nil {
		t.Fatalf("one signal must not adjust, got %+v", adj)
	}

	adj, err = tr.Observe(AssessmentExcellent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adj == nil {
		t.Fatal("expected an adjustment after two excellent answers")
	}
	if adj.From != LevelJunior || adj.To != LevelMid {
		t.Errorf("expected 1 -> 2, got %d -> %d", adj.From, adj.To)
	}
	if tr.Level() != LevelMid {
		t.Errorf("expected level 2, got %d", tr.Level())
	}
	if len(tr.Recent()) != 0 {
		t.Errorf("window must be cleared after an adjustment, got %v", tr.Recent())
	}
	if len(tr.History()) != 1 {
		t.Errorf("expected 1 history entry, got %d", len(tr.History()))
	}
}

func TestObserve_DecreaseOnBriefAndPartial(t *testing.T) {
	tr := NewTracker(LevelSenior)

	if _, err := tr.Observe(AssessmentBrief); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	adj, err := tr.Observe(AssessmentPartial)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adj == nil {
		t.Fatal("expected a decrease for [brief, partial]")
	}
	if adj.From != LevelSenior || adj.To != LevelMid {
		t.Errorf("expected 3 -> 2, got %d -> %d", adj.From, adj.To)
	}
	if len(tr.Recent()) != 0 {
		t.Errorf("window must be cleared after an adjustment, got %v", tr.Recent())
	}
}

func TestObserve_MixedWindowIsNoOp(t *testing.T) {
	tr := NewTracker(LevelMid)

	if _, err := tr.Observe(AssessmentExcellent); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	adj, err := tr.Observe(AssessmentBrief)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adj != nil {
		t.Fatalf("[excellent, brief] must not adjust, got %+v", adj)
	}
	if tr.Level() != LevelMid {
		t.Errorf("level changed on insufficient signal: %d", tr.Level())
	}
	if got := len(tr.Recent()); got != 2 {
		t.Errorf("window must be retained when no rule fires, got len %d", got)
	}
}

func TestObserve_IncreaseWinsOverDecrease(t *testing.T) {
	// [brief, excellent, excellent]: both rules hold, increase is checked first.
	tr := NewTracker(LevelMid)

	mustNoAdjust(t, tr, AssessmentBrief)
	mustNoAdjust(t, tr, AssessmentExcellent)
	adj, err := tr.Observe(AssessmentExcellent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adj == nil {
		t.Fatal("expected an adjustment")
	}
	if adj.To != LevelSenior {
		t.Errorf("increase must win over decrease, got %d -> %d", adj.From, adj.To)
	}
}

func TestObserve_CeilingAndFloor(t *testing.T) {
	tr := NewTracker(LevelLead)
	mustNoAdjust(t, tr, AssessmentExcellent)
	if adj, _ := tr.Observe(AssessmentExcellent); adj != nil {
		t.Errorf("level 4 must not increase, got %+v", adj)
	}

	tr = NewTracker(LevelJunior)
	mustNoAdjust(t, tr, AssessmentBrief)
	if adj, _ := tr.Observe(AssessmentBrief); adj != nil {
		t.Errorf("level 1 must not decrease, got %+v", adj)
	}
}

func TestObserve_AtCeilingStillEvaluatesDecrease(t *testing.T) {
	// Window [excellent, excellent, brief] at level 4: increase is blocked by
	// the ceiling and the decrease counts stay below threshold, so no-op.
	tr := NewTracker(LevelLead)
	mustNoAdjust(t, tr, AssessmentExcellent)
	mustNoAdjust(t, tr, AssessmentExcellent)
	if adj, _ := tr.Observe(AssessmentBrief); adj != nil {
		t.Errorf("expected no-op, got %+v", adj)
	}
	if tr.Level() != LevelLead {
		t.Errorf("level moved: %d", tr.Level())
	}
}

func TestObserve_WindowEvictsOldest(t *testing.T) {
	tr := NewTracker(LevelLead) // ceiling blocks increases, so window fills up
	for i := 0; i < 5; i++ {
		if _, err := tr.Observe(AssessmentExcellent); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := len(tr.Recent()); got != 3 {
		t.Errorf("window capacity is 3, got %d", got)
	}
}

func TestObserve_UnknownLabel(t *testing.T) {
	tr := NewTracker(LevelMid)
	adj, err := tr.Observe(Assessment("superb"))
	if !errors.Is(err, ErrUnknownAssessment) {
		t.Fatalf("expected ErrUnknownAssessment, got %v", err)
	}
	if adj != nil {
		t.Errorf("unknown label must not adjust")
	}
	if len(tr.Recent()) != 0 {
		t.Errorf("unknown label must not enter the window")
	}
}

// Level bounds hold for any sequence of valid labels, and every adjustment
// clears the window.
func TestObserve_LevelAlwaysInBounds(t *testing.T) {
	labels := []Assessment{AssessmentExcellent, AssessmentGood, AssessmentPartial, AssessmentBrief}
	rng := rand.New(rand.NewSource(1))

	for _, start := range []Level{LevelJunior, LevelMid, LevelSenior, LevelLead} {
		tr := NewTracker(start)
		for i := 0; i < 500; i++ {
			adj, err := tr.Observe(labels[rng.Intn(len(labels))])
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tr.Level() < LevelJunior || tr.Level() > LevelLead {
				t.Fatalf("level out of bounds: %d", tr.Level())
			}
			if adj != nil && len(tr.Recent()) != 0 {
				t.Fatalf("window not cleared after adjustment")
			}
		}
	}
}

func TestLevelForRole(t *testing.T) {
	if got := LevelForRole(nil); got != LevelMid {
		t.Errorf("nil role: expected Mid, got %v", got)
	}
	if got := LevelForRole(&RoleSnapshot{Level: 3}); got != LevelSenior {
		t.Errorf("numeric level: expected Senior, got %v", got)
	}
	if got := LevelForRole(&RoleSnapshot{BaseLevel: "lead"}); got != LevelLead {
		t.Errorf("base level: expected Lead, got %v", got)
	}
	if got := LevelForRole(&RoleSnapshot{Level: 9, BaseLevel: "junior"}); got != LevelJunior {
		t.Errorf("out-of-range numeric falls back to base level, got %v", got)
	}
	if got := LevelForRole(&RoleSnapshot{}); got != LevelMid {
		t.Errorf("empty role: expected Mid, got %v", got)
	}
}

func mustNoAdjust(t *testing.T, tr *Tracker, a Assessment) {
	t.Helper()
	adj, err := tr.Observe(a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adj != nil {
		t.Fatalf("unexpected adjustment: %+v", adj)
	}
}
