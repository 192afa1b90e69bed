package interview

import (
	"errors"
	"strings"
	"time"
)

// Assessment is the interviewer's qualitative judgment of one answer.
type Assessment string

const (
	AssessmentExcellent Assessment = "excellent"
	AssessmentGood      Assessment = "good"
	AssessmentPartial   Assessment = "partial"
	AssessmentBrief     Assessment = "brief"
)

func (a Assessment) Valid() bool {
	switch a {
	case AssessmentExcellent, AssessmentGood, AssessmentPartial, AssessmentBrief:
		return true
	}
	return false
}

// ErrUnknownAssessment is returned when the generation model produces a
// label outside the recognized set. Callers treat it as a no-op and log it;
// the label contract lives on the model side and evolves separately.
var ErrUnknownAssessment = errors.New("unknown assessment label")

// Level is the question complexity tier.
type Level int

const (
	LevelJunior Level = 1
	LevelMid    Level = 2
	LevelSenior Level = 3
	LevelLead   Level = 4
)

func (l Level) String() string {
	switch l {
	case LevelJunior:
		return "Junior"
	case LevelMid:
		return "Mid"
	case LevelSenior:
		return "Senior"
	case LevelLead:
		return "Lead"
	}
	return "Unknown"
}

func clampLevel(l Level) Level {
	if l < LevelJunior {
		return LevelJunior
	}
	if l > LevelLead {
		return LevelLead
	}
	return l
}

// LevelForRole derives the starting difficulty from the target role: the
// numeric level when declared, otherwise the base_level string, otherwise Mid.
func LevelForRole(role *RoleSnapshot) Level {
	if role == nil {
		return LevelMid
	}
	if role.Level >= int(LevelJunior) && role.Level <= int(LevelLead) {
		return Level(role.Level)
	}
	switch strings.ToLower(strings.TrimSpace(role.BaseLevel)) {
	case "junior":
		return LevelJunior
	case "mid":
		return LevelMid
	case "senior":
		return LevelSenior
	case "lead":
		return LevelLead
	}
	return LevelMid
}

// Adjustment records one difficulty change.
type Adjustment struct {
	At     time.Time `json:"at" bson:"at"`
	From   Level     `json:"from" bson:"from"`
	To     Level     `json:"to" bson:"to"`
	Reason string    `json:"reason" bson:"reason"`
}

const (
	windowCapacity = 3
	minSignals     = 2
)

// Tracker owns the difficulty state of one session: the current level, a
// sliding window of the most recent assessments, and the adjustment history.
// It is not safe for concurrent use; the owning session serializes access.
type Tracker struct {
	level   Level
	recent  []Assessment
	history []Adjustment
}

func NewTracker(initial Level) *Tracker {
	return &Tracker{
		level:  clampLevel(initial),
		recent: make([]Assessment, 0, windowCapacity),
	}
}

func (t *Tracker) Level() Level { return t.level }

func (t *Tracker) History() []Adjustment { return t.history }

// Recent returns a copy of the current observation window.
func (t *Tracker) Recent() []Assessment {
	out := make([]Assessment, len(t.recent))
	copy(out, t.recent)
	return out
}

// Observe feeds one assessment into the window and applies the adjustment
// rules. It returns the adjustment made, or nil when the window holds too
// little signal or neither rule fires. An adjustment consumes its evidence:
// the window is cleared so stale signals cannot trigger a second change.
func (t *Tracker) Observe(a Assessment) (*Adjustment, error) {
	if !a.Valid() {
		return nil, ErrUnknownAssessment
	}

	t.recent = append(t.recent, a)
	if len(t.recent) > windowCapacity {
		t.recent = t.recent[1:]
	}
	if len(t.recent) < minSignals {
		return nil, nil
	}

	var excellent, partial, brief int
	for _, r := range t.recent {
		switch r {
		case AssessmentExcellent:
			excellent++
		case AssessmentPartial:
			partial++
		case AssessmentBrief:
			brief++
		}
	}

	// Increase wins when both rules would fire in the same window.
	if excellent >= 2 && t.level < LevelLead {
		return t.adjust(+1, "consecutive excellent answers"), nil
	}
	if (brief >= 2 || brief+partial >= 2) && t.level > LevelJunior {
		return t.adjust(-1, "repeated brief or partial answers"), nil
	}
	return nil, nil
}

func (t *Tracker) adjust(delta int, reason string) *Adjustment {
	from := t.level
	t.level = clampLevel(from + Level(delta))
	adj := Adjustment{
		At:     time.Now().UTC(),
		From:   from,
		To:     t.level,
		Reason: reason,
	}
	t.history = append(t.history, adj)
	t.recent = t.recent[:0]
	return &adj
}
