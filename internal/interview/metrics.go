package interview

import (
	"fmt"
	"time"
)

// MaxTopicSkips is the per-topic skip ceiling. Reaching it on one topic
// yields an auto-terminate signal to the caller.
const MaxTopicSkips = 3

// Metrics tracks per-session counters. Duration is derived at read time,
// never stored.
type Metrics struct {
	StartedAt     time.Time      `json:"started_at"`
	QuestionCount int            `json:"question_count"`
	SkippedCount  int            `json:"skipped_count"`
	SkipsPerTopic map[string]int `json:"skips_per_topic,omitempty"`
}

func NewMetrics(startedAt time.Time) *Metrics {
	return &Metrics{StartedAt: startedAt.UTC()}
}

// RecordQuestion counts one non-probing question turn.
func (m *Metrics) RecordQuestion() { m.QuestionCount++ }

// RecordSkip counts one skip globally and against its topic.
func (m *Metrics) RecordSkip(topicID string) {
	m.SkippedCount++
	if topicID == "" {
		return
	}
	if m.SkipsPerTopic == nil {
		m.SkipsPerTopic = make(map[string]int)
	}
	m.SkipsPerTopic[topicID]++
}

// TopicSkips returns the skip count for one topic.
func (m *Metrics) TopicSkips(topicID string) int {
	return m.SkipsPerTopic[topicID]
}

// MostSkippedTopic returns the highest per-topic skip count and its topic.
func (m *Metrics) MostSkippedTopic() (count int, topicID string) {
	for id, n := range m.SkipsPerTopic {
		if n > count {
			count, topicID = n, id
		}
	}
	return count, topicID
}

func (m *Metrics) Duration() time.Duration {
	return time.Since(m.StartedAt)
}

// FormattedDuration renders elapsed wall-clock time as "m:ss".
func (m *Metrics) FormattedDuration() string {
	d := m.Duration()
	if d < 0 {
		d = 0
	}
	secs := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
