package llm

import (
	"context"
	"errors"

	"github.com/quizmentor/quizmentor/internal/interview"
)

// Mock is a scripted Interviewer/QuestionGenerator for tests. Turns are
// consumed in order; Err, when set, fails the next call of any kind.
type Mock struct {
	OpeningOut *OpeningResult
	Turns      []*TurnResult
	SummaryOut *interview.Summary
	Questions  []GeneratedQuestion
	Err        error

	OpeningCalls int
	TurnCalls    int
	SummaryCalls int
	LastTurnIn   TurnInput
}

func NewMock() *Mock {
	return &Mock{
		OpeningOut: &OpeningResult{Message: "Welcome. Let's start.", CurrentTopic: "t1"},
		SummaryOut: &interview.Summary{Score: 70, OverallFeedback: "solid"},
	}
}

func (m *Mock) Opening(_ context.Context, _ OpeningInput) (*OpeningResult, error) {
	m.OpeningCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.OpeningOut, nil
}

func (m *Mock) Turn(_ context.Context, in TurnInput) (*TurnResult, error) {
	m.TurnCalls++
	m.LastTurnIn = in
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Turns) == 0 {
		return nil, errors.New("mock: no scripted turns left")
	}
	next := m.Turns[0]
	m.Turns = m.Turns[1:]
	return next, nil
}

func (m *Mock) Summary(_ context.Context, _ SummaryInput) (*interview.Summary, error) {
	m.SummaryCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.SummaryOut, nil
}

func (m *Mock) GenerateQuestions(_ context.Context, _ QuestionRequest) ([]GeneratedQuestion, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Questions, nil
}
