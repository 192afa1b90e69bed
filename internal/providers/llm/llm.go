package llm

import (
	"context"

	"github.com/quizmentor/quizmentor/internal/interview"
)

// OpeningInput carries the denormalized session context for the first
// interviewer message.
type OpeningInput struct {
	CourseName string
	Topics     []interview.TopicSnapshot
	Persona    *interview.PersonaSnapshot
	TargetRole *interview.RoleSnapshot
	Difficulty interview.Level
}

type OpeningResult struct {
	Message      string `json:"message"`
	CurrentTopic string `json:"current_topic"`
}

type TurnInput struct {
	CourseName  string
	Topics      []interview.TopicSnapshot
	Transcript  []interview.Message
	UserMessage string
	Skipped     bool
	Persona     *interview.PersonaSnapshot
	TargetRole  *interview.RoleSnapshot
	Difficulty  interview.Level
}

// TurnResult is the interviewer's next move. Assessment is empty on skipped
// turns; Probing marks a follow-up that does not count as a new question.
type TurnResult struct {
	Message      string               `json:"message"`
	CurrentTopic string               `json:"current_topic"`
	Assessment   interview.Assessment `json:"assessment,omitempty"`
	Probing      bool                 `json:"probing"`
}

type SummaryInput struct {
	CourseName string
	Topics     []interview.TopicSnapshot
	Transcript []interview.Message
	Persona    *interview.PersonaSnapshot
	TargetRole *interview.RoleSnapshot
	Difficulty interview.Level
	History    []interview.Adjustment
}

// Interviewer drives a multi-turn mock interview. Implementations return
// structured results parsed from the model's JSON output.
type Interviewer interface {
	Opening(ctx context.Context, in OpeningInput) (*OpeningResult, error)
	Turn(ctx context.Context, in TurnInput) (*TurnResult, error)
	Summary(ctx context.Context, in SummaryInput) (*interview.Summary, error)
}

type QuestionRequest struct {
	CourseName string
	TopicName  string
	Count      int
	Difficulty int // 1-4
}

type GeneratedQuestion struct {
	Text        string   `json:"text"`
	Choices     []string `json:"choices"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
	Difficulty  int      `json:"difficulty"`
}

// QuestionGenerator produces quiz questions in bulk; consumed by the
// generation worker pool.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, in QuestionRequest) ([]GeneratedQuestion, error)
}
