package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/quizmentor/quizmentor/internal/interview"
	"github.com/quizmentor/quizmentor/internal/models"
	"github.com/quizmentor/quizmentor/internal/providers/llm"
	mongorepo "github.com/quizmentor/quizmentor/internal/repositories/mongo"
	pgrepo "github.com/quizmentor/quizmentor/internal/repositories/postgres"
	"github.com/quizmentor/quizmentor/internal/utils"
)

type StartInterviewInput struct {
	UserID         string
	CourseID       string
	SelectedTopics []string // empty or ["random"] -> all course topics
	PersonaID      string
	RoleID         string
}

type StartInterviewResult struct {
	SessionID       string                     `json:"session_id"`
	Message         string                     `json:"message"`
	CurrentTopic    string                     `json:"current_topic"`
	Persona         *interview.PersonaSnapshot `json:"persona,omitempty"`
	TargetRole      *interview.RoleSnapshot    `json:"target_role,omitempty"`
	DifficultyLevel int                        `json:"difficulty_level"`
	DifficultyName  string                     `json:"difficulty_name"`
}

type RespondMetrics struct {
	QuestionCount int    `json:"question_count"`
	SkippedCount  int    `json:"skipped_count"`
	Duration      string `json:"duration"`
}

// RespondResult is either a normal turn or, when AutoEnd is set, the
// skip-ceiling signal: the session stays active and the caller is expected
// to invoke End next.
type RespondResult struct {
	AutoEnd      bool   `json:"auto_end,omitempty"`
	Reason       string `json:"reason,omitempty"`
	TopicID      string `json:"topic_id,omitempty"`
	SkippedCount int    `json:"skipped_count,omitempty"`

	Message         string               `json:"message,omitempty"`
	CurrentTopic    string               `json:"current_topic,omitempty"`
	Assessment      interview.Assessment `json:"assessment,omitempty"`
	DifficultyLevel int                  `json:"difficulty_level,omitempty"`
	DifficultyName  string               `json:"difficulty_name,omitempty"`
	Metrics         *RespondMetrics      `json:"metrics,omitempty"`
}

type InterviewService interface {
	Start(ctx context.Context, in StartInterviewInput) (*StartInterviewResult, error)
	Get(ctx context.Context, sessionID string) (*interview.Session, error)
	Respond(ctx context.Context, sessionID, message string, skipped bool) (*RespondResult, error)
	End(ctx context.Context, sessionID string) (*models.InterviewRecord, error)
	History(ctx context.Context, userID string, limit int64) ([]models.InterviewRecord, error)
}

type interviewService struct {
	registry    *interview.Registry
	courses     pgrepo.CourseRepository
	personas    pgrepo.PersonaRepository
	history     mongorepo.HistoryRepository
	performance pgrepo.PerformanceRepository
	ai          llm.Interviewer
	log         *logrus.Logger
}

func NewInterviewService(
	registry *interview.Registry,
	courses pgrepo.CourseRepository,
	personas pgrepo.PersonaRepository,
	history mongorepo.HistoryRepository,
	performance pgrepo.PerformanceRepository,
	ai llm.Interviewer,
	log *logrus.Logger,
) InterviewService {
	if log == nil {
		log = logrus.New()
	}
	return &interviewService{
		registry:    registry,
		courses:     courses,
		personas:    personas,
		history:     history,
		performance: performance,
		ai:          ai,
		log:         log,
	}
}

func (s *interviewService) Start(ctx context.Context, in StartInterviewInput) (*StartInterviewResult, error) {
	const op = "InterviewService.Start"

	if in.UserID == "" || in.CourseID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and course_id are required", nil)
	}

	course, err := s.courses.GetByID(ctx, in.CourseID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "course not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get course", err)
	}

	selected, snapshots, err := s.resolveTopics(ctx, in.CourseID, in.SelectedTopics)
	if err != nil {
		return nil, err
	}

	var persona *interview.PersonaSnapshot
	if in.PersonaID != "" {
		p, err := s.personas.GetPersona(ctx, in.PersonaID)
		if err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				return nil, utils.E(utils.CodeNotFound, op, "persona not found", err)
			}
			return nil, utils.E(utils.CodeInternal, op, "failed to get persona", err)
		}
		persona = &interview.PersonaSnapshot{
			ID:               p.ID,
			Name:             p.Name,
			Style:            p.Style,
			FocusAreas:       p.FocusAreas,
			EvaluationWeight: p.EvaluationWeight,
		}
	}

	var role *interview.RoleSnapshot
	if in.RoleID != "" {
		r, err := s.personas.GetRole(ctx, in.RoleID, in.CourseID)
		if err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				return nil, utils.E(utils.CodeNotFound, op, "target role not found", err)
			}
			return nil, utils.E(utils.CodeInternal, op, "failed to get target role", err)
		}
		role = &interview.RoleSnapshot{
			ID:           r.ID,
			Name:         r.Name,
			Level:        r.Level,
			BaseLevel:    r.BaseLevel,
			Type:         r.Type,
			Expectations: r.Expectations,
			FocusTopics:  r.FocusTopics,
		}
	}

	sess := s.registry.Create(interview.CreateParams{
		UserID:         in.UserID,
		CourseID:       course.ID,
		CourseName:     course.Name,
		SelectedTopics: selected,
		Topics:         snapshots,
		Persona:        persona,
		TargetRole:     role,
	})

	opening, err := s.ai.Opening(ctx, llm.OpeningInput{
		CourseName: course.Name,
		Topics:     snapshots,
		Persona:    persona,
		TargetRole: role,
		Difficulty: sess.Difficulty.Level(),
	})
	if err != nil {
		// roll the fresh session back out so a retry starts clean
		_, _ = s.registry.Evict(sess.ID)
		return nil, utils.E(utils.CodeUnavailable, op, "failed to generate interview opening", err)
	}

	sess.Append(interview.Message{
		Role:    interview.RoleInterviewer,
		Content: opening.Message,
		Topic:   opening.CurrentTopic,
	})
	sess.Metrics.RecordQuestion()

	return &StartInterviewResult{
		SessionID:       sess.ID,
		Message:         opening.Message,
		CurrentTopic:    opening.CurrentTopic,
		Persona:         persona,
		TargetRole:      role,
		DifficultyLevel: int(sess.Difficulty.Level()),
		DifficultyName:  sess.Difficulty.Level().String(),
	}, nil
}

func (s *interviewService) Get(ctx context.Context, sessionID string) (*interview.Session, error) {
	const op = "InterviewService.Get"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}
	sess, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, utils.E(utils.CodeNotFound, op, "session expired or invalid", err)
	}
	return sess, nil
}

func (s *interviewService) Respond(ctx context.Context, sessionID, message string, skipped bool) (*RespondResult, error) {
	const op = "InterviewService.Respond"

	sess, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, utils.E(utils.CodeNotFound, op, "session expired or invalid", err)
	}

	topic := sess.CurrentTopic()

	if skipped && sess.Metrics.TopicSkips(topic)+1 >= interview.MaxTopicSkips {
		// Skip ceiling hit: record the skip, surface the signal, and leave
		// termination to the caller. No generation call is made.
		sess.Metrics.RecordSkip(topic)
		sess.Append(interview.Message{
			Role:    interview.RoleUser,
			Content: message,
			Skipped: true,
		})
		return &RespondResult{
			AutoEnd:      true,
			Reason:       "topic skip limit reached",
			Message:      "Let's wrap up here. Thanks for your time today.",
			TopicID:      topic,
			SkippedCount: sess.Metrics.SkippedCount,
		}, nil
	}

	// The generation call is the only suspension point; nothing mutates
	// before it succeeds, so a failed turn leaves the session untouched.
	turn, err := s.ai.Turn(ctx, llm.TurnInput{
		CourseName:  sess.CourseName,
		Topics:      sess.Topics,
		Transcript:  sess.Transcript(),
		UserMessage: message,
		Skipped:     skipped,
		Persona:     sess.Persona,
		TargetRole:  sess.TargetRole,
		Difficulty:  sess.Difficulty.Level(),
	})
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to generate interview turn", err)
	}

	// Authoritative mutation order: assess, then counts, then transcript.
	if !skipped && turn.Assessment != "" {
		if _, err := sess.Difficulty.Observe(turn.Assessment); err != nil {
			s.log.WithFields(logrus.Fields{
				"session_id": sess.ID,
				"assessment": string(turn.Assessment),
			}).Warn("ignoring unknown assessment label")
		}
	}
	if skipped {
		sess.Metrics.RecordSkip(topic)
	}
	if !turn.Probing {
		sess.Metrics.RecordQuestion()
	}

	sess.Append(interview.Message{
		Role:    interview.RoleUser,
		Content: message,
		Skipped: skipped,
	})
	sess.Append(interview.Message{
		Role:    interview.RoleInterviewer,
		Content: turn.Message,
		Topic:   turn.CurrentTopic,
	})

	assessment := turn.Assessment
	if skipped {
		assessment = ""
	}

	return &RespondResult{
		Message:         turn.Message,
		CurrentTopic:    turn.CurrentTopic,
		Assessment:      assessment,
		DifficultyLevel: int(sess.Difficulty.Level()),
		DifficultyName:  sess.Difficulty.Level().String(),
		Metrics: &RespondMetrics{
			QuestionCount: sess.Metrics.QuestionCount,
			SkippedCount:  sess.Metrics.SkippedCount,
			Duration:      sess.Metrics.FormattedDuration(),
		},
	}, nil
}

func (s *interviewService) End(ctx context.Context, sessionID string) (*models.InterviewRecord, error) {
	const op = "InterviewService.End"

	sess, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, utils.E(utils.CodeNotFound, op, "session expired or invalid", err)
	}

	summary, err := s.ai.Summary(ctx, llm.SummaryInput{
		CourseName: sess.CourseName,
		Topics:     sess.Topics,
		Transcript: sess.Transcript(),
		Persona:    sess.Persona,
		TargetRole: sess.TargetRole,
		Difficulty: sess.Difficulty.Level(),
		History:    sess.Difficulty.History(),
	})
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to generate interview summary", err)
	}

	endedAt := time.Now().UTC()
	rec := buildInterviewRecord(sess, summary, endedAt)

	// The archive write precedes eviction: if it fails the session stays
	// active and End can be retried.
	if err := s.history.Insert(ctx, rec); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist interview record", err)
	}
	if _, err := s.registry.Evict(sess.ID); err != nil {
		return nil, utils.E(utils.CodeNotFound, op, "session expired or invalid", err)
	}

	perf := &models.PerformanceRecord{
		ID:              uuid.NewString(),
		UserID:          sess.UserID,
		CourseID:        sess.CourseID,
		Kind:            "interview",
		Score:           summary.Score,
		DifficultyLevel: int(sess.Difficulty.Level()),
		QuestionCount:   sess.Metrics.QuestionCount,
		SkippedCount:    sess.Metrics.SkippedCount,
		DurationSeconds: int64(endedAt.Sub(sess.StartedAt).Seconds()),
		TakenAt:         endedAt,
	}
	if err := s.performance.Insert(ctx, perf); err != nil {
		s.log.WithError(err).WithField("session_id", sess.ID).
			Warn("failed to record interview performance")
	}

	return rec, nil
}

func (s *interviewService) History(ctx context.Context, userID string, limit int64) ([]models.InterviewRecord, error) {
	const op = "InterviewService.History"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	out, err := s.history.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list interview history", err)
	}
	return out, nil
}

func (s *interviewService) resolveTopics(ctx context.Context, courseID string, selected []string) ([]string, []interview.TopicSnapshot, error) {
	const op = "InterviewService.Start"

	random := len(selected) == 0
	for _, t := range selected {
		if t == interview.RandomTopics {
			random = true
			break
		}
	}

	var (
		topics []models.Topic
		err    error
	)
	if random {
		topics, err = s.courses.ListTopics(ctx, courseID)
	} else {
		topics, err = s.courses.GetTopics(ctx, courseID, selected)
	}
	if err != nil {
		return nil, nil, utils.E(utils.CodeInternal, op, "failed to load topics", err)
	}
	if len(topics) == 0 {
		return nil, nil, utils.E(utils.CodeInvalidArgument, op, "no matching topics for course", nil)
	}

	snapshots := make([]interview.TopicSnapshot, 0, len(topics))
	for _, t := range topics {
		snapshots = append(snapshots, interview.TopicSnapshot{
			ID:        t.ID,
			Name:      t.Name,
			Subtopics: t.Subtopics,
		})
	}

	if random {
		return []string{interview.RandomTopics}, snapshots, nil
	}
	return selected, snapshots, nil
}

func buildInterviewRecord(sess *interview.Session, summary *interview.Summary, endedAt time.Time) *models.InterviewRecord {
	return &models.InterviewRecord{
		SessionID:      sess.ID,
		UserID:         sess.UserID,
		CourseID:       sess.CourseID,
		CourseName:     sess.CourseName,
		SelectedTopics: sess.SelectedTopics,
		Topics:         sess.Topics,
		Persona:        sess.Persona,
		TargetRole:     sess.TargetRole,

		Messages: sess.Transcript(),
		Summary:  *summary,

		DifficultyLevel:   int(sess.Difficulty.Level()),
		DifficultyName:    sess.Difficulty.Level().String(),
		DifficultyHistory: sess.Difficulty.History(),

		QuestionCount: sess.Metrics.QuestionCount,
		SkippedCount:  sess.Metrics.SkippedCount,
		SkipsPerTopic: sess.Metrics.SkipsPerTopic,
		Duration:      sess.Metrics.FormattedDuration(),

		StartedAt: sess.StartedAt,
		EndedAt:   endedAt,
	}
}
