package services

import (
	"context"
	"errors"
	"testing"

	"github.com/quizmentor/quizmentor/internal/interview"
	"github.com/quizmentor/quizmentor/internal/models"
	"github.com/quizmentor/quizmentor/internal/providers/llm"
	pgrepo "github.com/quizmentor/quizmentor/internal/repositories/postgres"
	"github.com/quizmentor/quizmentor/internal/utils"
)

type fakeCourseRepo struct {
	course *models.Course
	topics []models.Topic
}

func (f *fakeCourseRepo) Insert(ctx context.Context, c *models.Course) error { return nil }
func (f *fakeCourseRepo) GetByID(ctx context.Context, id string) (*models.Course, error) {
	if f.course == nil || f.course.ID != id {
		return nil, utils.ErrNotFound
	}
	return f.course, nil
}
func (f *fakeCourseRepo) List(ctx context.Context, limit int) ([]models.Course, error) {
	return nil, nil
}
func (f *fakeCourseRepo) Update(ctx context.Context, c *models.Course) error { return nil }
func (f *fakeCourseRepo) Delete(ctx context.Context, id string) error        { return nil }
func (f *fakeCourseRepo) ListTopics(ctx context.Context, courseID string) ([]models.Topic, error) {
	return f.topics, nil
}
func (f *fakeCourseRepo) GetTopics(ctx context.Context, courseID string, topicIDs []string) ([]models.Topic, error) {
	var out []models.Topic
	for _, t := range f.topics {
		for _, id := range topicIDs {
			if t.ID == id {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

type fakePersonaRepo struct {
	persona *models.Persona
	role    *models.TargetRole
}

func (f *fakePersonaRepo) GetPersona(ctx context.Context, id string) (*models.Persona, error) {
	if f.persona == nil || f.persona.ID != id {
		return nil, utils.ErrNotFound
	}
	return f.persona, nil
}
func (f *fakePersonaRepo) ListPersonas(ctx context.Context) ([]models.Persona, error) {
	return nil, nil
}
func (f *fakePersonaRepo) GetRole(ctx context.Context, id, courseID string) (*models.TargetRole, error) {
	if f.role == nil || f.role.ID != id {
		return nil, utils.ErrNotFound
	}
	return f.role, nil
}
func (f *fakePersonaRepo) ListRoles(ctx context.Context, courseID string) ([]models.TargetRole, error) {
	return nil, nil
}

type fakeHistoryRepo struct {
	records    []*models.InterviewRecord
	failInsert error
}

func (f *fakeHistoryRepo) Insert(ctx context.Context, rec *models.InterviewRecord) error {
	if f.failInsert != nil {
		return f.failInsert
	}
	f.records = append(f.records, rec)
	return nil
}
func (f *fakeHistoryRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.InterviewRecord, error) {
	for _, r := range f.records {
		if r.SessionID == sessionID {
			return r, nil
		}
	}
	return nil, utils.ErrNotFound
}
func (f *fakeHistoryRepo) ListByUser(ctx context.Context, userID string, limit int64) ([]models.InterviewRecord, error) {
	var out []models.InterviewRecord
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

type fakePerformanceRepo struct {
	inserted []*models.PerformanceRecord
}

func (f *fakePerformanceRepo) Insert(ctx context.Context, rec *models.PerformanceRecord) error {
	f.inserted = append(f.inserted, rec)
	return nil
}
func (f *fakePerformanceRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.PerformanceRecord, error) {
	return nil, nil
}
func (f *fakePerformanceRepo) ListByUserAndCourse(ctx context.Context, userID, courseID string, limit int) ([]models.PerformanceRecord, error) {
	return nil, nil
}

type testEnv struct {
	svc         InterviewService
	registry    *interview.Registry
	mock        *llm.Mock
	history     *fakeHistoryRepo
	performance *fakePerformanceRepo
	roles       *fakePersonaRepo
}

func newTestEnv() *testEnv {
	registry := interview.NewRegistry()
	mock := llm.NewMock()
	history := &fakeHistoryRepo{}
	performance := &fakePerformanceRepo{}
	courses := &fakeCourseRepo{
		course: &models.Course{ID: "c1", Name: "Distributed Systems"},
		topics: []models.Topic{
			{ID: "t1", CourseID: "c1", Name: "Consensus"},
			{ID: "t2", CourseID: "c1", Name: "Replication"},
		},
	}
	roles := &fakePersonaRepo{
		role: &models.TargetRole{ID: "r1", Name: "Backend Engineer", Level: 1},
	}
	svc := NewInterviewService(registry, courses, roles, history, performance, mock, nil)
	return &testEnv{
		svc:         svc,
		registry:    registry,
		mock:        mock,
		history:     history,
		performance: performance,
		roles:       roles,
	}
}

func startSession(t *testing.T, env *testEnv, roleID string) *StartInterviewResult {
	t.Helper()
	out, err := env.svc.Start(context.Background(), StartInterviewInput{
		UserID:   "u1",
		CourseID: "c1",
		RoleID:   roleID,
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return out
}

func TestStart_DerivesDifficultyFromRole(t *testing.T) {
	env := newTestEnv()
	env.roles.role.Level = 3

	out := startSession(t, env, "r1")
	if out.SessionID == "" {
		t.Fatal("expected a session id")
	}
	if out.DifficultyLevel != 3 || out.DifficultyName != "Senior" {
		t.Errorf("expected level 3 (Senior), got %d (%s)", out.DifficultyLevel, out.DifficultyName)
	}

	sess, err := env.registry.Get(out.SessionID)
	if err != nil {
		t.Fatalf("session missing from registry: %v", err)
	}
	if sess.Metrics.QuestionCount != 1 {
		t.Errorf("opening must count as question 1, got %d", sess.Metrics.QuestionCount)
	}
	if len(sess.Messages) != 1 || sess.Messages[0].Role != interview.RoleInterviewer {
		t.Errorf("expected one interviewer message, got %+v", sess.Messages)
	}
}

func TestStart_DefaultDifficultyWithoutRole(t *testing.T) {
	env := newTestEnv()
	out := startSession(t, env, "")
	if out.DifficultyLevel != 2 {
		t.Errorf("expected default level 2, got %d", out.DifficultyLevel)
	}
}

func TestStart_OpeningFailureRollsBack(t *testing.T) {
	env := newTestEnv()
	env.mock.Err = errors.New("model down")

	_, err := env.svc.Start(context.Background(), StartInterviewInput{UserID: "u1", CourseID: "c1"})
	if !utils.IsCode(err, utils.CodeUnavailable) {
		t.Fatalf("expected UNAVAILABLE, got %v", err)
	}
	if env.registry.Len() != 0 {
		t.Errorf("failed start must not leave a session behind, got %d", env.registry.Len())
	}
}

func TestRespond_SustainedExcellenceRaisesDifficulty(t *testing.T) {
	env := newTestEnv()
	env.roles.role.Level = 1
	out := startSession(t, env, "r1")

	env.mock.Turns = []*llm.TurnResult{
		{Message: "Next question.", CurrentTopic: "t1", Assessment: interview.AssessmentExcellent},
		{Message: "Harder question.", CurrentTopic: "t2", Assessment: interview.AssessmentExcellent},
	}

	first, err := env.svc.Respond(context.Background(), out.SessionID, "answer one", false)
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if first.DifficultyLevel != 1 {
		t.Errorf("one excellent answer must not adjust, got level %d", first.DifficultyLevel)
	}

	second, err := env.svc.Respond(context.Background(), out.SessionID, "answer two", false)
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if second.DifficultyLevel != 2 || second.DifficultyName != "Mid" {
		t.Errorf("expected level 2 after two excellent answers, got %d (%s)", second.DifficultyLevel, second.DifficultyName)
	}

	sess, _ := env.registry.Get(out.SessionID)
	hist := sess.Difficulty.History()
	if len(hist) != 1 || hist[0].From != interview.LevelJunior || hist[0].To != interview.LevelMid {
		t.Errorf("expected one adjustment 1 -> 2, got %+v", hist)
	}
}

func TestRespond_ProbingTurnDoesNotCountQuestion(t *testing.T) {
	env := newTestEnv()
	out := startSession(t, env, "")

	env.mock.Turns = []*llm.TurnResult{
		{Message: "Can you expand on that?", CurrentTopic: "t1", Assessment: interview.AssessmentGood, Probing: true},
		{Message: "Next question.", CurrentTopic: "t1", Assessment: interview.AssessmentGood},
	}

	res, err := env.svc.Respond(context.Background(), out.SessionID, "short answer", false)
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if res.Metrics.QuestionCount != 1 {
		t.Errorf("probing turn must not increment question count, got %d", res.Metrics.QuestionCount)
	}

	res, err = env.svc.Respond(context.Background(), out.SessionID, "fuller answer", false)
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if res.Metrics.QuestionCount != 2 {
		t.Errorf("non-probing turn must increment question count, got %d", res.Metrics.QuestionCount)
	}
}

func TestRespond_TopicSkipLimitYieldsAutoEnd(t *testing.T) {
	env := newTestEnv()
	out := startSession(t, env, "")

	// Two skips go through generation; the third hits the ceiling.
	env.mock.Turns = []*llm.TurnResult{
		{Message: "Let's try another angle.", CurrentTopic: "t1"},
		{Message: "One more on this topic.", CurrentTopic: "t1"},
	}

	for i := 0; i < 2; i++ {
		res, err := env.svc.Respond(context.Background(), out.SessionID, "skip", true)
		if err != nil {
			t.Fatalf("Respond %d failed: %v", i, err)
		}
		if res.AutoEnd {
			t.Fatalf("skip %d must not auto-end", i+1)
		}
		if res.Assessment != "" {
			t.Errorf("skipped turn must carry no assessment, got %q", res.Assessment)
		}
	}

	res, err := env.svc.Respond(context.Background(), out.SessionID, "skip", true)
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if !res.AutoEnd {
		t.Fatal("third skip on one topic must yield the auto-end signal")
	}
	if res.TopicID != "t1" || res.SkippedCount != 3 {
		t.Errorf("unexpected signal: %+v", res)
	}
	if env.mock.TurnCalls != 2 {
		t.Errorf("auto-end must not call generation, got %d turn calls", env.mock.TurnCalls)
	}

	// The session stays active; the caller ends it.
	if _, err := env.registry.Get(out.SessionID); err != nil {
		t.Errorf("session must remain active after the signal: %v", err)
	}
}

func TestRespond_UpstreamFailureLeavesSessionUnchanged(t *testing.T) {
	env := newTestEnv()
	out := startSession(t, env, "")

	sess, _ := env.registry.Get(out.SessionID)
	msgsBefore := len(sess.Messages)
	questionsBefore := sess.Metrics.QuestionCount

	env.mock.Err = errors.New("model down")
	_, err := env.svc.Respond(context.Background(), out.SessionID, "answer", false)
	if !utils.IsCode(err, utils.CodeUnavailable) {
		t.Fatalf("expected UNAVAILABLE, got %v", err)
	}

	if len(sess.Messages) != msgsBefore {
		t.Errorf("transcript mutated on failure: %d -> %d", msgsBefore, len(sess.Messages))
	}
	if sess.Metrics.QuestionCount != questionsBefore {
		t.Errorf("metrics mutated on failure")
	}
	if len(sess.Difficulty.Recent()) != 0 {
		t.Errorf("tracker mutated on failure")
	}
}

func TestRespond_UnknownAssessmentIsIgnored(t *testing.T) {
	env := newTestEnv()
	out := startSession(t, env, "")

	env.mock.Turns = []*llm.TurnResult{
		{Message: "Next.", CurrentTopic: "t1", Assessment: interview.Assessment("stellar")},
	}

	res, err := env.svc.Respond(context.Background(), out.SessionID, "answer", false)
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if res.DifficultyLevel != 2 {
		t.Errorf("unknown label must not adjust, got %d", res.DifficultyLevel)
	}

	sess, _ := env.registry.Get(out.SessionID)
	if len(sess.Difficulty.Recent()) != 0 {
		t.Errorf("unknown label must not enter the window")
	}
}

func TestEnd_PersistsAndEvicts(t *testing.T) {
	env := newTestEnv()
	env.roles.role.Level = 2
	out := startSession(t, env, "r1")

	rec, err := env.svc.End(context.Background(), out.SessionID)
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if rec.SessionID != out.SessionID {
		t.Errorf("record session id mismatch")
	}
	if rec.DifficultyLevel != 2 || rec.DifficultyName != "Mid" {
		t.Errorf("record must carry difficulty, got %d (%s)", rec.DifficultyLevel, rec.DifficultyName)
	}
	if rec.QuestionCount != 1 {
		t.Errorf("record must carry metrics, got %d questions", rec.QuestionCount)
	}
	if rec.EndedAt.IsZero() {
		t.Error("record must carry ended_at")
	}
	if len(env.history.records) != 1 {
		t.Fatalf("expected exactly one archived record, got %d", len(env.history.records))
	}
	if len(env.performance.inserted) != 1 || env.performance.inserted[0].Kind != "interview" {
		t.Errorf("expected one interview performance row")
	}
	if env.registry.Len() != 0 {
		t.Errorf("session must leave the registry on End")
	}

	// Second End on the same id must report not found.
	_, err = env.svc.End(context.Background(), out.SessionID)
	if !utils.IsCode(err, utils.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND on double End, got %v", err)
	}
}

func TestEnd_PersistFailureKeepsSessionActive(t *testing.T) {
	env := newTestEnv()
	out := startSession(t, env, "")

	env.history.failInsert = errors.New("mongo down")
	if _, err := env.svc.End(context.Background(), out.SessionID); err == nil {
		t.Fatal("expected End to fail when the archive write fails")
	}
	if _, err := env.registry.Get(out.SessionID); err != nil {
		t.Fatalf("session must stay active for retry: %v", err)
	}

	env.history.failInsert = nil
	if _, err := env.svc.End(context.Background(), out.SessionID); err != nil {
		t.Fatalf("retried End failed: %v", err)
	}
	if env.registry.Len() != 0 {
		t.Errorf("session must be evicted after successful retry")
	}
}

func TestRespond_UnknownSession(t *testing.T) {
	env := newTestEnv()
	_, err := env.svc.Respond(context.Background(), "nope", "hello", false)
	if !utils.IsCode(err, utils.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

var _ pgrepo.CourseRepository = (*fakeCourseRepo)(nil)
var _ pgrepo.PersonaRepository = (*fakePersonaRepo)(nil)
var _ pgrepo.PerformanceRepository = (*fakePerformanceRepo)(nil)
