package services

import (
	"context"
	"errors"
	"testing"

	"github.com/quizmentor/quizmentor/internal/models"
	"github.com/quizmentor/quizmentor/internal/providers/embedding"
	"github.com/quizmentor/quizmentor/internal/providers/llm"
	pgrepo "github.com/quizmentor/quizmentor/internal/repositories/postgres"
	"github.com/quizmentor/quizmentor/internal/utils"
)

type fakeQuizRepo struct {
	inserted []models.QuizQuestion
	similar  []models.QuizQuestion
	lastFrom *models.QuizQuestion
}

func (f *fakeQuizRepo) InsertBatch(ctx context.Context, qs []models.QuizQuestion) error {
	f.inserted = append(f.inserted, qs...)
	return nil
}
func (f *fakeQuizRepo) GetByID(ctx context.Context, id string) (*models.QuizQuestion, error) {
	for i := range f.inserted {
		if f.inserted[i].ID == id {
			return &f.inserted[i], nil
		}
	}
	return nil, utils.ErrNotFound
}
func (f *fakeQuizRepo) List(ctx context.Context, filter pgrepo.QuizFilter) ([]models.QuizQuestion, error) {
	return f.inserted, nil
}
func (f *fakeQuizRepo) SimilarTo(ctx context.Context, q *models.QuizQuestion, limit int) ([]models.QuizQuestion, error) {
	f.lastFrom = q
	if len(q.Embedding.Slice()) == 0 {
		return nil, nil
	}
	return f.similar, nil
}
func (f *fakeQuizRepo) Delete(ctx context.Context, id string) error { return nil }

type fakeEmbedder struct {
	vectors [][]float32
	err     error
	calls   int
	last    []string
}

func (f *fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	f.last = texts
	if f.err != nil {
		return nil, f.err
	}
	return f.vectors, nil
}
func (f *fakeEmbedder) Close() error { return nil }

func generatedQuestions() []llm.GeneratedQuestion {
	return []llm.GeneratedQuestion{
		{Text: "What does Raft elect?", Choices: []string{"a", "b", "c", "d"}, Answer: "a", Difficulty: 2},
		{Text: "What is a quorum?", Choices: []string{"a", "b", "c", "d"}, Answer: "b", Difficulty: 2},
	}
}

func TestStoreGenerated_AttachesEmbeddings(t *testing.T) {
	repo := &fakeQuizRepo{}
	emb := &fakeEmbedder{vectors: [][]float32{{0.1, 0.2}, {0.3, 0.4}}}
	svc := NewQuizService(repo, &fakePerformanceRepo{}, nil, emb, nil)

	rows, err := svc.StoreGenerated(context.Background(), "c1", "t1", generatedQuestions())
	if err != nil {
		t.Fatalf("StoreGenerated failed: %v", err)
	}
	if len(rows) != 2 || len(repo.inserted) != 2 {
		t.Fatalf("expected 2 stored rows, got %d returned / %d inserted", len(rows), len(repo.inserted))
	}
	if emb.calls != 1 || len(emb.last) != 2 || emb.last[0] != "What does Raft elect?" {
		t.Errorf("embedder must receive the question texts in one batch, got %+v", emb.last)
	}
	for i, want := range emb.vectors {
		got := repo.inserted[i].Embedding.Slice()
		if len(got) != len(want) || got[0] != want[0] {
			t.Errorf("row %d stored without its vector: got %v want %v", i, got, want)
		}
	}
}

func TestStoreGenerated_EmbedderFailureStillStores(t *testing.T) {
	repo := &fakeQuizRepo{}
	emb := &fakeEmbedder{err: errors.New("embedding model down")}
	svc := NewQuizService(repo, &fakePerformanceRepo{}, nil, emb, nil)

	rows, err := svc.StoreGenerated(context.Background(), "c1", "t1", generatedQuestions())
	if err != nil {
		t.Fatalf("embedding failure must not block storage: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 stored rows, got %d", len(rows))
	}
	for i, row := range repo.inserted {
		if len(row.Embedding.Slice()) != 0 {
			t.Errorf("row %d unexpectedly carries a vector", i)
		}
	}
}

func TestSimilar_UsesStoredEmbedding(t *testing.T) {
	repo := &fakeQuizRepo{similar: []models.QuizQuestion{{ID: "q2"}, {ID: "q3"}}}
	emb := &fakeEmbedder{vectors: [][]float32{{0.1, 0.2}, {0.3, 0.4}}}
	svc := NewQuizService(repo, &fakePerformanceRepo{}, nil, emb, nil)

	rows, err := svc.StoreGenerated(context.Background(), "c1", "t1", generatedQuestions())
	if err != nil {
		t.Fatalf("StoreGenerated failed: %v", err)
	}

	out, err := svc.Similar(context.Background(), rows[0].ID, 5)
	if err != nil {
		t.Fatalf("Similar failed: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected neighbours back, got %d", len(out))
	}
	if repo.lastFrom == nil || len(repo.lastFrom.Embedding.Slice()) == 0 {
		t.Error("similarity search must run from the stored vector")
	}
}

func TestSimilar_UnknownQuestion(t *testing.T) {
	svc := NewQuizService(&fakeQuizRepo{}, &fakePerformanceRepo{}, nil, nil, nil)

	_, err := svc.Similar(context.Background(), "missing", 5)
	if !utils.IsCode(err, utils.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

var (
	_ pgrepo.QuizRepository = (*fakeQuizRepo)(nil)
	_ embedding.Provider    = (*fakeEmbedder)(nil)
)
