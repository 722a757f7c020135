package conversations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"interview-coach/internal/evaluation"
)

func TestPGRepoSetInitialEvaluationWritesBothColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	initial := evaluation.InitialEvaluation{Score: 5, Strengths: []string{"Python"}, Gaps: []string{"Go"}, Summary: "ok"}
	clarifying := []evaluation.ClarifyingQuestion{{ID: 1, Question: "Any Go exposure?"}}

	mock.ExpectExec("UPDATE conversations").
		WithArgs("conv-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetInitialEvaluation(context.Background(), "conv-1", initial, clarifying); err != nil {
		t.Fatalf("SetInitialEvaluation: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSetFinalEvaluationReturnsNotFoundForMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectExec("UPDATE conversations").
		WithArgs("missing", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.SetFinalEvaluation(context.Background(), "missing", nil, evaluation.FinalEvaluation{Score: 7, Summary: "ok"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoGetByIDDecodesJSONBColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	createdAt := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "resume_text", "resume_file_name", "job_description",
		"initial_evaluation", "clarifying_questions", "clarifying_answers", "final_evaluation", "created_at",
	}).AddRow(
		"conv-1", "resume", "resume.pdf", "jd",
		`{"score": 5, "strengths": ["Python"], "gaps": ["Go"], "summary": "ok"}`,
		`[{"id": 1, "question": "Any Go exposure?"}]`,
		nil,
		nil,
		createdAt,
	)
	mock.ExpectQuery("SELECT (.+) FROM conversations").WithArgs("conv-1").WillReturnRows(rows)

	conv, err := repo.GetByID(context.Background(), "conv-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if conv.InitialEvaluation == nil || conv.InitialEvaluation.Score != 5 {
		t.Fatalf("initial evaluation not decoded: %+v", conv.InitialEvaluation)
	}
	if len(conv.ClarifyingQuestions) != 1 || conv.ClarifyingQuestions[0].ID != 1 {
		t.Fatalf("clarifying questions not decoded: %+v", conv.ClarifyingQuestions)
	}
	if conv.ClarifyingAnswers != nil || conv.FinalEvaluation != nil {
		t.Fatalf("null columns should stay nil: %+v", conv)
	}
	if conv.Stage(false) != StageClarifyingReady {
		t.Fatalf("expected stage QUESTIONS_CLARIFYING_READY, got %s", conv.Stage(false))
	}
}

func TestPGQuestionsRepoCreateBatchRunsInOneTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGQuestionsRepo{DB: db}
	now := time.Now().UTC()
	questions := []Question{
		{ID: "q-1", ConversationID: "conv-1", Category: CategoryHiringTypical, Text: "one", Position: 0, CreatedAt: now},
		{ID: "q-2", ConversationID: "conv-1", Category: CategoryHRChallenging, Text: "two", Position: 1, CreatedAt: now},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO questions").
		WithArgs("q-1", "conv-1", "HIRING_TYPICAL", "one", 0, now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO questions").
		WithArgs("q-2", "conv-1", "HR_CHALLENGING", "two", 1, now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := repo.CreateBatch(context.Background(), questions); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGAttemptsRepoDeleteReturnsNotFoundForMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGAttemptsRepo{DB: db}
	mock.ExpectExec("DELETE FROM attempts").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "missing"); !errors.Is(err, ErrAttemptNotFound) {
		t.Fatalf("expected ErrAttemptNotFound, got %v", err)
	}
}
