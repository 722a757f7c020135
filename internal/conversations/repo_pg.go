package conversations

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"interview-coach/internal/evaluation"
)

// PGRepo implements Repo using Postgres. Evaluation artifacts are stored as
// structured jsonb columns so a partial stage write can never be observed.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new conversation with only its immutable inputs set.
func (r *PGRepo) Create(ctx context.Context, conv Conversation) error {
	const query = `
INSERT INTO conversations (id, resume_text, resume_file_name, job_description, created_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.DB.ExecContext(ctx, query,
		conv.ID,
		conv.ResumeText,
		conv.ResumeFileName,
		conv.JobDescription,
		conv.CreatedAt,
	)
	return err
}

const conversationColumns = `id, resume_text, resume_file_name, job_description,
       initial_evaluation, clarifying_questions, clarifying_answers, final_evaluation, created_at`

// GetByID returns a conversation by ID.
func (r *PGRepo) GetByID(ctx context.Context, conversationID string) (Conversation, error) {
	const query = `
SELECT ` + conversationColumns + `
FROM conversations
WHERE id = $1
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, conversationID)
	conv, err := scanConversation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Conversation{}, ErrNotFound
		}
		return Conversation{}, err
	}
	return conv, nil
}

// List returns all conversations, newest first.
func (r *PGRepo) List(ctx context.Context) ([]Conversation, error) {
	const query = `
SELECT ` + conversationColumns + `
FROM conversations
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Conversation{}
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, conv)
	}
	return out, rows.Err()
}

// SetInitialEvaluation writes the initial evaluation and clarifying questions
// in one statement.
func (r *PGRepo) SetInitialEvaluation(ctx context.Context, conversationID string, initial evaluation.InitialEvaluation, clarifying []evaluation.ClarifyingQuestion) error {
	if clarifying == nil {
		clarifying = []evaluation.ClarifyingQuestion{}
	}
	initialPayload, err := json.Marshal(initial)
	if err != nil {
		return err
	}
	clarifyingPayload, err := json.Marshal(clarifying)
	if err != nil {
		return err
	}
	const query = `
UPDATE conversations
SET initial_evaluation = $2, clarifying_questions = $3
WHERE id = $1`
	return r.execExpectingRow(ctx, query, conversationID, string(initialPayload), string(clarifyingPayload))
}

// SetFinalEvaluation writes the clarifying answers and final evaluation in
// one statement.
func (r *PGRepo) SetFinalEvaluation(ctx context.Context, conversationID string, answers []evaluation.ClarifyingAnswer, final evaluation.FinalEvaluation) error {
	if answers == nil {
		answers = []evaluation.ClarifyingAnswer{}
	}
	answersPayload, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	finalPayload, err := json.Marshal(final)
	if err != nil {
		return err
	}
	const query = `
UPDATE conversations
SET clarifying_answers = $2, final_evaluation = $3
WHERE id = $1`
	return r.execExpectingRow(ctx, query, conversationID, string(answersPayload), string(finalPayload))
}

// Delete removes the conversation row. Question and attempt rows go with it
// via the schema's cascading foreign keys.
func (r *PGRepo) Delete(ctx context.Context, conversationID string) error {
	return r.execExpectingRow(ctx, `DELETE FROM conversations WHERE id = $1`, conversationID)
}

func (r *PGRepo) execExpectingRow(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConversation(row rowScanner) (Conversation, error) {
	var c Conversation
	var initial, clarifying, answers, final sql.NullString
	err := row.Scan(
		&c.ID,
		&c.ResumeText,
		&c.ResumeFileName,
		&c.JobDescription,
		&initial,
		&clarifying,
		&answers,
		&final,
		&c.CreatedAt,
	)
	if err != nil {
		return Conversation{}, err
	}
	if initial.Valid {
		var v evaluation.InitialEvaluation
		if err := json.Unmarshal([]byte(initial.String), &v); err != nil {
			return Conversation{}, err
		}
		c.InitialEvaluation = &v
	}
	if clarifying.Valid {
		c.ClarifyingQuestions = []evaluation.ClarifyingQuestion{}
		if err := json.Unmarshal([]byte(clarifying.String), &c.ClarifyingQuestions); err != nil {
			return Conversation{}, err
		}
	}
	if answers.Valid {
		c.ClarifyingAnswers = []evaluation.ClarifyingAnswer{}
		if err := json.Unmarshal([]byte(answers.String), &c.ClarifyingAnswers); err != nil {
			return Conversation{}, err
		}
	}
	if final.Valid {
		var v evaluation.FinalEvaluation
		if err := json.Unmarshal([]byte(final.String), &v); err != nil {
			return Conversation{}, err
		}
		c.FinalEvaluation = &v
	}
	return c, nil
}

// PGQuestionsRepo implements QuestionsRepo using Postgres.
type PGQuestionsRepo struct {
	DB *sql.DB
}

// CreateBatch inserts a generated question set in one transaction.
func (r *PGQuestionsRepo) CreateBatch(ctx context.Context, questions []Question) error {
	if len(questions) == 0 {
		return nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const query = `
INSERT INTO questions (id, conversation_id, category, question_text, position, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	for _, q := range questions {
		if _, err := tx.ExecContext(ctx, query, q.ID, q.ConversationID, string(q.Category), q.Text, q.Position, q.CreatedAt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetByID returns a question by ID.
func (r *PGQuestionsRepo) GetByID(ctx context.Context, questionID string) (Question, error) {
	const query = `
SELECT id, conversation_id, category, question_text, position, created_at
FROM questions
WHERE id = $1
LIMIT 1`
	var q Question
	var category string
	err := r.DB.QueryRowContext(ctx, query, questionID).Scan(
		&q.ID, &q.ConversationID, &category, &q.Text, &q.Position, &q.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Question{}, ErrQuestionNotFound
		}
		return Question{}, err
	}
	q.Category, err = ParseCategory(category)
	if err != nil {
		return Question{}, err
	}
	return q, nil
}

// ListByConversation returns a conversation's questions in creation order.
func (r *PGQuestionsRepo) ListByConversation(ctx context.Context, conversationID string) ([]Question, error) {
	const query = `
SELECT id, conversation_id, category, question_text, position, created_at
FROM questions
WHERE conversation_id = $1
ORDER BY position ASC`
	rows, err := r.DB.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Question{}
	for rows.Next() {
		var q Question
		var category string
		if err := rows.Scan(&q.ID, &q.ConversationID, &category, &q.Text, &q.Position, &q.CreatedAt); err != nil {
			return nil, err
		}
		if q.Category, err = ParseCategory(category); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// CountByConversation returns how many questions a conversation has.
func (r *PGQuestionsRepo) CountByConversation(ctx context.Context, conversationID string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions WHERE conversation_id = $1`, conversationID).Scan(&count)
	return count, err
}

// DeleteByConversation removes all of a conversation's questions.
func (r *PGQuestionsRepo) DeleteByConversation(ctx context.Context, conversationID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM questions WHERE conversation_id = $1`, conversationID)
	return err
}

// PGAttemptsRepo implements AttemptsRepo using Postgres.
type PGAttemptsRepo struct {
	DB *sql.DB
}

// Create appends an attempt.
func (r *PGAttemptsRepo) Create(ctx context.Context, attempt Attempt) error {
	const query = `
INSERT INTO attempts (id, question_id, transcription, feedback, is_approved, audio_path, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.ExecContext(ctx, query,
		attempt.ID,
		attempt.QuestionID,
		attempt.Transcription,
		attempt.Feedback,
		attempt.IsApproved,
		attempt.AudioPath,
		attempt.CreatedAt,
	)
	return err
}

// GetByID returns an attempt by ID.
func (r *PGAttemptsRepo) GetByID(ctx context.Context, attemptID string) (Attempt, error) {
	const query = `
SELECT id, question_id, transcription, feedback, is_approved, audio_path, created_at
FROM attempts
WHERE id = $1
LIMIT 1`
	var a Attempt
	err := r.DB.QueryRowContext(ctx, query, attemptID).Scan(
		&a.ID, &a.QuestionID, &a.Transcription, &a.Feedback, &a.IsApproved, &a.AudioPath, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attempt{}, ErrAttemptNotFound
		}
		return Attempt{}, err
	}
	return a, nil
}

// ListByQuestion returns a question's attempts, oldest first.
func (r *PGAttemptsRepo) ListByQuestion(ctx context.Context, questionID string) ([]Attempt, error) {
	const query = `
SELECT id, question_id, transcription, feedback, is_approved, audio_path, created_at
FROM attempts
WHERE question_id = $1
ORDER BY created_at ASC, id ASC`
	rows, err := r.DB.QueryContext(ctx, query, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Attempt{}
	for rows.Next() {
		var a Attempt
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.Transcription, &a.Feedback, &a.IsApproved, &a.AudioPath, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Delete removes one attempt record.
func (r *PGAttemptsRepo) Delete(ctx context.Context, attemptID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM attempts WHERE id = $1`, attemptID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAttemptNotFound
	}
	return nil
}

// DeleteByQuestion removes all attempts for a question.
func (r *PGAttemptsRepo) DeleteByQuestion(ctx context.Context, questionID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM attempts WHERE question_id = $1`, questionID)
	return err
}
