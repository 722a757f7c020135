package conversations

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"interview-coach/internal/evaluation"
	"interview-coach/internal/shared/metrics"
	"interview-coach/internal/shared/storage/object"
	"interview-coach/internal/shared/telemetry"
)

// Service owns the conversation lifecycle: it enforces stage preconditions,
// calls the evaluation engine, and persists each stage's output atomically.
type Service struct {
	Repo      Repo
	Questions QuestionsRepo
	Attempts  AttemptsRepo
	Engine    *evaluation.Engine
	Store     object.ObjectStore
}

// QuestionDetail is a question with its accumulated attempt history.
type QuestionDetail struct {
	Question
	Attempts []Attempt `json:"attempts"`
}

// Detail is the full read model of one conversation.
type Detail struct {
	Conversation
	Stage     Stage            `json:"stage"`
	Questions []QuestionDetail `json:"questions"`
}

// Summary is the list read model: the conversation plus its derived stage.
type Summary struct {
	Conversation
	Stage Stage `json:"stage"`
}

// Create starts a new conversation from extracted resume text and a job
// description. Both are immutable afterwards.
func (s *Service) Create(ctx context.Context, resumeText, resumeFileName, jobDescription string) (Conversation, error) {
	if strings.TrimSpace(resumeText) == "" {
		return Conversation{}, fmt.Errorf("%w: resume text is required", ErrInvalidInput)
	}
	if strings.TrimSpace(jobDescription) == "" {
		return Conversation{}, fmt.Errorf("%w: job description is required", ErrInvalidInput)
	}

	conv := Conversation{
		ID:             uuid.NewString(),
		ResumeText:     resumeText,
		ResumeFileName: resumeFileName,
		JobDescription: jobDescription,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, conv); err != nil {
		return Conversation{}, err
	}
	telemetry.Info("conversation.created", map[string]any{
		"conversation_id": conv.ID,
		"resume_file":     conv.ResumeFileName,
	})
	return conv, nil
}

// List returns all conversations with their derived stages, newest first.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	convs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(convs))
	for _, conv := range convs {
		count, err := s.Questions.CountByConversation(ctx, conv.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, Summary{Conversation: conv, Stage: conv.Stage(count > 0)})
	}
	return out, nil
}

// Get returns one conversation with its questions and their attempts, both in
// creation order.
func (s *Service) Get(ctx context.Context, conversationID string) (Detail, error) {
	conv, err := s.Repo.GetByID(ctx, conversationID)
	if err != nil {
		return Detail{}, err
	}
	questions, err := s.Questions.ListByConversation(ctx, conversationID)
	if err != nil {
		return Detail{}, err
	}
	details := make([]QuestionDetail, 0, len(questions))
	for _, q := range questions {
		attempts, err := s.Attempts.ListByQuestion(ctx, q.ID)
		if err != nil {
			return Detail{}, err
		}
		details = append(details, QuestionDetail{Question: q, Attempts: attempts})
	}
	return Detail{
		Conversation: conv,
		Stage:        conv.Stage(len(questions) > 0),
		Questions:    details,
	}, nil
}

// Delete removes a conversation with all of its questions, attempts, and
// audio artifacts. The audio cleanup is best-effort: a failure is logged and
// does not undo the record deletion.
func (s *Service) Delete(ctx context.Context, conversationID string) error {
	if _, err := s.Repo.GetByID(ctx, conversationID); err != nil {
		return err
	}
	questions, err := s.Questions.ListByConversation(ctx, conversationID)
	if err != nil {
		return err
	}
	for _, q := range questions {
		if err := s.Attempts.DeleteByQuestion(ctx, q.ID); err != nil {
			return err
		}
	}
	if err := s.Questions.DeleteByConversation(ctx, conversationID); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, conversationID); err != nil {
		return err
	}
	if s.Store != nil {
		if err := s.Store.DeletePrefix(ctx, "audio/"+conversationID); err != nil {
			telemetry.Warn("conversation.audio_cleanup_failed", map[string]any{
				"conversation_id": conversationID,
				"error":           err.Error(),
			})
		}
	}
	telemetry.Info("conversation.deleted", map[string]any{
		"conversation_id": conversationID,
		"questions":       len(questions),
	})
	return nil
}

// RunInitialEvaluation produces the first-pass evaluation and its clarifying
// questions and writes both onto the conversation in one update. Re-running it
// overwrites the prior values (last write wins) without touching already
// generated questions or attempts. If either engine call fails, nothing is
// written.
func (s *Service) RunInitialEvaluation(ctx context.Context, conversationID string) (Conversation, error) {
	conv, err := s.Repo.GetByID(ctx, conversationID)
	if err != nil {
		return Conversation{}, err
	}

	initial, err := s.Engine.Evaluate(ctx, conv.ResumeText, conv.JobDescription)
	if err != nil {
		metrics.IncEvaluation(false)
		return Conversation{}, err
	}
	clarifying, err := s.Engine.ClarifyingQuestions(ctx, conv.ResumeText, conv.JobDescription, initial.Gaps)
	if err != nil {
		metrics.IncEvaluation(false)
		return Conversation{}, err
	}

	if err := s.Repo.SetInitialEvaluation(ctx, conversationID, initial, clarifying); err != nil {
		metrics.IncEvaluation(false)
		return Conversation{}, err
	}
	metrics.IncEvaluation(true)
	telemetry.Info("conversation.initial_evaluated", map[string]any{
		"conversation_id":      conversationID,
		"score":                initial.Score,
		"gaps":                 len(initial.Gaps),
		"clarifying_questions": len(clarifying),
		"reevaluated":          conv.InitialEvaluation != nil,
	})
	return s.Repo.GetByID(ctx, conversationID)
}

// SubmitClarifyingAnswers pairs the candidate's answers with the stored
// clarifying questions positionally, resolves the final evaluation, and
// writes answers and final evaluation together. Blank answers are tolerated
// as skipped questions. Requires an initial evaluation.
func (s *Service) SubmitClarifyingAnswers(ctx context.Context, conversationID string, answers []string) (Conversation, error) {
	conv, err := s.Repo.GetByID(ctx, conversationID)
	if err != nil {
		return Conversation{}, err
	}
	if conv.InitialEvaluation == nil {
		return Conversation{}, fmt.Errorf("%w: no initial evaluation to finalize", ErrPreconditionNotMet)
	}
	if len(answers) > len(conv.ClarifyingQuestions) {
		return Conversation{}, fmt.Errorf("%w: more answers than clarifying questions", ErrInvalidInput)
	}

	paired := make([]evaluation.ClarifyingAnswer, 0, len(conv.ClarifyingQuestions))
	for i, q := range conv.ClarifyingQuestions {
		answer := ""
		if i < len(answers) {
			answer = answers[i]
		}
		paired = append(paired, evaluation.ClarifyingAnswer{Question: q.Question, Answer: answer})
	}

	final, err := s.Engine.Finalize(ctx, conv.ResumeText, conv.JobDescription, *conv.InitialEvaluation, paired)
	if err != nil {
		metrics.IncFinalization(false)
		return Conversation{}, err
	}
	if err := s.Repo.SetFinalEvaluation(ctx, conversationID, paired, final); err != nil {
		metrics.IncFinalization(false)
		return Conversation{}, err
	}
	metrics.IncFinalization(true)
	telemetry.Info("conversation.finalized", map[string]any{
		"conversation_id": conversationID,
		"score":           final.Score,
		"remaining_gaps":  len(final.RemainingGaps),
	})
	return s.Repo.GetByID(ctx, conversationID)
}

// GenerateQuestions derives the 20-question practice set and persists it.
// The final evaluation is preferred as context; when the candidate skips
// clarification the initial evaluation serves instead. Calling it again
// appends another full set rather than replacing the first, which is
// surfaced via the regenerated flag in the log line and the growing count.
func (s *Service) GenerateQuestions(ctx context.Context, conversationID string) ([]Question, error) {
	conv, err := s.Repo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	outcome, err := evaluationOutcome(conv)
	if err != nil {
		return nil, err
	}

	generated, err := s.Engine.InterviewQuestions(ctx, conv.JobDescription, outcome)
	if err != nil {
		metrics.IncGeneration(false)
		return nil, err
	}

	existing, err := s.Questions.CountByConversation(ctx, conversationID)
	if err != nil {
		metrics.IncGeneration(false)
		return nil, err
	}

	now := time.Now().UTC()
	questions := make([]Question, 0, len(generated))
	for i, g := range generated {
		category, err := ParseCategory(g.Category)
		if err != nil {
			metrics.IncGeneration(false)
			return nil, err
		}
		questions = append(questions, Question{
			ID:             uuid.NewString(),
			ConversationID: conversationID,
			Category:       category,
			Text:           g.Question,
			Position:       existing + i,
			CreatedAt:      now,
		})
	}
	if err := s.Questions.CreateBatch(ctx, questions); err != nil {
		metrics.IncGeneration(false)
		return nil, err
	}
	metrics.IncGeneration(true)
	telemetry.Info("conversation.questions_generated", map[string]any{
		"conversation_id": conversationID,
		"count":           len(questions),
		"total":           existing + len(questions),
		"regenerated":     existing > 0,
	})
	return questions, nil
}

// RecordAttempt reviews one transcribed answer and appends it to the
// question's history. All-or-nothing: feedback is computed before any write,
// and an engine failure persists nothing.
func (s *Service) RecordAttempt(ctx context.Context, questionID, transcription, audioPath string) (Attempt, error) {
	if strings.TrimSpace(transcription) == "" {
		return Attempt{}, fmt.Errorf("%w: transcription is required", ErrInvalidInput)
	}
	question, err := s.Questions.GetByID(ctx, questionID)
	if err != nil {
		return Attempt{}, err
	}
	conv, err := s.Repo.GetByID(ctx, question.ConversationID)
	if err != nil {
		return Attempt{}, err
	}

	feedback, err := s.Engine.ReviewAttempt(ctx, question.Text, transcription, conv.JobDescription)
	if err != nil {
		metrics.IncFeedback(false)
		return Attempt{}, err
	}

	attempt := Attempt{
		ID:            uuid.NewString(),
		QuestionID:    questionID,
		Transcription: transcription,
		Feedback:      feedback.Feedback,
		IsApproved:    feedback.IsApproved,
		AudioPath:     audioPath,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.Attempts.Create(ctx, attempt); err != nil {
		metrics.IncFeedback(false)
		return Attempt{}, err
	}
	metrics.IncFeedback(true)
	telemetry.Info("attempt.recorded", map[string]any{
		"conversation_id": conv.ID,
		"question_id":     questionID,
		"attempt_id":      attempt.ID,
		"approved":        attempt.IsApproved,
	})
	return attempt, nil
}

// DeleteAttempt removes one attempt record. Removing its audio file is
// best-effort: a missing or undeletable file never blocks the record
// deletion.
func (s *Service) DeleteAttempt(ctx context.Context, attemptID string) error {
	attempt, err := s.Attempts.GetByID(ctx, attemptID)
	if err != nil {
		return err
	}
	if err := s.Attempts.Delete(ctx, attemptID); err != nil {
		return err
	}
	if s.Store != nil && attempt.AudioPath != "" {
		if err := s.Store.Delete(ctx, attempt.AudioPath); err != nil {
			telemetry.Warn("attempt.audio_cleanup_failed", map[string]any{
				"attempt_id": attemptID,
				"audio_path": attempt.AudioPath,
				"error":      err.Error(),
			})
		}
	}
	telemetry.Info("attempt.deleted", map[string]any{
		"attempt_id":  attemptID,
		"question_id": attempt.QuestionID,
	})
	return nil
}

// evaluationOutcome picks the evaluation context for question generation:
// final if present, else the initial evaluation reshaped with its gaps still
// open. With neither, generation is out of order.
func evaluationOutcome(conv Conversation) (evaluation.FinalEvaluation, error) {
	if conv.FinalEvaluation != nil {
		return *conv.FinalEvaluation, nil
	}
	if conv.InitialEvaluation != nil {
		return evaluation.FinalEvaluation{
			Score:         conv.InitialEvaluation.Score,
			Summary:       conv.InitialEvaluation.Summary,
			Strengths:     conv.InitialEvaluation.Strengths,
			RemainingGaps: conv.InitialEvaluation.Gaps,
		}, nil
	}
	return evaluation.FinalEvaluation{}, fmt.Errorf("%w: no evaluation outcome for question generation", ErrPreconditionNotMet)
}
