package conversations

import (
	"context"

	"interview-coach/internal/evaluation"
)

// Repo defines persistence operations for conversations. The two evaluation
// writes are atomic: both fields land together or neither does.
type Repo interface {
	Create(ctx context.Context, conv Conversation) error
	GetByID(ctx context.Context, conversationID string) (Conversation, error)
	List(ctx context.Context) ([]Conversation, error)
	SetInitialEvaluation(ctx context.Context, conversationID string, initial evaluation.InitialEvaluation, clarifying []evaluation.ClarifyingQuestion) error
	SetFinalEvaluation(ctx context.Context, conversationID string, answers []evaluation.ClarifyingAnswer, final evaluation.FinalEvaluation) error
	Delete(ctx context.Context, conversationID string) error
}

// QuestionsRepo persists generated interview questions.
type QuestionsRepo interface {
	CreateBatch(ctx context.Context, questions []Question) error
	GetByID(ctx context.Context, questionID string) (Question, error)
	ListByConversation(ctx context.Context, conversationID string) ([]Question, error)
	CountByConversation(ctx context.Context, conversationID string) (int, error)
	DeleteByConversation(ctx context.Context, conversationID string) error
}

// AttemptsRepo persists recorded attempts, append-only per question.
type AttemptsRepo interface {
	Create(ctx context.Context, attempt Attempt) error
	GetByID(ctx context.Context, attemptID string) (Attempt, error)
	ListByQuestion(ctx context.Context, questionID string) ([]Attempt, error)
	Delete(ctx context.Context, attemptID string) error
	DeleteByQuestion(ctx context.Context, questionID string) error
}
