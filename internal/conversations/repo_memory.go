package conversations

import (
	"context"
	"sort"
	"sync"

	"interview-coach/internal/evaluation"
)

// MemoryRepo stores conversations in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Conversation
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Conversation)}
}

// Create stores the conversation.
func (r *MemoryRepo) Create(ctx context.Context, conv Conversation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[conv.ID] = conv
	return nil
}

// GetByID returns a conversation by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, conversationID string) (Conversation, error) {
	if err := ctx.Err(); err != nil {
		return Conversation{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	conv, ok := r.byID[conversationID]
	if !ok {
		return Conversation{}, ErrNotFound
	}
	return conv, nil
}

// List returns all conversations, newest first.
func (r *MemoryRepo) List(ctx context.Context) ([]Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Conversation, 0, len(r.byID))
	for _, conv := range r.byID {
		out = append(out, conv)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// SetInitialEvaluation writes the initial evaluation and clarifying questions
// together. Overwrites any prior values.
func (r *MemoryRepo) SetInitialEvaluation(ctx context.Context, conversationID string, initial evaluation.InitialEvaluation, clarifying []evaluation.ClarifyingQuestion) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.byID[conversationID]
	if !ok {
		return ErrNotFound
	}
	if clarifying == nil {
		clarifying = []evaluation.ClarifyingQuestion{}
	}
	conv.InitialEvaluation = &initial
	conv.ClarifyingQuestions = clarifying
	r.byID[conversationID] = conv
	return nil
}

// SetFinalEvaluation writes the clarifying answers and final evaluation
// together. Overwrites any prior values.
func (r *MemoryRepo) SetFinalEvaluation(ctx context.Context, conversationID string, answers []evaluation.ClarifyingAnswer, final evaluation.FinalEvaluation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.byID[conversationID]
	if !ok {
		return ErrNotFound
	}
	if answers == nil {
		answers = []evaluation.ClarifyingAnswer{}
	}
	conv.ClarifyingAnswers = answers
	conv.FinalEvaluation = &final
	r.byID[conversationID] = conv
	return nil
}

// Delete removes the conversation record.
func (r *MemoryRepo) Delete(ctx context.Context, conversationID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[conversationID]; !ok {
		return ErrNotFound
	}
	delete(r.byID, conversationID)
	return nil
}

// MemoryQuestionsRepo stores questions in memory, preserving insertion order
// per conversation.
type MemoryQuestionsRepo struct {
	mu             sync.RWMutex
	byID           map[string]Question
	byConversation map[string][]string
}

// NewMemoryQuestionsRepo constructs a MemoryQuestionsRepo.
func NewMemoryQuestionsRepo() *MemoryQuestionsRepo {
	return &MemoryQuestionsRepo{
		byID:           make(map[string]Question),
		byConversation: make(map[string][]string),
	}
}

// CreateBatch stores a generated question set.
func (r *MemoryQuestionsRepo) CreateBatch(ctx context.Context, questions []Question) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range questions {
		r.byID[q.ID] = q
		r.byConversation[q.ConversationID] = append(r.byConversation[q.ConversationID], q.ID)
	}
	return nil
}

// GetByID returns a question by its ID.
func (r *MemoryQuestionsRepo) GetByID(ctx context.Context, questionID string) (Question, error) {
	if err := ctx.Err(); err != nil {
		return Question{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.byID[questionID]
	if !ok {
		return Question{}, ErrQuestionNotFound
	}
	return q, nil
}

// ListByConversation returns a conversation's questions in creation order.
func (r *MemoryQuestionsRepo) ListByConversation(ctx context.Context, conversationID string) ([]Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byConversation[conversationID]
	out := make([]Question, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out, nil
}

// CountByConversation returns how many questions a conversation has.
func (r *MemoryQuestionsRepo) CountByConversation(ctx context.Context, conversationID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byConversation[conversationID]), nil
}

// DeleteByConversation removes all of a conversation's questions.
func (r *MemoryQuestionsRepo) DeleteByConversation(ctx context.Context, conversationID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.byConversation[conversationID] {
		delete(r.byID, id)
	}
	delete(r.byConversation, conversationID)
	return nil
}

// MemoryAttemptsRepo stores attempts in memory, preserving insertion order per
// question.
type MemoryAttemptsRepo struct {
	mu         sync.RWMutex
	byID       map[string]Attempt
	byQuestion map[string][]string
}

// NewMemoryAttemptsRepo constructs a MemoryAttemptsRepo.
func NewMemoryAttemptsRepo() *MemoryAttemptsRepo {
	return &MemoryAttemptsRepo{
		byID:       make(map[string]Attempt),
		byQuestion: make(map[string][]string),
	}
}

// Create appends an attempt to its question's history.
func (r *MemoryAttemptsRepo) Create(ctx context.Context, attempt Attempt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[attempt.ID] = attempt
	r.byQuestion[attempt.QuestionID] = append(r.byQuestion[attempt.QuestionID], attempt.ID)
	return nil
}

// GetByID returns an attempt by its ID.
func (r *MemoryAttemptsRepo) GetByID(ctx context.Context, attemptID string) (Attempt, error) {
	if err := ctx.Err(); err != nil {
		return Attempt{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[attemptID]
	if !ok {
		return Attempt{}, ErrAttemptNotFound
	}
	return a, nil
}

// ListByQuestion returns a question's attempts, oldest first.
func (r *MemoryAttemptsRepo) ListByQuestion(ctx context.Context, questionID string) ([]Attempt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byQuestion[questionID]
	out := make([]Attempt, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.byID[id])
	}
	return out, nil
}

// Delete removes one attempt record.
func (r *MemoryAttemptsRepo) Delete(ctx context.Context, attemptID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[attemptID]
	if !ok {
		return ErrAttemptNotFound
	}
	delete(r.byID, attemptID)
	ids := r.byQuestion[a.QuestionID]
	for i, id := range ids {
		if id == attemptID {
			r.byQuestion[a.QuestionID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

// DeleteByQuestion removes all attempts for a question.
func (r *MemoryAttemptsRepo) DeleteByQuestion(ctx context.Context, questionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.byQuestion[questionID] {
		delete(r.byID, id)
	}
	delete(r.byQuestion, questionID)
	return nil
}
