package conversations

import (
	"fmt"
	"time"

	"interview-coach/internal/evaluation"
)

// Category is one of the four fixed interview-question buckets.
type Category string

const (
	CategoryHiringTypical     Category = "HIRING_TYPICAL"
	CategoryHiringChallenging Category = "HIRING_CHALLENGING"
	CategoryHRTypical         Category = "HR_TYPICAL"
	CategoryHRChallenging     Category = "HR_CHALLENGING"
)

// ParseCategory converts a string into a Category, rejecting anything outside
// the closed set.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryHiringTypical, CategoryHiringChallenging, CategoryHRTypical, CategoryHRChallenging:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Stage is the lifecycle state of a conversation, derived from which data the
// conversation has accumulated rather than stored as a separate column.
type Stage string

const (
	StageCreated            Stage = "CREATED"
	StageInitialEvaluated   Stage = "INITIAL_EVALUATED"
	StageClarifyingReady    Stage = "QUESTIONS_CLARIFYING_READY"
	StageFinalized          Stage = "FINALIZED"
	StageQuestionsGenerated Stage = "QUESTIONS_GENERATED"
)

// Conversation is the root aggregate of one candidate session. Resume text,
// file name, and job description are immutable after creation; the evaluation
// fields are filled in by stage-advancing writes.
type Conversation struct {
	ID                  string                          `json:"id"`
	ResumeText          string                          `json:"resumeText"`
	ResumeFileName      string                          `json:"resumeFileName"`
	JobDescription      string                          `json:"jobDescription"`
	InitialEvaluation   *evaluation.InitialEvaluation   `json:"initialEvaluation,omitempty"`
	ClarifyingQuestions []evaluation.ClarifyingQuestion `json:"clarifyingQuestions,omitempty"`
	ClarifyingAnswers   []evaluation.ClarifyingAnswer   `json:"clarifyingAnswers,omitempty"`
	FinalEvaluation     *evaluation.FinalEvaluation     `json:"finalEvaluation,omitempty"`
	CreatedAt           time.Time                       `json:"createdAt"`
}

// Stage derives the lifecycle stage. hasQuestions reflects whether any
// interview questions exist for the conversation; the question rows live in
// their own table so the caller supplies that fact.
func (c Conversation) Stage(hasQuestions bool) Stage {
	switch {
	case hasQuestions:
		return StageQuestionsGenerated
	case c.FinalEvaluation != nil:
		return StageFinalized
	case c.ClarifyingQuestions != nil:
		return StageClarifyingReady
	case c.InitialEvaluation != nil:
		return StageInitialEvaluated
	default:
		return StageCreated
	}
}

// Question is one generated interview question. Immutable after creation.
// Position preserves generation order within the conversation.
type Question struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Category       Category  `json:"category"`
	Text           string    `json:"question"`
	Position       int       `json:"position"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Attempt is one recorded spoken answer to a question, with the coach's
// feedback. Immutable once created; deletable independently.
type Attempt struct {
	ID            string    `json:"id"`
	QuestionID    string    `json:"questionId"`
	Transcription string    `json:"transcription"`
	Feedback      string    `json:"feedback"`
	IsApproved    bool      `json:"isApproved"`
	AudioPath     string    `json:"audioPath"`
	CreatedAt     time.Time `json:"createdAt"`
}
