package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"interview-coach/internal/llm"
)

// Engine turns raw model completions into validated evaluation artifacts.
// Every method enforces the response schema before returning, so callers
// never see half-formed model output.
type Engine struct {
	client llm.Client
}

func NewEngine(client llm.Client) *Engine {
	return &Engine{client: client}
}

// Evaluate produces the first-pass assessment of a resume against a job
// description.
func (e *Engine) Evaluate(ctx context.Context, resumeText, jobDescription string) (InitialEvaluation, error) {
	raw, err := e.client.Complete(ctx, buildInitialEvaluationPrompt(resumeText, jobDescription))
	if err != nil {
		return InitialEvaluation{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var out InitialEvaluation
	if err := json.Unmarshal(raw, &out); err != nil {
		return InitialEvaluation{}, fmt.Errorf("%w: decode initial evaluation: %v", ErrUnavailable, err)
	}
	if err := validateScore(out.Score); err != nil {
		return InitialEvaluation{}, fmt.Errorf("%w: initial evaluation: %v", ErrUnavailable, err)
	}
	if strings.TrimSpace(out.Summary) == "" {
		return InitialEvaluation{}, fmt.Errorf("%w: initial evaluation: empty summary", ErrUnavailable)
	}
	return out, nil
}

// ClarifyingQuestions generates up to five follow-up questions targeting the
// gaps the initial evaluation identified.
func (e *Engine) ClarifyingQuestions(ctx context.Context, resumeText, jobDescription string, gaps []string) ([]ClarifyingQuestion, error) {
	raw, err := e.client.Complete(ctx, buildClarifyingQuestionsPrompt(resumeText, jobDescription, gaps))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var out struct {
		Questions []ClarifyingQuestion `json:"questions"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: decode clarifying questions: %v", ErrUnavailable, err)
	}
	if len(out.Questions) > 5 {
		out.Questions = out.Questions[:5]
	}
	seen := make(map[int]bool, len(out.Questions))
	for _, q := range out.Questions {
		if strings.TrimSpace(q.Question) == "" {
			return nil, fmt.Errorf("%w: clarifying question %d has empty text", ErrUnavailable, q.ID)
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("%w: duplicate clarifying question id %d", ErrUnavailable, q.ID)
		}
		seen[q.ID] = true
	}
	return out.Questions, nil
}

// Finalize produces the updated assessment after clarifying answers.
func (e *Engine) Finalize(ctx context.Context, resumeText, jobDescription string, initial InitialEvaluation, answers []ClarifyingAnswer) (FinalEvaluation, error) {
	raw, err := e.client.Complete(ctx, buildFinalEvaluationPrompt(resumeText, jobDescription, initial, answers))
	if err != nil {
		return FinalEvaluation{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var out FinalEvaluation
	if err := json.Unmarshal(raw, &out); err != nil {
		return FinalEvaluation{}, fmt.Errorf("%w: decode final evaluation: %v", ErrUnavailable, err)
	}
	if err := validateScore(out.Score); err != nil {
		return FinalEvaluation{}, fmt.Errorf("%w: final evaluation: %v", ErrUnavailable, err)
	}
	if strings.TrimSpace(out.Summary) == "" {
		return FinalEvaluation{}, fmt.Errorf("%w: final evaluation: empty summary", ErrUnavailable)
	}
	return out, nil
}

// InterviewQuestions generates the 20-question practice set, five per
// category. Anything short of a full balanced set is rejected.
func (e *Engine) InterviewQuestions(ctx context.Context, jobDescription string, outcome FinalEvaluation) ([]GeneratedQuestion, error) {
	raw, err := e.client.Complete(ctx, buildInterviewQuestionsPrompt(jobDescription, outcome))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var out struct {
		Questions []GeneratedQuestion `json:"questions"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: decode interview questions: %v", ErrUnavailable, err)
	}
	perCategory := make(map[string]int, 4)
	for _, q := range out.Questions {
		if !validCategory(q.Category) {
			return nil, fmt.Errorf("%w: unknown question category %q", ErrUnavailable, q.Category)
		}
		if strings.TrimSpace(q.Question) == "" {
			return nil, fmt.Errorf("%w: empty question text in category %s", ErrUnavailable, q.Category)
		}
		perCategory[q.Category]++
	}
	for _, cat := range []string{CategoryHiringTypical, CategoryHiringChallenging, CategoryHRTypical, CategoryHRChallenging} {
		if perCategory[cat] != questionsPerCategory {
			return nil, fmt.Errorf("%w: category %s has %d questions, want %d", ErrUnavailable, cat, perCategory[cat], questionsPerCategory)
		}
	}
	return out.Questions, nil
}

// ReviewAttempt provides feedback on one transcribed answer.
func (e *Engine) ReviewAttempt(ctx context.Context, question, transcription, jobDescription string) (AttemptFeedback, error) {
	raw, err := e.client.Complete(ctx, buildAttemptFeedbackPrompt(question, transcription, jobDescription))
	if err != nil {
		return AttemptFeedback{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var out AttemptFeedback
	if err := json.Unmarshal(raw, &out); err != nil {
		return AttemptFeedback{}, fmt.Errorf("%w: decode attempt feedback: %v", ErrUnavailable, err)
	}
	if strings.TrimSpace(out.Feedback) == "" {
		return AttemptFeedback{}, fmt.Errorf("%w: empty feedback", ErrUnavailable)
	}
	return out, nil
}

func validateScore(score float64) error {
	if score < 1 || score > 10 {
		return fmt.Errorf("score %g out of range 1-10", score)
	}
	return nil
}

func validCategory(cat string) bool {
	switch cat {
	case CategoryHiringTypical, CategoryHiringChallenging, CategoryHRTypical, CategoryHRChallenging:
		return true
	}
	return false
}
