package conversations

import (
	"testing"

	"interview-coach/internal/evaluation"
)

func TestStageDerivation(t *testing.T) {
	conv := Conversation{}
	if got := conv.Stage(false); got != StageCreated {
		t.Fatalf("empty conversation: got %s", got)
	}

	conv.InitialEvaluation = &evaluation.InitialEvaluation{Score: 5, Summary: "ok"}
	if got := conv.Stage(false); got != StageInitialEvaluated {
		t.Fatalf("with initial evaluation: got %s", got)
	}

	conv.ClarifyingQuestions = []evaluation.ClarifyingQuestion{}
	if got := conv.Stage(false); got != StageClarifyingReady {
		t.Fatalf("with clarifying questions: got %s", got)
	}

	conv.FinalEvaluation = &evaluation.FinalEvaluation{Score: 7, Summary: "ok"}
	if got := conv.Stage(false); got != StageFinalized {
		t.Fatalf("with final evaluation: got %s", got)
	}

	if got := conv.Stage(true); got != StageQuestionsGenerated {
		t.Fatalf("with questions: got %s", got)
	}
}

func TestStageQuestionsWinEvenWithoutFinalEvaluation(t *testing.T) {
	conv := Conversation{
		InitialEvaluation:   &evaluation.InitialEvaluation{Score: 5, Summary: "ok"},
		ClarifyingQuestions: []evaluation.ClarifyingQuestion{{ID: 1, Question: "q"}},
	}
	if got := conv.Stage(true); got != StageQuestionsGenerated {
		t.Fatalf("skip-finalization path: got %s", got)
	}
}

func TestParseCategoryRejectsUnknownValues(t *testing.T) {
	for _, valid := range []string{"HIRING_TYPICAL", "HIRING_CHALLENGING", "HR_TYPICAL", "HR_CHALLENGING"} {
		if _, err := ParseCategory(valid); err != nil {
			t.Fatalf("ParseCategory(%s): %v", valid, err)
		}
	}
	if _, err := ParseCategory("HIRING_EASY"); err == nil {
		t.Fatalf("expected error for unknown category")
	}
}
