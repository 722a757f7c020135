package evaluation

// InitialEvaluation is the first-pass assessment of a resume against a job
// description, produced before the candidate has answered anything.
type InitialEvaluation struct {
	Score     float64  `json:"score"`
	Strengths []string `json:"strengths"`
	Gaps      []string `json:"gaps"`
	Summary   string   `json:"summary"`
}

// ClarifyingQuestion probes a gap identified by the initial evaluation.
type ClarifyingQuestion struct {
	ID       int    `json:"id"`
	Question string `json:"question"`
}

// ClarifyingAnswer pairs a clarifying question with the candidate's answer.
type ClarifyingAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FinalEvaluation is the updated assessment after clarifying answers.
type FinalEvaluation struct {
	Score         float64  `json:"score"`
	Summary       string   `json:"summary"`
	Strengths     []string `json:"strengths"`
	RemainingGaps []string `json:"remainingGaps"`
}

// Interview question categories. Two interviewer personas, each with a
// typical and a challenging variant.
const (
	CategoryHiringTypical     = "HIRING_TYPICAL"
	CategoryHiringChallenging = "HIRING_CHALLENGING"
	CategoryHRTypical         = "HR_TYPICAL"
	CategoryHRChallenging     = "HR_CHALLENGING"
)

// GeneratedQuestion is one interview question produced for a conversation.
type GeneratedQuestion struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Question string `json:"question"`
}

// AttemptFeedback is the coach's verdict on one recorded answer.
type AttemptFeedback struct {
	Feedback   string `json:"feedback"`
	IsApproved bool   `json:"isApproved"`
}

const questionsPerCategory = 5
