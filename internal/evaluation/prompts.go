package evaluation

import (
	"fmt"
	"strings"
)

func buildInitialEvaluationPrompt(resumeText, jobDescription string) string {
	return fmt.Sprintf(`You are an expert career coach and hiring consultant. Analyze the following resume against the job description and provide a detailed evaluation.

RESUME:
%s

JOB DESCRIPTION:
%s

Provide a JSON response with the following structure:
{
  "score": <number between 1-10>,
  "strengths": [<array of specific strengths matching the role>],
  "gaps": [<array of specific gaps or missing qualifications>],
  "summary": "<brief 2-3 sentence overall assessment>"
}

Be specific and constructive. Focus on transferable skills, relevant experience, and concrete gaps.`, resumeText, jobDescription)
}

func buildClarifyingQuestionsPrompt(resumeText, jobDescription string, gaps []string) string {
	return fmt.Sprintf(`You are an expert career coach. Based on the identified gaps between the candidate's resume and the job requirements, generate up to 5 clarifying questions to uncover hidden transferable skills, relevant experience, or recent upskilling efforts.

RESUME:
%s

JOB DESCRIPTION:
%s

IDENTIFIED GAPS:
%s

Generate questions that might reveal:
- Transferable skills from past experiences
- Recent training, courses, or certifications
- Relevant projects or side work not mentioned in resume
- Soft skills or domain knowledge gained informally

Provide a JSON response with the following structure:
{
  "questions": [
    {"id": 1, "question": "<question text>"},
    {"id": 2, "question": "<question text>"},
    ...
  ]
}

Generate no more than 5 questions.`, resumeText, jobDescription, strings.Join(gaps, "\n"))
}

func buildFinalEvaluationPrompt(resumeText, jobDescription string, initial InitialEvaluation, answers []ClarifyingAnswer) string {
	qa := make([]string, 0, len(answers))
	for _, a := range answers {
		qa = append(qa, fmt.Sprintf("Q: %s\nA: %s", a.Question, a.Answer))
	}
	return fmt.Sprintf(`You are an expert career coach. Based on the initial evaluation and the candidate's clarifying answers, provide a final assessment of their suitability for the role.

RESUME:
%s

JOB DESCRIPTION:
%s

INITIAL EVALUATION:
Score: %g/10
Strengths: %s
Gaps: %s

CLARIFYING Q&A:
%s

Based on the additional information, provide an updated evaluation in JSON format:
{
  "score": <updated score between 1-10>,
  "summary": "<comprehensive final assessment 3-4 sentences>",
  "strengths": [<updated list of strengths including newly discovered ones>],
  "remainingGaps": [<gaps that still exist after considering clarifying answers>]
}

Be fair and thorough. Give credit for transferable skills and upskilling efforts.`,
		resumeText, jobDescription,
		initial.Score, strings.Join(initial.Strengths, ", "), strings.Join(initial.Gaps, ", "),
		strings.Join(qa, "\n\n"))
}

func buildInterviewQuestionsPrompt(jobDescription string, outcome FinalEvaluation) string {
	return fmt.Sprintf(`You are an expert interviewer for both hiring managers and HR professionals. Generate 20 interview questions (5 in each category) based on the job role and candidate evaluation.

JOB DESCRIPTION:
%s

CANDIDATE EVALUATION:
Score: %g/10
Strengths: %s
Remaining Gaps: %s

Generate exactly 20 questions in 4 categories:

1. HIRING_TYPICAL (5 questions): Standard technical/domain questions a hiring manager would ask
2. HIRING_CHALLENGING (5 questions): Difficult technical questions targeting the candidate's weak areas
3. HR_TYPICAL (5 questions): Standard HR questions (behavioral, cultural fit, motivation)
4. HR_CHALLENGING (5 questions): Probing HR questions addressing gaps or concerns

Provide a JSON response:
{
  "questions": [
    {"id": "1", "category": "HIRING_TYPICAL", "question": "<question>"},
    {"id": "2", "category": "HIRING_TYPICAL", "question": "<question>"},
    ...
  ]
}`, jobDescription, outcome.Score, strings.Join(outcome.Strengths, ", "), strings.Join(outcome.RemainingGaps, ", "))
}

func buildAttemptFeedbackPrompt(question, transcription, jobDescription string) string {
	return fmt.Sprintf(`You are an expert interview coach. Evaluate the candidate's response to the interview question.

INTERVIEW QUESTION:
%s

CANDIDATE'S RESPONSE:
%s

JOB DESCRIPTION (for context):
%s

Provide constructive feedback in JSON format:
{
  "feedback": "<detailed feedback on the response: what was good, what could be improved, specific suggestions>",
  "isApproved": <true if response is strong and ready, false if needs improvement>
}

Be encouraging but honest. Provide specific, actionable suggestions for improvement.`, question, transcription, jobDescription)
}
