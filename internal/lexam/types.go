package lexam

import (
	"encoding/json"
	"time"
)

// Dashboard mirrors the aggregate payload returned by /api/dashboard.
type Dashboard struct {
	TotalQuestions   int                `json:"total_questions"`
	TotalCourses     int                `json:"total_courses"`
	TotalDE          int                `json:"total_de"`
	TotalEN          int                `json:"total_en"`
	MinYear          int                `json:"min_year"`
	MaxYear          int                `json:"max_year"`
	Courses          []CourseCount      `json:"courses"`
	Areas            []NameValue        `json:"areas"`
	Jurisdictions    []NameValue        `json:"jurisdictions"`
	Years            []YearBreakdown    `json:"years"`
	Splits           []SplitShare       `json:"splits"`
	AreaJurisdiction []AreaJurisdiction `json:"area_jurisdiction"`
	LangArea         []LangArea         `json:"lang_area"`
	AnswerLengths    []RangeCount       `json:"answer_lengths"`
	AnswerStats      []AnswerStats      `json:"answer_stats"`
}

// CourseCount is one course row with a per-language breakdown.
type CourseCount struct {
	Course string `json:"course"`
	Area   string `json:"area"`
	Count  int    `json:"count"`
	LangDE int    `json:"lang_de"`
	LangEN int    `json:"lang_en"`
}

// NameValue is a generic labeled count used by distribution charts.
type NameValue struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// YearBreakdown counts questions per legal area within one exam year.
type YearBreakdown struct {
	Year              int `json:"year"`
	Private           int `json:"Private"`
	Public            int `json:"Public"`
	Criminal          int `json:"Criminal"`
	Interdisciplinary int `json:"Interdisciplinary"`
	Total             int `json:"total"`
}

// SplitShare is the distinct-question count and percentage for one split.
type SplitShare struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Pct   string `json:"pct"`
}

// AreaJurisdiction cross-tabulates one area against jurisdictions.
type AreaJurisdiction struct {
	Area          string `json:"area"`
	Swiss         int    `json:"Swiss"`
	International int    `json:"International"`
	Generic       int    `json:"Generic"`
}

// LangArea counts questions per language within one area.
type LangArea struct {
	Area string `json:"area"`
	DE   int    `json:"de"`
	EN   int    `json:"en"`
}

// RangeCount is one bucket of the answer word-count histogram.
type RangeCount struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// AnswerStats summarizes reference-answer lengths for one area.
type AnswerStats struct {
	Area        string `json:"area"`
	AvgWords    int    `json:"avgWords"`
	MedianWords int    `json:"medianWords"`
	MinWords    int    `json:"minWords"`
	MaxWords    int    `json:"maxWords"`
}

// CourseSummary is one row of /api/course-summary.
type CourseSummary struct {
	Course        string `json:"course"`
	Area          string `json:"area"`
	Jurisdiction  string `json:"jurisdiction"`
	International bool   `json:"international"`
	MCQ4          int    `json:"mcq_4"`
	MCQAll        int    `json:"mcq_all"`
	OpenQA        int    `json:"open_qa"`
	OpenDev       int    `json:"open_dev"`
	OpenTest      int    `json:"open_test"`
	Total         int    `json:"total"`
	Language      string `json:"language"`
}

// FilterOptions mirrors /api/filters: the viable values per dimension
// given the caller's current selections. Years arrive newest first.
type FilterOptions struct {
	Configs       []string `json:"configs"`
	Splits        []string `json:"splits"`
	Areas         []string `json:"areas"`
	Languages     []string `json:"languages"`
	Courses       []string `json:"courses"`
	Jurisdictions []string `json:"jurisdictions"`
	Years         []int    `json:"years"`
}

// Stats mirrors /api/stats, the unfiltered dataset totals.
type Stats struct {
	TotalQuestions int            `json:"total_questions"`
	TotalVariants  int            `json:"total_variants"`
	ByConfig       map[string]int `json:"by_config"`
	ByArea         map[string]int `json:"by_area"`
	ByLanguage     map[string]int `json:"by_language"`
	ByYear         map[string]int `json:"by_year"`
}

// Question is one dataset question with its nested variants.
type Question struct {
	ID               string    `json:"id"`
	Question         string    `json:"question"`
	Course           string    `json:"course"`
	Language         string    `json:"language"`
	Area             string    `json:"area"`
	Jurisdiction     string    `json:"jurisdiction"`
	Year             int       `json:"year"`
	NStatements      *int      `json:"n_statements"`
	NoneAsAnOption   *bool     `json:"none_as_an_option"`
	NegativeQuestion *bool     `json:"negative_question"`
	International    *bool     `json:"international"`
	Variants         []Variant `json:"variants"`
}

// Variant is one rendering of a question under a dataset config, such as
// open_question or mcq_4_choices.
type Variant struct {
	Config  string          `json:"config"`
	Split   string          `json:"split"`
	Choices json.RawMessage `json:"choices"`
	Gold    *int            `json:"gold"`
	Answer  string          `json:"answer"`
}

// ChoiceList decodes the variant's choices payload if present.
func (v Variant) ChoiceList() []string {
	if len(v.Choices) == 0 {
		return nil
	}
	var choices []string
	if err := json.Unmarshal(v.Choices, &choices); err != nil {
		return nil
	}
	return choices
}

// QuestionPage is the paginated envelope for /api/questions.
type QuestionPage struct {
	Total  int        `json:"total"`
	Offset int        `json:"offset"`
	Limit  int        `json:"limit"`
	Items  []Question `json:"items"`
}

// Experiment mirrors an experiment row, including the counts and judge
// breakdown the list and detail endpoints attach.
type Experiment struct {
	ID                 int             `json:"id"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	FilterConfig       json.RawMessage `json:"filter_config"`
	OpenQuestionPrompt string          `json:"open_question_prompt"`
	MCQPrompt          string          `json:"mcq_prompt"`
	JudgeSystemPrompt  string          `json:"judge_system_prompt"`
	JudgePrompt        string          `json:"judge_prompt"`
	ModelName          string          `json:"model_name"`
	Temperature        float64         `json:"temperature"`
	MaxTokens          int             `json:"max_tokens"`
	JudgeTemperature   float64         `json:"judge_temperature"`
	JudgeMaxTokens     int             `json:"judge_max_tokens"`
	NAnswers           int             `json:"n_answers"`
	Status             string          `json:"status"`
	CreatedAt          string          `json:"created_at"`
	UpdatedAt          string          `json:"updated_at"`
	AnswerCount        int             `json:"answer_count"`
	JudgmentCount      int             `json:"judgment_count"`
	Judges             []JudgeCount    `json:"judges"`
}

// Busy reports whether a background job currently owns the experiment.
func (e Experiment) Busy() bool {
	return e.Status == "generating" || e.Status == "judging"
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (e Experiment) ParsedCreatedAt() time.Time {
	return parseTime(e.CreatedAt)
}

// JudgeCount is the per-judge-model judgment count on an experiment row.
type JudgeCount struct {
	Model string `json:"model"`
	Count int    `json:"count"`
}

// ExperimentDraft carries the writable experiment fields for create and
// update requests. Nil pointers are omitted so updates stay partial and
// create picks up the server defaults. The update route applies every
// key present in the body, so an explicit zero would overwrite stored
// tuning values.
type ExperimentDraft struct {
	Name               string          `json:"name"`
	Description        *string         `json:"description,omitempty"`
	FilterConfig       json.RawMessage `json:"filter_config,omitempty"`
	OpenQuestionPrompt *string         `json:"open_question_prompt,omitempty"`
	MCQPrompt          *string         `json:"mcq_prompt,omitempty"`
	JudgeSystemPrompt  *string         `json:"judge_system_prompt,omitempty"`
	JudgePrompt        *string         `json:"judge_prompt,omitempty"`
	ModelName          *string         `json:"model_name,omitempty"`
	Temperature        *float64        `json:"temperature,omitempty"`
	MaxTokens          *int            `json:"max_tokens,omitempty"`
	JudgeTemperature   *float64        `json:"judge_temperature,omitempty"`
	JudgeMaxTokens     *int            `json:"judge_max_tokens,omitempty"`
	NAnswers           *int            `json:"n_answers,omitempty"`
}

// ProgressReport mirrors the generation and judging progress payloads.
// Status idle means the server no longer tracks the job.
type ProgressReport struct {
	Total        int     `json:"total"`
	Completed    int     `json:"completed"`
	Failed       int     `json:"failed"`
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message"`
	Elapsed      float64 `json:"elapsed"`
	ETA          float64 `json:"eta"`
	Rate         float64 `json:"rate"`
}

// Terminal reports whether the job has stopped: done, error, or no longer
// tracked at all.
func (p ProgressReport) Terminal() bool {
	switch p.Status {
	case "done", "error", "idle":
		return true
	}
	return false
}

// Done returns completed plus failed attempts.
func (p ProgressReport) Done() int {
	return p.Completed + p.Failed
}

// Answer is one generated answer row from /api/experiments/{id}/answers.
type Answer struct {
	ID              int             `json:"id"`
	VariantID       int             `json:"variant_id"`
	QuestionID      string          `json:"question_id"`
	Config          string          `json:"config"`
	Course          string          `json:"course"`
	Area            string          `json:"area"`
	QuestionText    string          `json:"question_text"`
	GoldAnswer      string          `json:"gold_answer"`
	GoldIndex       *int            `json:"gold_index"`
	Choices         json.RawMessage `json:"choices"`
	RunIndex        int             `json:"run_index"`
	ModelName       string          `json:"model_name"`
	AnswerText      string          `json:"answer_text"`
	ExtractedLetter string          `json:"extracted_letter"`
	MCQCorrect      *bool           `json:"mcq_correct"`
	InputTokens     int             `json:"input_tokens"`
	OutputTokens    int             `json:"output_tokens"`
	CreatedAt       string          `json:"created_at"`
}

// AnswerPage is the paginated envelope for answers.
type AnswerPage struct {
	Total  int      `json:"total"`
	Offset int      `json:"offset"`
	Limit  int      `json:"limit"`
	Items  []Answer `json:"items"`
}

// Judgment is one judge evaluation row.
type Judgment struct {
	ID           int      `json:"id"`
	AnswerID     int      `json:"answer_id"`
	QuestionID   string   `json:"question_id"`
	Config       string   `json:"config"`
	Course       string   `json:"course"`
	Area         string   `json:"area"`
	QuestionText string   `json:"question_text"`
	GoldAnswer   string   `json:"gold_answer"`
	ModelAnswer  string   `json:"model_answer"`
	JudgeModel   string   `json:"judge_model"`
	JudgmentText string   `json:"judgment_text"`
	Score        *float64 `json:"score"`
	InputTokens  int      `json:"input_tokens"`
	OutputTokens int      `json:"output_tokens"`
	CreatedAt    string   `json:"created_at"`
}

// JudgmentPage is the paginated envelope for judgments.
type JudgmentPage struct {
	Total  int        `json:"total"`
	Offset int        `json:"offset"`
	Limit  int        `json:"limit"`
	Items  []Judgment `json:"items"`
}

// JudgeSummary aggregates judgment count and average score per judge.
type JudgeSummary struct {
	JudgeModel string   `json:"judge_model"`
	Count      int      `json:"count"`
	AvgScore   *float64 `json:"avg_score"`
}

// ExperimentStats mirrors /api/experiments/{id}/stats.
type ExperimentStats struct {
	TotalAnswers    int              `json:"total_answers"`
	MCQ             MCQStats         `json:"mcq"`
	Open            OpenStats        `json:"open"`
	ByArea          []GroupStats     `json:"by_area"`
	ByCourse        []GroupStats     `json:"by_course"`
	Tokens          TokenUsage       `json:"tokens"`
	SelfConsistency *SelfConsistency `json:"self_consistency"`
}

// MCQStats is accuracy over answers with an extracted letter.
type MCQStats struct {
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// OpenStats aggregates judge scores over open-question answers.
type OpenStats struct {
	Total             int          `json:"total"`
	Judged            int          `json:"judged"`
	AvgScore          float64      `json:"avg_score"`
	MedianScore       float64      `json:"median_score"`
	ScoreDistribution []RangeCount `json:"score_distribution"`
}

// GroupStats is the per-area or per-course breakdown row.
type GroupStats struct {
	Name         string   `json:"name"`
	MCQAccuracy  *float64 `json:"mcq_accuracy"`
	MCQTotal     int      `json:"mcq_total"`
	OpenAvgScore *float64 `json:"open_avg_score"`
	OpenTotal    int      `json:"open_total"`
}

// TokenUsage totals model token consumption for an experiment.
type TokenUsage struct {
	GenerationInput  int `json:"generation_input"`
	GenerationOutput int `json:"generation_output"`
	JudgeInput       int `json:"judge_input"`
	JudgeOutput      int `json:"judge_output"`
	Total            int `json:"total"`
}

// SelfConsistency reports agreement across repeated MCQ runs.
type SelfConsistency struct {
	TotalVariants int     `json:"total_variants"`
	Unanimous     int     `json:"unanimous"`
	UnanimousRate float64 `json:"unanimous_rate"`
}

// QuestionStats is one row of /api/experiments/{id}/stats/by-question.
type QuestionStats struct {
	QuestionID    string   `json:"question_id"`
	Course        string   `json:"course"`
	Area          string   `json:"area"`
	Config        string   `json:"config"`
	MCQCorrect    *bool    `json:"mcq_correct"`
	AvgScore      *float64 `json:"avg_score"`
	AnswerCount   int      `json:"answer_count"`
	JudgmentCount int      `json:"judgment_count"`
}

// JudgeComparison is one row of /api/experiments/{id}/stats/compare-judges.
type JudgeComparison struct {
	JudgeModel  string  `json:"judge_model"`
	Judged      int     `json:"judged"`
	AvgScore    float64 `json:"avg_score"`
	MedianScore float64 `json:"median_score"`
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
