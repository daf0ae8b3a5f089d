package lexam

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to the LEXam backend HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIBind   = "127.0.0.1:8000"
	defaultUserAgent = "lexview/0.1"
	requestTimeout   = 30 * time.Second
)

// NewClient builds a Client using the provided apiBind host:port value.
func NewClient(apiBind string) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// FetchDashboard retrieves the aggregate dashboard payload. The query may
// carry repeated config and language keys to narrow the aggregation.
func (c *Client) FetchDashboard(ctx context.Context, query url.Values) (*Dashboard, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload Dashboard
	rel := &url.URL{Path: "/api/dashboard", RawQuery: query.Encode()}
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchCourseSummary retrieves the flat per-course breakdown.
func (c *Client) FetchCourseSummary(ctx context.Context) ([]CourseSummary, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []CourseSummary
	if err := c.do(ctx, http.MethodGet, "/api/course-summary", &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchFilters retrieves the viable option lists per dimension given the
// current selections encoded in query.
func (c *Client) FetchFilters(ctx context.Context, query url.Values) (FilterOptions, error) {
	if c == nil {
		return FilterOptions{}, fmt.Errorf("client is nil")
	}
	var payload FilterOptions
	rel := &url.URL{Path: "/api/filters", RawQuery: query.Encode()}
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return FilterOptions{}, err
	}
	return payload, nil
}

// FetchQuestions retrieves a page of questions. The query carries filter,
// sort, and pagination parameters.
func (c *Client) FetchQuestions(ctx context.Context, query url.Values) (QuestionPage, error) {
	if c == nil {
		return QuestionPage{}, fmt.Errorf("client is nil")
	}
	var payload QuestionPage
	rel := &url.URL{Path: "/api/questions", RawQuery: query.Encode()}
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return QuestionPage{}, err
	}
	return payload, nil
}

// FetchStats retrieves the global dataset totals.
func (c *Client) FetchStats(ctx context.Context) (*Stats, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload Stats
	if err := c.do(ctx, http.MethodGet, "/api/stats", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ListExperiments retrieves all experiments, newest first.
func (c *Client) ListExperiments(ctx context.Context) ([]Experiment, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Experiment
	if err := c.do(ctx, http.MethodGet, "/api/experiments", &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// GetExperiment retrieves one experiment with counts and judge breakdown.
func (c *Client) GetExperiment(ctx context.Context, id int) (*Experiment, error) {
	var payload Experiment
	if err := c.do(ctx, http.MethodGet, experimentPath(id, ""), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// CreateExperiment creates a new experiment from the draft.
func (c *Client) CreateExperiment(ctx context.Context, draft ExperimentDraft) (*Experiment, error) {
	if strings.TrimSpace(draft.Name) == "" {
		return nil, fmt.Errorf("experiment name is required")
	}
	var payload Experiment
	rel := &url.URL{Path: "/api/experiments"}
	if err := c.doURL(ctx, http.MethodPost, rel, draft, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// UpdateExperiment applies the draft's fields to an existing experiment.
func (c *Client) UpdateExperiment(ctx context.Context, id int, draft ExperimentDraft) (*Experiment, error) {
	var payload Experiment
	rel := &url.URL{Path: experimentPath(id, "")}
	if err := c.doURL(ctx, http.MethodPut, rel, draft, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DeleteExperiment removes an experiment and everything attached to it.
func (c *Client) DeleteExperiment(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, experimentPath(id, ""), nil)
}

// StartGeneration kicks off answer generation for an experiment. The
// server rejects the request while a job already owns the experiment.
func (c *Client) StartGeneration(ctx context.Context, id int) error {
	rel := &url.URL{Path: experimentPath(id, "generate")}
	return c.doURL(ctx, http.MethodPost, rel, nil, nil)
}

// FetchGenerationProgress retrieves the generation job status.
func (c *Client) FetchGenerationProgress(ctx context.Context, id int) (ProgressReport, error) {
	var payload ProgressReport
	if err := c.do(ctx, http.MethodGet, experimentPath(id, "progress"), &payload); err != nil {
		return ProgressReport{}, err
	}
	return payload, nil
}

// DeleteAnswers removes all generated answers, resetting the experiment.
func (c *Client) DeleteAnswers(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, experimentPath(id, "answers"), nil)
}

// StartJudging kicks off judging of generated answers with judgeModel.
func (c *Client) StartJudging(ctx context.Context, id int, judgeModel string) error {
	body := struct {
		JudgeModel string `json:"judge_model"`
	}{JudgeModel: judgeModel}
	rel := &url.URL{Path: experimentPath(id, "judge")}
	return c.doURL(ctx, http.MethodPost, rel, body, nil)
}

// FetchJudgeProgress retrieves the judging job status for one judge model.
func (c *Client) FetchJudgeProgress(ctx context.Context, id int, judgeModel string) (ProgressReport, error) {
	values := url.Values{}
	if judgeModel != "" {
		values.Set("judge_model", judgeModel)
	}
	rel := &url.URL{Path: experimentPath(id, "judge-progress"), RawQuery: values.Encode()}
	var payload ProgressReport
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return ProgressReport{}, err
	}
	return payload, nil
}

// DeleteJudgments removes judgments, optionally only one judge model's.
func (c *Client) DeleteJudgments(ctx context.Context, id int, judgeModel string) error {
	values := url.Values{}
	if judgeModel != "" {
		values.Set("judge_model", judgeModel)
	}
	rel := &url.URL{Path: experimentPath(id, "judgments"), RawQuery: values.Encode()}
	return c.doURL(ctx, http.MethodDelete, rel, nil, nil)
}

// FetchAnswers retrieves a page of generated answers.
func (c *Client) FetchAnswers(ctx context.Context, id, offset, limit int) (AnswerPage, error) {
	rel := &url.URL{Path: experimentPath(id, "answers"), RawQuery: pageQuery(offset, limit).Encode()}
	var payload AnswerPage
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return AnswerPage{}, err
	}
	return payload, nil
}

// FetchJudgments retrieves a page of judgments, optionally filtered to one
// judge model.
func (c *Client) FetchJudgments(ctx context.Context, id, offset, limit int, judgeModel string) (JudgmentPage, error) {
	values := pageQuery(offset, limit)
	if judgeModel != "" {
		values.Set("judge_model", judgeModel)
	}
	rel := &url.URL{Path: experimentPath(id, "judgments"), RawQuery: values.Encode()}
	var payload JudgmentPage
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return JudgmentPage{}, err
	}
	return payload, nil
}

// FetchJudgeSummary retrieves judgment counts and average scores per judge.
func (c *Client) FetchJudgeSummary(ctx context.Context, id int) ([]JudgeSummary, error) {
	var payload []JudgeSummary
	if err := c.do(ctx, http.MethodGet, experimentPath(id, "judge-summary"), &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// PreviewQuestionCount asks how many variants a filter config would select
// without saving it.
func (c *Client) PreviewQuestionCount(ctx context.Context, id int, filterConfig json.RawMessage) (int, error) {
	body := struct {
		FilterConfig json.RawMessage `json:"filter_config"`
	}{FilterConfig: filterConfig}
	var payload struct {
		Count int `json:"count"`
	}
	rel := &url.URL{Path: experimentPath(id, "question-count")}
	if err := c.doURL(ctx, http.MethodPost, rel, body, &payload); err != nil {
		return 0, err
	}
	return payload.Count, nil
}

// ResetStatus clears a stuck experiment status back to the state implied
// by its stored answers and judgments.
func (c *Client) ResetStatus(ctx context.Context, id int) (*Experiment, error) {
	var payload Experiment
	rel := &url.URL{Path: experimentPath(id, "reset-status")}
	if err := c.doURL(ctx, http.MethodPost, rel, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchExperimentStats retrieves the aggregate result statistics,
// optionally narrowed to one answering model and one judge model.
func (c *Client) FetchExperimentStats(ctx context.Context, id int, modelName, judgeModel string) (*ExperimentStats, error) {
	values := url.Values{}
	if modelName != "" {
		values.Set("model_name", modelName)
	}
	if judgeModel != "" {
		values.Set("judge_model", judgeModel)
	}
	rel := &url.URL{Path: experimentPath(id, "stats"), RawQuery: values.Encode()}
	var payload ExperimentStats
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchStatsByQuestion retrieves per-question result rows.
func (c *Client) FetchStatsByQuestion(ctx context.Context, id int, modelName, judgeModel string) ([]QuestionStats, error) {
	values := url.Values{}
	if modelName != "" {
		values.Set("model_name", modelName)
	}
	if judgeModel != "" {
		values.Set("judge_model", judgeModel)
	}
	rel := &url.URL{Path: experimentPath(id, "stats/by-question"), RawQuery: values.Encode()}
	var payload []QuestionStats
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// CompareJudges retrieves score statistics per judge model side by side.
func (c *Client) CompareJudges(ctx context.Context, id int) ([]JudgeComparison, error) {
	var payload []JudgeComparison
	if err := c.do(ctx, http.MethodGet, experimentPath(id, "stats/compare-judges"), &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func experimentPath(id int, suffix string) string {
	p := "/api/experiments/" + strconv.Itoa(id)
	if suffix != "" {
		p += "/" + suffix
	}
	return p
}

func pageQuery(offset, limit int) url.Values {
	values := url.Values{}
	values.Set("offset", strconv.Itoa(offset))
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	return values
}

func (c *Client) do(ctx context.Context, method, path string, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, nil, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)

	var payload *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(encoded)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), payload)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		if detail := decodeDetail(resp); detail != "" {
			return fmt.Errorf("api %s returned status %d: %s", rel.Path, resp.StatusCode, detail)
		}
		return fmt.Errorf("api %s returned status %d", rel.Path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeDetail extracts the backend's {"detail": "..."} error message.
func decodeDetail(resp *http.Response) string {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ""
	}
	return strings.TrimSpace(body.Detail)
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_bind %q: %w", apiBind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
