package models

import "encoding/json"

// SubmissionResult is the graded breakdown returned by submit-code and
// submit-sql. It lives only as long as the page that shows it.
type SubmissionResult struct {
	Success        bool         `json:"success"`
	PassedTests    int          `json:"passed_tests"`
	TotalTests     int          `json:"total_tests"`
	Results        []TestResult `json:"results"`
	UserQueryError string       `json:"user_query_error,omitempty"`
	CodeError      string       `json:"code_error,omitempty"`
	Error          string       `json:"error,omitempty"`
}

// TestResult is the outcome of a single test case
type TestResult struct {
	TestID         json.Number     `json:"test_id"`
	Passed         bool            `json:"passed"`
	Query          string          `json:"query,omitempty"`
	Error          string          `json:"error,omitempty"`
	Message        string          `json:"message,omitempty"`
	ExpectedOutput string          `json:"expected_output,omitempty"`
	ActualOutput   string          `json:"actual_output,omitempty"`
	ActualResult   json.RawMessage `json:"actual_result,omitempty"`
	ExpectedResult json.RawMessage `json:"expected_result,omitempty"`
}

// FailureMessage returns the first error text the backend attached to the
// result, if any.
func (r *SubmissionResult) FailureMessage() string {
	switch {
	case r.UserQueryError != "":
		return r.UserQueryError
	case r.CodeError != "":
		return r.CodeError
	default:
		return r.Error
	}
}

// ActualResultText renders the raw JSON result for display
func (t *TestResult) ActualResultText() string {
	return rawText(t.ActualResult)
}

// ExpectedResultText renders the raw JSON expected result for display
func (t *TestResult) ExpectedResultText() string {
	return rawText(t.ExpectedResult)
}

func rawText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// Submission is one stored attempt as listed by the backend
type Submission struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"user_id"`
	AssignmentID int64  `json:"assignment_id"`
	Status       string `json:"status"`
	Code         string `json:"code,omitempty"`
	Output       string `json:"output,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
}
