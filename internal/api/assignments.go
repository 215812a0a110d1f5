package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"codeassess/internal/models"
)

// CodeSubmission is the body of POST /assignments/submit-code
type CodeSubmission struct {
	AssignmentID int64  `json:"assignment_id"`
	Code         string `json:"code"`
}

// SQLSubmission is the body of POST /assignments/submit-sql
type SQLSubmission struct {
	AssignmentID int64  `json:"assignment_id"`
	SQLQuery     string `json:"sql_query"`
}

// ListAssignments returns every assignment (summary fields only)
func (c *Client) ListAssignments(ctx context.Context) ([]models.Assignment, error) {
	var assignments []models.Assignment
	if err := c.do(ctx, http.MethodGet, "/assignments/", nil, &assignments); err != nil {
		return nil, err
	}
	if assignments == nil {
		assignments = []models.Assignment{}
	}
	return assignments, nil
}

// GetAssignment returns one assignment with its test cases
func (c *Client) GetAssignment(ctx context.Context, id int64) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/assignments/%d", id), nil, &assignment); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// CreateAssignment posts a new assignment together with its test cases.
// The backend's reply is returned as-is.
func (c *Client) CreateAssignment(ctx context.Context, draft models.AssignmentDraft) (json.RawMessage, error) {
	var created json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/assignments/", draft, &created); err != nil {
		return nil, err
	}
	return created, nil
}

// GetAssignmentStats returns submitted/remaining counts for an assignment
func (c *Client) GetAssignmentStats(ctx context.Context, id int64) (*models.Stats, error) {
	var stats models.Stats
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/assignments/%d/stats", id), nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ListSubmissions returns the raw submissions for an assignment
func (c *Client) ListSubmissions(ctx context.Context, id int64) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/assignments/%d/submissions", id), nil, &submissions); err != nil {
		return nil, err
	}
	return submissions, nil
}

// ListTestCases returns the test cases of an assignment
func (c *Client) ListTestCases(ctx context.Context, id int64) ([]models.TestCase, error) {
	var testCases []models.TestCase
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/assignments/%d/testcases", id), nil, &testCases); err != nil {
		return nil, err
	}
	return testCases, nil
}

// CreateTestCase adds a test case to an existing assignment
func (c *Client) CreateTestCase(ctx context.Context, id int64, tc models.DraftTestCase) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/assignments/%d/testcases", id), tc, nil)
}

// GetCompletionStats returns how many employees completed how many
// assignments. The backend answers either with a bare list or with
// {"completion_stats": [...]}.
func (c *Client) GetCompletionStats(ctx context.Context) ([]models.CompletionStat, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/assignments/completion-stats", nil, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var stats []models.CompletionStat
	if err := json.Unmarshal(raw, &stats); err == nil {
		return stats, nil
	}

	var wrapped struct {
		CompletionStats []models.CompletionStat `json:"completion_stats"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode completion stats: %w", err)
	}
	return wrapped.CompletionStats, nil
}

// SubmitCode sends code for grading against the assignment's test cases
func (c *Client) SubmitCode(ctx context.Context, sub CodeSubmission) (*models.SubmissionResult, error) {
	var result models.SubmissionResult
	if err := c.do(ctx, http.MethodPost, "/assignments/submit-code", sub, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SubmitSQL sends a query for grading against the assignment's schema
func (c *Client) SubmitSQL(ctx context.Context, sub SQLSubmission) (*models.SubmissionResult, error) {
	var result models.SubmissionResult
	if err := c.do(ctx, http.MethodPost, "/assignments/submit-sql", sub, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
