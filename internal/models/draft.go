package models

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidTestCaseIndex is returned when a draft test case index is out
// of range.
var ErrInvalidTestCaseIndex = errors.New("invalid test case index")

// AssignmentDraft is the state of the create-assignment form. It is
// rebuilt from the posted form on every round trip.
type AssignmentDraft struct {
	ProblemType    string `json:"problem_type" validate:"oneof=coding sql"`
	Title          string `json:"title" validate:"required"`
	Description    string `json:"description" validate:"required"`
	Domain         string `json:"domain"`
	Difficulty     string `json:"difficulty"`
	Language       string `json:"language,omitempty"`
	TestInput      string `json:"test_input"`
	ExpectedOutput string `json:"expected_output"`
	SQLSchema      string `json:"sql_schema" validate:"required_if=ProblemType sql"`
	SQLQuery       string `json:"sql_query"`

	TestCases []DraftTestCase `json:"test_cases"`
}

// DraftTestCase is one editable row of the test case list. It is also the
// wire shape the backend accepts for new test cases.
type DraftTestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
	SQLQuery       string `json:"sql_query"`
	ExpectedResult string `json:"expected_result"`
	Hidden         bool   `json:"hidden"`
}

// NewAssignmentDraft returns the draft shown on an empty form
func NewAssignmentDraft() *AssignmentDraft {
	return &AssignmentDraft{
		ProblemType: ProblemTypeCoding,
		Domain:      "fullstack",
		Difficulty:  "medium",
		Language:    "python",
		TestCases:   []DraftTestCase{},
	}
}

// IsSQL reports whether the draft is a SQL problem
func (d *AssignmentDraft) IsSQL() bool {
	return d.ProblemType == ProblemTypeSQL
}

// AddTestCase appends an empty, visible test case
func (d *AssignmentDraft) AddTestCase() {
	d.TestCases = append(d.TestCases, DraftTestCase{})
}

// UpdateTestCase sets one field of the test case at idx
func (d *AssignmentDraft) UpdateTestCase(idx int, field, value string) error {
	if idx < 0 || idx >= len(d.TestCases) {
		return fmt.Errorf("%w: %d", ErrInvalidTestCaseIndex, idx)
	}

	tc := &d.TestCases[idx]
	switch field {
	case "input":
		tc.Input = value
	case "expected_output":
		tc.ExpectedOutput = value
	case "sql_query":
		tc.SQLQuery = value
	case "expected_result":
		tc.ExpectedResult = value
	case "hidden":
		hidden, err := strconv.ParseBool(value)
		if err != nil {
			hidden = value == "on"
		}
		tc.Hidden = hidden
	default:
		return fmt.Errorf("unknown test case field %q", field)
	}
	return nil
}

// RemoveTestCase deletes the test case at idx, keeping the others in order
func (d *AssignmentDraft) RemoveTestCase(idx int) error {
	if idx < 0 || idx >= len(d.TestCases) {
		return fmt.Errorf("%w: %d", ErrInvalidTestCaseIndex, idx)
	}
	d.TestCases = append(d.TestCases[:idx:idx], d.TestCases[idx+1:]...)
	return nil
}

// Payload returns the body posted to the backend. SQL and JSON text is
// passed through untouched; the backend decides what is valid.
func (d *AssignmentDraft) Payload() AssignmentDraft {
	payload := *d
	payload.TestCases = append([]DraftTestCase{}, d.TestCases...)
	if payload.IsSQL() {
		payload.Language = ""
	}
	return payload
}

// DraftFromAssignment rebuilds a create payload from an existing
// assignment, used when restoring exported assignments
func DraftFromAssignment(a *Assignment) *AssignmentDraft {
	draft := &AssignmentDraft{
		ProblemType:    a.ProblemType,
		Title:          a.Title,
		Description:    a.Description,
		Domain:         a.Domain,
		Difficulty:     a.Difficulty,
		Language:       Deref(a.Language),
		TestInput:      Deref(a.TestInput),
		ExpectedOutput: Deref(a.ExpectedOutput),
		SQLSchema:      Deref(a.SQLSchema),
		SQLQuery:       Deref(a.SQLQuery),
		TestCases:      make([]DraftTestCase, 0, len(a.TestCases)),
	}
	if draft.ProblemType == "" {
		draft.ProblemType = ProblemTypeCoding
	}
	for _, tc := range a.TestCases {
		draft.TestCases = append(draft.TestCases, DraftTestCase{
			Input:          Deref(tc.Input),
			ExpectedOutput: Deref(tc.ExpectedOutput),
			SQLQuery:       Deref(tc.SQLQuery),
			ExpectedResult: Deref(tc.ExpectedResult),
			Hidden:         tc.Hidden,
		})
	}
	return draft
}
