package models

import "strings"

const (
	ProblemTypeCoding = "coding"
	ProblemTypeSQL    = "sql"
)

// Assignment mirrors the backend's assignment record. Optional fields are
// pointers because the backend sends null for them.
type Assignment struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Domain         string     `json:"domain"`
	Difficulty     string     `json:"difficulty"`
	ProblemType    string     `json:"problem_type"`
	Language       *string    `json:"language,omitempty"`
	TestInput      *string    `json:"test_input,omitempty"`
	ExpectedOutput *string    `json:"expected_output,omitempty"`
	SQLSchema      *string    `json:"sql_schema,omitempty"`
	SQLQuery       *string    `json:"sql_query,omitempty"`
	TestCases      []TestCase `json:"test_cases,omitempty"`
}

// TestCase is one input/expected pair, or one query/expected-result pair
// for SQL problems.
type TestCase struct {
	ID             int64   `json:"id,omitempty"`
	Input          *string `json:"input,omitempty"`
	ExpectedOutput *string `json:"expected_output,omitempty"`
	SQLQuery       *string `json:"sql_query,omitempty"`
	ExpectedResult *string `json:"expected_result,omitempty"`
	Hidden         bool    `json:"hidden"`
}

// IsSQL reports whether the assignment is graded by running SQL
func (a *Assignment) IsSQL() bool {
	return strings.EqualFold(a.ProblemType, ProblemTypeSQL)
}

// LanguageOrDefault returns the coding language, python when unset
func (a *Assignment) LanguageOrDefault() string {
	if a.Language == nil || *a.Language == "" {
		return "python"
	}
	return *a.Language
}

// VisibleTestCases returns the test cases an employee may see before
// submitting. Hidden cases are only run by the backend.
func (a *Assignment) VisibleTestCases() []TestCase {
	visible := make([]TestCase, 0, len(a.TestCases))
	for _, tc := range a.TestCases {
		if !tc.Hidden {
			visible = append(visible, tc)
		}
	}
	return visible
}

// HasHiddenTestCases reports whether any test case is hidden
func (a *Assignment) HasHiddenTestCases() bool {
	for _, tc := range a.TestCases {
		if tc.Hidden {
			return true
		}
	}
	return false
}

// StarterCode returns the initial editor buffer for a coding assignment
func (a *Assignment) StarterCode() string {
	if a.LanguageOrDefault() == "javascript" {
		return "// Write your solution for: " + a.Title + "\n\n" +
			"// Read input from stdin\n" +
			"const fs = require('fs');\n" +
			"const input = fs.readFileSync(0, 'utf-8').trim();\n\n" +
			"// Your code here\n\n" +
			"console.log('Hello, World!');"
	}
	return "# Write your solution for: " + a.Title + "\n\n" +
		"# Read input from stdin\n" +
		"import sys\n" +
		"input_data = sys.stdin.read().strip()\n\n" +
		"# Your code here\n\n" +
		"print(\"Hello, World!\")"
}

// Deref returns the pointed-to string or "" for nil
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
