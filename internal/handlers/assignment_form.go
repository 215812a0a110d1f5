package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"codeassess/internal/models"
)

var testCaseFields = []string{"input", "expected_output", "sql_query", "expected_result", "hidden"}

// testCaseFieldName is the form name of one field of test case row i
func testCaseFieldName(field string, i int) string {
	return fmt.Sprintf("tc_%s_%d", field, i)
}

// DraftFromForm rebuilds the create-assignment draft from a parsed form.
// Test case rows are numbered tc_<field>_<i> up to tc_count; an unchecked
// hidden box is simply absent.
func DraftFromForm(r *http.Request) *models.AssignmentDraft {
	draft := models.NewAssignmentDraft()

	if v := strings.TrimSpace(r.PostFormValue("problem_type")); v == models.ProblemTypeSQL {
		draft.ProblemType = models.ProblemTypeSQL
	}
	draft.Title = strings.TrimSpace(r.PostFormValue("title"))
	draft.Description = r.PostFormValue("description")
	if v := r.PostFormValue("domain"); v != "" {
		draft.Domain = v
	}
	if v := r.PostFormValue("difficulty"); v != "" {
		draft.Difficulty = v
	}
	if v := r.PostFormValue("language"); v != "" {
		draft.Language = v
	}
	draft.TestInput = r.PostFormValue("test_input")
	draft.ExpectedOutput = r.PostFormValue("expected_output")
	draft.SQLSchema = r.PostFormValue("sql_schema")
	draft.SQLQuery = r.PostFormValue("sql_query")

	count, _ := strconv.Atoi(r.PostFormValue("tc_count"))
	if count > maxDraftTestCases {
		count = maxDraftTestCases
	}
	for i := 0; i < count; i++ {
		draft.AddTestCase()
		for _, field := range testCaseFields {
			values, ok := r.PostForm[testCaseFieldName(field, i)]
			if !ok || len(values) == 0 {
				continue
			}
			// Index and field are both known to be valid here
			_ = draft.UpdateTestCase(i, field, values[0])
		}
	}

	return draft
}
