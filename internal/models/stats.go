package models

import "math"

// Stats holds the submission counts of one assignment across all
// employees.
type Stats struct {
	Submitted         int `json:"submitted"`
	Remaining         int `json:"remaining"`
	TotalSubmissions  int `json:"total_submissions,omitempty"`
	PassedSubmissions int `json:"passed_submissions,omitempty"`
	FailedSubmissions int `json:"failed_submissions,omitempty"`
}

// Progress returns the submitted share as a percentage. An assignment
// with nobody submitted and nobody remaining is at 0%.
func (s Stats) Progress() float64 {
	total := s.Submitted + s.Remaining
	if total <= 0 {
		return 0
	}
	return float64(s.Submitted) / float64(total) * 100
}

// Percent is Progress rounded to a whole number for display
func (s Stats) Percent() int {
	return int(math.Round(s.Progress()))
}

// CompletionStat says how many employees completed a given number of
// assignments.
type CompletionStat struct {
	AssignmentsCompleted int `json:"assignments_completed"`
	UserCount            int `json:"user_count"`
}
