package handlers

import (
	"codeassess/internal/api"
	"codeassess/internal/models"
	"codeassess/internal/service"
)

type LoginViewData struct {
	Title   string
	Error   string
	Email   string
	Success string
}

type RegisterViewData struct {
	Title string
	Error string
	Form  api.RegisterRequest
	Roles []string
}

type AdminCardView struct {
	service.AssignmentCard
	StatsURL string
}

type AdminDashboardViewData struct {
	Title     string
	Session   *models.Session
	CSRFToken string
	Cards     []AdminCardView
	Error     string
	Success   string
}

type CreateAssignmentViewData struct {
	Title        string
	Session      *models.Session
	CSRFToken    string
	Draft        *models.AssignmentDraft
	Error        string
	Domains      []string
	Difficulties []string
	Languages    []string
}

type SubmissionsViewData struct {
	Title      string
	Session    *models.Session
	CSRFToken  string
	Cards      []service.AssignmentCard
	Completion []models.CompletionStat
	Error      string
	EmptyText  string
}

type AssignmentSubmissionsViewData struct {
	Title        string
	Session      *models.Session
	CSRFToken    string
	AssignmentID int64
	Submissions  []models.Submission
	Error        string
}

type EmployeeDashboardViewData struct {
	Title       string
	Session     *models.Session
	CSRFToken   string
	Assignments []models.Assignment
	Error       string
}

type EditorViewData struct {
	Title      string
	Session    *models.Session
	CSRFToken  string
	Assignment *models.Assignment
	Buffer     string
	Result     *models.SubmissionResult
	Error      string
}
