package handlers

import (
	"html/template"
	"log"
	"net/http"
	"strconv"

	"codeassess/internal/api"
	"codeassess/internal/service"
)

// EmployeeHandler serves the assignment list and the editor page
type EmployeeHandler struct {
	authService *service.AuthService
	assignments *service.AssignmentService
	middleware  *Middleware
	templates   *template.Template
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(authService *service.AuthService, assignments *service.AssignmentService, middleware *Middleware, templates *template.Template) *EmployeeHandler {
	return &EmployeeHandler{
		authService: authService,
		assignments: assignments,
		middleware:  middleware,
		templates:   templates,
	}
}

// ShowDashboard lists the assignments an employee can solve
func (h *EmployeeHandler) ShowDashboard(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	data := EmployeeDashboardViewData{
		Title:     "My Assignments",
		Session:   session,
		CSRFToken: h.middleware.CSRFToken(r),
	}

	assignments, err := h.assignments.ListAssignments(r.Context(), h.authService.ClientFor(session))
	if err != nil {
		log.Printf("Error fetching assignments: %v", err)
		data.Error = errorMessage(err, MsgLoadAssignmentsFailed)
	}
	data.Assignments = assignments

	render(w, h.templates, "employee_dashboard.tmpl", data)
}

// ShowEditor renders the editor for one assignment
func (h *EmployeeHandler) ShowEditor(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidAssignmentID, "", err)
		return
	}

	session := GetSessionFromContext(r.Context())
	data := EditorViewData{
		Title:     "Editor",
		Session:   session,
		CSRFToken: h.middleware.CSRFToken(r),
	}

	assignment, err := h.assignments.GetAssignment(r.Context(), h.authService.ClientFor(session), id)
	if err != nil {
		log.Printf("Error fetching assignment %d: %v", id, err)
		data.Error = errorMessage(err, MsgLoadAssignmentFailed)
		renderStatus(w, h.templates, "editor.tmpl", editorErrorStatus(err), data)
		return
	}

	data.Title = assignment.Title
	data.Assignment = assignment
	if !assignment.IsSQL() {
		data.Buffer = assignment.StarterCode()
	}

	render(w, h.templates, "editor.tmpl", data)
}

// SubmitEditor grades the posted buffer and renders the result below the
// editor, keeping the buffer as typed
func (h *EmployeeHandler) SubmitEditor(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidAssignmentID, "", err)
		return
	}
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidFormData, "", err)
		return
	}

	session := GetSessionFromContext(r.Context())
	client := h.authService.ClientFor(session)
	data := EditorViewData{
		Title:     "Editor",
		Session:   session,
		CSRFToken: h.middleware.CSRFToken(r),
		Buffer:    r.PostFormValue("buffer"),
	}

	assignment, err := h.assignments.GetAssignment(r.Context(), client, id)
	if err != nil {
		log.Printf("Error fetching assignment %d: %v", id, err)
		data.Error = errorMessage(err, MsgLoadAssignmentFailed)
		renderStatus(w, h.templates, "editor.tmpl", editorErrorStatus(err), data)
		return
	}
	data.Title = assignment.Title
	data.Assignment = assignment

	result, err := h.assignments.Submit(r.Context(), client, assignment, data.Buffer)
	if err != nil {
		log.Printf("Error submitting assignment %d: %v", id, err)
		fallback := MsgSubmitCodeFailed
		if assignment.IsSQL() {
			fallback = MsgSubmitQueryFailed
		}
		data.Error = errorMessage(err, fallback)
	}
	data.Result = result

	render(w, h.templates, "editor.tmpl", data)
}

func editorErrorStatus(err error) int {
	if api.IsStatus(err, http.StatusNotFound) {
		return http.StatusNotFound
	}
	return http.StatusOK
}
