package handlers

import (
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"codeassess/internal/models"
	"codeassess/internal/service"
)

// AdminHandler serves the administrator pages
type AdminHandler struct {
	authService *service.AuthService
	assignments *service.AssignmentService
	middleware  *Middleware
	templates   *template.Template
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(authService *service.AuthService, assignments *service.AssignmentService, middleware *Middleware, templates *template.Template) *AdminHandler {
	return &AdminHandler{
		authService: authService,
		assignments: assignments,
		middleware:  middleware,
		templates:   templates,
	}
}

// ShowDashboard lists assignments. Stats are shown for the IDs named by
// repeated ?stats= parameters.
func (h *AdminHandler) ShowDashboard(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	statsIDs := parseIDs(r.URL.Query()["stats"])

	data := AdminDashboardViewData{
		Title:     "Admin Dashboard",
		Session:   session,
		CSRFToken: h.middleware.CSRFToken(r),
	}
	if r.URL.Query().Get("created") == "1" {
		data.Success = MsgAssignmentCreated
	}

	cards, err := h.assignments.Dashboard(r.Context(), h.authService.ClientFor(session), statsIDs)
	if err != nil {
		log.Printf("Error fetching assignments: %v", err)
		data.Error = errorMessage(err, MsgLoadAssignmentsFailed)
	}
	for _, card := range cards {
		data.Cards = append(data.Cards, AdminCardView{
			AssignmentCard: card,
			StatsURL:       statsURL(statsIDs, card.Assignment.ID),
		})
	}

	render(w, h.templates, "admin_dashboard.tmpl", data)
}

// ShowCreateAssignment renders an empty assignment form
func (h *AdminHandler) ShowCreateAssignment(w http.ResponseWriter, r *http.Request) {
	h.renderCreateForm(w, r, models.NewAssignmentDraft(), "")
}

// CreateAssignment handles every button of the assignment form. The
// action field picks between editing the test case list and submitting.
func (h *AdminHandler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidFormData, "", err)
		return
	}

	draft := DraftFromForm(r)

	switch r.FormValue("action") {
	case "refresh":
		h.renderCreateForm(w, r, draft, "")
		return

	case "add_test_case":
		draft.AddTestCase()
		h.renderCreateForm(w, r, draft, "")
		return

	case "remove_test_case":
		index, err := strconv.Atoi(r.FormValue("index"))
		if err == nil {
			err = draft.RemoveTestCase(index)
		}
		if err != nil {
			log.Printf("Error removing test case: %v", err)
			h.renderCreateForm(w, r, draft, models.ErrInvalidTestCaseIndex.Error())
			return
		}
		h.renderCreateForm(w, r, draft, "")
		return
	}

	session := GetSessionFromContext(r.Context())
	if err := h.assignments.CreateAssignment(r.Context(), h.authService.ClientFor(session), draft); err != nil {
		log.Printf("Error creating assignment: %v", err)
		h.renderCreateForm(w, r, draft, errorMessage(err, MsgCreateAssignmentFailed))
		return
	}

	http.Redirect(w, r, "/admin?created=1", http.StatusSeeOther)
}

func (h *AdminHandler) renderCreateForm(w http.ResponseWriter, r *http.Request, draft *models.AssignmentDraft, errMsg string) {
	render(w, h.templates, "create_assignment.tmpl", CreateAssignmentViewData{
		Title:        "Create Assignment",
		Session:      GetSessionFromContext(r.Context()),
		CSRFToken:    h.middleware.CSRFToken(r),
		Draft:        draft,
		Error:        errMsg,
		Domains:      []string{"fullstack", "frontend", "backend", "data", "devops", "general"},
		Difficulties: []string{"easy", "medium", "hard"},
		Languages:    []string{"python", "javascript"},
	})
}

// ShowSubmissions renders the submissions overview with stats for every
// assignment
func (h *AdminHandler) ShowSubmissions(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	data := SubmissionsViewData{
		Title:     "Submissions Overview",
		Session:   session,
		CSRFToken: h.middleware.CSRFToken(r),
		EmptyText: MsgNoCompletionData,
	}

	overview, err := h.assignments.Overview(r.Context(), h.authService.ClientFor(session))
	if err != nil {
		log.Printf("Error fetching submissions overview: %v", err)
		data.Error = errorMessage(err, MsgLoadSubmissionsFailed)
	} else {
		data.Cards = overview.Cards
		data.Completion = overview.Completion
	}

	render(w, h.templates, "submissions.tmpl", data)
}

// ShowAssignmentSubmissions lists the raw submissions of one assignment
func (h *AdminHandler) ShowAssignmentSubmissions(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidAssignmentID, "", err)
		return
	}

	session := GetSessionFromContext(r.Context())
	data := AssignmentSubmissionsViewData{
		Title:        "Assignment Submissions",
		Session:      session,
		CSRFToken:    h.middleware.CSRFToken(r),
		AssignmentID: id,
	}

	submissions, err := h.assignments.ListSubmissions(r.Context(), h.authService.ClientFor(session), id)
	if err != nil {
		log.Printf("Error fetching submissions for assignment %d: %v", id, err)
		data.Error = errorMessage(err, MsgLoadSubmissionsFailed)
	}
	data.Submissions = submissions

	render(w, h.templates, "assignment_submissions.tmpl", data)
}

// parseIDs keeps the values that parse as IDs, dropping duplicates
func parseIDs(values []string) []int64 {
	seen := make(map[int64]bool, len(values))
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// statsURL is the dashboard URL that shows the stats already open plus id
func statsURL(open []int64, id int64) string {
	q := url.Values{}
	for _, existing := range open {
		if existing != id {
			q.Add("stats", strconv.FormatInt(existing, 10))
		}
	}
	q.Add("stats", strconv.FormatInt(id, 10))
	return "/admin?" + q.Encode()
}
