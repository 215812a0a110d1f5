package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"codeassess/internal/api"
	"codeassess/internal/models"
	"codeassess/internal/security"
	"codeassess/internal/service"
)

type memoryStore struct {
	mu       sync.Mutex
	sessions map[string]models.Session
}

func (m *memoryStore) CreateSession(ctx context.Context, session *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = *session
	return nil
}

func (m *memoryStore) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

func (m *memoryStore) DeleteSession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

func (m *memoryStore) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	return 0, nil
}

// fakeBackend answers the grading API with two fixed assignments
type fakeBackend struct {
	mu          sync.Mutex
	created     []models.AssignmentDraft
	codeSubs    []api.CodeSubmission
	sqlSubs     []api.SQLSubmission
	completion  string
	statsCalled []string
}

func strPtr(s string) *string { return &s }

var fixtureAssignments = []models.Assignment{
	{
		ID:          1,
		Title:       "Reverse a string",
		Description: "Print the input reversed",
		Domain:      "backend",
		Difficulty:  "easy",
		ProblemType: models.ProblemTypeCoding,
		Language:    strPtr("python"),
		TestCases: []models.TestCase{
			{ID: 1, Input: strPtr("abc"), ExpectedOutput: strPtr("cba")},
			{ID: 2, Input: strPtr("secret-input"), ExpectedOutput: strPtr("tupni-terces"), Hidden: true},
		},
	},
	{
		ID:          2,
		Title:       "Top customers",
		Description: "Select the top customers",
		Domain:      "data",
		Difficulty:  "medium",
		ProblemType: models.ProblemTypeSQL,
		SQLSchema:   strPtr("CREATE TABLE customers (id INTEGER, name TEXT);"),
	},
}

func writeBackendJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req api.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		switch {
		case req.Password != "secret":
			writeBackendJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid email or password"})
		case strings.HasPrefix(req.Email, "admin"):
			writeBackendJSON(w, http.StatusOK, map[string]string{"access_token": "admin-token", "role": "admin"})
		default:
			writeBackendJSON(w, http.StatusOK, map[string]string{"access_token": "employee-token", "role": "employee"})
		}
	})

	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		var req api.RegisterRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Email == "taken@example.com" {
			writeBackendJSON(w, http.StatusBadRequest, map[string]string{"detail": "Email already registered"})
			return
		}
		writeBackendJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})

	mux.HandleFunc("GET /assignments/", func(w http.ResponseWriter, r *http.Request) {
		writeBackendJSON(w, http.StatusOK, fixtureAssignments)
	})

	mux.HandleFunc("POST /assignments/", func(w http.ResponseWriter, r *http.Request) {
		var draft models.AssignmentDraft
		json.NewDecoder(r.Body).Decode(&draft)
		b.mu.Lock()
		b.created = append(b.created, draft)
		b.mu.Unlock()
		writeBackendJSON(w, http.StatusOK, map[string]int{"id": 3})
	})

	mux.HandleFunc("GET /assignments/completion-stats", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		body := b.completion
		b.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	})

	mux.HandleFunc("GET /assignments/{id}", func(w http.ResponseWriter, r *http.Request) {
		for _, a := range fixtureAssignments {
			if r.PathValue("id") == jsonID(a.ID) {
				writeBackendJSON(w, http.StatusOK, a)
				return
			}
		}
		writeBackendJSON(w, http.StatusNotFound, map[string]string{"detail": "Assignment not found"})
	})

	mux.HandleFunc("GET /assignments/{id}/stats", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.statsCalled = append(b.statsCalled, r.PathValue("id"))
		b.mu.Unlock()
		writeBackendJSON(w, http.StatusOK, models.Stats{Submitted: 3, Remaining: 1})
	})

	mux.HandleFunc("GET /assignments/{id}/submissions", func(w http.ResponseWriter, r *http.Request) {
		writeBackendJSON(w, http.StatusOK, []models.Submission{
			{ID: 10, UserID: 4, AssignmentID: 1, Status: "passed", CreatedAt: "2026-01-02T10:00:00"},
		})
	})

	mux.HandleFunc("POST /assignments/submit-code", func(w http.ResponseWriter, r *http.Request) {
		var sub api.CodeSubmission
		json.NewDecoder(r.Body).Decode(&sub)
		b.mu.Lock()
		b.codeSubs = append(b.codeSubs, sub)
		b.mu.Unlock()
		writeBackendJSON(w, http.StatusOK, models.SubmissionResult{
			Success:     false,
			PassedTests: 1,
			TotalTests:  2,
			Results: []models.TestResult{
				{TestID: "1", Passed: true},
				{TestID: "2", Passed: false, ExpectedOutput: "tupni", ActualOutput: "input"},
			},
		})
	})

	mux.HandleFunc("POST /assignments/submit-sql", func(w http.ResponseWriter, r *http.Request) {
		var sub api.SQLSubmission
		json.NewDecoder(r.Body).Decode(&sub)
		b.mu.Lock()
		b.sqlSubs = append(b.sqlSubs, sub)
		b.mu.Unlock()
		writeBackendJSON(w, http.StatusBadRequest, map[string]string{"detail": "near SELEC: syntax error"})
	})

	return mux
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func (b *fakeBackend) createdDrafts() []models.AssignmentDraft {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.AssignmentDraft(nil), b.created...)
}

func (b *fakeBackend) codeSubmissions() []api.CodeSubmission {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]api.CodeSubmission(nil), b.codeSubs...)
}

func (b *fakeBackend) statsRequests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.statsCalled...)
}

type testApp struct {
	handler http.Handler
	csrf    *security.CSRFGenerator
	backend *fakeBackend
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	backend := &fakeBackend{completion: "[]"}
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	templates, err := LoadTemplates("../templates")
	if err != nil {
		t.Fatalf("LoadTemplates() error = %v", err)
	}
	keys, err := security.DeriveKeys("handler-test-secret")
	if err != nil {
		t.Fatalf("DeriveKeys() error = %v", err)
	}
	sealer, err := security.NewTokenSealer(keys.Sealing)
	if err != nil {
		t.Fatalf("NewTokenSealer() error = %v", err)
	}
	csrf := security.NewCSRFGenerator(keys.CSRF)

	store := &memoryStore{sessions: make(map[string]models.Session)}
	authService := service.NewAuthService(store, sealer, api.NewClient(srv.URL, 5*time.Second), time.Hour)
	assignments := service.NewAssignmentService(nil, nil, 2)
	middleware := NewMiddleware(authService, csrf, nil)

	authHandler := NewAuthHandler(authService, templates)
	adminHandler := NewAdminHandler(authService, assignments, middleware, templates)
	employeeHandler := NewEmployeeHandler(authService, assignments, middleware, templates)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", authHandler.Home)
	mux.HandleFunc("POST /login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("GET /register", authHandler.ShowRegister)
	mux.HandleFunc("POST /register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /logout", middleware.CSRFProtect(authHandler.Logout))
	mux.HandleFunc("GET /admin", adminHandler.ShowDashboard)
	mux.HandleFunc("GET /admin/create-assignment", adminHandler.ShowCreateAssignment)
	mux.HandleFunc("POST /admin/create-assignment", middleware.CSRFProtect(adminHandler.CreateAssignment))
	mux.HandleFunc("GET /admin/submissions", adminHandler.ShowSubmissions)
	mux.HandleFunc("GET /admin/assignments/{id}/submissions", adminHandler.ShowAssignmentSubmissions)
	mux.HandleFunc("GET /employee", employeeHandler.ShowDashboard)
	mux.HandleFunc("GET /editor/{id}", employeeHandler.ShowEditor)
	mux.HandleFunc("POST /editor/{id}/submit", middleware.CSRFProtect(employeeHandler.SubmitEditor))

	return &testApp{handler: middleware.LoadSession(mux), csrf: csrf, backend: backend}
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return a.do(req)
}

// post sends form with the session's CSRF token when cookie is set
func (a *testApp) post(t *testing.T, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	if form == nil {
		form = url.Values{}
	}
	if cookie != nil && form.Get(CSRFFormField) == "" {
		token, err := a.csrf.GenerateToken(cookie.Value)
		if err != nil {
			t.Fatalf("GenerateToken() error = %v", err)
		}
		form.Set(CSRFFormField, token)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return a.do(req)
}

func (a *testApp) login(t *testing.T, email string) *http.Cookie {
	t.Helper()
	rec := a.post(t, "/login", url.Values{"email": {email}, "password": {"secret"}}, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login status = %d, body = %s", rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func TestLoginRedirectsByRole(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		email    string
		location string
	}{
		{"admin@example.com", "/admin"},
		{"worker@example.com", "/employee"},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			rec := app.post(t, "/login", url.Values{"email": {tt.email}, "password": {"secret"}}, nil)
			if rec.Code != http.StatusSeeOther {
				t.Fatalf("status = %d, want 303", rec.Code)
			}
			if got := rec.Header().Get("Location"); got != tt.location {
				t.Errorf("Location = %q, want %q", got, tt.location)
			}
		})
	}
}

func TestLoginFailureShowsBackendDetail(t *testing.T) {
	app := newTestApp(t)

	rec := app.post(t, "/login", url.Values{"email": {"worker@example.com"}, "password": {"wrong"}}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Invalid email or password") {
		t.Error("login page should show the backend detail")
	}
	if !strings.Contains(body, `value="worker@example.com"`) {
		t.Error("login page should keep the typed email")
	}
}

func TestLoginValidatesEmail(t *testing.T) {
	app := newTestApp(t)

	rec := app.post(t, "/login", url.Values{"email": {"not-an-email"}, "password": {"secret"}}, nil)
	if !strings.Contains(rec.Body.String(), "invalid email format") {
		t.Errorf("body should report the invalid email, got %s", rec.Body.String())
	}
}

func TestHomeRedirectsSignedInUser(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t, "admin@example.com")

	rec := app.get("/", cookie)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin" {
		t.Errorf("GET / = %d %q, want redirect to /admin", rec.Code, rec.Header().Get("Location"))
	}
}

func TestUnknownPathIsNotFound(t *testing.T) {
	app := newTestApp(t)

	rec := app.get("/no-such-page", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestInvalidSessionCookieIsCleared(t *testing.T) {
	app := newTestApp(t)

	rec := app.get("/", &http.Cookie{Name: SessionCookieName, Value: "unknown"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want login page", rec.Code)
	}
	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("invalid session cookie should be cleared")
	}
}

// unavailableStore fails every call the way a down database would
type unavailableStore struct{ memoryStore }

func (unavailableStore) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	return nil, errors.New("connection refused")
}

func TestSessionCookieKeptOnStoreFailure(t *testing.T) {
	keys, err := security.DeriveKeys("handler-test-secret")
	if err != nil {
		t.Fatal(err)
	}
	sealer, err := security.NewTokenSealer(keys.Sealing)
	if err != nil {
		t.Fatal(err)
	}
	authService := service.NewAuthService(&unavailableStore{}, sealer, api.NewClient("http://127.0.0.1:1", time.Second), time.Hour)
	middleware := NewMiddleware(authService, security.NewCSRFGenerator(keys.CSRF), nil)

	var sawSession bool
	handler := middleware.LoadSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawSession = GetSessionFromContext(r.Context()) != nil
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "live-session"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if sawSession {
		t.Error("no session should be attached when the store fails")
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			t.Errorf("store failure should not touch the cookie, got %+v", c)
		}
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"medium", "Medium"},
		{"élan", "Élan"},
		{"Python", "Python"},
	}
	for _, tt := range tests {
		if got := titleCase(tt.in); got != tt.want {
			t.Errorf("titleCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRegisterFlow(t *testing.T) {
	app := newTestApp(t)

	form := url.Values{
		"name":     {"New Hire"},
		"email":    {"new@example.com"},
		"password": {"pw"},
		"role":     {"employee"},
	}
	rec := app.post(t, "/register", form, nil)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/?registered=1" {
		t.Fatalf("register = %d %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = app.get("/?registered=1", nil)
	if !strings.Contains(rec.Body.String(), MsgRegistrationSucceeded) {
		t.Error("login page should show the registration flash")
	}

	form.Set("email", "taken@example.com")
	rec = app.post(t, "/register", form, nil)
	body := rec.Body.String()
	if !strings.Contains(body, "Registration failed: Email already registered") {
		t.Errorf("register failure should show backend detail, got %s", body)
	}
	if !strings.Contains(body, `value="New Hire"`) {
		t.Error("register form should keep the typed name")
	}
}

func TestCSRFRequiredUnderSession(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t, "admin@example.com")

	rec := app.post(t, "/logout", url.Values{CSRFFormField: {"forged"}}, cookie)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}

	rec = app.post(t, "/logout", nil, cookie)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("logout status = %d, want 303", rec.Code)
	}

	// The session is gone, so the old cookie lands on the login page
	rec = app.get("/", cookie)
	if rec.Code != http.StatusOK {
		t.Errorf("GET / after logout = %d, want login page", rec.Code)
	}
}

func TestAdminDashboardStatsOnDemand(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t, "admin@example.com")

	rec := app.get("/admin", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(app.backend.statsRequests()) != 0 {
		t.Error("stats should not be fetched until requested")
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Reverse a string") || !strings.Contains(body, "/admin?stats=1") {
		t.Error("dashboard should list assignments with stats links")
	}

	rec = app.get("/admin?stats=2", cookie)
	if got := app.backend.statsRequests(); len(got) != 1 || got[0] != "2" {
		t.Errorf("stats requests = %v, want [2]", got)
	}
	if !strings.Contains(rec.Body.String(), "75% submitted") {
		t.Error("dashboard should show stats for the requested card")
	}
}

func TestCreateAssignmentFormActions(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t, "admin@example.com")

	base := url.Values{
		"problem_type": {"coding"},
		"title":        {"FizzBuzz"},
		"description":  {"Classic"},
		"tc_count":     {"0"},
	}

	rec := app.post(t, "/admin/create-assignment", withAction(base, "add_test_case"), cookie)
	if !strings.Contains(rec.Body.String(), `name="tc_input_0"`) {
		t.Fatal("add_test_case should render a test case row")
	}
	if !strings.Contains(rec.Body.String(), `value="FizzBuzz"`) {
		t.Error("form should keep the title across round trips")
	}

	form := withAction(base, "remove_test_case")
	form.Set("tc_count", "2")
	form.Set("tc_input_0", "first")
	form.Set("tc_input_1", "second")
	rec = app.post(t, "/admin/create-assignment?index=0", form, cookie)
	body := rec.Body.String()
	if strings.Contains(body, ">first<") || !strings.Contains(body, ">second<") {
		t.Error("remove_test_case should drop only the first row")
	}

	form = withAction(base, "refresh")
	form.Set("problem_type", "sql")
	rec = app.post(t, "/admin/create-assignment", form, cookie)
	if !strings.Contains(rec.Body.String(), `id="sql_schema"`) {
		t.Error("refresh to sql should show the schema field")
	}

	form = withAction(base, "create")
	form.Set("problem_type", "sql")
	rec = app.post(t, "/admin/create-assignment", form, cookie)
	if !strings.Contains(rec.Body.String(), "sql schema is required") {
		t.Errorf("sql draft without schema should fail validation, got %s", rec.Body.String())
	}
	if len(app.backend.createdDrafts()) != 0 {
		t.Error("invalid draft must not reach the backend")
	}

	form = withAction(base, "create")
	form.Set("tc_count", "1")
	form.Set("tc_input_0", "3")
	form.Set("tc_expected_output_0", "Fizz")
	form.Set("tc_hidden_0", "true")
	rec = app.post(t, "/admin/create-assignment", form, cookie)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin?created=1" {
		t.Fatalf("create = %d %q", rec.Code, rec.Header().Get("Location"))
	}
	created := app.backend.createdDrafts()
	if len(created) != 1 || created[0].Title != "FizzBuzz" || len(created[0].TestCases) != 1 || !created[0].TestCases[0].Hidden {
		t.Errorf("created = %+v", created)
	}

	rec = app.get("/admin?created=1", cookie)
	if !strings.Contains(rec.Body.String(), MsgAssignmentCreated) {
		t.Error("dashboard should show the created flash")
	}
}

func withAction(base url.Values, action string) url.Values {
	form := url.Values{}
	for k, v := range base {
		form[k] = append([]string(nil), v...)
	}
	form.Set("action", action)
	return form
}

func TestSubmissionsOverviewEmptyCompletion(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t, "admin@example.com")

	rec := app.get("/admin/submissions", cookie)
	body := rec.Body.String()
	if !strings.Contains(body, MsgNoCompletionData) {
		t.Error("empty completion stats should show the empty text")
	}
	if len(app.backend.statsRequests()) != len(fixtureAssignments) {
		t.Errorf("stats requests = %v, want one per assignment", app.backend.statsRequests())
	}

	app.backend.mu.Lock()
	app.backend.completion = `{"completion_stats": [{"assignments_completed": 2, "user_count": 5}]}`
	app.backend.mu.Unlock()

	rec = app.get("/admin/submissions", cookie)
	if strings.Contains(rec.Body.String(), MsgNoCompletionData) {
		t.Error("completion table should replace the empty text")
	}
}

func TestAssignmentSubmissions(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t, "admin@example.com")

	rec := app.get("/admin/assignments/1/submissions", cookie)
	if !strings.Contains(rec.Body.String(), "passed") {
		t.Error("submissions page should list submissions")
	}

	rec = app.get("/admin/assignments/abc/submissions", cookie)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestEditor(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t, "worker@example.com")

	rec := app.get("/editor/1", cookie)
	body := rec.Body.String()
	if !strings.Contains(body, "import sys") {
		t.Error("coding editor should be prefilled with starter code")
	}
	if strings.Contains(body, "secret-input") {
		t.Error("hidden test cases must not be shown")
	}

	rec = app.get("/editor/2", cookie)
	if !strings.Contains(rec.Body.String(), "CREATE TABLE customers") {
		t.Error("sql editor should show the schema")
	}

	rec = app.get("/editor/99", cookie)
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "Assignment not found") {
		t.Errorf("missing assignment = %d", rec.Code)
	}
}

func TestEditorSubmitKeepsBuffer(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t, "worker@example.com")

	rec := app.post(t, "/editor/1/submit", url.Values{"buffer": {"print(input()[::-1])"}}, cookie)
	body := rec.Body.String()
	if !strings.Contains(body, "Passed 1 of 2 tests") {
		t.Error("result should be rendered")
	}
	if !strings.Contains(body, "print(input()[::-1])") {
		t.Error("buffer should be kept as typed")
	}
	subs := app.backend.codeSubmissions()
	if len(subs) != 1 || subs[0].AssignmentID != 1 || subs[0].Code != "print(input()[::-1])" {
		t.Errorf("submissions = %+v", subs)
	}

	rec = app.post(t, "/editor/2/submit", url.Values{"buffer": {"SELEC name"}}, cookie)
	body = rec.Body.String()
	if !strings.Contains(body, "near SELEC: syntax error") || !strings.Contains(body, "SELEC name") {
		t.Error("sql failure should show backend detail and keep the query")
	}
}

func TestDraftFromForm(t *testing.T) {
	form := url.Values{
		"problem_type":         {"sql"},
		"title":                {"  Joins  "},
		"description":          {"d"},
		"sql_schema":           {"CREATE TABLE t (id INT);"},
		"tc_count":             {"2"},
		"tc_sql_query_0":       {"SELECT 1"},
		"tc_expected_result_0": {"[[1]]"},
		"tc_hidden_1":          {"on"},
	}
	req := httptest.NewRequest(http.MethodPost, "/admin/create-assignment", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if err := req.ParseForm(); err != nil {
		t.Fatal(err)
	}

	draft := DraftFromForm(req)
	if !draft.IsSQL() || draft.Title != "Joins" {
		t.Errorf("draft = %+v", draft)
	}
	if len(draft.TestCases) != 2 {
		t.Fatalf("test cases = %d, want 2", len(draft.TestCases))
	}
	if draft.TestCases[0].SQLQuery != "SELECT 1" || draft.TestCases[0].ExpectedResult != "[[1]]" || draft.TestCases[0].Hidden {
		t.Errorf("first test case = %+v", draft.TestCases[0])
	}
	if !draft.TestCases[1].Hidden {
		t.Error("second test case should be hidden")
	}
}

func TestDraftFromFormCapsRows(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/admin/create-assignment", strings.NewReader("tc_count=100000"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.ParseForm()

	if got := len(DraftFromForm(req).TestCases); got != maxDraftTestCases {
		t.Errorf("test cases = %d, want %d", got, maxDraftTestCases)
	}
}

func TestStatsURL(t *testing.T) {
	tests := []struct {
		open []int64
		id   int64
		want string
	}{
		{nil, 3, "/admin?stats=3"},
		{[]int64{1}, 3, "/admin?stats=1&stats=3"},
		{[]int64{3, 1}, 3, "/admin?stats=1&stats=3"},
	}
	for _, tt := range tests {
		if got := statsURL(tt.open, tt.id); got != tt.want {
			t.Errorf("statsURL(%v, %d) = %q, want %q", tt.open, tt.id, got, tt.want)
		}
	}

	ids := parseIDs([]string{"2", "x", "2", "5"})
	if len(ids) != 2 || ids[0] != 2 || ids[1] != 5 {
		t.Errorf("parseIDs() = %v", ids)
	}
}

func TestStartupStatus(t *testing.T) {
	status := NewStartupStatus("sessions", "templates")

	rec := httptest.NewRecorder()
	status.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status before ready = %d, want 503", rec.Code)
	}

	status.CompleteStep("sessions")
	status.MarkReady()

	rec = httptest.NewRecorder()
	status.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status when ready = %d, want 200", rec.Code)
	}
	var body struct {
		Ready bool `json:"ready"`
		Steps []StartupStep
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !body.Ready || len(body.Steps) != 2 || !body.Steps[0].Completed || body.Steps[1].Completed {
		t.Errorf("body = %+v", body)
	}
}
