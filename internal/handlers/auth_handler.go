package handlers

import (
	"html/template"
	"log"
	"net/http"
	"strings"

	"codeassess/internal/api"
	"codeassess/internal/security"
	"codeassess/internal/service"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
	templates   *template.Template
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, templates *template.Template) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		templates:   templates,
	}
}

// Home renders the login page, or sends a signed-in visitor to their
// dashboard
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if session := GetSessionFromContext(r.Context()); session != nil {
		http.Redirect(w, r, session.HomePath(), http.StatusSeeOther)
		return
	}

	data := LoginViewData{Title: "Login"}
	if r.URL.Query().Get("registered") == "1" {
		data.Success = MsgRegistrationSucceeded
	}
	render(w, h.templates, "login.tmpl", data)
}

// Login handles login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidFormData, "", err)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	session, err := h.authService.Login(r.Context(), email, password)
	if err != nil {
		log.Printf("Login failed for %s: %v", email, err)
		render(w, h.templates, "login.tmpl", LoginViewData{
			Title: "Login",
			Error: errorMessage(err, MsgLoginFailed),
			Email: email,
		})
		return
	}

	// Replace any session the browser already held
	if previous := GetSessionFromContext(r.Context()); previous != nil {
		if err := h.authService.Logout(r.Context(), previous.ID); err != nil {
			log.Printf("Error removing previous session: %v", err)
		}
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))
	http.Redirect(w, r, session.HomePath(), http.StatusSeeOther)
}

// ShowRegister renders the registration page
func (h *AuthHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	render(w, h.templates, "register.tmpl", RegisterViewData{
		Title: "Register",
		Form:  api.RegisterRequest{Role: "employee", Domain: "general"},
		Roles: []string{"employee", "admin"},
	})
}

// Register handles registration form submission
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidFormData, "", err)
		return
	}

	form := api.RegisterRequest{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Role:     r.FormValue("role"),
		Domain:   r.FormValue("domain"),
	}

	if err := h.authService.Register(r.Context(), form); err != nil {
		log.Printf("Registration failed for %s: %v", form.Email, err)
		form.Password = ""
		render(w, h.templates, "register.tmpl", RegisterViewData{
			Title: "Register",
			Error: MsgRegistrationFailed + ": " + errorMessage(err, "please try again"),
			Form:  form,
			Roles: []string{"employee", "admin"},
		})
		return
	}

	http.Redirect(w, r, "/?registered=1", http.StatusSeeOther)
}

// Logout handles logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if session := GetSessionFromContext(r.Context()); session != nil {
		if err := h.authService.Logout(r.Context(), session.ID); err != nil {
			log.Printf("Error during logout: %v", err)
		}
	}

	http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
