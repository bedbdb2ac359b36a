package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	domainauth "github.com/target/jobtracker-ui/internal/domain/auth"
	"github.com/target/jobtracker-ui/internal/domain/prefs"
	"github.com/target/jobtracker-ui/internal/domain/routing"
	apperrors "github.com/target/jobtracker-ui/internal/errors"
	"github.com/target/jobtracker-ui/internal/service"
)

// LoginService signs a client in. Workspaces implements it with in-flight deduplication.
type LoginService interface {
	Login(ctx context.Context, clientID, email, password string) (service.LoginResult, error)
}

// AuthHandlers provides HTTP handlers for sign-in, registration and sign-out.
type AuthHandlers struct {
	Logins LoginService
	UI     *UIHandlers
	Logger *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Login handles POST /login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	ws, ok := GetWorkspaceFromContext(r.Context())
	if !ok {
		h.UI.renderServerError(w, r, errors.New("workspace missing from request"))
		return
	}
	if ws.Session.Snapshot().IsAuthenticated {
		redirect(w, r, routing.PathDashboard)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.PostFormValue(FormFieldEmail))
	password := r.PostFormValue(FormFieldPassword)

	_, err := h.Logins.Login(r.Context(), ws.ClientID, email, password)
	switch {
	case err == nil:
		redirect(w, r, routing.PathDashboard)
	case errors.Is(err, domainauth.ErrInvalidCredentials):
		h.UI.renderForm(w, r, formPage{
			Path:   routing.PathLogin,
			Status: http.StatusUnauthorized,
			Fill: func(b *TemplateDataBuilder) {
				b.WithError(MsgInvalidCredentials).WithForm(map[string]string{FormFieldEmail: email})
			},
		})
	default:
		h.UI.renderServerError(w, r, err)
	}
}

// Register handles POST /register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	ws, ok := GetWorkspaceFromContext(r.Context())
	if !ok {
		h.UI.renderServerError(w, r, errors.New("workspace missing from request"))
		return
	}
	if ws.Session.Snapshot().IsAuthenticated {
		redirect(w, r, routing.PathDashboard)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	in := parseRegisterForm(r)
	_, err := ws.Session.Register(r.Context(), in)
	if err == nil {
		redirect(w, r, routing.PathDashboard)
		return
	}

	form := map[string]string{
		"name":     in.Name,
		"email":    in.Email,
		"role":     in.Role,
		"location": in.Location,
		"skills":   strings.Join(in.Skills, ", "),
	}
	var (
		status int
		fields map[string]string
	)
	switch {
	case errors.Is(err, domainauth.ErrEmailTaken):
		status = http.StatusConflict
		fields = map[string]string{"email": MsgEmailTaken}
	case apperrors.IsValidation(err):
		status = http.StatusBadRequest
		fields = apperrors.GetFields(err)
	default:
		h.UI.renderServerError(w, r, err)
		return
	}

	h.logger().InfoContext(r.Context(), "registration rejected", "status", status)
	h.UI.renderForm(w, r, formPage{
		Path:   routing.PathRegister,
		Status: status,
		Fill: func(b *TemplateDataBuilder) {
			b.WithError(MsgFixBelow).WithFieldErrors(fields).WithForm(form)
		},
	})
}

func parseRegisterForm(r *http.Request) service.RegisterInput {
	in := service.RegisterInput{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Role:     r.PostFormValue("role"),
		Location: strings.TrimSpace(r.PostFormValue("location")),
	}
	for _, s := range strings.Split(r.PostFormValue("skills"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			in.Skills = append(in.Skills, s)
		}
	}
	return in
}

// Logout handles POST /logout. Signing out twice is fine.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	ws, ok := GetWorkspaceFromContext(r.Context())
	if !ok {
		redirect(w, r, routing.PathRoot)
		return
	}
	if err := ws.Session.Logout(r.Context()); err != nil {
		h.UI.renderServerError(w, r, err)
		return
	}
	h.logger().InfoContext(r.Context(), "user signed out", "client_id", ws.ClientID)
	redirect(w, r, routing.PathRoot)
}

// StatusResponse is the JSON body of GET /auth/status.
type StatusResponse struct {
	IsAuthenticated bool              `json:"isAuthenticated"`
	User            *domainauth.User  `json:"user"`
	Preferences     prefs.Preferences `json:"preferences"`
}

// Status handles GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{Preferences: prefs.Defaults()}
	if ws, ok := GetWorkspaceFromContext(r.Context()); ok {
		s := ws.Session.Snapshot()
		resp.IsAuthenticated = s.IsAuthenticated
		resp.User = s.User
		resp.Preferences = ws.Prefs.Snapshot()
	}
	w.Header().Set("Cache-Control", "no-store")
	WriteJSON(w, http.StatusOK, resp)
}

// Me handles GET /api/me for signed-in clients.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	s := GetSessionFromContext(r.Context())
	if s.User == nil {
		WriteAppError(w, apperrors.Unauthorized("authentication required"))
		return
	}
	WriteJSON(w, http.StatusOK, s.User)
}
