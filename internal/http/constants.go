package httpx

import "github.com/target/jobtracker-ui/internal/domain/routing"

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

// Cookie and form names shared by middleware, handlers and templates.
const (
	DefaultClientCookieName = "client_id"
	FormFieldEmail          = "email"
	FormFieldPassword       = "password"
	FormFieldOpen           = "open"
)

// Messages rendered inline on the auth forms.
const (
	MsgInvalidCredentials = "Invalid credentials. Please try again."
	MsgEmailTaken         = "An account with this email already exists."
	MsgFixBelow           = "Please fix the errors below."
	MsgTryAgain           = "Something went wrong. Please try again."
)

// PlaceholderTemplate renders routes whose feature pages do not exist yet.
const PlaceholderTemplate = "placeholder-content"

// Views with a dedicated content template. Everything else in the registry uses PlaceholderTemplate.
//
//nolint:gochecknoglobals // static read-only lookup
var contentTemplates = map[routing.View]string{
	routing.ViewLanding:      "landing-content",
	routing.ViewLogin:        "login-content",
	routing.ViewRegister:     "register-content",
	routing.ViewDashboard:    "dashboard-content",
	routing.ViewProfile:      "profile-content",
	routing.ViewSettings:     "settings-content",
	routing.ViewAccessDenied: "access-denied-content",
	routing.ViewAdminUsers:   "admin-users-content",
	routing.ViewJobDetail:    "job-detail-content",
}

// Placeholder copy for views that are routed but not built.
//
//nolint:gochecknoglobals // static read-only lookup
var placeholderMessages = map[routing.View]string{
	routing.ViewResume:         "Resume upload coming soon...",
	routing.ViewNotifications:  "Notifications coming soon...",
	routing.ViewJobs:           "Job listings coming soon...",
	routing.ViewApplications:   "Application tracking coming soon...",
	routing.ViewJobCreate:      "Post job page coming soon...",
	routing.ViewJobManage:      "Manage jobs page coming soon...",
	routing.ViewCandidates:     "Candidates page coming soon...",
	routing.ViewAnalytics:      "Analytics page coming soon...",
	routing.ViewAdminDashboard: "Admin dashboard coming soon...",
	routing.ViewAdminJobs:      "Job management coming soon...",
	routing.ViewAdminAnalytics: "Admin analytics coming soon...",
	routing.ViewAdminSecurity:  "Security settings coming soon...",
	routing.ViewAdminSettings:  "Admin settings coming soon...",
}

// ContentTemplateFor returns the content template for a view name.
func ContentTemplateFor(view string) string {
	if name, ok := contentTemplates[routing.View(view)]; ok {
		return name
	}
	return PlaceholderTemplate
}

// PlaceholderMessage returns the "coming soon" copy for a view.
func PlaceholderMessage(view routing.View) string {
	if msg, ok := placeholderMessages[view]; ok {
		return msg
	}
	return "This page is coming soon..."
}
