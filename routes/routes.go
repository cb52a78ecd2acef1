package routes

import (
	"database/sql"
	"time"

	"github.com/gorilla/mux"
	"github.com/kelydev/apiGrants/controllers"
	"github.com/kelydev/apiGrants/middleware"
	"github.com/kelydev/apiGrants/models"
	"github.com/kelydev/apiGrants/session"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps is everything the handlers are built from.
type Deps struct {
	DB    *sql.DB
	Guard *session.Guard
	Auth  session.Authenticator
	// Issuer is nil when identities live in a remote auth service; local
	// registration and login are then not mounted.
	Issuer    controllers.TokenIssuer
	Sessions  *session.Manager
	TokenTTL  time.Duration
	UploadDir string
	Logger    *zap.Logger
}

// SetupRoutes configures the application routes.
func SetupRoutes(d Deps) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(d.Logger))
	db := d.DB

	// --- Authentication Routes (Public) ---
	r.HandleFunc("/auth", controllers.SignInHandler(d.Issuer != nil)).Methods("GET")
	if d.Issuer != nil {
		r.HandleFunc("/auth/register", controllers.RegisterHandler(db)).Methods("POST")
		r.HandleFunc("/auth/login", controllers.LoginHandler(db, d.Issuer, d.Sessions, d.TokenTTL)).Methods("POST")
	}
	r.HandleFunc("/auth/logout", controllers.LogoutHandler(d.Sessions)).Methods("POST")

	// --- Public GET Routes (No Auth Required) ---
	r.HandleFunc("/funding-calls", controllers.GetFundingCallsHandler(db)).Methods("GET")
	r.HandleFunc("/funding-calls/{id}", controllers.GetFundingCallHandler(db)).Methods("GET")
	r.HandleFunc("/healthz", controllers.HealthHandler(db)).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// --- Protected Routes (Session Required) ---
	authRouter := r.PathPrefix("").Subrouter()
	authRouter.Use(d.Guard.Protect)

	authRouter.HandleFunc("/auth/session", controllers.CurrentSessionHandler(d.Auth)).Methods("GET")
	authRouter.HandleFunc("/dashboard", controllers.GetDashboardHandler(db)).Methods("GET")

	// Profiles
	authRouter.HandleFunc("/profile", controllers.GetOwnProfileHandler(db)).Methods("GET")
	authRouter.HandleFunc("/profile", controllers.UpdateOwnProfileHandler(db)).Methods("PUT")
	authRouter.Handle("/profiles/{id}", middleware.RequireAdmin(controllers.GetProfileHandler(db))).Methods("GET")
	authRouter.Handle("/profiles/{id}/role", middleware.RequireAdmin(controllers.UpdateProfileRoleHandler(db))).Methods("PUT")

	// Grants
	authRouter.HandleFunc("/grants", controllers.GetGrantsHandler(db)).Methods("GET")
	authRouter.HandleFunc("/grants", controllers.CreateGrantHandler(db)).Methods("POST")
	authRouter.HandleFunc("/grants/{id}", controllers.GetGrantHandler(db)).Methods("GET")
	authRouter.HandleFunc("/grants/{id}", controllers.UpdateGrantHandler(db)).Methods("PUT")
	authRouter.HandleFunc("/grants/{id}", controllers.DeleteGrantHandler(db)).Methods("DELETE")

	// Documents (multipart upload)
	authRouter.HandleFunc("/grants/{id}/documents", controllers.GetDocumentsHandler(db)).Methods("GET")
	authRouter.HandleFunc("/grants/{id}/documents", controllers.UploadDocumentHandler(db, d.UploadDir)).Methods("POST")
	authRouter.HandleFunc("/documents/{id}", controllers.DownloadDocumentHandler(db)).Methods("GET")
	authRouter.HandleFunc("/documents/{id}", controllers.DeleteDocumentHandler(db)).Methods("DELETE")

	// Reviews
	reviewers := middleware.RequireRole(models.RoleReviewer, models.RoleAdmin, models.RoleInstitutionalAdmin)
	authRouter.HandleFunc("/grants/{id}/reviews", controllers.GetReviewsHandler(db)).Methods("GET")
	authRouter.Handle("/grants/{id}/reviews", reviewers(controllers.CreateReviewHandler(db))).Methods("POST")
	authRouter.HandleFunc("/reviews/{id}", controllers.DeleteReviewHandler(db)).Methods("DELETE")

	// Intellectual property
	authRouter.HandleFunc("/ip", controllers.GetAllIntellectualPropertyHandler(db)).Methods("GET")
	authRouter.HandleFunc("/grants/{id}/ip", controllers.GetIntellectualPropertyHandler(db)).Methods("GET")
	authRouter.HandleFunc("/grants/{id}/ip", controllers.CreateIntellectualPropertyHandler(db)).Methods("POST")
	authRouter.HandleFunc("/ip/{id}", controllers.UpdateIntellectualPropertyHandler(db)).Methods("PUT")
	authRouter.HandleFunc("/ip/{id}", controllers.DeleteIntellectualPropertyHandler(db)).Methods("DELETE")

	// Collaborations
	authRouter.HandleFunc("/grants/{id}/collaborations", controllers.GetCollaborationsHandler(db)).Methods("GET")
	authRouter.HandleFunc("/grants/{id}/collaborations", controllers.CreateCollaborationHandler(db)).Methods("POST")
	authRouter.HandleFunc("/collaborations/{id}", controllers.UpdateCollaborationHandler(db)).Methods("PUT")
	authRouter.HandleFunc("/collaborations/{id}", controllers.DeleteCollaborationHandler(db)).Methods("DELETE")

	// Deliverables
	authRouter.HandleFunc("/deliverables/upcoming", controllers.GetUpcomingDeliverablesHandler(db)).Methods("GET")
	authRouter.HandleFunc("/grants/{id}/deliverables", controllers.GetDeliverablesHandler(db)).Methods("GET")
	authRouter.HandleFunc("/grants/{id}/deliverables", controllers.CreateDeliverableHandler(db)).Methods("POST")
	authRouter.HandleFunc("/deliverables/{id}", controllers.UpdateDeliverableHandler(db)).Methods("PUT")
	authRouter.HandleFunc("/deliverables/{id}", controllers.DeleteDeliverableHandler(db)).Methods("DELETE")

	// Funding calls (Create, Update, Delete)
	authRouter.Handle("/funding-calls", middleware.RequireAdmin(controllers.CreateFundingCallHandler(db))).Methods("POST")
	authRouter.Handle("/funding-calls/{id}", middleware.RequireAdmin(controllers.UpdateFundingCallHandler(db))).Methods("PUT")
	authRouter.Handle("/funding-calls/{id}", middleware.RequireAdmin(controllers.DeleteFundingCallHandler(db))).Methods("DELETE")

	return r
}
