package controllers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/kelydev/apiGrants/logger"
	"github.com/kelydev/apiGrants/models"
	"github.com/kelydev/apiGrants/repository"
	"github.com/kelydev/apiGrants/session"
	"github.com/kelydev/apiGrants/utils"
	"go.uber.org/zap"
)

// TokenIssuer signs access tokens for identities that signed in locally.
type TokenIssuer interface {
	Issue(userID, email string, role models.Role, ttl time.Duration) (string, time.Time, error)
}

type tokenResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Profile   *models.Profile `json:"profile"`
}

type signInDescriptor struct {
	Authenticated bool   `json:"authenticated"`
	Login         string `json:"login"`
	Register      string `json:"register,omitempty"`
}

// SignInHandler answers the sign-in route unauthenticated callers are sent
// to. localAccounts is false when identities live in a remote service.
func SignInHandler(localAccounts bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d := signInDescriptor{Login: "/auth/login"}
		if localAccounts {
			d.Register = "/auth/register"
		}
		utils.WriteJSON(w, http.StatusOK, d)
	}
}

// RegisterHandler creates an identity and its researcher profile.
func RegisterHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var reg models.Registration
		if err := utils.DecodeJSON(r, &reg); err != nil {
			utils.HandleError(w, r, err, "decoding registration")
			return
		}
		reg.Email = strings.TrimSpace(reg.Email)
		if err := models.Validate(&reg); err != nil {
			utils.HandleError(w, r, err, "validating registration")
			return
		}

		user, profile, err := repository.Register(r.Context(), db, reg)
		if err != nil {
			if errors.Is(err, repository.ErrEmailTaken) {
				utils.WriteError(w, http.StatusConflict, "User with this email already exists")
				return
			}
			utils.HandleError(w, r, err, "registering user")
			return
		}

		logger.FromContext(r.Context()).Info("user registered", zap.String("user_id", user.ID))
		utils.WriteJSON(w, http.StatusCreated, session.User{ID: user.ID, Email: user.Email, Profile: profile})
	}
}

// LoginHandler checks credentials, issues an access token and stores it in
// the session cookie. The token is also returned for bearer clients.
func LoginHandler(db *sql.DB, issuer TokenIssuer, sessions *session.Manager, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds models.Credentials
		if err := utils.DecodeJSON(r, &creds); err != nil {
			utils.HandleError(w, r, err, "decoding credentials")
			return
		}
		if err := models.Validate(&creds); err != nil {
			utils.HandleError(w, r, err, "validating credentials")
			return
		}

		user, err := repository.GetAuthUserByEmail(r.Context(), db, creds.Email)
		if err != nil {
			utils.HandleError(w, r, err, "fetching user for login")
			return
		}
		if user == nil || !repository.CheckPasswordHash(creds.Password, user.Password) {
			utils.WriteError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}

		profile, err := repository.GetProfileByID(r.Context(), db, user.ID)
		if err != nil {
			utils.HandleError(w, r, err, "fetching profile for login")
			return
		}
		role := models.RoleResearcher
		if profile != nil {
			role = profile.Role
		}

		token, expiresAt, err := issuer.Issue(user.ID, user.Email, role, ttl)
		if err != nil {
			utils.HandleError(w, r, err, "issuing token")
			return
		}
		if err := sessions.Start(w, r, token); err != nil {
			utils.HandleError(w, r, err, "starting session")
			return
		}

		utils.WriteJSON(w, http.StatusOK, tokenResponse{Token: token, ExpiresAt: expiresAt, Profile: profile})
	}
}

// LogoutHandler clears the session cookie. Bearer tokens simply expire.
func LogoutHandler(sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sessions.End(w, r); err != nil {
			utils.HandleError(w, r, err, "ending session")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type sessionResponse struct {
	Session *session.Session `json:"session"`
	User    *session.User    `json:"user"`
}

// CurrentSessionHandler returns the caller's session and user record.
func CurrentSessionHandler(auth session.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r)
		if !ok {
			return
		}

		user, err := auth.GetCurrentUser(r.Context(), sess.AccessToken)
		if err != nil {
			utils.HandleError(w, r, err, "loading current user")
			return
		}
		if user == nil {
			// Expired between the guard and here.
			utils.WriteError(w, http.StatusUnauthorized, "Session expired")
			return
		}
		utils.WriteJSON(w, http.StatusOK, sessionResponse{Session: sess, User: user})
	}
}
