package http

import (
	"net/http"

	"mewayz-backend/internal/security"
	"mewayz-backend/internal/service"

	"github.com/gorilla/mux"
)

// Services bundles everything the router needs.
type Services struct {
	Auth          service.AuthService
	Workspaces    service.WorkspaceService
	Invitations   service.InvitationService
	Notifications service.NotificationService
	Tokens        security.TokenManager
}

// NewRouter builds the full route table. Auth endpoints and token-addressed
// invitation reads are public; everything else sits behind the bearer-token
// middleware under /api/v1.
func NewRouter(svcs Services) *mux.Router {
	router := mux.NewRouter()
	router.Use(LoggingMiddleware)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	RegisterAuthRoutes(router, svcs.Auth)

	authed := router.PathPrefix("/api/v1").Subrouter()
	authed.Use(AuthMiddleware(svcs.Tokens))

	RegisterWorkspaceRoutes(authed, svcs.Workspaces)
	RegisterInvitationRoutes(authed, router, svcs.Invitations)
	RegisterNotificationRoutes(authed, svcs.Notifications)

	return router
}
