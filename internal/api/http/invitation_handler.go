package http

import (
	"net/http"
	"strconv"

	"mewayz-backend/internal/service"

	"github.com/gorilla/mux"
)

// InvitationHandler exposes the invitation lifecycle: creation and listing
// under a workspace, and token-addressed recipient operations.
type InvitationHandler struct {
	invitations service.InvitationService
}

func NewInvitationHandler(invitations service.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitations: invitations}
}

func (h *InvitationHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}
	workspaceID, ok := pathID(w, r, "workspace_id")
	if !ok {
		return
	}

	var in service.CreateInvitationInput
	if !decodeBody(w, r, &in) {
		return
	}

	inv, err := h.invitations.Create(r.Context(), workspaceID, userID, in, callerIP(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

func (h *InvitationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}
	workspaceID, ok := pathID(w, r, "workspace_id")
	if !ok {
		return
	}

	invitations, err := h.invitations.List(r.Context(), workspaceID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"invitations": invitations})
}

func (h *InvitationHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}
	workspaceID, ok := pathID(w, r, "workspace_id")
	if !ok {
		return
	}
	invitationID, ok := pathID(w, r, "invitation_id")
	if !ok {
		return
	}

	if err := h.invitations.Revoke(r.Context(), workspaceID, invitationID, userID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *InvitationHandler) HandleResend(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}
	workspaceID, ok := pathID(w, r, "workspace_id")
	if !ok {
		return
	}
	invitationID, ok := pathID(w, r, "invitation_id")
	if !ok {
		return
	}

	inv, err := h.invitations.Resend(r.Context(), workspaceID, invitationID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// HandleGetByToken lets an invited user preview the invitation before
// signing in. The token itself is the credential.
func (h *InvitationHandler) HandleGetByToken(w http.ResponseWriter, r *http.Request) {
	inv, err := h.invitations.GetByToken(r.Context(), mux.Vars(r)["token"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (h *InvitationHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	member, err := h.invitations.Accept(r.Context(), mux.Vars(r)["token"], userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (h *InvitationHandler) HandleDecline(w http.ResponseWriter, r *http.Request) {
	if err := h.invitations.Decline(r.Context(), mux.Vars(r)["token"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id < 1 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid " + name})
		return 0, false
	}
	return id, true
}

// RegisterInvitationRoutes mounts the workspace-scoped invitation endpoints
// on the authenticated subrouter and the token-addressed ones on the public
// router. Preview and decline need no account; accept does.
func RegisterInvitationRoutes(authed, public *mux.Router, invitations service.InvitationService) {
	handler := NewInvitationHandler(invitations)
	authed.HandleFunc("/workspaces/{workspace_id}/invitations", handler.HandleCreate).Methods("POST")
	authed.HandleFunc("/workspaces/{workspace_id}/invitations", handler.HandleList).Methods("GET")
	authed.HandleFunc("/workspaces/{workspace_id}/invitations/{invitation_id}", handler.HandleRevoke).Methods("DELETE")
	authed.HandleFunc("/workspaces/{workspace_id}/invitations/{invitation_id}/resend", handler.HandleResend).Methods("POST")
	authed.HandleFunc("/invitations/{token}/accept", handler.HandleAccept).Methods("POST")

	public.HandleFunc("/api/v1/invitations/{token}", handler.HandleGetByToken).Methods("GET")
	public.HandleFunc("/api/v1/invitations/{token}/decline", handler.HandleDecline).Methods("POST")
}
