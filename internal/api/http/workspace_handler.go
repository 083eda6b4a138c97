package http

import (
	"net/http"

	"mewayz-backend/internal/domain"
	"mewayz-backend/internal/service"

	"github.com/gorilla/mux"
)

// WorkspaceHandler exposes workspace CRUD, onboarding, and member management.
type WorkspaceHandler struct {
	workspaces service.WorkspaceService
}

func NewWorkspaceHandler(workspaces service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaces: workspaces}
}

type createWorkspaceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type onboardingStepRequest struct {
	Step int32 `json:"step"`
}

type completeOnboardingRequest struct {
	Plan string `json:"plan"`
}

type updateMemberRoleRequest struct {
	Role string `json:"role"`
}

type memberResponse struct {
	User   domain.User            `json:"user"`
	Member domain.WorkspaceMember `json:"member"`
}

func (h *WorkspaceHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}
	var req createWorkspaceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ws, err := h.workspaces.CreateWorkspace(r.Context(), userID, req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ws)
}

func (h *WorkspaceHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}
	workspaceID, ok := pathID(w, r, "workspace_id")
	if !ok {
		return
	}

	ws, err := h.workspaces.GetWorkspace(r.Context(), workspaceID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ws)
}

func (h *WorkspaceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	workspaces, err := h.workspaces.ListMyWorkspaces(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"workspaces": workspaces})
}

func (h *WorkspaceHandler) HandleOnboardingStep(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}
	workspaceID, ok := pathID(w, r, "workspace_id")
	if !ok {
		return
	}
	var req onboardingStepRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ws, err := h.workspaces.UpdateOnboardingStep(r.Context(), workspaceID, userID, req.Step)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ws)
}

func (h *WorkspaceHandler) HandleCompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}
	workspaceID, ok := pathID(w, r, "workspace_id")
	if !ok {
		return
	}
	var req completeOnboardingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ws, err := h.workspaces.CompleteOnboarding(r.Context(), workspaceID, userID, req.Plan)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ws)
}

func (h *WorkspaceHandler) HandleListMembers(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}
	workspaceID, ok := pathID(w, r, "workspace_id")
	if !ok {
		return
	}

	users, members, err := h.workspaces.ListMembers(r.Context(), workspaceID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]memberResponse, 0, len(members))
	for i := range members {
		out = append(out, memberResponse{User: users[i], Member: members[i]})
	}
	writeJSON(w, http.StatusOK, map[string]any{"members": out})
}

func (h *WorkspaceHandler) HandleUpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}
	workspaceID, ok := pathID(w, r, "workspace_id")
	if !ok {
		return
	}
	targetID, ok := pathID(w, r, "user_id")
	if !ok {
		return
	}
	var req updateMemberRoleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.workspaces.UpdateMemberRole(r.Context(), workspaceID, userID, targetID, req.Role); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WorkspaceHandler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}
	workspaceID, ok := pathID(w, r, "workspace_id")
	if !ok {
		return
	}
	targetID, ok := pathID(w, r, "user_id")
	if !ok {
		return
	}

	if err := h.workspaces.RemoveMember(r.Context(), workspaceID, userID, targetID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegisterWorkspaceRoutes mounts the workspace endpoints on the
// authenticated subrouter.
func RegisterWorkspaceRoutes(authed *mux.Router, workspaces service.WorkspaceService) {
	handler := NewWorkspaceHandler(workspaces)
	authed.HandleFunc("/workspaces", handler.HandleCreate).Methods("POST")
	authed.HandleFunc("/workspaces", handler.HandleList).Methods("GET")
	authed.HandleFunc("/workspaces/{workspace_id}", handler.HandleGet).Methods("GET")
	authed.HandleFunc("/workspaces/{workspace_id}/onboarding/step", handler.HandleOnboardingStep).Methods("PUT")
	authed.HandleFunc("/workspaces/{workspace_id}/onboarding/complete", handler.HandleCompleteOnboarding).Methods("POST")
	authed.HandleFunc("/workspaces/{workspace_id}/members", handler.HandleListMembers).Methods("GET")
	authed.HandleFunc("/workspaces/{workspace_id}/members/{user_id}", handler.HandleUpdateMemberRole).Methods("PUT")
	authed.HandleFunc("/workspaces/{workspace_id}/members/{user_id}", handler.HandleRemoveMember).Methods("DELETE")
}
