package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	spacedomain "cashbook-go/internal/domain/space"
	"cashbook-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type createSpaceRequest struct {
	Name string `json:"name"`
}

type addMemberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type updateMemberRequest struct {
	Role string `json:"role"`
}

type spaceResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Role      string `json:"role,omitempty"`
	CreatedAt string `json:"created_at"`
}

type memberResponse struct {
	UserID  string  `json:"user_id"`
	Email   string  `json:"email"`
	Name    *string `json:"name"`
	Role    string  `json:"role"`
	AddedAt string  `json:"added_at"`
}

func (h *Handlers) ListSpaces(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	items, err := h.Spaces.ListSpaces(r.Context(), userID)
	if err != nil {
		h.log.InternalError("spaces.list: list failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]spaceResponse, 0, len(items))
	for _, item := range items {
		response = append(response, spaceResponse{
			ID:        item.ID,
			Name:      item.Name,
			Kind:      string(item.Kind),
			Role:      string(item.Role),
			CreatedAt: item.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"spaces": response})
}

func (h *Handlers) CreateSpace(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req createSpaceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}
	if len([]rune(req.Name)) > 50 {
		writeError(w, http.StatusBadRequest, "invalid_request", "name too long")
		return
	}

	created, err := h.Spaces.CreateSpace(r.Context(), userID, req.Name)
	if err != nil {
		h.log.InternalError("spaces.create: create failed", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, spaceResponse{
		ID:        created.ID,
		Name:      created.Name,
		Kind:      string(created.Kind),
		Role:      string(spacedomain.RoleOwner),
		CreatedAt: created.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func (h *Handlers) GetSpace(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	spaceID := chi.URLParam(r, "space_id")

	member, err := h.Spaces.ResolveMember(r.Context(), spaceID, userID)
	if err != nil {
		h.respondMembershipError(w, err, "spaces.get", userID, spaceID)
		return
	}

	found, err := h.Spaces.GetSpace(r.Context(), spaceID)
	if err != nil {
		h.log.InternalError("spaces.get: get failed", err, "user_id", userID, "space_id", spaceID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, spaceResponse{
		ID:        found.ID,
		Name:      found.Name,
		Kind:      string(found.Kind),
		Role:      string(member.Role),
		CreatedAt: found.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	spaceID := chi.URLParam(r, "space_id")

	members, err := h.Spaces.ListMembers(r.Context(), userID, spaceID)
	if err != nil {
		h.respondMembershipError(w, err, "spaces.members.list", userID, spaceID)
		return
	}

	response := make([]memberResponse, 0, len(members))
	for _, member := range members {
		response = append(response, toMemberResponse(member))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"members": response})
}

func (h *Handlers) AddMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	spaceID := chi.URLParam(r, "space_id")

	var req addMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}
	role, err := spacedomain.ParseRole(req.Role)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "role must be member or viewer")
		return
	}

	added, err := h.Spaces.AddMember(r.Context(), userID, spaceID, req.Email, role)
	if err != nil {
		switch {
		case errors.Is(err, spacedomain.ErrInvalidRole):
			writeError(w, http.StatusBadRequest, "invalid_request", "role must be member or viewer")
		case errors.Is(err, spacedomain.ErrNotMember), errors.Is(err, spacedomain.ErrNotOwner):
			h.log.BusinessError("spaces.members.add: denied", err, "user_id", userID, "space_id", spaceID)
			writeError(w, http.StatusForbidden, "forbidden", "forbidden")
		case errors.Is(err, spacedomain.ErrUserNotFound):
			h.log.BusinessError("spaces.members.add: user not found", err, "space_id", spaceID)
			writeError(w, http.StatusNotFound, "not_found", "not found")
		case errors.Is(err, spacedomain.ErrAlreadyMember):
			h.log.BusinessError("spaces.members.add: already a member", err, "space_id", spaceID)
			writeError(w, http.StatusConflict, "already_member", "already a member")
		default:
			h.log.InternalError("spaces.members.add: add failed", err, "user_id", userID, "space_id", spaceID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"user_id": added.UserID,
		"role":    string(added.Role),
	})
}

func (h *Handlers) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	spaceID := chi.URLParam(r, "space_id")
	targetID := chi.URLParam(r, "user_id")

	var req updateMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	role, err := spacedomain.ParseRole(req.Role)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "role must be member or viewer")
		return
	}

	updated, err := h.Spaces.UpdateMemberRole(r.Context(), userID, spaceID, targetID, role)
	if err != nil {
		h.respondMemberMutationError(w, err, "spaces.members.update", userID, spaceID)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user_id": updated.UserID,
		"role":    string(updated.Role),
	})
}

func (h *Handlers) RemoveMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	spaceID := chi.URLParam(r, "space_id")
	targetID := chi.URLParam(r, "user_id")

	if err := h.Spaces.RemoveMember(r.Context(), userID, spaceID, targetID); err != nil {
		h.respondMemberMutationError(w, err, "spaces.members.remove", userID, spaceID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// respondMembershipError maps resolver failures for read paths: a non-member
// gets the same generic forbidden whether or not the space exists.
func (h *Handlers) respondMembershipError(w http.ResponseWriter, err error, op, userID, spaceID string) {
	if errors.Is(err, spacedomain.ErrNotMember) || errors.Is(err, spacedomain.ErrSpaceNotFound) {
		h.log.BusinessError(op+": not a member", err, "user_id", userID, "space_id", spaceID)
		writeError(w, http.StatusForbidden, "forbidden", "forbidden")
		return
	}
	h.log.InternalError(op+": membership lookup failed", err, "user_id", userID, "space_id", spaceID)
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

func (h *Handlers) respondMemberMutationError(w http.ResponseWriter, err error, op, userID, spaceID string) {
	switch {
	case errors.Is(err, spacedomain.ErrInvalidRole):
		writeError(w, http.StatusBadRequest, "invalid_request", "role must be member or viewer")
	case errors.Is(err, spacedomain.ErrNotMember), errors.Is(err, spacedomain.ErrNotOwner):
		h.log.BusinessError(op+": denied", err, "user_id", userID, "space_id", spaceID)
		writeError(w, http.StatusForbidden, "forbidden", "forbidden")
	case errors.Is(err, spacedomain.ErrOwnerImmutable):
		h.log.BusinessError(op+": owner membership immutable", err, "space_id", spaceID)
		writeError(w, http.StatusConflict, "owner_immutable", "owner membership cannot be changed")
	case errors.Is(err, spacedomain.ErrMemberNotFound):
		h.log.BusinessError(op+": member not found", err, "space_id", spaceID)
		writeError(w, http.StatusNotFound, "not_found", "not found")
	default:
		h.log.InternalError(op+": failed", err, "user_id", userID, "space_id", spaceID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func toMemberResponse(member spacedomain.MemberProfile) memberResponse {
	return memberResponse{
		UserID:  member.UserID,
		Email:   member.Email,
		Name:    member.Name,
		Role:    string(member.Role),
		AddedAt: member.CreatedAt.UTC().Format(time.RFC3339),
	}
}
