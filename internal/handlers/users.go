package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rfoster/userboard/internal/models"
	pkghttp "github.com/rfoster/userboard/pkg/http"
)

// AdminServiceInterface defines the interface for bulk admin actions
type AdminServiceInterface interface {
	ListUsers(ctx context.Context) ([]*models.UserSummary, error)
	UpdateStatus(ctx context.Context, ids []int64, status string) (int64, error)
	DeleteUsers(ctx context.Context, ids []int64) (int64, error)
	DeleteUnverified(ctx context.Context) (int64, error)
}

// UserHandler handles the authenticated dashboard endpoints
type UserHandler struct {
	service AdminServiceInterface
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service AdminServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// Request DTOs

// UpdateStatusRequest represents the request body for a bulk status change
type UpdateStatusRequest struct {
	UserIDs []int64 `json:"userIds" validate:"required,min=1"`
	Status  string  `json:"status" validate:"required,oneof=unverified active blocked"`
}

// DeleteUsersRequest represents the request body for a bulk delete
type DeleteUsersRequest struct {
	UserIDs []int64 `json:"userIds" validate:"required,min=1"`
}

// ListUsers returns every user, ordered by id ascending
//
// @Summary List users
// @Produce json
// @Success 200 {array} models.UserSummary
// @Failure 500 {object} pkghttp.ErrorResponse
// @Router /api/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, users)
}

// UpdateStatus applies a status to a set of user ids
//
// @Summary Bulk status update
// @Accept json
// @Param request body UpdateStatusRequest true "Status update request"
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {object} pkghttp.ErrorResponse
// @Failure 500 {object} pkghttp.ErrorResponse
// @Router /api/users/update-status [post]
func (h *UserHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, "User IDs and status are required")
		return
	}

	if _, err := h.service.UpdateStatus(r.Context(), req.UserIDs, req.Status); err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			pkghttp.WriteBadRequest(w, "User IDs and status are required")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Users status updated successfully",
	})
}

// DeleteUsers removes a set of user ids
//
// @Summary Bulk delete
// @Accept json
// @Param request body DeleteUsersRequest true "Delete request"
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {object} pkghttp.ErrorResponse
// @Failure 500 {object} pkghttp.ErrorResponse
// @Router /api/users/delete [post]
func (h *UserHandler) DeleteUsers(w http.ResponseWriter, r *http.Request) {
	var req DeleteUsersRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, "User IDs are required")
		return
	}

	if _, err := h.service.DeleteUsers(r.Context(), req.UserIDs); err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			pkghttp.WriteBadRequest(w, "User IDs are required")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Users deleted successfully",
	})
}

// DeleteUnverified removes every account that never verified its email
//
// @Summary Delete all unverified users
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 500 {object} pkghttp.ErrorResponse
// @Router /api/users/delete-unverified [post]
func (h *UserHandler) DeleteUnverified(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.DeleteUnverified(r.Context())
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("%d unverified users deleted successfully", count),
	})
}
