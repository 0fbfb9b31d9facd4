package user

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-user-management/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-user-management/pkg/utilities"
)

// Handler exposes HTTP endpoints for the user lifecycle.
type Handler struct {
	svc    *UserService
	logger *zap.SugaredLogger
}

func NewHandler(svc *UserService, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// CreateUserRequest request body for create_user.
type CreateUserRequest struct {
	FullName  string `json:"full_name"`
	MobNum    string `json:"mob_num"`
	PanNum    string `json:"pan_num"`
	ManagerID string `json:"manager_id"`
}

// CreateUserResponse response body containing the new user id.
type CreateUserResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	log := utilities.LoggerFrom(r.Context(), h.logger)
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Debugw("invalid create_user payload", "err", err)
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	id, err := h.svc.CreateUser(r.Context(), CreateUserInput{
		FullName:  req.FullName,
		MobNum:    req.MobNum,
		PanNum:    req.PanNum,
		ManagerID: req.ManagerID,
	})
	if err != nil {
		h.writeError(w, log, "create user failed", err, http.StatusBadRequest)
		return
	}
	log.Infow("user created", "user_id", id, "manager_id", req.ManagerID)
	h.writeJSON(w, http.StatusOK, CreateUserResponse{Message: "User created successfully", UserID: id})
}

// GetUsersRequest carries the optional filters. is_active is kept raw so both
// 1 and "1" are accepted.
type GetUsersRequest struct {
	UserID    string          `json:"user_id"`
	MobNum    string          `json:"mob_num"`
	ManagerID string          `json:"manager_id"`
	IsActive  json.RawMessage `json:"is_active"`
}

// GetUsersResponse wraps the matched rows.
type GetUsersResponse struct {
	Users []entity.User `json:"users"`
}

func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	log := utilities.LoggerFrom(r.Context(), h.logger)
	var req GetUsersRequest
	if err := decodeOptional(r, &req); err != nil {
		log.Debugw("invalid get_users payload", "err", err)
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	users, err := h.svc.GetUsers(r.Context(), GetUsersInput{
		UserID:    req.UserID,
		MobNum:    req.MobNum,
		ManagerID: req.ManagerID,
		IsActive:  activeFlag(req.IsActive),
	})
	if err != nil {
		h.writeError(w, log, "get users failed", err, http.StatusBadRequest)
		return
	}
	h.writeJSON(w, http.StatusOK, GetUsersResponse{Users: users})
}

// DeleteUsersRequest identifies the user to delete.
type DeleteUsersRequest struct {
	UserID string `json:"user_id"`
	MobNum string `json:"mob_num"`
}

func (h *Handler) DeleteUsers(w http.ResponseWriter, r *http.Request) {
	log := utilities.LoggerFrom(r.Context(), h.logger)
	var req DeleteUsersRequest
	if err := decodeOptional(r, &req); err != nil {
		log.Debugw("invalid delete_users payload", "err", err)
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	// DELETE clients often send identifiers in the query string
	if req.UserID == "" && req.MobNum == "" {
		req.UserID = r.URL.Query().Get("user_id")
		req.MobNum = r.URL.Query().Get("mob_num")
	}
	id, err := h.svc.DeleteUser(r.Context(), DeleteUserInput{UserID: req.UserID, MobNum: req.MobNum})
	if err != nil {
		h.writeError(w, log, "delete user failed", err, http.StatusBadRequest)
		return
	}
	log.Infow("user deleted", "user_id", id)
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully", "user_id": id})
}

// UpdateUsersRequest request body for update_users.
type UpdateUsersRequest struct {
	UserIDs    []string          `json:"user_ids"`
	UpdateData entity.UpdateData `json:"update_data"`
}

// UpdateUsersResponse echoes the processed ids and any reassigned identities.
type UpdateUsersResponse struct {
	Message string `json:"message"`
	*UpdateResult
}

func (h *Handler) UpdateUsers(w http.ResponseWriter, r *http.Request) {
	log := utilities.LoggerFrom(r.Context(), h.logger)
	var req UpdateUsersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Debugw("invalid update_users payload", "err", err)
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	res, err := h.svc.UpdateUsers(r.Context(), req.UserIDs, req.UpdateData)
	if err != nil {
		h.writeError(w, log, "update users failed", err, http.StatusNotFound)
		return
	}
	log.Infow("users updated", "count", len(res.UserIDs), "reassigned", len(res.Reassigned))
	h.writeJSON(w, http.StatusOK, UpdateUsersResponse{Message: "Users updated successfully", UpdateResult: res})
}

// writeError maps service errors to status codes. Client errors echo their
// message; anything else is logged and answered with a generic 500.
func (h *Handler) writeError(w http.ResponseWriter, log *zap.SugaredLogger, msg string, err error, notFoundStatus int) {
	switch {
	case errors.Is(err, ErrMissingField),
		errors.Is(err, ErrInvalidFormat),
		errors.Is(err, ErrInvalidReference),
		errors.Is(err, ErrConflict):
		log.Debugw(msg, "err", err)
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrNotFound):
		log.Debugw(msg, "err", err)
		h.writeJSON(w, notFoundStatus, map[string]string{"error": err.Error()})
	default:
		log.Errorw(msg, "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeOptional decodes a JSON body into v, treating an empty body as {}.
func decodeOptional(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}

// activeFlag normalizes the is_active filter to "1", "0" or "" (no filter).
func activeFlag(raw json.RawMessage) string {
	switch string(bytes.TrimSpace(raw)) {
	case `1`, `"1"`:
		return "1"
	case `0`, `"0"`:
		return "0"
	}
	return ""
}
