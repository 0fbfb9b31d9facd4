package manager

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-user-management/pkg/utilities"
)

// Handler exposes the manager bootstrap endpoint.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// AddManagerRequest request body for add_manager. IsActive defaults to true.
type AddManagerRequest struct {
	ManagerID string `json:"manager_id"`
	IsActive  *bool  `json:"is_active"`
}

func (h *Handler) AddManager(w http.ResponseWriter, r *http.Request) {
	log := utilities.LoggerFrom(r.Context(), h.logger)
	var req AddManagerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Debugw("invalid add_manager payload", "err", err)
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	m, err := h.svc.AddManager(r.Context(), req.ManagerID, active)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingID):
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, ErrDuplicateKey):
			log.Warnw("add manager failed", "manager_id", req.ManagerID, "err", err)
			h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to add manager, manager_id already exists"})
		default:
			log.Errorw("add manager failed", "manager_id", req.ManagerID, "err", err)
			h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to add manager"})
		}
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"message": "Manager added successfully", "manager": m})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
