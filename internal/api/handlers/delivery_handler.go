package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	apiContext "parley/internal/api/context"
	"parley/internal/pkg/errors"
	"parley/internal/platform/database"
	"parley/internal/platform/models"
	"parley/internal/platform/repositories"
)

type DeliveryHandler struct{}

func NewDeliveryHandler() *DeliveryHandler {
	return &DeliveryHandler{}
}

func (h *DeliveryHandler) List(w http.ResponseWriter, r *http.Request) {
	storeCtx := r.Context().Value(apiContext.Tenant).(*database.StoreContext)

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	repo := repositories.NewDeliveryRepository(storeCtx.DB)
	deliveries, err := repo.ListRecent(limit)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to list deliveries", nil)
		return
	}
	if deliveries == nil {
		deliveries = []*models.Delivery{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(deliveries)
}
