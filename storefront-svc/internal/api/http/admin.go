package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"ironxpress/storefront-svc/internal/service"
)

const storeTableMissingMessage = "Store addresses table does not exist. Please create it first."

func (h *Handler) listStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.Stores.List(r.Context())
	if errors.Is(err, service.ErrStoreTableMissing) {
		h.Logger.Warn().Err(err).Msg("list store addresses")
		writeJSON(w, http.StatusOK, map[string]any{"data": stores, "message": storeTableMissingMessage})
		return
	}
	if err != nil {
		h.Logger.Error().Err(err).Msg("list store addresses")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Failed to fetch store addresses",
			"details": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": stores})
}

func (h *Handler) createStore(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	store, err := h.Stores.Create(r.Context(), body)
	var missing *service.MissingFieldsError
	if errors.As(err, &missing) {
		writeError(w, http.StatusBadRequest, missing.Error())
		return
	}
	if err != nil {
		h.Logger.Error().Err(err).Msg("add store address")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Failed to add store address",
			"details": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"data": store})
}
