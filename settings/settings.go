package settings

import (
	"context"
	"errors"
	"log"
	"net/http"

	"dollardash/models"
	"dollardash/utils"

	"github.com/julienschmidt/httprouter"
)

var (
	ErrNegativePrice = errors.New("item price cannot be negative")
	ErrBundleSize    = errors.New("bundle needs at least one item")
)

// Validate checks a store configuration before it is written.
func Validate(cfg models.StoreConfig) error {
	if cfg.ItemPrice < 0 {
		return ErrNegativePrice
	}
	if cfg.BundleItemCount < 1 {
		return ErrBundleSize
	}
	return nil
}

// Store reads and writes the singleton store configuration.
type Store interface {
	Config() models.StoreConfig
	UpdateConfig(ctx context.Context, cfg models.StoreConfig) error
}

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

type settingsResponse struct {
	models.StoreConfig
	BundlePrice int `json:"bundlePrice"`
}

func view(cfg models.StoreConfig) settingsResponse {
	return settingsResponse{StoreConfig: cfg, BundlePrice: cfg.BundlePrice()}
}

// GetSettings returns the current configuration and the derived bundle price.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, view(h.store.Config()))
}

// UpdateSettings replaces the configuration. Fields left out of the body keep
// their current value.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		ItemPrice       *int `json:"itemPrice"`
		BundleItemCount *int `json:"bundleItemCount"`
	}
	if err := utils.DecodeJSON(w, r, &input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	cfg := h.store.Config()
	if input.ItemPrice != nil {
		cfg.ItemPrice = *input.ItemPrice
	}
	if input.BundleItemCount != nil {
		cfg.BundleItemCount = *input.BundleItemCount
	}
	if err := Validate(cfg); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.UpdateConfig(r.Context(), cfg); err != nil {
		log.Printf("[Settings] update: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update settings")
		return
	}
	utils.SendResponse(w, http.StatusOK, view(cfg), "Settings updated successfully", nil)
}
