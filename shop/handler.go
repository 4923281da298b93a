package shop

import (
	"context"
	"log"
	"net/http"

	"dollardash/agi"
	"dollardash/catalog"
	"dollardash/checkout"
	"dollardash/mode"
	"dollardash/models"
	"dollardash/receipt"
	"dollardash/session"
	"dollardash/utils"

	"github.com/julienschmidt/httprouter"
)

// View is the read side of the shared store state.
type View interface {
	Products() []models.Product
	Product(id string) (models.Product, bool)
	Order(id string) (models.Order, bool)
	Config() models.StoreConfig
}

// ModeSource reports and resets the active data source.
type ModeSource interface {
	Mode() mode.Mode
	Reset(ctx context.Context) error
}

// Suggester curates a bundle from a shopper's request.
type Suggester interface {
	SuggestBundle(ctx context.Context, intent string, products []models.Product, count, price int) (*agi.Suggestion, error)
}

// TokenRegistrar stores push registration tokens.
type TokenRegistrar interface {
	RegisterToken(ctx context.Context, token string) error
}

type Handler struct {
	sessions  *session.Manager
	view      View
	mode      ModeSource
	checkout  *checkout.Service
	concierge Suggester
	receipts  *receipt.Printer
	tokens    TokenRegistrar
	isAdmin   func(*http.Request) bool
}

type Deps struct {
	Sessions  *session.Manager
	View      View
	Mode      ModeSource
	Checkout  *checkout.Service
	Concierge Suggester
	Receipts  *receipt.Printer
	Tokens    TokenRegistrar
	// IsAdmin lets the console fetch any order's receipt.
	IsAdmin func(*http.Request) bool
}

func NewHandler(d Deps) *Handler {
	isAdmin := d.IsAdmin
	if isAdmin == nil {
		isAdmin = func(*http.Request) bool { return false }
	}
	return &Handler{
		sessions:  d.Sessions,
		view:      d.View,
		mode:      d.Mode,
		checkout:  d.Checkout,
		concierge: d.Concierge,
		receipts:  d.Receipts,
		tokens:    d.Tokens,
		isAdmin:   isAdmin,
	}
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session.Session, models.StoreConfig) {
	cfg := h.view.Config()
	return h.sessions.Get(w, r, cfg), cfg
}

// product looks id up and applies the global item price.
func (h *Handler) product(id string) (models.Product, bool) {
	p, ok := h.view.Product(id)
	if !ok {
		return models.Product{}, false
	}
	p.Price = h.view.Config().ItemPrice
	return p, true
}

type storeResponse struct {
	Mode        mode.Mode          `json:"mode"`
	Offline     bool               `json:"offline"`
	Config      models.StoreConfig `json:"config"`
	BundlePrice int                `json:"bundlePrice"`
	Categories  []models.Category  `json:"categories"`
	CartCount   int                `json:"cartCount"`
}

// GetStore reports the data source, pricing and the caller's cart badge.
func (h *Handler) GetStore(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess, cfg := h.session(w, r)
	m := h.mode.Mode()
	utils.RespondWithJSON(w, http.StatusOK, storeResponse{
		Mode:        m,
		Offline:     m == mode.Local,
		Config:      cfg,
		BundlePrice: cfg.BundlePrice(),
		Categories:  models.Categories,
		CartCount:   sess.Cart.Count(),
	})
}

// GetProducts lists the catalog at the global price, filtered by ?category=.
func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sel, err := catalog.ParseSelector(r.URL.Query().Get("category"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess, cfg := h.session(w, r)
	products := catalog.Project(h.view.Products(), cfg)
	utils.RespondWithJSON(w, http.StatusOK, catalog.Filter(products, sel, sess.Favorites.Set()))
}

func (h *Handler) GetCities(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, models.Cities)
}

type favoritesResponse struct {
	IDs      []string         `json:"ids"`
	Products []models.Product `json:"products"`
}

func (h *Handler) favorites(sess *session.Session, cfg models.StoreConfig) favoritesResponse {
	products := catalog.Project(h.view.Products(), cfg)
	return favoritesResponse{
		IDs:      sess.Favorites.IDs(),
		Products: catalog.Filter(products, catalog.Favorites, sess.Favorites.Set()),
	}
}

func (h *Handler) GetFavorites(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess, cfg := h.session(w, r)
	utils.RespondWithJSON(w, http.StatusOK, h.favorites(sess, cfg))
}

// ToggleFavorite flips the heart on a product.
func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if _, ok := h.view.Product(id); !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	sess, cfg := h.session(w, r)
	on, err := sess.Favorites.Toggle(id)
	if err != nil {
		log.Printf("[Shop] save favorites: %v", err)
	}
	resp := h.favorites(sess, cfg)
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"favorite":  on,
		"favorites": resp,
	})
}

// ResetMode forgets the sticky offline flag and retries the remote store.
func (h *Handler) ResetMode(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := h.mode.Reset(r.Context()); err != nil {
		log.Printf("[Shop] mode reset: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to reset data source")
		return
	}
	m := h.mode.Mode()
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"mode": m, "offline": m == mode.Local})
}
