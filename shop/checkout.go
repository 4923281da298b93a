package shop

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"dollardash/agi"
	"dollardash/catalog"
	"dollardash/checkout"
	"dollardash/models"
	"dollardash/notify"
	"dollardash/utils"

	"github.com/julienschmidt/httprouter"
)

// Checkout places a cash-on-delivery order for the caller's cart.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in struct {
		Customer models.Customer `json:"customer"`
	}
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	sess, _ := h.session(w, r)
	var (
		order models.Order
		err   error
	)
	sess.Do(func() {
		order, err = h.checkout.Submit(r.Context(), sess.Cart, in.Customer)
	})
	switch {
	case checkout.IsValidation(err):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		utils.RespondWithError(w, http.StatusBadGateway, checkout.ErrSubmitFailed.Error())
		return
	}

	sess.RememberOrder(order)
	utils.SendResponse(w, http.StatusCreated, map[string]any{
		"order":      order,
		"receiptUrl": "/api/orders/" + order.ID + "/receipt",
	}, "Order placed", nil)
}

// GetReceipt renders the cash-on-delivery slip. Shoppers can only fetch
// orders placed from their own session.
func (h *Handler) GetReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	sess, _ := h.session(w, r)

	order, ok := sess.PlacedOrder(id)
	if !ok && h.isAdmin(r) {
		order, ok = h.view.Order(id)
	}
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}

	pdf, err := h.receipts.Render(order)
	if err != nil {
		log.Printf("[Shop] render receipt %s: %v", id, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not create receipt")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="receipt-`+id+`.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// Concierge asks the AI for a bundle and loads it into the caller's builder.
func (h *Handler) Concierge(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in struct {
		Request string `json:"request"`
	}
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	sess, cfg := h.session(w, r)
	products := catalog.Project(h.view.Products(), cfg)

	var (
		s   *agi.Suggestion
		err error
	)
	if h.concierge == nil {
		err = agi.ErrUnavailable
	} else {
		s, err = h.concierge.SuggestBundle(r.Context(), in.Request, products, cfg.BundleItemCount, cfg.BundlePrice())
	}
	if err != nil || s == nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, agi.FailureMessage)
		return
	}

	var view bundleView
	sess.Do(func() {
		sess.Bundle.Fill(s.Products)
		view = viewBundle(sess)
	})
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"recommendedIds": s.RecommendedIDs,
		"explanation":    s.Explanation,
		"bundle":         view,
	})
}

// RegisterToken stores a push registration token for this device.
func (h *Handler) RegisterToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in struct {
		Token string `json:"token"`
	}
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := h.tokens.RegisterToken(r.Context(), in.Token); err != nil {
		if errors.Is(err, notify.ErrEmptyToken) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[Shop] register token: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to register device")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
