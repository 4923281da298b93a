package shop

import (
	"net/http"

	"dollardash/models"
	"dollardash/session"
	"dollardash/utils"

	"github.com/julienschmidt/httprouter"
)

type cartView struct {
	Items []models.CartItem `json:"items"`
	Total int               `json:"total"`
	Count int               `json:"count"`
}

func viewCart(sess *session.Session) cartView {
	return cartView{Items: sess.Cart.Items(), Total: sess.Cart.Total(), Count: sess.Cart.Count()}
}

type bundleView struct {
	models.Bundle
	Full bool `json:"full"`
}

func viewBundle(sess *session.Session) bundleView {
	return bundleView{Bundle: sess.Bundle.Snapshot(), Full: sess.Bundle.IsFull()}
}

type productRef struct {
	ProductID string `json:"productId"`
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess, _ := h.session(w, r)
	utils.RespondWithJSON(w, http.StatusOK, viewCart(sess))
}

// AddToCart adds one unit at the current item price.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in productRef
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	p, ok := h.product(in.ProductID)
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	sess, _ := h.session(w, r)
	var view cartView
	sess.Do(func() {
		sess.Cart.Add(p)
		view = viewCart(sess)
	})
	utils.RespondWithJSON(w, http.StatusOK, view)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess, _ := h.session(w, r)
	var view cartView
	sess.Do(func() {
		sess.Cart.Clear()
		view = viewCart(sess)
	})
	utils.RespondWithJSON(w, http.StatusOK, view)
}

// mutateLine applies fn to the line id and answers 404 when there is no such
// line.
func (h *Handler) mutateLine(w http.ResponseWriter, r *http.Request, fn func(sess *session.Session) bool) {
	sess, _ := h.session(w, r)
	var (
		found bool
		view  cartView
	)
	sess.Do(func() {
		found = fn(sess)
		view = viewCart(sess)
	})
	if !found {
		utils.RespondWithError(w, http.StatusNotFound, "Item not in cart")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, view)
}

// SetQuantity sets a line's quantity; zero or less removes it.
func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var in struct {
		Quantity *int `json:"quantity"`
	}
	if err := utils.DecodeJSON(w, r, &in); err != nil || in.Quantity == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "quantity is required")
		return
	}
	id := ps.ByName("id")
	h.mutateLine(w, r, func(sess *session.Session) bool { return sess.Cart.SetQuantity(id, *in.Quantity) })
}

func (h *Handler) IncrementLine(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	h.mutateLine(w, r, func(sess *session.Session) bool { return sess.Cart.Increment(id) })
}

func (h *Handler) DecrementLine(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	h.mutateLine(w, r, func(sess *session.Session) bool { return sess.Cart.Decrement(id) })
}

func (h *Handler) RemoveLine(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	h.mutateLine(w, r, func(sess *session.Session) bool { return sess.Cart.Remove(id) })
}

func (h *Handler) GetBundle(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess, _ := h.session(w, r)
	utils.RespondWithJSON(w, http.StatusOK, viewBundle(sess))
}

// AddToBundle picks a product for the bundle. A full bundle ignores the pick
// and answers with added=false.
func (h *Handler) AddToBundle(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in productRef
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	p, ok := h.product(in.ProductID)
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	sess, _ := h.session(w, r)
	var (
		added bool
		view  bundleView
	)
	sess.Do(func() {
		added = sess.Bundle.Add(p)
		view = viewBundle(sess)
	})
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"added": added, "bundle": view})
}

// RemoveBundleSlot removes the pick at :index.
func (h *Handler) RemoveBundleSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	index, err := utils.ParseInt(ps.ByName("index"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "index must be a number")
		return
	}
	h.mutateBundle(w, r, func(sess *session.Session) bool { return sess.Bundle.RemoveAt(index) })
}

// RemoveBundleProduct removes the first pick of product :id.
func (h *Handler) RemoveBundleProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	h.mutateBundle(w, r, func(sess *session.Session) bool { return sess.Bundle.RemoveByID(id) })
}

func (h *Handler) mutateBundle(w http.ResponseWriter, r *http.Request, fn func(sess *session.Session) bool) {
	sess, _ := h.session(w, r)
	var (
		found bool
		view  bundleView
	)
	sess.Do(func() {
		found = fn(sess)
		view = viewBundle(sess)
	})
	if !found {
		utils.RespondWithError(w, http.StatusNotFound, "Item not in bundle")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, view)
}

func (h *Handler) ClearBundle(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess, _ := h.session(w, r)
	var view bundleView
	sess.Do(func() {
		sess.Bundle.Clear()
		view = viewBundle(sess)
	})
	utils.RespondWithJSON(w, http.StatusOK, view)
}

// CompleteBundle moves a full bundle into the cart as one line.
func (h *Handler) CompleteBundle(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sess, _ := h.session(w, r)
	var (
		line models.CartItem
		ok   bool
		cv   cartView
		bv   bundleView
	)
	sess.Do(func() {
		line, ok = sess.Bundle.Complete(sess.Cart)
		cv = viewCart(sess)
		bv = viewBundle(sess)
	})
	if !ok {
		utils.RespondWithError(w, http.StatusConflict, "Bundle is not full yet")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"line": line, "cart": cv, "bundle": bv})
}
