package shop

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dollardash/agi"
	"dollardash/bundle"
	"dollardash/checkout"
	"dollardash/localstore"
	"dollardash/mode"
	"dollardash/models"
	"dollardash/receipt"
	"dollardash/session"
	"dollardash/state"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSuggester struct {
	ids []string
	err error
}

func (f fakeSuggester) SuggestBundle(_ context.Context, _ string, products []models.Product, _, _ int) (*agi.Suggestion, error) {
	if f.err != nil {
		return nil, f.err
	}
	s := &agi.Suggestion{RecommendedIDs: f.ids, Explanation: "Movie night"}
	for _, id := range f.ids {
		for _, p := range products {
			if p.ID == id {
				s.Products = append(s.Products, p)
			}
		}
	}
	return s, nil
}

type memTokens struct{ tokens []string }

func (m *memTokens) RegisterToken(_ context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("device token is required")
	}
	m.tokens = append(m.tokens, token)
	return nil
}

type fixture struct {
	router *httprouter.Router
	state  *state.Store
	ctrl   *mode.Controller
	tokens *memTokens
	cookie *http.Cookie
}

func newFixture(t *testing.T, sug Suggester) *fixture {
	t.Helper()
	store, err := localstore.Open(t.TempDir())
	require.NoError(t, err)
	prefs := localstore.NewPrefs(store)
	st := state.New()
	ctrl := mode.New(nil, localstore.NewSnapshots(store), prefs, st)
	require.NoError(t, ctrl.Start(context.Background()))

	f := &fixture{state: st, ctrl: ctrl, tokens: &memTokens{}}
	h := NewHandler(Deps{
		Sessions:  session.NewManager(prefs, bundle.Options{}, time.Hour),
		View:      st,
		Mode:      ctrl,
		Checkout:  checkout.New(ctrl, nil),
		Concierge: sug,
		Receipts:  receipt.NewPrinter("test-secret"),
		Tokens:    f.tokens,
	})

	r := httprouter.New()
	r.GET("/api/store", h.GetStore)
	r.GET("/api/products", h.GetProducts)
	r.GET("/api/cities", h.GetCities)
	r.GET("/api/cart", h.GetCart)
	r.POST("/api/cart", h.AddToCart)
	r.DELETE("/api/cart", h.ClearCart)
	r.PUT("/api/cart/:id", h.SetQuantity)
	r.DELETE("/api/cart/:id", h.RemoveLine)
	r.POST("/api/cart/:id/increment", h.IncrementLine)
	r.POST("/api/cart/:id/decrement", h.DecrementLine)
	r.GET("/api/bundle", h.GetBundle)
	r.POST("/api/bundle/items", h.AddToBundle)
	r.DELETE("/api/bundle/items/:index", h.RemoveBundleSlot)
	r.DELETE("/api/bundle/products/:id", h.RemoveBundleProduct)
	r.DELETE("/api/bundle", h.ClearBundle)
	r.POST("/api/bundle/complete", h.CompleteBundle)
	r.POST("/api/concierge", h.Concierge)
	r.GET("/api/favorites", h.GetFavorites)
	r.POST("/api/favorites/:id", h.ToggleFavorite)
	r.POST("/api/checkout", h.Checkout)
	r.GET("/api/orders/:id/receipt", h.GetReceipt)
	r.POST("/api/notifications/token", h.RegisterToken)
	r.POST("/api/mode/reset", h.ResetMode)
	f.router = r
	return f
}

// do sends a request as the same visitor across calls.
func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if f.cookie != nil {
		req.AddCookie(f.cookie)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			f.cookie = c
		}
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestStoreReportsLocalMode(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(t, http.MethodGet, "/api/store", "")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[storeResponse](t, rec)
	assert.Equal(t, mode.Local, got.Mode)
	assert.True(t, got.Offline)
	assert.Equal(t, 540, got.BundlePrice)
	assert.NotNil(t, f.cookie)
}

func TestProductsUseGlobalPrice(t *testing.T) {
	f := newFixture(t, nil)
	f.state.SetConfig(models.StoreConfig{ItemPrice: 70, BundleItemCount: 6})

	rec := f.do(t, http.MethodGet, "/api/products?category=snacks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	products := decode[[]models.Product](t, rec)
	require.NotEmpty(t, products)
	for _, p := range products {
		assert.Equal(t, models.CategorySnacks, p.Category)
		assert.Equal(t, 70, p.Price)
	}

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/api/products?category=Toys", "").Code)
}

func TestFavoritesFilter(t *testing.T) {
	f := newFixture(t, nil)

	products := decode[[]models.Product](t, f.do(t, http.MethodGet, "/api/products?category=Favorites", ""))
	assert.Empty(t, products)

	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/favorites/3", "").Code)
	products = decode[[]models.Product](t, f.do(t, http.MethodGet, "/api/products?category=Favorites", ""))
	require.Len(t, products, 1)
	assert.Equal(t, "3", products[0].ID)

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodPost, "/api/favorites/999", "").Code)
}

func TestCartFlow(t *testing.T) {
	f := newFixture(t, nil)

	f.do(t, http.MethodPost, "/api/cart", `{"productId":"1"}`)
	f.do(t, http.MethodPost, "/api/cart", `{"productId":"1"}`)
	rec := f.do(t, http.MethodPost, "/api/cart", `{"productId":"2"}`)
	c := decode[cartView](t, rec)
	assert.Equal(t, 3, c.Count)
	assert.Equal(t, 300, c.Total)

	c = decode[cartView](t, f.do(t, http.MethodPost, "/api/cart/2/decrement", ""))
	assert.Len(t, c.Items, 1)

	c = decode[cartView](t, f.do(t, http.MethodPut, "/api/cart/1", `{"quantity":5}`))
	assert.Equal(t, 500, c.Total)

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodPost, "/api/cart/2/increment", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodPost, "/api/cart", `{"productId":"nope"}`).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPut, "/api/cart/1", `{}`).Code)
}

func TestCartPriceFrozenAtAdd(t *testing.T) {
	f := newFixture(t, nil)
	f.do(t, http.MethodPost, "/api/cart", `{"productId":"4"}`)
	f.state.SetConfig(models.StoreConfig{ItemPrice: 200, BundleItemCount: 6})

	c := decode[cartView](t, f.do(t, http.MethodGet, "/api/cart", ""))
	assert.Equal(t, 100, c.Total)
}

func TestBundleCompleteMovesIntoCart(t *testing.T) {
	f := newFixture(t, nil)
	f.state.SetConfig(models.StoreConfig{ItemPrice: 100, BundleItemCount: 2})

	f.do(t, http.MethodPost, "/api/bundle/items", `{"productId":"1"}`)
	assert.Equal(t, http.StatusConflict, f.do(t, http.MethodPost, "/api/bundle/complete", "").Code)
	f.do(t, http.MethodPost, "/api/bundle/items", `{"productId":"2"}`)

	rec := f.do(t, http.MethodPost, "/api/bundle/items", `{"productId":"3"}`)
	added := decode[struct {
		Added  bool       `json:"added"`
		Bundle bundleView `json:"bundle"`
	}](t, rec)
	assert.False(t, added.Added)
	assert.True(t, added.Bundle.Full)

	rec = f.do(t, http.MethodPost, "/api/bundle/complete", "")
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode[struct {
		Line   models.CartItem `json:"line"`
		Cart   cartView        `json:"cart"`
		Bundle bundleView      `json:"bundle"`
	}](t, rec)
	assert.Equal(t, 180, out.Line.Price)
	assert.Equal(t, "Super Saver Bundle (Crunchy Corn Chips, Neon Gel Pens (3pk))", out.Line.Name)
	assert.Equal(t, 180, out.Cart.Total)
	assert.Empty(t, out.Bundle.Items)
}

func TestBundleRemove(t *testing.T) {
	f := newFixture(t, nil)
	f.do(t, http.MethodPost, "/api/bundle/items", `{"productId":"5"}`)
	f.do(t, http.MethodPost, "/api/bundle/items", `{"productId":"6"}`)
	f.do(t, http.MethodPost, "/api/bundle/items", `{"productId":"5"}`)

	b := decode[bundleView](t, f.do(t, http.MethodDelete, "/api/bundle/products/5", ""))
	require.Len(t, b.Items, 2)
	assert.Equal(t, "6", b.Items[0].ID)
	assert.Equal(t, "5", b.Items[1].ID)

	b = decode[bundleView](t, f.do(t, http.MethodDelete, "/api/bundle/items/0", ""))
	require.Len(t, b.Items, 1)
	assert.Equal(t, "5", b.Items[0].ID)

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodDelete, "/api/bundle/items/x", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodDelete, "/api/bundle/items/9", "").Code)
}

func TestConcierge(t *testing.T) {
	f := newFixture(t, fakeSuggester{ids: []string{"1", "6", "11"}})
	rec := f.do(t, http.MethodPost, "/api/concierge", `{"request":"snacks for a movie night"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	b := decode[bundleView](t, f.do(t, http.MethodGet, "/api/bundle", ""))
	require.Len(t, b.Items, 3)
	assert.Equal(t, "1", b.Items[0].ID)
}

func TestConciergeFailure(t *testing.T) {
	f := newFixture(t, fakeSuggester{err: agi.ErrUnavailable})
	rec := f.do(t, http.MethodPost, "/api/concierge", `{"request":"anything"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "couldn't whip up a bundle")
}

func TestCheckoutAndReceipt(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/api/checkout", `{"customer":{"name":"Ali","phone":"0300","address":"Street 1","city":"Lahore"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.do(t, http.MethodPost, "/api/cart", `{"productId":"1"}`)
	rec = f.do(t, http.MethodPost, "/api/checkout", `{"customer":{"name":"Ali","phone":"0300","address":"Street 1","city":"Quetta"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/checkout", `{"customer":{"name":"Ali","phone":"0300","address":"Street 1","city":"Lahore"}}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode[struct {
		Data struct {
			Order      models.Order `json:"order"`
			ReceiptURL string       `json:"receiptUrl"`
		} `json:"data"`
	}](t, rec)
	assert.True(t, strings.HasPrefix(body.Data.Order.ID, "LOCAL-"))
	assert.Equal(t, 100, body.Data.Order.Total)
	assert.Len(t, f.state.Orders(), 1)

	c := decode[cartView](t, f.do(t, http.MethodGet, "/api/cart", ""))
	assert.Empty(t, c.Items)

	rec = f.do(t, http.MethodGet, body.Data.ReceiptURL, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))

	f.cookie = nil
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, body.Data.ReceiptURL, "").Code)
}

func TestRegisterToken(t *testing.T) {
	f := newFixture(t, nil)
	assert.Equal(t, http.StatusNoContent, f.do(t, http.MethodPost, "/api/notifications/token", `{"token":"fcm-1"}`).Code)
	assert.Equal(t, []string{"fcm-1"}, f.tokens.tokens)
}

func TestResetModeStaysLocalWithoutGateway(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(t, http.MethodPost, "/api/mode/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, mode.Local, f.ctrl.Mode())
}
