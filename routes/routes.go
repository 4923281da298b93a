package routes

import (
	"fmt"
	"net/http"

	"dollardash/admin"
	"dollardash/auth"
	"dollardash/middleware"
	"dollardash/ratelim"
	"dollardash/settings"
	"dollardash/shop"

	"github.com/julienschmidt/httprouter"
)

// Limiters throttles the expensive or abusable endpoints.
type Limiters struct {
	Login     *ratelim.RateLimiter
	Checkout  *ratelim.RateLimiter
	Concierge *ratelim.RateLimiter
	Analyze   *ratelim.RateLimiter
}

// DefaultLimiters allows a handful of calls per minute per client.
func DefaultLimiters() Limiters {
	return Limiters{
		Login:     ratelim.NewRateLimiter(5, 3),
		Checkout:  ratelim.NewRateLimiter(10, 3),
		Concierge: ratelim.NewRateLimiter(6, 2),
		Analyze:   ratelim.NewRateLimiter(10, 2),
	}
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func AddShopRoutes(router *httprouter.Router, h *shop.Handler, rl Limiters) {
	router.GET("/api/store", h.GetStore)
	router.GET("/api/products", h.GetProducts)
	router.GET("/api/cities", h.GetCities)
	router.POST("/api/mode/reset", h.ResetMode)

	router.GET("/api/cart", h.GetCart)
	router.POST("/api/cart", h.AddToCart)
	router.DELETE("/api/cart", h.ClearCart)
	router.PUT("/api/cart/:id", h.SetQuantity)
	router.DELETE("/api/cart/:id", h.RemoveLine)
	router.POST("/api/cart/:id/increment", h.IncrementLine)
	router.POST("/api/cart/:id/decrement", h.DecrementLine)

	router.GET("/api/bundle", h.GetBundle)
	router.DELETE("/api/bundle", h.ClearBundle)
	router.POST("/api/bundle/items", h.AddToBundle)
	router.DELETE("/api/bundle/items/:index", h.RemoveBundleSlot)
	router.DELETE("/api/bundle/products/:id", h.RemoveBundleProduct)
	router.POST("/api/bundle/complete", h.CompleteBundle)
	router.POST("/api/concierge", rl.Concierge.Limit(h.Concierge))

	router.GET("/api/favorites", h.GetFavorites)
	router.POST("/api/favorites/:id", h.ToggleFavorite)

	router.POST("/api/checkout", rl.Checkout.Limit(h.Checkout))
	router.GET("/api/orders/:id/receipt", h.GetReceipt)
	router.POST("/api/notifications/token", h.RegisterToken)
}

func AddAdminRoutes(router *httprouter.Router, login *auth.Admin, h *admin.Handler, s *settings.Handler, rl Limiters) {
	router.POST("/api/admin/login", rl.Login.Limit(login.LoginHandler))

	router.GET("/api/admin/products", middleware.Authenticate(h.ListProducts))
	router.POST("/api/admin/products", middleware.Authenticate(h.CreateProduct))
	router.POST("/api/admin/products/import", middleware.Authenticate(h.ImportProducts))
	router.PUT("/api/admin/products/:id", middleware.Authenticate(h.UpdateProduct))
	router.DELETE("/api/admin/products/:id", middleware.Authenticate(h.DeleteProduct))

	router.POST("/api/admin/images/url", middleware.Authenticate(h.ImageFromURL))
	router.POST("/api/admin/images/upload", middleware.Authenticate(h.UploadImage))
	router.POST("/api/admin/images/analyze", rl.Analyze.Limit(middleware.Authenticate(h.AnalyzeImage)))

	router.GET("/api/admin/orders", middleware.Authenticate(h.ListOrders))
	router.DELETE("/api/admin/orders", middleware.Authenticate(h.ClearOrders))

	router.GET("/api/admin/settings", middleware.Authenticate(s.GetSettings))
	router.PUT("/api/admin/settings", middleware.Authenticate(s.UpdateSettings))

	router.GET("/api/admin/drive", middleware.Authenticate(h.DriveStatus))
	router.PUT("/api/admin/drive", middleware.Authenticate(h.ConnectDrive))
	router.DELETE("/api/admin/drive", middleware.Authenticate(h.DisconnectDrive))

	router.POST("/api/admin/notify", middleware.Authenticate(h.Notify))
}

func AddUtilityRoutes(router *httprouter.Router, ws httprouter.Handle) {
	router.GET("/health", Index)
	router.GET("/ws", ws)
}
