package routes

import (
	"dollardash/admin"
	"dollardash/auth"
	"dollardash/settings"
	"dollardash/shop"

	"github.com/julienschmidt/httprouter"
)

// Handlers bundles everything the router serves.
type Handlers struct {
	Shop     *shop.Handler
	Admin    *admin.Handler
	Settings *settings.Handler
	Login    *auth.Admin
	WS       httprouter.Handle
}

func RoutesWrapper(h Handlers, rl Limiters) *httprouter.Router {
	router := httprouter.New()
	AddUtilityRoutes(router, h.WS)
	AddShopRoutes(router, h.Shop, rl)
	AddAdminRoutes(router, h.Login, h.Admin, h.Settings, rl)
	return router
}
