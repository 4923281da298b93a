package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dollardash/admin"
	"dollardash/agi"
	"dollardash/auth"
	"dollardash/bundle"
	"dollardash/checkout"
	"dollardash/config"
	"dollardash/db"
	"dollardash/globals"
	"dollardash/imagestore"
	"dollardash/localstore"
	"dollardash/middleware"
	"dollardash/mode"
	"dollardash/mq"
	"dollardash/notify"
	"dollardash/rdx"
	"dollardash/receipt"
	"dollardash/remote"
	"dollardash/routes"
	"dollardash/session"
	"dollardash/settings"
	"dollardash/shop"
	"dollardash/state"

	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

// connectRemote returns nil when no database is configured or reachable; the
// shop then runs on local snapshots.
func connectRemote(ctx context.Context, cfg config.Config) mode.Gateway {
	if cfg.MongoURI == "" {
		log.Println("⚠️ MONGODB_URI not set; running offline")
		return nil
	}
	if err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB); err != nil {
		log.Printf("⚠️ MongoDB unavailable, running offline: %v", err)
		return nil
	}
	return remote.New(db.ProductsCollection, db.OrdersCollection, db.SettingsCollection)
}

func main() {
	cfg := config.Load()
	globals.JwtSecret = []byte(cfg.JWTSecret)
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// local durable state
	store, err := localstore.Open(cfg.DataDir)
	if err != nil {
		log.Fatalf("❌ open data dir: %v", err)
	}
	prefs := localstore.NewPrefs(store)
	snaps := localstore.NewSnapshots(store)

	// shared state behind the mode controller
	st := state.New()
	controller := mode.New(connectRemote(ctx, cfg), snaps, prefs, st)

	// notifications: hub, optional redis relay
	hub := notify.NewHub()
	go hub.Run()

	var (
		pub    notify.Publisher
		tokens notify.TokenRegistry
	)
	if cfg.RedisAddr != "" {
		if err := rdx.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword); err != nil {
			log.Printf("⚠️ Redis unavailable, notifications stay local: %v", err)
		} else {
			pub = mq.NewPublisher(rdx.Conn)
			tokens = rdx.NewDeviceTokens(rdx.Conn)
		}
	}
	notifier := notify.NewNotifier(hub, pub, tokens)
	if pub != nil {
		go mq.StartRelay(ctx, rdx.Conn, notifier.Deliver)
	}

	pusher := notify.NewStatePusher(hub, st, func() string { return string(controller.Mode()) })
	pusher.Watch()

	if err := controller.Start(ctx); err != nil {
		log.Fatalf("❌ start data source: %v", err)
	}

	// collaborators
	uploader, err := imagestore.New(ctx, imagestore.Options{
		Backend:       cfg.ImageBackend,
		DriveFolderID: cfg.DriveFolderID,
		CloudinaryURL: cfg.CloudinaryURL,
		S3Bucket:      cfg.S3Bucket,
		AWSRegion:     cfg.AWSRegion,
	}, prefs)
	if err != nil {
		log.Printf("⚠️ image storage disabled: %v", err)
		uploader = nil
	}
	gem, err := agi.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Printf("⚠️ AI assistant disabled: %v", err)
		gem = nil
	}

	sessions := session.NewManager(prefs, bundle.ParseOptions(cfg.BundleDuplicates, cfg.BundleCapacityPolicy), 24*time.Hour)
	go sessions.Run(ctx, 10*time.Minute)

	login, err := auth.NewAdmin(cfg.AdminUser, cfg.AdminPassword, cfg.AdminPasswordHash)
	if err != nil {
		log.Fatalf("❌ admin account: %v", err)
	}

	manager := admin.NewManager(controller, st)
	router := routes.RoutesWrapper(routes.Handlers{
		Shop: shop.NewHandler(shop.Deps{
			Sessions:  sessions,
			View:      st,
			Mode:      controller,
			Checkout:  checkout.New(controller, notifier),
			Concierge: agi.NewConcierge(gem),
			Receipts:  receipt.NewPrinter(cfg.ReceiptSecret),
			Tokens:    notifier,
			IsAdmin:   middleware.IsAdminRequest,
		}),
		Admin:    admin.NewHandler(manager, admin.NewImages(uploader, agi.NewVision(gem)), admin.NewDrive(prefs), notifier),
		Settings: settings.NewHandler(manager),
		Login:    login,
		WS:       notify.WebSocketHandler(hub, middleware.IsAdminRequest, pusher.Welcome),
	}, routes.DefaultLimiters())

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: cfg.AllowCredentials(),
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("🛑 Shutting down notification hub...")
		hub.Stop()
		controller.Stop()
		stop()
	})

	go func() {
		log.Printf("🚀 Server listening on %s (%s mode)", cfg.Port, controller.Mode())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Graceful shutdown failed: %v", err)
	}
	rdx.Close()
	db.Disconnect(shutdownCtx)

	log.Println("✅ Server stopped cleanly")
}
