package main // Entry point package

import (
    "log"  // Logging library
    "time" // Durations for the payment hold window

    "github.com/joho/godotenv"    // Loads .env files in development
    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/playspot/ground-reservation/internal/booking"    // Booking domain rules
    "github.com/playspot/ground-reservation/internal/config"     // Internal config loader
    "github.com/playspot/ground-reservation/internal/database"   // MySQL connection pool
    "github.com/playspot/ground-reservation/internal/handler"    // HTTP handlers
    "github.com/playspot/ground-reservation/internal/middleware" // Rate limit and cache middleware
    "github.com/playspot/ground-reservation/internal/payment"    // Payment provider client
    "github.com/playspot/ground-reservation/internal/queue"      // Background consumers
    "github.com/playspot/ground-reservation/internal/repository" // Data access layer
    "github.com/playspot/ground-reservation/internal/router"     // Internal router setup
    "github.com/playspot/ground-reservation/internal/sweeper"    // Periodic maintenance jobs
)

func main() {
    _ = godotenv.Load() // Load .env when present; real env vars win

    cfg := config.Load() // Load environment config

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err) // No point starting without storage
    }
    defer db.Close()

    policy, err := booking.ParseRefundPolicy(cfg.RefundPolicy)
    if err != nil {
        log.Fatalf("refund policy: %v", err)
    }
    holdWindow := time.Duration(cfg.HoldWindowMin) * time.Minute

    // Repositories
    userRepo := repository.NewUserRepo(db)
    tokenRepo := repository.NewTokenRepo(db)
    groundRepo := repository.NewGroundRepo(db)
    courtRepo := repository.NewCourtRepo(db)
    bookingRepo := repository.NewBookingRepo(db)
    paymentRepo := repository.NewPaymentRepo(db)

    // Payment provider client
    gateway := payment.NewClient(cfg.PayBaseURL, cfg.PayKeyID, cfg.PayKeySecret)

    // Handlers
    authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
    browseH := handler.NewBrowseHandler(groundRepo, courtRepo, bookingRepo, holdWindow)
    bookingH := handler.NewBookingHandler(groundRepo, courtRepo, bookingRepo, paymentRepo, gateway, holdWindow, policy)
    paymentH := handler.NewPaymentHandler(bookingRepo, paymentRepo, gateway, holdWindow)
    ownerH := handler.NewOwnerGroundHandler(groundRepo, courtRepo, bookingRepo, holdWindow)

    e := echo.New() // Create Echo instance

    // Redis backs rate limiting and the response cache.  A nil client
    // disables both; the API itself keeps working.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Printf("redis unavailable; rate limiting and caching disabled")
    }
    var cacheMW echo.MiddlewareFunc
    if rdb != nil {
        rlCfg := config.LoadRateLimitConfig()
        if rlCfg.Enabled {
            e.Use(middleware.NewTokenBucket(rlCfg, rdb))
        }
        cacheCfg := config.LoadCacheConfig()
        if cacheCfg.Enabled {
            cacheMW = middleware.NewRedisCache(cacheCfg, rdb)
        }
    }

    // Routes
    router.RegisterRoutes(e) // Health check
    router.RegisterAuth(e, authH, cfg.JWTSecret)
    router.RegisterPublic(e, browseH, cacheMW)
    router.RegisterPlayer(e, bookingH, paymentH, cfg.JWTSecret)
    router.RegisterOwner(e, ownerH, cfg.JWTSecret)
    router.RegisterAdmin(e, ownerH, cfg.JWTSecret)

    // Background consumers run their own reconnect loops.
    go func() {
        if err := queue.StartBookingConsumer(); err != nil {
            log.Printf("booking consumer stopped: %v", err)
        }
    }()
    go func() {
        if err := queue.StartRefundConsumer(gateway); err != nil {
            log.Printf("refund consumer stopped: %v", err)
        }
    }()

    // Periodic sweeps: release expired holds, complete played bookings.
    sw, err := sweeper.New(bookingRepo, holdWindow)
    if err != nil {
        log.Fatalf("sweeper: %v", err)
    }
    sw.Start()
    defer func() { _ = sw.Stop() }()

    addr := ":" + cfg.Port                                // Address string with port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

    if err := e.Start(addr); err != nil { // Start HTTP server
        log.Fatal(err) // Log and exit if server fails
    }
}
