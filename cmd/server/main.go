package main

import (
    "os"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
    "github.com/rs/zerolog"

    "github.com/cafechostito/reservation-api/internal/audit"
    "github.com/cafechostito/reservation-api/internal/booking"
    "github.com/cafechostito/reservation-api/internal/config"
    "github.com/cafechostito/reservation-api/internal/database"
    "github.com/cafechostito/reservation-api/internal/handler"
    "github.com/cafechostito/reservation-api/internal/middleware"
    "github.com/cafechostito/reservation-api/internal/repository"
    "github.com/cafechostito/reservation-api/internal/router"
)

func main() {
    // .env is optional; real deployments set the environment directly.
    _ = godotenv.Load()

    log := zerolog.New(os.Stderr).With().Timestamp().Str("service", "reservation-api").Logger()

    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatal().Err(err).Msg("database connection failed")
    }
    defer db.Close()

    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)
    reservations := repository.NewReservationRepo(db)
    menu := repository.NewMenuRepo(db)
    orders := repository.NewOrderRepo(db)

    // Audit trail: publish to RabbitMQ when configured, otherwise a no-op
    // sink so the API keeps working without a broker.
    var sink audit.Sink = audit.NopSink{}
    brokerURL := audit.BrokerURL()
    logDir := os.Getenv("ACTIVITY_LOG_DIR")
    if logDir == "" {
        logDir = "logs"
    }
    if os.Getenv("AUDIT_DISABLED") != "true" {
        sink = audit.NewQueuePublisher(brokerURL, log)
        go func() {
            if err := audit.StartConsumer(brokerURL, logDir, log); err != nil {
                log.Warn().Err(err).Msg("audit consumer stopped")
            }
        }()
    }

    grid := booking.NewGrid(cfg.Booking)
    svc := booking.NewService(reservations, grid, booking.NewClock(), sink, cfg.Booking)

    e := echo.New()
    e.HideBanner = true
    e.Validator = handler.NewRequestValidator()
    e.Use(echomw.Recover())

    rdb := config.NewRedisClient()
    if rdb != nil {
        e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
    }

    h := router.Handlers{
        Auth:         handler.NewAuthHandler(cfg, users, tokens, sink),
        Availability: handler.NewAvailabilityHandler(svc),
        Reservations: handler.NewReservationHandler(svc),
        AdminRes:     handler.NewAdminReservationHandler(svc),
        Menu:         handler.NewMenuHandler(menu),
        Orders:       handler.NewOrderHandler(orders, menu, sink),
        Logs:         handler.NewActivityLogHandler(logDir),
    }

    var publicMW []echo.MiddlewareFunc
    if rdb != nil {
        publicMW = append(publicMW, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
    }
    router.RegisterPublic(e, h, publicMW...)
    router.RegisterAuth(e, h, cfg.JWTSecret)
    router.RegisterCustomer(e, h, cfg.JWTSecret)
    router.RegisterAdmin(e, h, cfg.JWTSecret)

    addr := ":" + cfg.Port
    log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
    if err := e.Start(addr); err != nil {
        log.Fatal().Err(err).Msg("server stopped")
    }
}
