package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/parceldesk/postal-service/docs"
	"github.com/parceldesk/postal-service/internal/app"
	"github.com/parceldesk/postal-service/internal/config"
	"github.com/parceldesk/postal-service/internal/events"
	"github.com/parceldesk/postal-service/internal/handler"
	"github.com/parceldesk/postal-service/internal/postgres"
	"github.com/parceldesk/postal-service/internal/repo"
	"github.com/parceldesk/postal-service/internal/service"
	"github.com/parceldesk/postal-service/pkg/cache"
	"github.com/parceldesk/postal-service/pkg/trm"

	"github.com/joho/godotenv"
)

// @title           Postal Service API
// @version         1.0
// @description     Документация HTTP API сервиса отправлений
func main() {
	conf := config.New()
	logger := newLogger(conf.Env)
	panicIfErr("invalid config", conf.Validate())

	db, err := postgres.New(conf.PG)
	panicIfErr("failed to connect to db", err)
	defer db.Close()
	logger.Info("postgres connected")

	postalRepo := repo.NewPostgresRepo(db)
	txManager := trm.NewManager(db)
	shipmentCache := cache.NewLRUCache(conf.Cache.Capacity, conf.Cache.TTL)
	publisher := events.NewPublisher(logger, conf.Kafka)

	shipmentService := service.NewShipmentService(logger, txManager, postalRepo, shipmentCache, publisher)
	methodService := service.NewMethodService(logger, postalRepo)
	userService := service.NewUserService(logger, postalRepo)

	application := app.New(logger, conf)
	application.SetHTTPHandlers(
		handler.NewPostalHandler(logger, shipmentService, methodService),
		handler.NewAuthHandler(logger, userService),
		handler.NewAdminHandler(logger, shipmentService, methodService, userService),
	)
	application.SetStarters(shipmentCache)
	application.SetClosers(publisher)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	panicIfErr("failed to start app", application.Start(ctx))
	<-ctx.Done()
	panicIfErr("failed to stop app", application.Stop())
}

func init() {
	godotenv.Load()
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}
