package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jsephandrade/canteen-order-service/internal/config"
	"github.com/jsephandrade/canteen-order-service/internal/events"
	httpapi "github.com/jsephandrade/canteen-order-service/internal/http"
	"github.com/jsephandrade/canteen-order-service/internal/logger"
	"github.com/jsephandrade/canteen-order-service/internal/orders"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	var source orders.DataSource
	if cfg.UseMocks {
		log.Info("mock mode enabled; serving demo fixtures")
		source = orders.NewMockSource()
	} else {
		log.Info("live mode enabled", zap.String("backend", cfg.OrdersAPIBaseURL))
		source = orders.NewAPISource(cfg.OrdersAPIBaseURL, cfg.OrdersAPITimeout)
	}

	opts := []orders.Option{orders.WithLogger(log)}
	if cfg.RabbitMQURL != "" {
		publisher, err := events.Connect(cfg.RabbitMQURL)
		if err != nil {
			if cfg.Env == "production" {
				log.Fatal("rabbitmq connection failed", zap.Error(err))
			}
			log.Warn("rabbitmq connection failed; continuing without events", zap.Error(err))
		} else {
			log.Info("order events enabled", zap.String("exchange", events.Exchange))
			defer publisher.Close()
			opts = append(opts, orders.WithEvents(publisher))
		}
	} else {
		log.Info("order events disabled (RABBITMQ_URL is empty)")
	}

	service := orders.NewService(source, opts...)

	apiServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(service, log, cfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("order service listening", zap.String("addr", cfg.HTTPAddr))
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxShutdown); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}
}
