package handlers

import (
	"github.com/jsephandrade/canteen-order-service/internal/config"
	"github.com/jsephandrade/canteen-order-service/internal/orders"

	"go.uber.org/zap"
)

type Handler struct {
	Orders *orders.Service
	Logger *zap.Logger
	Config config.Config
}
