package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/berfenger/devicecap/internal/config"
	"github.com/berfenger/devicecap/internal/util/actorutil"
	"github.com/berfenger/devicecap/pkg/action"
	"github.com/berfenger/devicecap/pkg/device"
	"github.com/berfenger/devicecap/pkg/parameter"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
)

type ActionInvoker interface {
	Invoke(ctx context.Context, a action.Action, inputs parameter.Values) (any, error)
}

type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

type Server struct {
	port      uint
	httpLog   bool
	service   string
	finalized device.Finalized
	schema    []byte
	invoker   ActionInvoker
	health    HealthChecker
	logger    *zap.Logger
}

func New(cfg config.Config, finalized device.Finalized, invoker ActionInvoker, health HealthChecker, logger *zap.Logger) (*Server, error) {
	schema, err := device.ManifestSchemaJSON()
	if err != nil {
		return nil, err
	}
	return &Server{
		port:      cfg.Port,
		httpLog:   cfg.HttpLog,
		service:   cfg.Device.WellKnownService,
		finalized: finalized,
		schema:    schema,
		invoker:   invoker,
		health:    health,
		logger:    actorutil.ComponentLogger("server", logger),
	}, nil
}

func NewServer(cfg config.Config, finalized device.Finalized, invoker ActionInvoker, health HealthChecker, logger *zap.Logger) (*http.Server, error) {
	s, err := New(cfg, finalized, invoker, health, logger)
	if err != nil {
		return nil, err
	}

	// Declare Server config
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server, nil
}
