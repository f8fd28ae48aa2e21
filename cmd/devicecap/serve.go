package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/berfenger/devicecap/internal/actor"
	"github.com/berfenger/devicecap/internal/appliance"
	"github.com/berfenger/devicecap/internal/config"
	"github.com/berfenger/devicecap/internal/mqtt"
	"github.com/berfenger/devicecap/internal/server"
	"github.com/berfenger/devicecap/internal/util/actorutil"
	"github.com/berfenger/devicecap/pkg/device"

	pactor "github.com/asynkron/protoactor-go/actor"
	"github.com/carlmjohnson/versioninfo"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *http.Server, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Println("shutting down gracefully, press Ctrl+C again to force")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	log.Println("Server exiting")

	done <- true
}

func serve(cfg *config.Config) error {
	safePrintConfig(*cfg)

	// zap logger
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)

	logger := zap.Must(zapCfg.Build())
	defer logger.Sync()

	app, err := appliance.New(cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	finalized, err := app.Device.Finalize()
	if err != nil {
		return err
	}
	logger.Info("device ready",
		zap.String("id", cfg.Device.Id),
		zap.Stringer("kind", finalized.Kind),
		zap.String("main_route", finalized.MainRoute),
		zap.Int("actions", len(finalized.Actions)))

	// init actor system
	as := actorutil.NewActorSystemWithZapLogger(logger)
	root := as.Root

	props := pactor.PropsFromProducer(func() pactor.Actor {
		return actor.NewDeviceActor(finalized,
			applianceActorProvider(cfg, finalized, app.State, logger),
			discoveryActorProvider(cfg, finalized, logger),
			logger)
	})
	pid, err := root.SpawnNamed(props, actor.ACTOR_ID_DEVICE)
	if err != nil {
		return err
	}

	if cfg.MQTT.DiscoveryEnable {
		sched, err := actor.NewAnnounceScheduler(context.Background(), root, pid, cfg.MQTT.DiscoveryInterval(), logger)
		if err != nil {
			return err
		}
		defer sched.Stop()
	}

	invoker := actor.NewInvoker(root, pid, cfg.Device.ActionTimeout())
	apiServer, err := server.NewServer(*cfg, finalized, invoker, invoker, logger)
	if err != nil {
		return err
	}

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, done)

	err = apiServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error: %w", err)
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Println("Graceful shutdown complete.")

	root.Stop(pid)
	as.Shutdown()
	return nil
}

func applianceActorProvider(cfg *config.Config, finalized device.Finalized, state any, logger *zap.Logger) actor.ApplianceActorProvider {
	return func() *actor.ApplianceActor {
		return actor.NewApplianceActor(finalized, state, cfg.Device.ActionTimeout(), logger)
	}
}

func discoveryActorProvider(cfg *config.Config, finalized device.Finalized, logger *zap.Logger) actor.DiscoveryActorProvider {
	if !cfg.MQTT.DiscoveryEnable {
		return nil
	}
	info := mqtt.AnnouncementInfo{
		Id:              cfg.Device.Id,
		Name:            cfg.Device.Name,
		Port:            cfg.Port,
		Version:         versioninfo.Short(),
		Finalized:       finalized,
		IncludeManifest: true,
	}
	return func() pactor.Actor {
		return actor.NewDiscoveryActor(cfg, info, logger)
	}
}
