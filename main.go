// File: drukhotel/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"drukhotel/app"
	"drukhotel/backend"
	"drukhotel/config"
	"drukhotel/gateway"
	"drukhotel/models"
	"drukhotel/services/booking"
	"drukhotel/services/catalog"
	sessionSvc "drukhotel/services/session"
	"drukhotel/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	utils.InitSessionStore()

	ctx := context.Background()
	tokenStore, err := sessionSvc.NewRedisTokenStore(ctx, utils.GetSessionStoreClient())
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize session token store: %v", err)
	}

	authClient := backend.NewAuthClient(config.AppConfig.BackendURL, config.AppConfig.BackendAnonKey)
	refreshMargin := time.Duration(config.AppConfig.AutoRefreshMarginSeconds) * time.Second
	sessions, err := sessionSvc.NewDefaultClient(ctx, authClient, tokenStore, refreshMargin)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize session client: %v", err)
	}

	restClient := backend.NewRestClient(config.AppConfig.BackendURL, config.AppConfig.BackendAnonKey, sessions)
	gw := gateway.NewRestGateway(restClient)

	catalogService := catalog.NewDefaultService(gw)
	flow := booking.NewFlowController(sessions, gw, config.AppConfig.BookingNights)
	storefront := app.New(sessions, catalogService, flow)

	sessions.OnSessionChange(func(sess *models.Session) {
		if sess == nil {
			logger.Sugar().Info("main: signed out")
			return
		}
		logger.Sugar().Infof("main: session active for %s", sess.User.Email)
	})

	// The process counts as foregrounded for its whole lifetime; a mobile
	// shell would bracket this with its own foreground/background events.
	sessions.StartAutoRefresh()

	if storefront.Authenticated() {
		go storefront.LoadHotels(ctx)
	}

	logger.Sugar().Infof("Storefront ready against %s", config.AppConfig.BackendURL)

	// Wait for an OS signal to shut down.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: shutting down...")

	sessions.StopAutoRefresh()
	_ = logger.Sync()
}
