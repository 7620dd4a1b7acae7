package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"homepedia-map/internal/cache"
	"homepedia-map/internal/config"
	"homepedia-map/internal/handler"
	"homepedia-map/internal/infrastructure/auth"
	"homepedia-map/internal/infrastructure/dataapi"
	"homepedia-map/internal/infrastructure/maillage"
	"homepedia-map/internal/logger"
	"homepedia-map/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// Production containers configure through the environment directly.
		logger.L().Info("fichier .env absent, utilisation de l'environnement")
	}
	log := logger.Setup()
	cfg := config.Load()

	var store cache.Store = cache.Noop{}
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisStore, err := cache.NewRedis(ctx, cfg.RedisAddr, log)
		cancel()
		if err != nil {
			log.Warn("redis injoignable, cache désactivé", "addr", cfg.RedisAddr, "err", err)
		} else {
			store = redisStore
			log.Info("cache redis actif", "addr", cfg.RedisAddr)
		}
	}

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	geoClient := maillage.NewClient(cfg.MaillageBaseURL,
		maillage.WithCache(store, cfg.CacheTTL),
		maillage.WithRateLimit(cfg.OutboundRPS),
		maillage.WithHTTPClient(httpClient),
	)
	dataClient := dataapi.NewClient(cfg.DataAPIBaseURL,
		dataapi.WithRateLimit(cfg.OutboundRPS),
		dataapi.WithHTTPClient(httpClient),
	)
	authClient := auth.NewClient(cfg.AuthBaseURL,
		auth.WithHTTPClient(httpClient),
	)

	mapView := usecase.NewMapViewUseCase(geoClient, dataClient)
	sessions := usecase.NewSessionManager(mapView)
	panel := usecase.NewPanelUseCase(dataClient)

	r := gin.Default()
	handler.RegisterRoutes(r,
		handler.NewMapHandler(mapView, geoClient),
		handler.NewSessionHandler(sessions),
		handler.NewPanelHandler(panel, dataClient),
		handler.NewAuthHandler(authClient),
	)

	addr := ":" + cfg.Port
	log.Info("démarrage du serveur", "addr", addr,
		"maillage", cfg.MaillageBaseURL, "data", cfg.DataAPIBaseURL)
	if err := r.Run(addr); err != nil {
		log.Error("arrêt du serveur", "err", err)
		os.Exit(1)
	}
}
