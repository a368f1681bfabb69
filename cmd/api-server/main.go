package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"watchhub/internal/anilist"
	"watchhub/internal/dataset"
	"watchhub/internal/guide"
	"watchhub/internal/metrics"
	"watchhub/internal/session"
	"watchhub/pkg/utils"
)

func main() {
	cfg := utils.LoadServerConfig()
	metrics.MustRegister()

	router := gin.Default()

	// Optional: avoid “trusted all proxies” warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	// Start the notification hub first (so you notice binding errors early)
	hub := session.NewHub()
	tcpSrv := session.NewServer(cfg.TCPAddr, hub)

	cache := dataset.NewCache(dataset.NewClient(cfg.DatasetURL, cfg.FetchTimeout))
	meta := anilist.NewClient(cfg.AnilistURL, cfg.AnilistToken)
	svc := guide.NewService(cache, meta)
	store := session.NewStore(svc, hub)

	router.GET("/ws", session.WSHandler(hub, store))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "dataset": cfg.DatasetURL})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if _, err := cache.GetOrFetch(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":        "not_ready",
				"dataset_error": err.Error(),
				"tcp_clients":   stats.TCPClients,
				"ws_clients":    stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"series":      cache.Len(),
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	router.GET("/debug", func(c *gin.Context) {
		stats := hub.Stats()
		c.JSON(http.StatusOK, gin.H{
			"dataset_url":    cfg.DatasetURL,
			"dataset_cached": cache.Cached(),
			"series":         cache.Len(),
			"anilist_url":    cfg.AnilistURL,
			"tcp_clients":    stats.TCPClients,
			"ws_clients":     stats.WSClients,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Watch orders (public)
	guideHandler := guide.NewHandler(svc)
	guideHandler.RegisterRoutes(router.Group(""))

	// Session (single shared viewing session)
	sessionHandler := session.NewHandler(store)
	sessionHandler.RegisterRoutes(router.Group("/session"))

	httpSrv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("HTTP API server listening on %s", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	if err := tcpSrv.Close(); err != nil {
		log.Printf("tcp shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("servers stopped")
}
