package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"thrive/internal/amadeus"
	"thrive/internal/auth"
	intconfig "thrive/internal/config"
	router "thrive/internal/http"
	"thrive/internal/http/handlers"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	intconfig.ConnectDB(env)
	defer intconfig.CloseDB()

	intconfig.ConnectRedis(env)
	defer intconfig.CloseRedis()

	stripe.Key = env.StripeSecretKey

	tokens := auth.Manager{
		Secret:     []byte(env.JWTSecret),
		AccessTTL:  env.AccessTokenTTL,
		RefreshTTL: env.RefreshTokenTTL,
	}
	revoked := auth.RevocationStore{RDB: intconfig.RDB}

	var flights *amadeus.Client
	if env.AmadeusAPIKey != "" {
		flights = amadeus.New(env.AmadeusAPIKey, env.AmadeusAPISecret, env.AmadeusEnv)
	}

	handlers.Configure(handlers.Deps{
		Tokens:              tokens,
		Revoked:             revoked,
		Flights:             flights,
		StripeWebhookSecret: env.StripeWebhookSecret,
		FrontendURL:         env.FrontendURL,
	})

	r := router.NewRouter(env, tokens, revoked)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}

	log.Println("server stopped cleanly.")
}
