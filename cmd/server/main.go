package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/redis/go-redis/v9"

	"github.com/stepupauth/go-mfa-server/credential"
	"github.com/stepupauth/go-mfa-server/credential/redisrepo"
	"github.com/stepupauth/go-mfa-server/credential/repofake"
	"github.com/stepupauth/go-mfa-server/internal/config"
	"github.com/stepupauth/go-mfa-server/server"
	"github.com/stepupauth/go-mfa-server/token"
	"github.com/stepupauth/go-mfa-server/token/refresh"
	refreshredisrepo "github.com/stepupauth/go-mfa-server/token/refresh/redisrepo"
	refreshrepofake "github.com/stepupauth/go-mfa-server/token/refresh/repofake"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Printf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	repos, refreshRepo, consumed := buildStores(c)

	signer := token.NewHMACSigner(c.GetAdminAuthSecret())
	sessions := token.New(refreshRepo, signer,
		token.WithIssuer(c.GetAppName()),
		token.WithTokenExpiry(c.GetAccessTokenExpiry(), c.GetRefreshTokenExpiry()),
	)

	srv, err := server.New(c, repos, sessions, consumed)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

// buildStores wires the Redis-backed stores when REDIS_ADDR is set and falls
// back to in-memory stores for local development.
func buildStores(c config.Config) (credential.Repos, refresh.Repo, token.ConsumedAssertionCache) {
	redisAddr := c.GetRedisAddr()
	if redisAddr == "" {
		log.Printf("REDIS_ADDR not set, using in-memory stores\n")
		return credential.Repos{
			Config:      repofake.NewFakeConfigRepo(),
			Credentials: repofake.NewFakeCredentialRepo(),
			Pending:     repofake.NewFakePendingRepo(),
		}, refreshrepofake.NewFakeRefreshTokenRepo(), token.NewInMemoryConsumedCache()
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	return credential.Repos{
		Config:      redisrepo.NewConfigRepo(rdb),
		Credentials: redisrepo.NewCredentialRepo(rdb),
		Pending:     redisrepo.NewPendingRepo(rdb),
	}, refreshredisrepo.NewRedisRefreshTokenRepo(rdb, c.GetRefreshTokenExpiry()), token.NewRedisConsumedCache(rdb)
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
