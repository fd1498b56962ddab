package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/subconverter-go/subconverter/internal/config"
	"github.com/subconverter-go/subconverter/internal/handler"
	"github.com/subconverter-go/subconverter/internal/ruleset"
)

const version = "0.1.0"

func main() {
	global := config.LoadGlobalSettings()

	rsFetcher := ruleset.NewFetcher(global.BasePath, global.RulesetTimeout)
	sc := handler.NewSubconverter(global, rsFetcher)

	mux := http.NewServeMux()
	mux.Handle("/sub", sc)
	mux.Handle("/surge2clash", handler.NewSurge2ClashAlias(sc))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("subconverter " + version))
			return
		}
		sc.ServeTarget(w, r)
	})

	srv := &http.Server{
		Addr:              global.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("subconverter v%s listening on %s", version, global.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server failed: %v", err)
		}
	}()

	waitForShutdown(srv)
}

func waitForShutdown(srv *http.Server) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
