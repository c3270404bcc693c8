package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"relief-router/internal/server"
)

// App runs the dashboard server behind a desktop window
type App struct {
	ctx    context.Context
	server *server.Server
	url    string
}

// NewApp starts the HTTP server on a random local port
func NewApp() *App {
	cfg, err := server.LoadConfig("127.0.0.1:0")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	addr, err := srv.Start()
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Printf("Dashboard server running at http://%s", addr)
	return &App{server: srv, url: fmt.Sprintf("http://%s", addr)}
}

// DashboardURL returns the address of the embedded dashboard server
func (a *App) DashboardURL() string {
	return a.url
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	go func() {
		runtime.WindowExecJS(ctx, fmt.Sprintf(`window.location.href = "%s"`, a.DashboardURL()))
	}()
}

func (a *App) shutdown(ctx context.Context) {
	if a.server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}
}
