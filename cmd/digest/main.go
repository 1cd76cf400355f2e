package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/gin-gonic/gin"

	"github.com/deusflow/digest/internal/api"
	"github.com/deusflow/digest/internal/app"
	"github.com/deusflow/digest/internal/config"
	"github.com/deusflow/digest/internal/logger"
	"github.com/deusflow/digest/internal/observability"
)

func main() {
	profile := flag.String("profile", "", "reader to generate a digest for")
	list := flag.Bool("list", false, "list reader profiles and exit")
	serve := flag.Bool("serve", false, "run the HTTP API")
	export := flag.Bool("export", false, "write the digest to OUTPUT_DIR")
	plain := flag.Bool("plain", false, "print raw markdown instead of rendering it")
	flag.Parse()

	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	shutdown := observability.InitTracer(cfg)
	defer shutdown()

	svc, err := app.New(cfg, app.Deps{})
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *list:
		for _, p := range svc.Profiles() {
			fmt.Printf("%-16s %v\n", p.Name, p.Interests)
		}
	case *serve:
		err = runServer(ctx, cfg, svc)
	case *profile != "":
		err = runOnce(ctx, svc, *profile, *export, *plain)
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		logger.Error("digest failed", "error", err)
		shutdown()
		os.Exit(1)
	}
}

func runOnce(ctx context.Context, svc *app.App, name string, export, plain bool) error {
	d, err := svc.Generate(ctx, name)
	if err != nil {
		return err
	}

	out := d.Markdown
	if !plain {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err != nil {
			return fmt.Errorf("terminal renderer: %w", err)
		}
		if rendered, err := renderer.Render(d.Markdown); err == nil {
			out = rendered
		} else {
			logger.Warn("render failed, printing markdown", "error", err)
		}
	}
	fmt.Println(out)
	fmt.Printf("Generated on: %s\n", d.Timestamp())

	if export {
		rec, err := svc.Export(d)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Printf("Saved to %s\n", svc.ExportPath(rec))
	}
	return nil
}

func runServer(ctx context.Context, cfg *config.Config, svc *app.App) error {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
