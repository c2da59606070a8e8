package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/zhouzirui/calm-companion/backend/internal/config"
	"github.com/zhouzirui/calm-companion/backend/internal/handler"
	"github.com/zhouzirui/calm-companion/backend/internal/service/account"
	"github.com/zhouzirui/calm-companion/backend/internal/service/chat"
	"github.com/zhouzirui/calm-companion/backend/internal/service/journal"
	"github.com/zhouzirui/calm-companion/backend/internal/service/profile"
	"github.com/zhouzirui/calm-companion/backend/internal/service/response"
	"github.com/zhouzirui/calm-companion/backend/internal/service/schedule"
	"github.com/zhouzirui/calm-companion/backend/internal/storage/kv"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	store, err := kv.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		log.Fatalf("failed to open %s storage at %s: %v", cfg.Storage.Backend, cfg.Storage.Path, err)
	}
	defer store.Close()
	log.Printf("storage backend: %s (%s)", cfg.Storage.Backend, cfg.Storage.Path)

	deps, err := buildDeps(ctx, cfg, store)
	if err != nil {
		log.Fatalf("failed to build services: %v", err)
	}
	router := handler.NewRouter(deps)

	if err := startServer(ctx, cfg.Server, router); err != nil {
		log.Printf("server error: %v", err)
		stop()
		os.Exit(1)
	}
}

// buildDeps 组装各个服务，随机源与调度器在聊天与日记之间共享
func buildDeps(ctx context.Context, cfg *config.Config, store kv.Store) (handler.Deps, error) {
	picker := schedule.NewRandPicker()
	selector, err := response.NewSelector(ctx, picker)
	if err != nil {
		return handler.Deps{}, err
	}

	var scheduler schedule.Scheduler = schedule.TimerScheduler{}
	if cfg.Companion.DelayDisabled {
		log.Println("reply delay disabled, companion replies are generated immediately")
		scheduler = schedule.Immediate{}
	}

	profiles := profile.NewStore(store)
	chatSvc := chat.NewService(profiles, selector, chat.Options{
		Scheduler: scheduler,
		Picker:    picker,
	})
	journalSvc := journal.NewService(journal.Options{
		Scheduler: scheduler,
		Picker:    picker,
	})

	return handler.Deps{
		Chat:          chatSvc,
		Journal:       journalSvc,
		Profiles:      profiles,
		Accounts:      account.NewService(store, profiles),
		AllowedOrigin: cfg.Server.AllowedOrigin,
		RecentLimit:   cfg.Companion.JournalRecentLimit,
	}, nil
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) error {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	log.Printf("CalmCompanion backend listening on %s", serverCfg.Addr)
	return runServer(ctx, srv)
}

func runServer(ctx context.Context, srv *http.Server) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		log.Println("server stopped")
		return nil
	})

	return g.Wait()
}
