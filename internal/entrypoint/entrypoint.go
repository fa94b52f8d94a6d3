package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/koopstadt/impactcheck/internal/config"
	"github.com/koopstadt/impactcheck/internal/database"
	"github.com/koopstadt/impactcheck/internal/database/indicators"
	"github.com/koopstadt/impactcheck/internal/database/objectives"
	"github.com/koopstadt/impactcheck/internal/database/submissions"
	"github.com/koopstadt/impactcheck/internal/database/tags"
	"github.com/koopstadt/impactcheck/internal/database/textblocks"
	"github.com/koopstadt/impactcheck/internal/database/users"
	"github.com/koopstadt/impactcheck/internal/export"
	http_controllers "github.com/koopstadt/impactcheck/internal/http"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting ImpactCheck v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	userRepo := users.NewRepository(db.DB)

	tagRepo, err := tags.NewRepository(db.DB)
	if err != nil {
		log.Fatalf("Failed to initialize tag repository: %v", err)
	}
	objectiveRepo, err := objectives.NewRepository(db.DB)
	if err != nil {
		log.Fatalf("Failed to initialize objective repository: %v", err)
	}
	indicatorRepo, err := indicators.NewRepository(db.DB)
	if err != nil {
		log.Fatalf("Failed to initialize indicator repository: %v", err)
	}
	textBlockRepo, err := textblocks.NewRepository(db.DB)
	if err != nil {
		log.Fatalf("Failed to initialize text block repository: %v", err)
	}
	submissionRepo, err := submissions.NewRepository(db.DB)
	if err != nil {
		log.Fatalf("Failed to initialize submission repository: %v", err)
	}

	routerCfg := http_controllers.RouterConfig{
		Database:        db,
		UserResolver:    userRepo,
		UserStore:       userRepo,
		TagStore:        tagRepo,
		ObjectiveStore:  objectiveRepo,
		IndicatorStore:  indicatorRepo,
		TextBlockStore:  textBlockRepo,
		SubmissionStore: submissionRepo,
		Exporter:        export.NewTextExporter(),
		Version:         version,
	}

	router := http_controllers.NewRouter(routerCfg)

	Serve(router, cfg, nil)
}
