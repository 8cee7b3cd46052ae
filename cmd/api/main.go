package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"research-chat/analyzer"
	"research-chat/cmd/api/auth"
	"research-chat/cmd/api/clients/analysisclient"
	"research-chat/cmd/api/clients/retrievalclient"
	"research-chat/cmd/api/handlers"
	"research-chat/cmd/api/router"
	apisvc "research-chat/cmd/api/services"
	"research-chat/config"
	"research-chat/db"
	"research-chat/eventbus"
	"research-chat/internal/logger"
	"research-chat/repositories"
	"research-chat/services"
)

// @title           Research Chat API
// @version         1.0
// @description     Chat sessions over clinical research retrieval and analysis
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:           "api",
		Short:         "Serve the research chat HTTP API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadApp(configPath)
			if err != nil {
				logger.Log.Errorf("failed to load config: %v", err)
				return err
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			logger.InitFromConfig(cfg.Logging.Level)
			logger.SetServiceName(cmd.Name())

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to config.yaml (default: searched upward from the working directory)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "override logging.level")
	return cmd
}

func run(ctx context.Context, cfg *config.AppConfig) error {
	deps := services.Dependencies{
		Retriever: retrievalclient.New(cfg.Retrieval.BaseURL, cfg.Retrieval.Timeout),
	}
	var (
		templates services.TemplateStore
		storage   handlers.Pinger
	)

	switch cfg.Storage.Backend {
	case "memory":
		mem := repositories.NewMemoryStore()
		deps.Sessions = mem
		deps.Recorder = mem
		templates = mem
		logger.Log.Warn("using in-memory storage; sessions, templates and call logs are lost on restart")
	default:
		if err := db.Init(ctx, cfg.Mongo); err != nil {
			logger.Log.Errorf("failed to initialize MongoDB: %v", err)
			return err
		}
		defer db.Disconnect(context.Background())
		deps.Sessions = repositories.NewSessionRepository(db.Database())
		deps.Recorder = repositories.NewCallLogRepository(db.Database())
		templates = repositories.NewTemplateRepository(db.Database())
		storage = db.Pinger{}
	}

	switch cfg.Analysis.Provider {
	case "gemini":
		a, err := analyzer.NewGeminiAnalyzer(ctx, cfg.Analysis.GeminiAPIKey, cfg.Analysis.GeminiModel)
		if err != nil {
			logger.Log.Errorf("failed to create gemini analyzer: %v", err)
			return err
		}
		deps.Analyzer = a
		deps.SampleCases = a
	default:
		c := analysisclient.New(cfg.Analysis.BaseURL, cfg.Analysis.Timeout)
		deps.Analyzer = c
		deps.SampleCases = c
	}

	if cfg.Events.Enabled {
		topic := eventbus.ChatTopic(cfg.Events.Topic)
		if err := eventbus.EnsureTopics(ctx, cfg.Events.Brokers, topic, 3); err != nil {
			logger.Log.Errorf("failed to ensure eventbus topics: %v", err)
		}
		bus, err := eventbus.NewKafkaEventBus(cfg.Events.Brokers)
		if err != nil {
			logger.Log.Errorf("failed to create event bus: %v", err)
			return err
		}
		defer bus.Close()
		deps.Publisher = eventbus.NewChatEventPublisher(bus, topic)
	}

	var jwtManager *auth.JWTManager
	if cfg.Auth.Enabled {
		m, err := auth.NewJWTManager(cfg.Auth.Secret, cfg.Auth.Issuer)
		if err != nil {
			return err
		}
		jwtManager = m
	} else {
		logger.Log.Warnf("auth disabled; callers are identified by the %s header", "X-User-Id")
	}

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	templateSvc := services.NewTemplateService(templates)
	engine := router.New(router.Deps{
		Chat:      apisvc.NewChatService(services.NewRegistry(deps), templateSvc),
		Templates: apisvc.NewTemplateService(templateSvc),
		JWT:       jwtManager,
		Storage:   storage,
	})

	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-User-Id", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id", "X-Span-Id"},
		AllowCredentials: true,
	}).Handler(engine)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.InfoWithFields("starting api server", logger.Fields{
			"addr":     cfg.Server.Addr,
			"storage":  cfg.Storage.Backend,
			"analysis": cfg.Analysis.Provider,
			"events":   cfg.Events.Enabled,
			"auth":     cfg.Auth.Enabled,
		})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Errorf("api server failed: %v", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	// SSE 스트림과 진행 중인 제출이 마무리될 시간을 준다.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorf("api server shutdown: %v", err)
		return err
	}
	logger.Log.Info("api server stopped")
	return nil
}
