package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"research-chat/cmd/auditworker/handlers"
	"research-chat/config"
	"research-chat/db"
	"research-chat/eventbus"
	"research-chat/internal/logger"
	"research-chat/repositories"
)

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
		Use:           "auditworker",
		Short:         "Consume chat lifecycle events and store them in chat_events",
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
	if err := db.Init(ctx, cfg.Mongo); err != nil {
		logger.Log.Errorf("failed to initialize MongoDB: %v", err)
		return err
	}
	defer db.Disconnect(context.Background())

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

	handler := handlers.NewChatEventHandler(repositories.NewChatEventRepository(db.Database()))

	logger.InfoWithFields("starting audit worker", logger.Fields{
		"topic":    topic.Base(),
		"group_id": cfg.Events.GroupID,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return eventbus.SubscribeChatEvents(gctx, bus, cfg.Events.GroupID, topic, handler.Handle)
	})
	g.Go(func() error {
		return bus.StartRetryReinjector(gctx, cfg.Events.GroupID+"-retry", topic)
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		logger.Log.Info("audit worker stopped")
		return nil
	}
	return err
}

