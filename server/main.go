package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chattools/msgparse/server/store/linkcache"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	config := defaultConfiguration()

	cmd := &cobra.Command{
		Use:   "msgparse",
		Short: "Chat message metadata service",
		Long: "msgparse extracts mentions, emoticons and links from chat messages\n" +
			"and resolves a display title for each distinct link.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(config)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&config.HTTPAddr, "http-addr", config.HTTPAddr, "HTTP API listen address (empty to disable)")
	flags.StringVar(&config.SocketNetwork, "socket-network", config.SocketNetwork, "message socket network (unix or tcp)")
	flags.StringVar(&config.SocketAddr, "socket-addr", config.SocketAddr, "message socket address (empty to disable)")
	flags.IntVar(&config.CacheCapacity, "cache-capacity", config.CacheCapacity, "max number of cached link resolutions")
	flags.IntVar(&config.MaxURLs, "max-urls", config.MaxURLs, "max URLs resolved per message (negative for unlimited)")
	flags.IntVar(&config.MaxMessageSize, "max-message-size", config.MaxMessageSize, "inbound message size limit in bytes")
	flags.DurationVar(&config.FetchTimeout, "fetch-timeout", config.FetchTimeout, "per-URL fetch timeout")
	flags.DurationVar(&config.ResolveDeadline, "resolve-deadline", config.ResolveDeadline, "combined deadline for all link resolutions of one message")
	flags.BoolVar(&config.Debug, "debug", config.Debug, "enable debug logging")

	return cmd
}

func runServer(config *configuration) error {
	if err := config.IsValid(); err != nil {
		return err
	}

	logger, err := newLogger(config.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cache, err := linkcache.New[Link](config.CacheCapacity)
	if err != nil {
		return err
	}

	resolver := NewTitleResolver(cache, config.FetchTimeout, logger)
	processor := NewMessageProcessor(NewSymbolExtractor(), resolver, nil, config.ResolveDeadline, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var httpServer *http.Server
	if config.HTTPAddr != "" {
		httpServer = &http.Server{
			Addr:              config.HTTPAddr,
			Handler:           NewAPIHandler(processor, cache, config, logger),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("HTTP API listening", zap.String("addr", config.HTTPAddr))
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server failed", zap.Error(err))
				stop()
			}
		}()
	}

	var socketServer *SocketServer
	if config.SocketAddr != "" {
		socketServer = NewSocketServer(processor, config, logger)
		if err := socketServer.Start(); err != nil {
			return err
		}
	}

	<-ctx.Done()
	logger.Info("Shutting down")

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("HTTP shutdown failed", zap.Error(err))
		}
	}

	if socketServer != nil {
		if err := socketServer.Shutdown(); err != nil {
			logger.Warn("Socket shutdown failed", zap.Error(err))
		}
	}

	return nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}
