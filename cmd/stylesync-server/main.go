package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Hammadullah2/StyleSync/internal/api"
	"github.com/Hammadullah2/StyleSync/internal/audit"
	"github.com/Hammadullah2/StyleSync/internal/catalog"
	"github.com/Hammadullah2/StyleSync/internal/chat"
	"github.com/Hammadullah2/StyleSync/internal/guardrails"
	"github.com/Hammadullah2/StyleSync/internal/llm"
	"github.com/Hammadullah2/StyleSync/internal/metrics"
	"github.com/Hammadullah2/StyleSync/internal/rules"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	_ = godotenv.Load() // optional .env for local development

	logger := mustBuildLogger(envOrDefault("STYLESYNC_LOG_LEVEL", "info"))
	defer logger.Sync() //nolint:errcheck // best-effort flush

	// Config from env
	httpPort := envOrDefault("STYLESYNC_HTTP_PORT", "8080")
	eventLogPath := envOrDefault("STYLESYNC_EVENT_LOG", "logs/guardrails.log")
	clickhouseDSN := os.Getenv("CLICKHOUSE_DSN")
	policyPath := os.Getenv("STYLESYNC_POLICY_FILE")
	catalogPath := os.Getenv("STYLESYNC_CATALOG_CSV")
	apiKey := os.Getenv("STYLESYNC_API_KEY")
	awsRegion := os.Getenv("AWS_REGION")
	modelID := envOrDefault("STYLESYNC_MODEL_ID", "anthropic.claude-3-haiku-20240307-v1:0")
	topK := envOrDefaultInt("STYLESYNC_TOP_K", 3)

	logger.Info("starting stylesync server",
		zap.String("http_port", httpPort),
		zap.String("event_log", eventLogPath),
		zap.String("model_id", modelID),
		zap.Int("top_k", topK),
	)

	// Rule table — constructed once, immutable, injected into both guardrails.
	table := rules.DefaultTable()
	if policyPath != "" {
		policy, err := rules.LoadPolicy(policyPath)
		if err != nil {
			logger.Fatal("failed to load severity policy", zap.Error(err))
		}
		table = table.WithPolicy(policy)
		logger.Info("severity policy applied", zap.String("path", policyPath))
	}

	// Audit sink — ClickHouse, JSONL file, or LogWriter fallback.
	var writer audit.EventWriter
	var statsFn func() audit.Stats
	if clickhouseDSN != "" {
		chWriter, err := audit.NewClickHouseWriter(clickhouseDSN, logger)
		if err != nil {
			logger.Fatal("clickhouse connection failed", zap.Error(err))
		}
		writer = chWriter
		logger.Info("clickhouse event writer connected")

		reader, err := audit.NewStatsReader(clickhouseDSN, logger)
		if err != nil {
			logger.Warn("clickhouse stats reader connection failed", zap.Error(err))
			statsFn = func() audit.Stats { return audit.FileStats(eventLogPath) }
		} else {
			defer func() { _ = reader.Close() }()
			statsFn = func() audit.Stats {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return reader.Stats(ctx)
			}
		}
	} else if eventLogPath != "" {
		fileWriter, err := audit.NewFileWriter(eventLogPath, logger)
		if err != nil {
			logger.Fatal("failed to open event log", zap.Error(err))
		}
		writer = fileWriter
		statsFn = func() audit.Stats { return audit.FileStats(eventLogPath) }
	} else {
		writer = audit.NewLogWriter(logger)
		statsFn = func() audit.Stats { return audit.FileStats("") }
		logger.Info("no durable event sink configured, using log writer")
	}
	defer writer.Close()

	auditLog := audit.NewLogger(writer, logger)

	// Guardrails + metrics
	input := guardrails.NewInputGuardrails(table, auditLog)
	output := guardrails.NewOutputGuardrails(table, auditLog)
	registry := metrics.NewRegistry()

	// Catalog retriever
	var products []catalog.Product
	if catalogPath != "" {
		var err error
		products, err = catalog.LoadCSV(catalogPath)
		if err != nil {
			logger.Fatal("failed to load catalog", zap.Error(err))
		}
		logger.Info("catalog loaded", zap.Int("products", len(products)))
	} else {
		logger.Warn("no STYLESYNC_CATALOG_CSV set, retrieval will return nothing")
	}
	retriever := catalog.NewKeywordRetriever(products)

	// Generator — Bedrock when AWS is configured, static fallback otherwise.
	var generator llm.Generator
	if awsRegion != "" {
		bedrockGen, err := llm.NewBedrockGenerator(context.Background(), awsRegion, modelID)
		if err != nil {
			logger.Fatal("failed to create bedrock generator", zap.Error(err))
		}
		generator = bedrockGen
		logger.Info("bedrock generator enabled",
			zap.String("region", awsRegion),
			zap.String("model_id", modelID),
		)
	} else {
		generator = llm.NewStaticGenerator()
		logger.Info("no AWS_REGION set, using static generator")
	}

	orchestrator := chat.NewOrchestrator(chat.Config{
		Input:     input,
		Output:    output,
		Retriever: retriever,
		Generator: generator,
		Metrics:   registry,
		Logger:    logger,
		Model:     modelID,
		TopK:      topK,
	})

	deps := &api.Dependencies{
		Orchestrator: orchestrator,
		Metrics:      registry,
		Stats:        statsFn,
		Logger:       logger,
		APIKey:       apiKey,
	}
	httpServer := &http.Server{
		Addr:         ":" + httpPort,
		Handler:      api.NewRouter(deps),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	// Block until shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", zap.String("signal", sig.String()))

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", zap.Error(err))
	}

	logger.Info("stylesync server stopped")
}

func mustBuildLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to build logger: %v", err))
	}
	return logger
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
