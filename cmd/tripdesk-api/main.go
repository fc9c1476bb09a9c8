// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"tripdesk/internal/ai"
	"tripdesk/internal/config"
	httptransport "tripdesk/internal/http"
	"tripdesk/internal/infra"
	"tripdesk/internal/logger"
	"tripdesk/internal/metrics"
	"tripdesk/internal/modules/intent"
	"tripdesk/internal/modules/pdfdoc"
	"tripdesk/internal/modules/quote"
	"tripdesk/internal/modules/travelctx"
	"tripdesk/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zlog := logger.New()
	m := metrics.New("tripdesk")

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	if cfg.Supabase.URL == "" || cfg.Supabase.APIKey == "" {
		log.Fatal("TRIPDESK_SUPABASE_URL and TRIPDESK_SUPABASE_KEY are required")
	}
	supabaseClient, err := infra.NewSupabase(cfg.Supabase.URL, cfg.Supabase.APIKey)
	if err != nil {
		log.Fatalf("supabase init: %v", err)
	}

	gemini, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey)
	if err != nil {
		log.Fatalf("gemini init: %v", err)
	}
	defer gemini.Close()

	parser := &ai.ResilientProvider{
		Primary:  gemini,
		Fallback: ai.NewFallbackParser(),
		OnFallback: func(err error) {
			m.AIParseFallbacks.Inc()
			zlog.Warn("ai parse failed, using rule fallback", "error", err)
		},
	}

	contextStore := travelctx.NewCachedStore(travelctx.NewPostgresStore(dbPool), redisClient, cfg.Redis.ContextTTL)
	contexts := travelctx.NewService(contextStore, zlog)

	quotes := quote.NewService(quote.NewStore(dbPool), supabaseClient, cfg.Supabase.PdfBucket, zlog)

	planner := service.NewChatPlanner(service.ChatPlannerDeps{
		Parser:     parser,
		Classifier: intent.NewClassifier(zlog),
		Contexts:   contexts,
		Analyzer:   pdfdoc.NewAnalyzer(gemini, zlog, m),
		Quotes:     quotes,
		Log:        zlog,
		Metrics:    m,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: httptransport.NewRouter(planner, zlog)}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	zlog.Info("tripdesk api listening", "addr", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
