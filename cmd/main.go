package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/duyet/duyetbot-agent-sub001/internal/config"
	"github.com/duyet/duyetbot-agent-sub001/internal/dispatcher"
	"github.com/duyet/duyetbot-agent-sub001/internal/github"
	"github.com/duyet/duyetbot-agent-sub001/internal/runner"
	"github.com/duyet/duyetbot-agent-sub001/internal/webhook"
)

var (
	loadDotEnv         = godotenv.Load
	defaultListenServe = http.ListenAndServe
)

func main() {
	if err := run(defaultListenServe); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func run(serve func(string, http.Handler) error) error {
	// Load .env file (ignore error if file doesn't exist)
	_ = loadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log.Printf("Starting duyetbot agent server...")
	log.Printf("Port: %d", cfg.Port)
	log.Printf("Bot name: %s", cfg.BotName)
	log.Printf("Trigger phrase: %s", cfg.TriggerPhrase)
	log.Printf("GitHub App ID: %s", cfg.GitHubAppID)

	appAuth := &github.AppAuth{
		AppID:      cfg.GitHubAppID,
		PrivateKey: cfg.GitHubPrivateKey,
	}

	exec := runner.New(cfg.AgentCommand)
	disp := dispatcher.New(exec, dispatcher.Config{
		Workers:           cfg.DispatcherWorkers,
		QueueSize:         cfg.DispatcherQueueSize,
		MaxAttempts:       cfg.DispatcherMaxAttempts,
		InitialBackoff:    cfg.DispatcherRetryInitial,
		BackoffMultiplier: cfg.DispatcherBackoffMultiplier,
		MaxBackoff:        cfg.DispatcherRetryMax,
	})
	defer disp.Stop()

	handler := webhook.NewHandler(cfg.GitHubWebhookSecret, cfg.ModeInputs(), disp, appAuth)

	r := mux.NewRouter()
	r.HandleFunc("/webhook", handler.Handle).Methods(http.MethodPost)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Listening on %s", addr)
	return serve(addr, r)
}
