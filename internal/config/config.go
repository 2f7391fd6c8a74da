package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the duyetbot agent service
type Config struct {
	// Server settings
	Port int

	// GitHub App settings
	GitHubAppID         string
	GitHubPrivateKey    string
	GitHubWebhookSecret string

	// Bot identity
	BotName       string
	TriggerPhrase string

	// Mode inputs forwarded to the event descriptor
	AssigneeTrigger   string
	LabelTrigger      string
	Prompt            string
	BaseBranch        string
	ContinuousMode    string
	MaxTasks          string
	TaskSource        string
	AutoMerge         string
	CloseIssues       string
	DelayBetweenTasks string

	// Downstream agent command (executed per prepared task)
	AgentCommand string

	// Dispatcher settings
	DispatcherWorkers           int
	DispatcherQueueSize         int
	DispatcherMaxAttempts       int
	DispatcherRetryInitial      time.Duration
	DispatcherRetryMax          time.Duration
	DispatcherBackoffMultiplier float64
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	privateKey := normalizePrivateKey(os.Getenv("GITHUB_PRIVATE_KEY"))

	cfg := &Config{
		Port:                        getEnvInt("PORT", 8000),
		GitHubAppID:                 os.Getenv("GITHUB_APP_ID"),
		GitHubPrivateKey:            privateKey,
		GitHubWebhookSecret:         os.Getenv("GITHUB_WEBHOOK_SECRET"),
		BotName:                     getEnv("BOT_NAME", DefaultBotName),
		TriggerPhrase:               getEnv("TRIGGER_PHRASE", DefaultTriggerPhrase),
		AssigneeTrigger:             os.Getenv("ASSIGNEE_TRIGGER"),
		LabelTrigger:                os.Getenv("LABEL_TRIGGER"),
		Prompt:                      os.Getenv("PROMPT"),
		BaseBranch:                  os.Getenv("BASE_BRANCH"),
		ContinuousMode:              os.Getenv("CONTINUOUS_MODE"),
		MaxTasks:                    os.Getenv("MAX_TASKS"),
		TaskSource:                  os.Getenv("TASK_SOURCE"),
		AutoMerge:                   os.Getenv("AUTO_MERGE"),
		CloseIssues:                 os.Getenv("CLOSE_ISSUES"),
		DelayBetweenTasks:           os.Getenv("DELAY_BETWEEN_TASKS"),
		AgentCommand:                getEnv("AGENT_COMMAND", "claude"),
		DispatcherWorkers:           getEnvInt("DISPATCHER_WORKERS", 4),
		DispatcherQueueSize:         getEnvInt("DISPATCHER_QUEUE_SIZE", 16),
		DispatcherMaxAttempts:       getEnvInt("DISPATCHER_MAX_ATTEMPTS", 3),
		DispatcherRetryInitial:      time.Duration(getEnvInt("DISPATCHER_RETRY_SECONDS", 15)) * time.Second,
		DispatcherRetryMax:          time.Duration(getEnvInt("DISPATCHER_RETRY_MAX_SECONDS", 300)) * time.Second,
		DispatcherBackoffMultiplier: getEnvFloat("DISPATCHER_BACKOFF_MULTIPLIER", 2.0),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ModeInputs builds the flat string-keyed input map attached to every event
// descriptor. Unset values stay empty strings so the typed-inputs boundary
// applies its own defaults.
func (c *Config) ModeInputs() map[string]string {
	return map[string]string{
		InputTriggerPhrase:     c.TriggerPhrase,
		InputAssigneeTrigger:   c.AssigneeTrigger,
		InputLabelTrigger:      c.LabelTrigger,
		InputPrompt:            c.Prompt,
		InputBotName:           c.BotName,
		InputBaseBranch:        c.BaseBranch,
		InputContinuousMode:    c.ContinuousMode,
		InputMaxTasks:          c.MaxTasks,
		InputTaskSource:        c.TaskSource,
		InputAutoMerge:         c.AutoMerge,
		InputCloseIssues:       c.CloseIssues,
		InputDelayBetweenTasks: c.DelayBetweenTasks,
	}
}

func normalizePrivateKey(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}

	if strings.HasPrefix(trimmed, "\"") && strings.HasSuffix(trimmed, "\"") {
		trimmed = strings.TrimPrefix(trimmed, "\"")
		trimmed = strings.TrimSuffix(trimmed, "\"")
	}
	if strings.HasPrefix(trimmed, "'") && strings.HasSuffix(trimmed, "'") {
		trimmed = strings.TrimPrefix(trimmed, "'")
		trimmed = strings.TrimSuffix(trimmed, "'")
	}

	trimmed = strings.ReplaceAll(trimmed, "\r\n", "\n")
	trimmed = strings.ReplaceAll(trimmed, "\r", "\n")
	if strings.Contains(trimmed, "\\n") {
		trimmed = strings.ReplaceAll(trimmed, "\\r", "")
		trimmed = strings.ReplaceAll(trimmed, "\\n", "\n")
	}

	return trimmed
}

// validate checks that all required configuration is present
func (c *Config) validate() error {
	if c.GitHubAppID == "" {
		return fmt.Errorf("GITHUB_APP_ID is required")
	}
	if c.GitHubPrivateKey == "" {
		return fmt.Errorf("GITHUB_PRIVATE_KEY is required")
	}
	if c.GitHubWebhookSecret == "" {
		return fmt.Errorf("GITHUB_WEBHOOK_SECRET is required")
	}

	c.applyDispatcherDefaults()
	return c.validateDispatcherConfig()
}

func (c *Config) applyDispatcherDefaults() {
	if c.DispatcherWorkers <= 0 {
		c.DispatcherWorkers = 4
	}
	if c.DispatcherQueueSize <= 0 {
		c.DispatcherQueueSize = 16
	}
	if c.DispatcherMaxAttempts <= 0 {
		c.DispatcherMaxAttempts = 3
	}
	if c.DispatcherRetryInitial <= 0 {
		c.DispatcherRetryInitial = 15 * time.Second
	}
	if c.DispatcherRetryMax <= 0 {
		c.DispatcherRetryMax = 5 * time.Minute
	}
	if c.DispatcherBackoffMultiplier < 1 {
		c.DispatcherBackoffMultiplier = 2
	}
}

func (c *Config) validateDispatcherConfig() error {
	if c.DispatcherRetryMax < c.DispatcherRetryInitial {
		return fmt.Errorf("DISPATCHER_RETRY_MAX_SECONDS must be >= DISPATCHER_RETRY_SECONDS")
	}
	return nil
}

// getEnv gets environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets environment variable as int with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
