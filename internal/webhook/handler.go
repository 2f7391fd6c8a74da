package webhook

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	gh "github.com/google/go-github/v66/github"

	"github.com/duyet/duyetbot-agent-sub001/internal/github"
	"github.com/duyet/duyetbot-agent-sub001/internal/modes"
)

// Task is one prepared automation run handed to the dispatcher. All the
// decision work (mode resolution, preparation, prompt synthesis) is done by
// the time a Task exists; the executor only has to run it.
type Task struct {
	ID              string
	Mode            string
	Repo            string
	Number          int
	BaseBranch      string
	CommentID       int64
	Prompt          string
	SystemPrompt    string
	AllowedTools    []string
	DisallowedTools []string
	Username        string
	Token           string
	Attempt         int
}

// TaskDispatcher enqueues tasks for asynchronous execution
type TaskDispatcher interface {
	Enqueue(task *Task) error
}

// Handler handles GitHub webhook events
type Handler struct {
	webhookSecret string
	inputs        map[string]string
	dispatcher    TaskDispatcher
	appAuth       github.AuthProvider

	// newClient is swappable for tests.
	newClient func(token string) *gh.Client
}

// NewHandler creates a new webhook handler. inputs is the configured flat
// input map attached to every parsed event descriptor.
func NewHandler(webhookSecret string, inputs map[string]string, dispatcher TaskDispatcher, appAuth github.AuthProvider) *Handler {
	return &Handler{
		webhookSecret: webhookSecret,
		inputs:        inputs,
		dispatcher:    dispatcher,
		appAuth:       appAuth,
		newClient:     github.NewTokenClient,
	}
}

// Handle handles GitHub webhook events: verify, parse, resolve mode,
// prepare, enqueue.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("Error reading payload: %v", err)
		http.Error(w, "Error reading payload", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get("X-Hub-Signature-256")
	if err := ValidateSignatureHeader(signature); err != nil {
		log.Printf("Invalid signature header: %v", err)
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}
	if !VerifySignature(payload, signature, h.webhookSecret) {
		log.Printf("Signature verification failed")
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	eventType := r.Header.Get("X-GitHub-Event")
	if eventType == "ping" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "pong"})
		return
	}

	ev, err := github.ParseWebhookEvent(eventType, payload)
	if err != nil {
		log.Printf("Failed to parse %s event: %v", eventType, err)
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}
	ev.Inputs = h.inputs
	ev.RunID = strconv.FormatInt(time.Now().UnixNano(), 10)

	mode := modes.GetMode(ev)
	if mode == nil {
		// No trigger signal; not an error.
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}
	log.Printf("Resolved mode %q for %s event on %s", mode.Name(), eventType, ev.GetRepositoryFullName())

	var (
		client *gh.Client
		token  string
	)
	if h.appAuth != nil {
		installation, err := h.appAuth.GetInstallationToken(ev.GetRepositoryFullName())
		if err != nil {
			log.Printf("Failed to get installation token: %v", err)
			http.Error(w, "Authentication failed", http.StatusInternalServerError)
			return
		}
		token = installation.Token
		client = h.newClient(token)
	}

	result, err := mode.Prepare(r.Context(), modes.PrepareOptions{
		Event:  ev,
		Client: client,
		Token:  token,
	})
	if err != nil {
		log.Printf("Failed to prepare via mode %q: %v", mode.Name(), err)
		http.Error(w, "Preparation failed", http.StatusInternalServerError)
		return
	}
	if !result.ShouldExecute {
		writeJSON(w, http.StatusOK, map[string]string{"status": "skipped", "task_id": result.TaskID})
		return
	}

	mc := mode.PrepareContext(ev, result)
	task := &Task{
		ID:              result.TaskID,
		Mode:            mode.Name(),
		Repo:            ev.GetRepositoryFullName(),
		Number:          ev.EntityNumber,
		BaseBranch:      result.Branch.BaseBranch,
		CommentID:       result.CommentID,
		Prompt:          mode.GeneratePrompt(mc),
		SystemPrompt:    mode.SystemPrompt(mc),
		AllowedTools:    mode.AllowedTools(),
		DisallowedTools: mode.DisallowedTools(),
		Username:        ev.TriggerUser,
		Token:           token,
	}

	if err := h.dispatcher.Enqueue(task); err != nil {
		log.Printf("Failed to enqueue task %s: %v", task.ID, err)
		http.Error(w, "Queue full", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":  "queued",
		"task_id": task.ID,
		"mode":    task.Mode,
	})
}

func writeJSON(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
