package webhook

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

var errQueueFull = errors.New("queue full")

type stubDispatcher struct {
	tasks []*Task
	err   error
}

func (s *stubDispatcher) Enqueue(task *Task) error {
	if s.err != nil {
		return s.err
	}
	s.tasks = append(s.tasks, task)
	return nil
}

func postEvent(t *testing.T, h *Handler, eventType string, payload []byte, secret string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(payload))
	req.Header.Set("X-GitHub-Event", eventType)
	req.Header.Set("X-Hub-Signature-256", sign(payload, secret))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

const testSecret = "hooksecret"

func issueCommentPayload(body string) []byte {
	return []byte(`{
		"action": "created",
		"repository": {"name": "playground", "full_name": "duyet/playground", "owner": {"login": "duyet"}},
		"sender": {"login": "alice"},
		"comment": {"id": 1, "body": ` + jsonString(body) + `},
		"issue": {"number": 42, "title": "A bug", "body": "details"}
	}`)
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestHandleRejectsBadSignature(t *testing.T) {
	disp := &stubDispatcher{}
	h := NewHandler(testSecret, nil, disp, nil)

	payload := issueCommentPayload("@duyetbot hi")
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(payload))
	req.Header.Set("X-GitHub-Event", "issue_comment")
	req.Header.Set("X-Hub-Signature-256", sign(payload, "wrong"))
	rec := httptest.NewRecorder()

	h.Handle(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if len(disp.tasks) != 0 {
		t.Error("no task should be enqueued on bad signature")
	}
}

func TestHandleIgnoresUntriggeredEvent(t *testing.T) {
	disp := &stubDispatcher{}
	h := NewHandler(testSecret, nil, disp, nil)

	rec := postEvent(t, h, "issue_comment", issueCommentPayload("just chatting"), testSecret)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["status"] != "ignored" {
		t.Errorf("status field = %q, want ignored", resp["status"])
	}
	if len(disp.tasks) != 0 {
		t.Error("no task should be enqueued for untriggered events")
	}
}

func TestHandleQueuesTagTask(t *testing.T) {
	disp := &stubDispatcher{}
	// No app auth configured: preparation degrades to no tracking comment
	// but the run still queues.
	h := NewHandler(testSecret, map[string]string{"triggerPhrase": "@duyetbot"}, disp, nil)

	rec := postEvent(t, h, "issue_comment", issueCommentPayload("@duyetbot fix the parser"), testSecret)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202; body: %s", rec.Code, rec.Body.String())
	}
	if len(disp.tasks) != 1 {
		t.Fatalf("enqueued %d tasks, want 1", len(disp.tasks))
	}

	task := disp.tasks[0]
	if task.Mode != "tag" {
		t.Errorf("Mode = %q, want tag", task.Mode)
	}
	if task.Repo != "duyet/playground" {
		t.Errorf("Repo = %q", task.Repo)
	}
	if task.Number != 42 {
		t.Errorf("Number = %d, want 42", task.Number)
	}
	if task.BaseBranch != "main" {
		t.Errorf("BaseBranch = %q, want main", task.BaseBranch)
	}
	if task.Prompt == "" {
		t.Error("task prompt must be synthesized")
	}
	if task.ID == "" {
		t.Error("task id must be synthesized")
	}
	if len(task.AllowedTools) == 0 {
		t.Error("task must carry the mode's allowed tools")
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["status"] != "queued" || resp["mode"] != "tag" {
		t.Errorf("response = %v", resp)
	}
}

func TestHandleQueuesContinuousTask(t *testing.T) {
	disp := &stubDispatcher{}
	h := NewHandler(testSecret, map[string]string{"continuousMode": "true"}, disp, nil)

	payload := []byte(`{
		"repository": {"name": "playground", "full_name": "duyet/playground", "owner": {"login": "duyet"}},
		"sender": {"login": "duyet"}
	}`)
	rec := postEvent(t, h, "schedule", payload, testSecret)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202; body: %s", rec.Code, rec.Body.String())
	}
	if len(disp.tasks) != 1 {
		t.Fatalf("enqueued %d tasks, want 1", len(disp.tasks))
	}
	task := disp.tasks[0]
	if task.Mode != "continuous" {
		t.Errorf("Mode = %q, want continuous", task.Mode)
	}
	if task.Number != 0 {
		t.Errorf("Number = %d, want 0 for standalone run", task.Number)
	}
	if task.CommentID != 0 {
		t.Errorf("CommentID = %d, want 0 without entity", task.CommentID)
	}
}

func TestHandleQueueFull(t *testing.T) {
	disp := &stubDispatcher{err: errQueueFull}
	h := NewHandler(testSecret, map[string]string{"continuousMode": "true"}, disp, nil)

	payload := []byte(`{"repository": {"name": "playground", "full_name": "duyet/playground", "owner": {"login": "duyet"}}}`)
	rec := postEvent(t, h, "schedule", payload, testSecret)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestHandlePing(t *testing.T) {
	h := NewHandler(testSecret, nil, &stubDispatcher{}, nil)
	rec := postEvent(t, h, "ping", []byte(`{"zen": "Keep it logically awesome."}`), testSecret)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
