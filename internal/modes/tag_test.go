package modes

import (
	"strings"
	"testing"

	"github.com/duyet/duyetbot-agent-sub001/internal/github"
)

func TestTagShouldTrigger(t *testing.T) {
	repo := github.Repository{Owner: "duyet", Name: "playground", FullName: "duyet/playground"}

	tests := []struct {
		name        string
		ev          *github.Context
		shouldMatch bool
	}{
		{
			name: "trigger phrase in comment body",
			ev: &github.Context{
				EventName:      github.EventIssueComment,
				Repository:     repo,
				EntityNumber:   1,
				TriggerComment: &github.Comment{Body: "hey @duyetbot take a look"},
			},
			shouldMatch: true,
		},
		{
			name: "trigger phrase in issue body",
			ev: &github.Context{
				EventName:    github.EventIssues,
				EventAction:  github.ActionEdited,
				Repository:   repo,
				EntityNumber: 2,
				Issue:        &github.Issue{Number: 2, Title: "Refactor", Body: "@duyetbot handle this one"},
			},
			shouldMatch: true,
		},
		{
			name: "trigger phrase in issue title",
			ev: &github.Context{
				EventName:    github.EventIssues,
				EventAction:  github.ActionEdited,
				Repository:   repo,
				EntityNumber: 3,
				Issue:        &github.Issue{Number: 3, Title: "@duyetbot fix CI"},
			},
			shouldMatch: true,
		},
		{
			name: "custom trigger phrase",
			ev: &github.Context{
				EventName:      github.EventIssueComment,
				Repository:     repo,
				EntityNumber:   4,
				TriggerComment: &github.Comment{Body: "/bot do it"},
				Inputs:         map[string]string{"triggerPhrase": "/bot"},
			},
			shouldMatch: true,
		},
		{
			name: "assignee trigger match",
			ev: &github.Context{
				EventName:    github.EventIssues,
				EventAction:  github.ActionAssigned,
				Repository:   repo,
				EntityNumber: 5,
				Issue:        &github.Issue{Number: 5, Title: "Chore", Assignees: []string{"duyetbot"}},
				Inputs:       map[string]string{"assigneeTrigger": "@duyetbot"},
			},
			shouldMatch: true,
		},
		{
			name: "label trigger match",
			ev: &github.Context{
				EventName:    github.EventIssues,
				EventAction:  github.ActionLabeled,
				Repository:   repo,
				EntityNumber: 6,
				Issue:        &github.Issue{Number: 6, Title: "Chore", Labels: []string{"bot-fix"}},
				Inputs:       map[string]string{"labelTrigger": "bot-fix"},
			},
			shouldMatch: true,
		},
		{
			name: "no entity number",
			ev: &github.Context{
				EventName:      github.EventWorkflowDispatch,
				Repository:     repo,
				TriggerComment: &github.Comment{Body: "@duyetbot hi"},
			},
			shouldMatch: false,
		},
		{
			name: "comment without phrase",
			ev: &github.Context{
				EventName:      github.EventIssueComment,
				Repository:     repo,
				EntityNumber:   7,
				TriggerComment: &github.Comment{Body: "just a regular comment"},
			},
			shouldMatch: false,
		},
		{
			name: "wrong assignee",
			ev: &github.Context{
				EventName:    github.EventIssues,
				EventAction:  github.ActionAssigned,
				Repository:   repo,
				EntityNumber: 8,
				Issue:        &github.Issue{Number: 8, Title: "Chore", Assignees: []string{"someone-else"}},
				Inputs:       map[string]string{"assigneeTrigger": "@duyetbot"},
			},
			shouldMatch: false,
		},
	}

	mode := &TagMode{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mode.ShouldTrigger(tt.ev); got != tt.shouldMatch {
				t.Errorf("ShouldTrigger() = %v, want %v", got, tt.shouldMatch)
			}
		})
	}
}

func TestTagGeneratePrompt(t *testing.T) {
	mode := &TagMode{}
	ev := &github.Context{
		EventName:      github.EventIssueComment,
		Repository:     github.Repository{Owner: "duyet", Name: "playground", FullName: "duyet/playground"},
		EntityNumber:   12,
		TriggerComment: &github.Comment{Body: "@duyetbot please add retries to the fetcher"},
	}

	prompt := mode.GeneratePrompt(mode.PrepareContext(ev, nil))

	if !strings.Contains(prompt, "You are duyetbot") {
		t.Error("prompt missing identity framing")
	}
	if !strings.Contains(prompt, "@duyetbot please add retries to the fetcher") {
		t.Error("prompt missing verbatim trigger comment")
	}
	if !strings.Contains(prompt, "## Instructions") {
		t.Error("prompt missing instructions section")
	}
	if mode.SystemPrompt(mode.PrepareContext(ev, nil)) != "" {
		t.Error("tag mode should defer to the default system prompt")
	}
}

func TestTagTools(t *testing.T) {
	mode := &TagMode{}
	if len(mode.AllowedTools()) == 0 {
		t.Error("tag mode should allow tools")
	}
	if len(mode.DisallowedTools()) != 0 {
		t.Error("tag mode should not disallow any tools")
	}
	if !mode.ShouldCreateTrackingComment() {
		t.Error("tag mode should create a tracking comment")
	}
}
