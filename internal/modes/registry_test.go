package modes

import (
	"testing"

	"github.com/duyet/duyetbot-agent-sub001/internal/github"
)

func TestIsValidMode(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{name: "tag", valid: true},
		{name: "agent", valid: true},
		{name: "continuous", valid: true},
		{name: "TAG", valid: false},
		{name: "Tag", valid: false},
		{name: "tag-mode", valid: false},
		{name: "CONTINUOUS", valid: false},
		{name: "", valid: false},
		{name: "command", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidMode(tt.name); got != tt.valid {
				t.Errorf("IsValidMode(%q) = %v, want %v", tt.name, got, tt.valid)
			}
		})
	}
}

func TestGetModeByName(t *testing.T) {
	for _, name := range ValidModes() {
		mode := GetModeByName(name)
		if mode == nil {
			t.Fatalf("GetModeByName(%q) returned nil", name)
		}
		if mode.Name() != name {
			t.Errorf("GetModeByName(%q).Name() = %q", name, mode.Name())
		}
	}

	if GetModeByName("unknown") != nil {
		t.Error("GetModeByName(unknown) should return nil")
	}
}

func TestGetModeByNameReferentialStability(t *testing.T) {
	first := GetModeByName("tag")
	second := GetModeByName("tag")
	if first != second {
		t.Error("repeated GetModeByName(tag) returned different instances")
	}

	if GetModeByName("agent") == GetModeByName("tag") {
		t.Error("agent and tag must be distinct instances")
	}
}

func TestValidModesOrder(t *testing.T) {
	want := []string{"tag", "agent", "continuous"}
	got := ValidModes()
	if len(got) != len(want) {
		t.Fatalf("ValidModes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ValidModes()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGetModeDetection(t *testing.T) {
	tests := []struct {
		name     string
		ev       *github.Context
		wantMode string
	}{
		{
			name: "continuous flag alone",
			ev: &github.Context{
				EventName:  github.EventSchedule,
				Repository: github.Repository{Owner: "duyet", Name: "playground", FullName: "duyet/playground"},
				Inputs:     map[string]string{"continuousMode": "true"},
			},
			wantMode: "continuous",
		},
		{
			name: "trigger phrase comment wins over continuous flag",
			ev: &github.Context{
				EventName:    github.EventIssueComment,
				EventAction:  github.ActionCreated,
				Repository:   github.Repository{Owner: "duyet", Name: "playground", FullName: "duyet/playground"},
				EntityNumber: 42,
				TriggerComment: &github.Comment{
					Body: "@duyetbot please fix the flaky test",
				},
				Inputs: map[string]string{"continuousMode": "true"},
			},
			wantMode: "tag",
		},
		{
			name: "explicit prompt wins over continuous flag",
			ev: &github.Context{
				EventName:  github.EventSchedule,
				Repository: github.Repository{Owner: "duyet", Name: "playground", FullName: "duyet/playground"},
				Inputs:     map[string]string{"prompt": "update dependencies", "continuousMode": "true"},
			},
			wantMode: "agent",
		},
		{
			name: "issue opened resolves agent",
			ev: &github.Context{
				EventName:    github.EventIssues,
				EventAction:  github.ActionOpened,
				Repository:   github.Repository{Owner: "duyet", Name: "playground", FullName: "duyet/playground"},
				EntityNumber: 7,
				Issue:        &github.Issue{Number: 7, Title: "Bug"},
			},
			wantMode: "agent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode := GetMode(tt.ev)
			if mode == nil {
				t.Fatal("GetMode returned nil")
			}
			if mode.Name() != tt.wantMode {
				t.Errorf("GetMode() = %q, want %q", mode.Name(), tt.wantMode)
			}
		})
	}
}

func TestGetModeNoSignal(t *testing.T) {
	ev := &github.Context{
		EventName:  github.EventType("push"),
		Repository: github.Repository{Owner: "duyet", Name: "playground", FullName: "duyet/playground"},
	}
	if mode := GetMode(ev); mode != nil {
		t.Errorf("expected nil mode for untriggered event, got %q", mode.Name())
	}
}
