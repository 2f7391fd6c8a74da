package modes

import (
	"testing"

	"github.com/duyet/duyetbot-agent-sub001/internal/github"
)

func TestPrepareContextUnprepared(t *testing.T) {
	mode := GetModeByName("agent")
	ev := &github.Context{
		EventName:  github.EventWorkflowDispatch,
		Repository: github.Repository{Owner: "duyet", Name: "playground", FullName: "duyet/playground"},
	}

	mc := mode.PrepareContext(ev, nil)

	if mc.Prepared() {
		t.Error("context must start unprepared")
	}
	if _, ok := mc.TaskID(); ok {
		t.Error("TaskID must not be readable before preparation")
	}
	if _, ok := mc.CommentID(); ok {
		t.Error("CommentID must not be readable before preparation")
	}
	if _, ok := mc.Branch(); ok {
		t.Error("Branch must not be readable before preparation")
	}
	if mc.ModeName != "agent" {
		t.Errorf("ModeName = %q, want agent", mc.ModeName)
	}
	if mc.Event != ev {
		t.Error("context must reference the originating event")
	}
}

func TestPrepareContextRoundTrip(t *testing.T) {
	mode := GetModeByName("tag")
	ev := &github.Context{
		EventName:    github.EventIssueComment,
		Repository:   github.Repository{Owner: "duyet", Name: "playground", FullName: "duyet/playground"},
		EntityNumber: 5,
	}

	partial := &PrepareResult{
		ShouldExecute: true,
		CommentID:     314,
		TaskID:        "tag-duyet-playground-1000",
		Branch: BranchInfo{
			BaseBranch:    "main",
			CurrentBranch: "main",
		},
	}

	mc := mode.PrepareContext(ev, partial)

	if !mc.Prepared() {
		t.Fatal("context with a partial result must report prepared")
	}
	if id, ok := mc.CommentID(); !ok || id != 314 {
		t.Errorf("CommentID = %d, %v; want 314, true", id, ok)
	}
	if taskID, ok := mc.TaskID(); !ok || taskID != "tag-duyet-playground-1000" {
		t.Errorf("TaskID = %q, %v; want round-tripped value", taskID, ok)
	}
	branch, ok := mc.Branch()
	if !ok {
		t.Fatal("Branch must be readable after enrichment")
	}
	if branch.BaseBranch != "main" || branch.CurrentBranch != "main" {
		t.Errorf("Branch = %+v, want base/current main", branch)
	}
	if branch.WorkBranch != "" {
		t.Errorf("WorkBranch = %q, want unset to stay unset", branch.WorkBranch)
	}
}

func TestPrepareContextParsesInputsOnce(t *testing.T) {
	mode := GetModeByName("continuous")
	ev := &github.Context{
		EventName:  github.EventSchedule,
		Repository: github.Repository{FullName: "duyet/playground"},
		Inputs:     map[string]string{"continuousMode": "true", "maxTasks": "7", "botName": "helperbot"},
	}

	mc := mode.PrepareContext(ev, nil)

	if mc.Inputs.MaxTasks != "7" {
		t.Errorf("Inputs.MaxTasks = %q, want 7", mc.Inputs.MaxTasks)
	}
	if mc.Inputs.BotName != "helperbot" {
		t.Errorf("Inputs.BotName = %q, want helperbot", mc.Inputs.BotName)
	}
	if !mc.Inputs.ContinuousMode {
		t.Error("Inputs.ContinuousMode should be parsed true")
	}
}
