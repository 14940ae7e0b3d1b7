package core

import "testing"

func TestNewTask(t *testing.T) {
	task := NewTask("cli", "brand-manager", "get-profile", map[string]any{"tenant": "acme"})

	if task.Kind != KindTask {
		t.Fatalf("expected kind task, got %s", task.Kind)
	}
	if task.ID == "" {
		t.Fatal("expected generated id")
	}
	if task.CorrelationID != "" {
		t.Errorf("task should not carry a correlation id, got %q", task.CorrelationID)
	}
	if task.Task == nil || task.Task.Action != "get-profile" {
		t.Fatalf("unexpected payload: %+v", task.Task)
	}
	if task.Result != nil || task.Error != nil {
		t.Error("only the task payload variant should be set")
	}
	if task.Action() != "get-profile" {
		t.Errorf("Action() = %q", task.Action())
	}
}

func TestMessage_ReplyResult(t *testing.T) {
	task := NewTask("cli", "analytics", "report", nil)
	res := task.ReplyResult(map[string]any{"posts": 3})

	if res.Kind != KindResult {
		t.Fatalf("expected result kind, got %s", res.Kind)
	}
	if res.CorrelationID != task.ID {
		t.Errorf("correlation id %q does not echo task id %q", res.CorrelationID, task.ID)
	}
	if res.From != "analytics" || res.To != "cli" {
		t.Errorf("sender/recipient not swapped: from=%s to=%s", res.From, res.To)
	}
	if res.Result == nil || !res.Result.Success {
		t.Fatalf("unexpected result payload: %+v", res.Result)
	}
	if res.ID == task.ID {
		t.Error("reply must have its own id")
	}
}

func TestMessage_ReplyError(t *testing.T) {
	task := NewTask("cli", "analytics", "bogus", nil)
	errMsg := task.ReplyError(CodeUnknownAction, "unknown action: bogus", false)

	if errMsg.Kind != KindError {
		t.Fatalf("expected error kind, got %s", errMsg.Kind)
	}
	if errMsg.CorrelationID != task.ID {
		t.Error("error must correlate to the task")
	}
	if errMsg.Error.Code != CodeUnknownAction || errMsg.Error.Retryable {
		t.Fatalf("unexpected error payload: %+v", errMsg.Error)
	}
}

func TestNewID_Unique(t *testing.T) {
	a := NewID()
	b := NewID()
	if a == "" || a == b {
		t.Fatalf("ids must be unique and non-empty: %q %q", a, b)
	}
}

func TestMessage_ActionOnNonTask(t *testing.T) {
	res := NewMessage("a", "b", KindResult, "x")
	if res.Action() != "" {
		t.Errorf("non-task action should be empty, got %q", res.Action())
	}
}
