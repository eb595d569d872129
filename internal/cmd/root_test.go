package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewRootCommandHasName(t *testing.T) {
	cmd := NewRootCommand()
	if cmd == nil {
		t.Fatal("root command should not be nil")
	}
	if cmd.Use != "agentcore" {
		t.Errorf("expected Use 'agentcore', got %q", cmd.Use)
	}
}

func TestNewRootCommandRegistersEverySubcommand(t *testing.T) {
	cmd := NewRootCommand()
	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"resolve", "plan", "review", "events", "serve"} {
		if !names[want] {
			t.Errorf("expected subcommand %q to be registered", want)
		}
	}
}

func TestRootCommandHelpMentionsPlanningCore(t *testing.T) {
	cmd := NewRootCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	_ = cmd.Execute()

	out := buf.String()
	if !strings.Contains(strings.ToLower(out), "planning") {
		t.Errorf("help output should describe the planning core, got: %s", out)
	}
}
