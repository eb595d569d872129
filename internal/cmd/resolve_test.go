package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestResolveCommandCreatesTaskAgainstDemoStore(t *testing.T) {
	root := NewRootCommand()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"resolve", "--config", "does-not-exist.yaml", "--goal-type", "collect_wood"})

	if err := root.Execute(); err != nil {
		t.Fatalf("resolve command returned error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "outcome: created") {
		t.Errorf("expected a freshly created task against an empty store, got: %s", out)
	}
	if !strings.Contains(out, "goal:") {
		t.Errorf("expected the created task's goal binding to be printed, got: %s", out)
	}
}

func TestResolveCommandDefaultFlags(t *testing.T) {
	cmd := NewResolveCommand()
	if cmd.Use != "resolve" {
		t.Errorf("expected Use 'resolve', got %q", cmd.Use)
	}
	flag := cmd.Flags().Lookup("goal-type")
	if flag == nil || flag.DefValue != "collect_wood" {
		t.Errorf("expected default goal-type 'collect_wood', got %v", flag)
	}
}
