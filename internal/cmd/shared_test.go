package cmd

import (
	"bytes"
	"testing"
)

func TestNewAppDefaultsWhenConfigFileMissing(t *testing.T) {
	configPath = "does-not-exist.yaml"
	logLevel = ""
	defer func() {
		configPath = "agentcore.yaml"
		logLevel = "info"
	}()

	var buf bytes.Buffer
	a, err := newApp(&buf)
	if err != nil {
		t.Fatalf("newApp returned error: %v", err)
	}
	if a == nil {
		t.Fatal("expected a non-nil app")
	}
	if a.Config.LogLevel != "info" {
		t.Errorf("expected default log level 'info', got %q", a.Config.LogLevel)
	}
}

func TestNewAppLogLevelFlagOverridesConfig(t *testing.T) {
	configPath = "does-not-exist.yaml"
	logLevel = "debug"
	defer func() {
		configPath = "agentcore.yaml"
		logLevel = "info"
	}()

	var buf bytes.Buffer
	a, err := newApp(&buf)
	if err != nil {
		t.Fatalf("newApp returned error: %v", err)
	}
	if a.Config.LogLevel != "debug" {
		t.Errorf("expected --log-level override to win, got %q", a.Config.LogLevel)
	}
}

func TestNewAppRejectsInvalidLogLevel(t *testing.T) {
	configPath = "does-not-exist.yaml"
	logLevel = "deafening"
	defer func() {
		configPath = "agentcore.yaml"
		logLevel = "info"
	}()

	var buf bytes.Buffer
	_, err := newApp(&buf)
	if err == nil {
		t.Fatal("expected an error for an invalid log level, none returned")
	}
}
