// Package coreconfig loads and validates the planning core's tunables.
// Grounded directly on the teacher's internal/config.Config: a
// default-then-YAML-override-then-env-override layering, a nested
// struct per concern, and a Validate() that returns one descriptive
// fmt.Errorf per violation.
package coreconfig

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable named in the external-interfaces knob
// table.
type Config struct {
	StrictRequirements bool `yaml:"strict_requirements"`

	ContinueThreshold          float64 `yaml:"continue_threshold"`
	SatisfactionCheckThreshold float64 `yaml:"satisfaction_check_threshold"`
	ProximityMaxDistance       float64 `yaml:"proximity_max_distance"`
	ProvisionalScopeRadius     float64 `yaml:"provisional_scope_radius"`
	RecencyWindow              time.Duration `yaml:"recency_window"`
	RecencyBonus               float64 `yaml:"recency_bonus"`

	StabilityThreshold     int `yaml:"stability_threshold"`
	MaxStaleHoldsPerCycle  int `yaml:"max_stale_holds_per_cycle"`
	MaxReconsiderPerTick   int `yaml:"max_reconsider_per_tick"`
	MaxReactivatePerMinute int `yaml:"max_reactivate_per_minute"`
	ReactivationCooldown   time.Duration `yaml:"reactivation_cooldown"`

	MaxMacroDepth       int     `yaml:"max_macro_depth"`
	CostLearningRate    float64 `yaml:"cost_learning_rate"`
	FailurePenalty      float64 `yaml:"failure_penalty"`
	DefaultReplanThreshold int  `yaml:"default_replan_threshold"`

	VerifierTimeBudget time.Duration `yaml:"verifier_time_budget"`

	HoldReviewInterval    time.Duration `yaml:"hold_review_interval"`
	PeriodicReviewCadence time.Duration `yaml:"periodic_review_cadence"`

	LogLevel        string `yaml:"log_level"`
	EventRingCapacity int  `yaml:"event_ring_capacity"`
}

// DefaultConfig returns a Config populated with the spec's defaults.
func DefaultConfig() *Config {
	return &Config{
		StrictRequirements: true,

		ContinueThreshold:          0.6,
		SatisfactionCheckThreshold: 0.3,
		ProximityMaxDistance:       128,
		ProvisionalScopeRadius:     32,
		RecencyWindow:              30 * time.Minute,
		RecencyBonus:               0.1,

		StabilityThreshold:     2,
		MaxStaleHoldsPerCycle:  5,
		MaxReconsiderPerTick:   3,
		MaxReactivatePerMinute: 2,
		ReactivationCooldown:   30 * time.Second,

		MaxMacroDepth:          10,
		CostLearningRate:       0.3,
		FailurePenalty:         1.5,
		DefaultReplanThreshold: 3,

		VerifierTimeBudget: 100 * time.Millisecond,

		// Treated as two distinct knobs, not aliases of one
		// "DEFAULT_REVIEW_INTERVAL_MS": per-hold review default and the
		// periodic sweep cadence differ.
		HoldReviewInterval:    5 * time.Minute,
		PeriodicReviewCadence: 60 * time.Second,

		LogLevel:          "info",
		EventRingCapacity: 1000,
	}
}

// applyEnvOverrides applies recognized environment variables on top of
// whatever the config file (or defaults) already set. Only
// STRICT_REQUIREMENTS="false" disables strict mode; every other value,
// including unset, leaves it strict.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("STRICT_REQUIREMENTS"); val == "false" {
		cfg.StrictRequirements = false
	}
}

// Load reads configuration from path, layering YAML values over the
// defaults (only keys present in the file are overridden) and then
// environment overrides on top. A missing file yields defaults (with
// env overrides applied), not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		applyEnvOverrides(cfg)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// Validate reports the first invalid value found, with a descriptive
// message naming the offending field.
func (c *Config) Validate() error {
	if c.ContinueThreshold < 0 || c.ContinueThreshold > 1 {
		return fmt.Errorf("continue_threshold must be in [0,1], got %v", c.ContinueThreshold)
	}
	if c.SatisfactionCheckThreshold < 0 || c.SatisfactionCheckThreshold > 1 {
		return fmt.Errorf("satisfaction_check_threshold must be in [0,1], got %v", c.SatisfactionCheckThreshold)
	}
	if c.ProximityMaxDistance <= 0 {
		return fmt.Errorf("proximity_max_distance must be > 0, got %v", c.ProximityMaxDistance)
	}
	if c.ProvisionalScopeRadius <= 0 {
		return fmt.Errorf("provisional_scope_radius must be > 0, got %v", c.ProvisionalScopeRadius)
	}
	if c.StabilityThreshold <= 0 {
		return fmt.Errorf("stability_threshold must be > 0, got %d", c.StabilityThreshold)
	}
	if c.MaxStaleHoldsPerCycle <= 0 {
		return fmt.Errorf("max_stale_holds_per_cycle must be > 0, got %d", c.MaxStaleHoldsPerCycle)
	}
	if c.MaxReconsiderPerTick <= 0 {
		return fmt.Errorf("max_reconsider_per_tick must be > 0, got %d", c.MaxReconsiderPerTick)
	}
	if c.MaxReactivatePerMinute <= 0 {
		return fmt.Errorf("max_reactivate_per_minute must be > 0, got %d", c.MaxReactivatePerMinute)
	}
	if c.MaxMacroDepth <= 0 {
		return fmt.Errorf("max_macro_depth must be > 0, got %d", c.MaxMacroDepth)
	}
	if c.CostLearningRate <= 0 || c.CostLearningRate >= 1 {
		return fmt.Errorf("cost_learning_rate must be in (0,1), got %v", c.CostLearningRate)
	}
	if c.FailurePenalty <= 1 {
		return fmt.Errorf("failure_penalty must be > 1, got %v", c.FailurePenalty)
	}
	if c.DefaultReplanThreshold <= 0 {
		return fmt.Errorf("default_replan_threshold must be > 0, got %d", c.DefaultReplanThreshold)
	}
	if c.VerifierTimeBudget <= 0 {
		return fmt.Errorf("verifier_time_budget must be > 0, got %v", c.VerifierTimeBudget)
	}

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}
	if c.EventRingCapacity <= 0 {
		return fmt.Errorf("event_ring_capacity must be > 0, got %d", c.EventRingCapacity)
	}

	return nil
}
