package resultpush

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"roundhouse/internal/config"
)

// ConfigFromServer reads push targets from PUSH_TARGETS_PATH, or from
// PUSH_TARGETS_JSON when no path is set.
func ConfigFromServer(cfg config.ServerConfig) (Config, error) {
	out := Config{
		Workers:             cfg.PushWorkers,
		RetryMax:            cfg.PushRetryMax,
		RetryBase:           cfg.PushRetryBase,
		FailureThreshold:    3,
		CircuitOpenDuration: 30 * time.Second,
		RequestTimeout:      5 * time.Second,
		DispatchBuffer:      1024,
	}
	if out.RetryMax < 0 {
		out.RetryMax = 0
	}
	raw := strings.TrimSpace(cfg.PushTargetsJSON)
	if path := strings.TrimSpace(cfg.PushTargetsPath); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read push targets %q: %w", path, err)
		}
		raw = strings.TrimSpace(string(b))
	}
	if raw == "" {
		return out, nil
	}
	targets, err := parseTargetsJSON(raw)
	if err != nil {
		return Config{}, err
	}
	out.Targets = targets
	return out, nil
}

func parseTargetsJSON(raw string) ([]PushTarget, error) {
	var targets []PushTarget
	if err := json.Unmarshal([]byte(raw), &targets); err != nil {
		return nil, fmt.Errorf("parse push targets: %w", err)
	}
	filtered := make([]PushTarget, 0, len(targets))
	for _, target := range targets {
		target.Platform = strings.ToLower(strings.TrimSpace(target.Platform))
		target.Endpoint = strings.TrimSpace(target.Endpoint)
		target.RoomID = strings.TrimSpace(target.RoomID)
		if target.Endpoint == "" || !target.Enabled {
			continue
		}
		if target.Platform != "discord" && target.Platform != "feishu" {
			return nil, fmt.Errorf("push target %s: unknown platform %q", target.Endpoint, target.Platform)
		}
		for i := range target.Events {
			target.Events[i] = strings.ToLower(strings.TrimSpace(target.Events[i]))
		}
		filtered = append(filtered, target)
	}
	return filtered, nil
}
