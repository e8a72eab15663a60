package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/repgate/repgate/internal/engine"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}
	return path
}

func TestLoadTuningConfigOverrides(t *testing.T) {
	path := writeConfig(t, "tuning.json", `{
		"calibration_hold": "2s",
		"pushup_high_deg": 145,
		"pushup_debounce": "250ms",
		"squat_low_deg": 115,
		"plank_rep_quantum": "30s"
	}`)

	cfg, err := LoadTuningConfig(path)
	if err != nil {
		t.Fatalf("LoadTuningConfig: %v", err)
	}

	pu := cfg.PushUpConfig()
	if pu.Machine.HighThresholdDeg != 145 {
		t.Errorf("pushup high = %v, want 145", pu.Machine.HighThresholdDeg)
	}
	if pu.Machine.Debounce != 250*time.Millisecond {
		t.Errorf("pushup debounce = %v, want 250ms", pu.Machine.Debounce)
	}
	if pu.Machine.CalibrationHold != 2*time.Second {
		t.Errorf("calibration hold = %v, want 2s", pu.Machine.CalibrationHold)
	}
	// Unset fields keep engine defaults.
	if pu.Machine.LowThresholdDeg != engine.DefaultPushUpLowDeg {
		t.Errorf("pushup low = %v, want default %v",
			pu.Machine.LowThresholdDeg, engine.DefaultPushUpLowDeg)
	}

	sq := cfg.SquatConfig()
	if sq.Machine.LowThresholdDeg != 115 {
		t.Errorf("squat low = %v, want 115", sq.Machine.LowThresholdDeg)
	}
	if sq.Machine.HighThresholdDeg != engine.DefaultSquatHighDeg {
		t.Errorf("squat high = %v, want default %v",
			sq.Machine.HighThresholdDeg, engine.DefaultSquatHighDeg)
	}

	pl := cfg.PlankConfig()
	if pl.Machine.RepQuantum != 30*time.Second {
		t.Errorf("plank quantum = %v, want 30s", pl.Machine.RepQuantum)
	}
	if pl.AlignmentTolerance != engine.DefaultPlankAlignmentTolerance {
		t.Errorf("plank tolerance = %v, want default %v",
			pl.AlignmentTolerance, engine.DefaultPlankAlignmentTolerance)
	}
}

func TestEmptyTuningConfigMatchesEngineDefaults(t *testing.T) {
	cfg := EmptyTuningConfig()
	if got, want := cfg.PushUpConfig(), engine.DefaultPushUpConfig(); got != want {
		t.Errorf("empty pushup config = %+v, want %+v", got, want)
	}
	if got, want := cfg.SquatConfig(), engine.DefaultSquatConfig(); got != want {
		t.Errorf("empty squat config = %+v, want %+v", got, want)
	}
	if got, want := cfg.PlankConfig(), engine.DefaultPlankConfig(); got != want {
		t.Errorf("empty plank config = %+v, want %+v", got, want)
	}
}

func TestLoadTuningConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"wrong extension", "tuning.yaml", `{}`},
		{"invalid JSON", "tuning.json", `{`},
		{"bad duration", "tuning.json", `{"pushup_debounce": "fast"}`},
		{"inverted thresholds", "tuning.json", `{"pushup_high_deg": 100, "pushup_low_deg": 130}`},
		{"bad tolerance", "tuning.json", `{"plank_alignment_tolerance": 1.5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.content)
			if _, err := LoadTuningConfig(path); err == nil {
				t.Error("expected an error")
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadTuningConfig(filepath.Join(t.TempDir(), "nope.json")); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestCheckedInDefaultsFileMatchesEngine(t *testing.T) {
	cfg, err := LoadTuningConfig(filepath.Join("..", "..", DefaultConfigPath))
	if err != nil {
		t.Fatalf("loading checked-in defaults: %v", err)
	}
	if got, want := cfg.PushUpConfig(), engine.DefaultPushUpConfig(); got != want {
		t.Errorf("defaults file pushup = %+v, want %+v", got, want)
	}
	if got, want := cfg.SquatConfig(), engine.DefaultSquatConfig(); got != want {
		t.Errorf("defaults file squat = %+v, want %+v", got, want)
	}
	if got, want := cfg.PlankConfig(), engine.DefaultPlankConfig(); got != want {
		t.Errorf("defaults file plank = %+v, want %+v", got, want)
	}
}

func TestTuningConfigAnalyzer(t *testing.T) {
	cfg := EmptyTuningConfig()
	for _, ex := range []engine.Exercise{engine.PushUp, engine.Squat, engine.Plank} {
		a, err := cfg.Analyzer(ex)
		if err != nil {
			t.Errorf("Analyzer(%q): %v", ex, err)
			continue
		}
		if a.Exercise() != ex {
			t.Errorf("Analyzer(%q).Exercise() = %q", ex, a.Exercise())
		}
	}
	if _, err := cfg.Analyzer(engine.Exercise("situps")); err == nil {
		t.Error("expected error for unknown exercise")
	}
}
