package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/napolitain/hamlet/internal/game"
	"github.com/napolitain/hamlet/internal/models"
	"github.com/napolitain/hamlet/internal/saves"
)

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--store", "file", "--target", dir, "--data", "../../data", "--slot", "cli"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := run(t, dir, args...)
	if err != nil {
		t.Fatalf("hamlet %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func loadSlot(t *testing.T, dir string) *models.GameState {
	t.Helper()
	store, err := saves.NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	snap, err := store.Load(context.Background(), "cli")
	if err != nil {
		t.Fatalf("load slot: %v", err)
	}
	return snap.State
}

func TestNewAndStatus(t *testing.T) {
	dir := t.TempDir()

	mustRun(t, dir, "new", "--name", "Ada")
	if got := loadSlot(t, dir).Player.Name; got != "Ada" {
		t.Errorf("name = %q, want Ada", got)
	}

	if _, err := run(t, dir, "new"); err == nil || !strings.Contains(err.Error(), "--force") {
		t.Errorf("second new error = %v, want a hint about --force", err)
	}
	mustRun(t, dir, "new", "--force")
	if got := loadSlot(t, dir).Player.Name; got != models.DefaultPlayerName {
		t.Errorf("name after --force = %q", got)
	}

	out := mustRun(t, dir, "status")
	for _, want := range []string{"Player, level 1", "Wood", "Woodcutter"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestGameLoop(t *testing.T) {
	dir := t.TempDir()

	mustRun(t, dir, "new")
	mustRun(t, dir, "tick", "10s")
	mustRun(t, dir, "click", "wood", "-n", "20")
	mustRun(t, dir, "sell", "wood", "10")

	st := loadSlot(t, dir)
	if st.Stored(models.Population) != 10 || st.Stored(models.Wood) != 10 || st.Stored(models.Gold) != 10 {
		t.Fatalf("pop=%v wood=%v gold=%v, want 10/10/10",
			st.Stored(models.Population), st.Stored(models.Wood), st.Stored(models.Gold))
	}

	mustRun(t, dir, "buy", "woodcutter")
	st = loadSlot(t, dir)
	if st.Buildings[models.Woodcutter].Amount != 1 || st.Stored(models.Wood) != 0 || st.Stored(models.Gold) != 0 {
		t.Errorf("after buy: amount=%d wood=%v gold=%v",
			st.Buildings[models.Woodcutter].Amount, st.Stored(models.Wood), st.Stored(models.Gold))
	}

	mustRun(t, dir, "tick", "5")
	if got := loadSlot(t, dir).Stored(models.Wood); got != 5 {
		t.Errorf("Wood after tick = %v, want 5", got)
	}

	mustRun(t, dir, "autosell", "wood", "on")
	if !loadSlot(t, dir).Resources[models.Wood].IsAutoSelling {
		t.Error("autosell not saved")
	}

	mustRun(t, dir, "demolish", "woodcutter")
	if got := loadSlot(t, dir).Buildings[models.Woodcutter].Amount; got != 0 {
		t.Errorf("Woodcutter amount after demolish = %d", got)
	}

	mustRun(t, dir, "rename", "Grace")
	if got := loadSlot(t, dir).Player.Name; got != "Grace" {
		t.Errorf("name = %q", got)
	}
}

func TestCommandErrors(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "new")

	tests := []struct {
		name   string
		args   []string
		target error
	}{
		{"unknown resource", []string{"click", "mithril"}, game.ErrUnknownResource},
		{"unaffordable", []string{"buy", "woodcutter"}, game.ErrInsufficientResources},
		{"unknown upgrade", []string{"upgrade", "magic"}, game.ErrUnknownUpgrade},
		{"bad amount", []string{"sell", "wood", "lots"}, nil},
		{"bad toggle", []string{"autosell", "wood", "maybe"}, nil},
		{"bad duration", []string{"tick", "soon"}, nil},
		{"missing args", []string{"sell", "wood"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, dir, tt.args...)
			if err == nil {
				t.Fatal("command succeeded")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("error = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestInvalidEnvironment(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "new")

	tests := []struct {
		key, value string
	}{
		{"HAMLET_TICK_INTERVAL", "5"},
		{"HAMLET_CLICK_BURST", "many"},
		{"HAMLET_SLOT", "../escape"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			before := loadSlot(t, dir)

			_, err := run(t, dir, "click", "wood")
			if err == nil {
				t.Fatal("command succeeded with a broken environment")
			}
			if got := loadSlot(t, dir); got.Resources[models.Wood].Stored != before.Resources[models.Wood].Stored {
				t.Errorf("slot changed despite the error")
			}
		})
	}
}

func TestPlanNext(t *testing.T) {
	dir := t.TempDir()
	out := mustRun(t, dir, "plan", "--next", "--horizon", "10m")
	if !strings.HasPrefix(out, "buy:WOODCUTTER:") {
		t.Errorf("plan --next = %q, want buy:WOODCUTTER:<seconds>", out)
	}

	out = mustRun(t, dir, "plan", "--horizon", "2m", "--clicks", "0")
	if !strings.Contains(out, "0 purchases") {
		t.Errorf("idle plan output:\n%s", out)
	}
}

func TestName(t *testing.T) {
	tests := map[string]string{
		"wood":         "WOOD",
		"small-house":  "SMALL_HOUSE",
		" Iron_Mine ":  "IRON_MINE",
		"lumber mill":  "LUMBER_MILL",
		"WOOD_STORAGE": "WOOD_STORAGE",
	}
	for in, want := range tests {
		if got := name(in); got != want {
			t.Errorf("name(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseSeconds(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"30", 30, true},
		{"1.5", 1.5, true},
		{"90s", 90, true},
		{"5m", 300, true},
		{"soon", 0, false},
	}
	for _, tt := range tests {
		got, err := parseSeconds(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("parseSeconds(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestFormatName(t *testing.T) {
	if got := formatName("SMALL_HOUSE"); got != "Small House" {
		t.Errorf("formatName() = %q", got)
	}
	if got := formatTime(3725); got != "01:02:05" {
		t.Errorf("formatTime() = %q", got)
	}
}
