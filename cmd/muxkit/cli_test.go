package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"muxkit/internal/subs"
	"muxkit/internal/timestamps"
	"muxkit/internal/videometa"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	isolateHome(t)
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "Wrote sample configuration") {
		t.Fatalf("expected init confirmation, got %q", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected second init without --overwrite to fail")
	}

	if _, err := runCommand(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigShowListsDefaults(t *testing.T) {
	isolateHome(t)

	out, err := runCommand(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "defaults were used") {
		t.Fatalf("expected defaults notice, got %q", out)
	}
	if !strings.Contains(out, "24000/1001") {
		t.Fatalf("expected default frame rate in output, got %q", out)
	}
}

// installFakeFFprobe puts a stub ffprobe on PATH that prints a fixed
// two-stream payload regardless of arguments.
func installFakeFFprobe(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	payload := `{"streams":[` +
		`{"index":0,"codec_name":"hevc","codec_type":"video","disposition":{"default":1}},` +
		`{"index":1,"codec_name":"ass","codec_type":"subtitle","tags":{"language":"jpn","title":"Full Subtitles"}}` +
		`],"format":{"format_name":"matroska"}}`
	script := "#!/bin/sh\ncat <<'EOF'\n" + payload + "\nEOF\n"
	if err := os.WriteFile(filepath.Join(dir, "ffprobe"), []byte(script), 0o755); err != nil {
		t.Fatalf("write ffprobe stub: %v", err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestProbeListsTracks(t *testing.T) {
	isolateHome(t)
	installFakeFFprobe(t)

	out, err := runCommand(t, "probe", "input.mkv")
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if !strings.Contains(out, "Japanese") {
		t.Fatalf("expected language display name in output, got %q", out)
	}
	if !strings.Contains(out, "Full Subtitles") {
		t.Fatalf("expected track title in output, got %q", out)
	}
}

func TestProbeEmitsRawJSON(t *testing.T) {
	isolateHome(t)
	installFakeFFprobe(t)

	out, err := runCommand(t, "probe", "input.mkv", "--json")
	if err != nil {
		t.Fatalf("probe --json: %v", err)
	}
	if !strings.Contains(out, `"codec_name":"hevc"`) {
		t.Fatalf("expected raw payload in output, got %q", out)
	}
	if strings.Contains(out, "Japanese") {
		t.Fatalf("expected no table rendering with --json, got %q", out)
	}
}

func writeChapterFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chapters.txt")
	content := "CHAPTER00=00:00:00.000\nCHAPTER00NAME=Intro\nCHAPTER01=00:00:04.171\nCHAPTER01NAME=Part A\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write chapter file: %v", err)
	}
	return path
}

func TestChaptersShowListsFrames(t *testing.T) {
	isolateHome(t)
	path := writeChapterFile(t)

	out, err := runCommand(t, "chapters", "show", path, "--fps", "24000/1001")
	if err != nil {
		t.Fatalf("chapters show: %v", err)
	}
	if !strings.Contains(out, "Part A") {
		t.Fatalf("expected chapter name in output, got %q", out)
	}
	// 4171 ms lands exactly on frame 100 at 24000/1001.
	if !strings.Contains(out, "100") {
		t.Fatalf("expected frame number in output, got %q", out)
	}
}

func TestChaptersTrimShiftsTimeline(t *testing.T) {
	isolateHome(t)
	path := writeChapterFile(t)

	out, err := runCommand(t, "chapters", "trim", path, "--start", "50", "--fps", "24000/1001")
	if err != nil {
		t.Fatalf("chapters trim: %v", err)
	}
	if !strings.Contains(out, "CHAPTER00=00:00:00.000") {
		t.Fatalf("expected zero anchor to survive, got %q", out)
	}
	if !strings.Contains(out, "CHAPTER01=00:00:02.085") {
		t.Fatalf("expected shifted chapter time, got %q", out)
	}
}

func TestChaptersTrimResolvesNegativeEnd(t *testing.T) {
	isolateHome(t)
	path := writeChapterFile(t)

	// -100 against a total of 200 resolves to frame 100, dropping Part A.
	out, err := runCommand(t, "chapters", "trim", path, "--end", "-100", "--total", "200", "--fps", "24000/1001")
	if err != nil {
		t.Fatalf("chapters trim: %v", err)
	}
	if strings.Contains(out, "Part A") {
		t.Fatalf("expected chapter at the resolved end frame to be dropped, got %q", out)
	}
	if !strings.Contains(out, "Intro") {
		t.Fatalf("expected leading chapter to survive, got %q", out)
	}
}

func TestChaptersTrimRejectsAmbiguousZeroEnd(t *testing.T) {
	isolateHome(t)
	path := writeChapterFile(t)

	if _, err := runCommand(t, "chapters", "trim", path, "--end", "0"); err == nil {
		t.Fatal("expected explicit zero end to be rejected")
	}
}

func TestNameRendersTemplate(t *testing.T) {
	isolateHome(t)

	out, err := runCommand(t, "name", "--show", "some.show", "--episode", "03", "--ext", "mkv")
	if err != nil {
		t.Fatalf("name: %v", err)
	}
	if got := strings.TrimSpace(out); got != "Some Show - 03.mkv" {
		t.Fatalf("expected rendered name %q, got %q", "Some Show - 03.mkv", got)
	}
}

func TestSubShiftByMilliseconds(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "episode.ass")
	content := strings.Join([]string{
		"[Script Info]",
		"Title: sample",
		"",
		"[Events]",
		"Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text",
		"Dialogue: 0,0:00:01.00,0:00:02.00,Default,,0,0,0,,Hello",
		"",
	}, "\n")
	if err := os.WriteFile(in, []byte(content), 0o644); err != nil {
		t.Fatalf("write subtitle: %v", err)
	}

	outPath := filepath.Join(dir, "shifted.ass")
	if _, err := runCommand(t, "sub", "shift", in, "--ms", "500", "-o", outPath); err != nil {
		t.Fatalf("sub shift: %v", err)
	}

	doc, err := subs.ParseFile(outPath)
	if err != nil {
		t.Fatalf("parse shifted subtitle: %v", err)
	}
	if len(doc.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(doc.Events))
	}
	if got := doc.Events[0].Start; got != 1500*time.Millisecond {
		t.Fatalf("expected start 1.5s, got %v", got)
	}
}

func TestSubShiftInPlaceKeepsBackupAndCleansSession(t *testing.T) {
	home := isolateHome(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "episode.ass")
	content := strings.Join([]string{
		"[Script Info]",
		"Title: sample",
		"",
		"[Events]",
		"Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text",
		"Dialogue: 0,0:00:01.00,0:00:02.00,Default,,0,0,0,,Hello",
		"",
	}, "\n")
	if err := os.WriteFile(in, []byte(content), 0o644); err != nil {
		t.Fatalf("write subtitle: %v", err)
	}

	if _, err := runCommand(t, "sub", "shift", in, "--ms", "500", "--backup"); err != nil {
		t.Fatalf("sub shift: %v", err)
	}

	doc, err := subs.ParseFile(in)
	if err != nil {
		t.Fatalf("parse rewritten subtitle: %v", err)
	}
	if got := doc.Events[0].Start; got != 1500*time.Millisecond {
		t.Fatalf("expected in-place start 1.5s, got %v", got)
	}

	backup, err := os.ReadFile(in + ".bak")
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if !strings.Contains(string(backup), "0:00:01.00") {
		t.Fatalf("expected backup to hold the original timing, got %q", backup)
	}

	// The staging session directory is removed once the copy lands.
	workDir := filepath.Join(home, ".local", "share", "muxkit", "work")
	entries, err := os.ReadDir(workDir)
	if err != nil {
		t.Fatalf("read work dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no leftover session directories, got %d", len(entries))
	}
}

func TestSubShiftRejectsConflictingOffsets(t *testing.T) {
	isolateHome(t)
	if _, err := runCommand(t, "sub", "shift", "missing.ass", "--ms", "500", "--frames", "2"); err == nil {
		t.Fatal("expected conflicting --ms and --frames to fail")
	}
}

func TestMetaInspectShowsSnapshot(t *testing.T) {
	isolateHome(t)
	video := filepath.Join(t.TempDir(), "clip.mkv")
	meta := &videometa.Meta{
		PTS:       []int64{0, 42, 83, 125},
		FPS:       timestamps.RateNTSCFilm,
		TimeScale: timestamps.ScaleMKV,
	}
	if err := meta.WriteFile(videometa.SidecarPath(video)); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	out, err := runCommand(t, "meta", "inspect", video)
	if err != nil {
		t.Fatalf("meta inspect: %v", err)
	}
	if !strings.Contains(out, "24000/1001") {
		t.Fatalf("expected exact frame rate in output, got %q", out)
	}
	if !strings.Contains(out, "4") {
		t.Fatalf("expected frame count in output, got %q", out)
	}
}
