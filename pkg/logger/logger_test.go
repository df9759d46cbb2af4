package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestInitAndLevelString(t *testing.T) {
	Init("debug")
	if got := LevelString(); got != "debug" {
		t.Fatalf("LevelString() = %q, want %q", got, "debug")
	}
	Init("WARN")
	if got := LevelString(); got != "warn" {
		t.Fatalf("LevelString() = %q, want %q", got, "warn")
	}
	Init("Error")
	if got := LevelString(); got != "error" {
		t.Fatalf("LevelString() = %q, want %q", got, "error")
	}
	Init("nonsense")
	if got := LevelString(); got != "info" {
		t.Fatalf("LevelString() = %q, want %q for unknown input", got, "info")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	orig := base
	base = newBase(&buf)
	defer func() { base = orig }()

	Init("warn")
	Debugf("debug-msg")
	Infof("info-msg")
	Warnf("warn-msg")
	Errorf("error-msg")

	out := buf.String()
	if strings.Contains(out, "debug-msg") {
		t.Fatalf("debug messages should be suppressed at warn level")
	}
	if strings.Contains(out, "info-msg") {
		t.Fatalf("info messages should be suppressed at warn level")
	}
	if !strings.Contains(out, "warn-msg") {
		t.Fatalf("warn message missing: %q", out)
	}
	if !strings.Contains(out, "error-msg") {
		t.Fatalf("error message missing: %q", out)
	}

	Init("info")
	buf.Reset()
	Infof("hello %d", 1)
	if !strings.Contains(buf.String(), "hello 1") {
		t.Fatalf("info message expected at info level, got: %q", buf.String())
	}
}

func TestWithFieldsCarriesFields(t *testing.T) {
	l, hook := test.NewNullLogger()
	orig := base
	base = l
	defer func() { base = orig }()

	WithFields(map[string]interface{}{"route": "/user/wallet/history", "sub": "u1"}).Error("store failure")

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("expected an entry")
	}
	if entry.Level != logrus.ErrorLevel {
		t.Fatalf("unexpected level %v", entry.Level)
	}
	if entry.Data["sub"] != "u1" || entry.Data["route"] != "/user/wallet/history" {
		t.Fatalf("fields missing: %v", entry.Data)
	}
}

func TestSetFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	orig := base
	base = newBase(&buf)
	defer func() { base = orig }()

	Init("info")
	SetFormat("json")
	Infof("hello %s", "json")
	if !strings.Contains(buf.String(), `"msg":"hello json"`) {
		t.Fatalf("expected json output, got %q", buf.String())
	}
}
