package geotext

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLogger_SilentByDefault(t *testing.T) {
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger is enabled")
	}
}

func TestSetLogger_NilRestoresDefault(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	SetLogger(nil)
	Logger().Error("dropped")
	if buf.Len() != 0 {
		t.Errorf("output after SetLogger(nil): %s", buf.String())
	}
}

func TestLogger_EvaluationFailureWarns(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))
	t.Cleanup(func() { SetLogger(nil) })

	s, _ := newTestScene()
	mustText(t, s, "t", Num(0), Num(0), "<value>X(missing)</value>")

	out := buf.String()
	if !strings.Contains(out, "evaluation failed") || !strings.Contains(out, "text=t") {
		t.Errorf("log output = %s", out)
	}
	if strings.Contains(out, "unresolved reference") {
		t.Error("debug message logged at warn level")
	}
}
