package geotext

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestDebugMode_RemovedDependentPanics(t *testing.T) {
	s, _ := newTestScene()
	s.SetDebugMode(true)
	a := s.NewPoint("A", 0, 0)
	b := s.NewPoint("B", 0, 0)
	s.Remove(b)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on AddDependent with removed element, got none")
		}
		msg := fmt.Sprint(r)
		if !strings.Contains(msg, "removed element") || !strings.Contains(msg, `"B"`) {
			t.Errorf("panic message = %s", msg)
		}
	}()

	a.AddDependent(b)
}

func TestDebugMode_SetContentOnRemovedTextPanics(t *testing.T) {
	s, _ := newTestScene()
	s.SetDebugMode(true)
	txt := mustText(t, s, "t", Num(0), Num(0), "x")
	s.Remove(txt)

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on SetContent after Remove")
		}
	}()

	_ = txt.SetContent(String("y"))
}

func TestDebugMode_OffDoesNotPanic(t *testing.T) {
	s, _ := newTestScene()
	a := s.NewPoint("A", 0, 0)
	b := s.NewPoint("B", 0, 0)
	s.Remove(b)

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	a.AddDependent(b)
}

func TestDebugMode_UpdateStats(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })

	s, _ := newTestScene()
	s.SetDebugMode(true)
	a := s.NewPoint("A", 0, 0)
	mustText(t, s, "t", Num(0), Num(0), "<value>X(A)</value>")

	a.SetPosition(1, 1)
	s.Update()

	out := buf.String()
	if !strings.Contains(out, "geotext: update") || !strings.Contains(out, "dirty=2") {
		t.Errorf("debug output missing update stats:\n%s", out)
	}
}

func TestDebugMode_LargeDependentSetWarns(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))
	t.Cleanup(func() { SetLogger(nil) })

	s, _ := newTestScene()
	s.SetDebugMode(true)
	a := s.NewPoint("A", 0, 0)
	for i := 0; i <= debugMaxDependents; i++ {
		a.AddDependent(s.NewVariable(fmt.Sprintf("v%d", i), 0))
	}
	if !strings.Contains(buf.String(), "large dependent set") {
		t.Error("no warning for an oversized dependent set")
	}
}
