package logger

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// syncCountingCore counts Sync calls on top of an observer core.
type syncCountingCore struct {
	zapcore.Core
	syncs *int
}

func (c syncCountingCore) Sync() error {
	*c.syncs++
	return c.Core.Sync()
}

func TestFatal(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	syncs := 0

	prevSugar, prevExit := sugar, exit
	defer func() { sugar, exit = prevSugar, prevExit }()
	sugar = zap.New(syncCountingCore{Core: core, syncs: &syncs}).Sugar()

	var code, loggedAtExit, syncedAtExit int
	exit = func(c int) {
		code = c
		loggedAtExit = logs.Len()
		syncedAtExit = syncs
	}

	Fatal("Import error", errors.New("disk full"))

	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if loggedAtExit != 1 {
		t.Fatalf("expected 1 entry before exit, got %d", loggedAtExit)
	}
	if syncedAtExit != 1 {
		t.Errorf("expected the logger to be synced before exit, got %d syncs", syncedAtExit)
	}

	entry := logs.All()[0]
	if entry.Level != zapcore.ErrorLevel {
		t.Errorf("expected error level, got %s", entry.Level)
	}
	if entry.Message != "Import error" {
		t.Errorf("unexpected message %q", entry.Message)
	}
	if got := entry.ContextMap()["error"]; got != "disk full" {
		t.Errorf("expected error field, got %v", got)
	}
}
