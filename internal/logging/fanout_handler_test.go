package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestTeeHandlerRespectsPerHandlerLevels(t *testing.T) {
	var debugBuf, warnBuf bytes.Buffer
	debug := slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug})
	warn := slog.NewTextHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn})

	logger := slog.New(TeeHandler(debug, nil, warn)).With(String(FieldComponent, "knn"))
	logger.Debug("ranking")
	logger.Warn("skipped")

	if !strings.Contains(debugBuf.String(), "ranking") || !strings.Contains(debugBuf.String(), "skipped") {
		t.Fatalf("debug handler missing records: %q", debugBuf.String())
	}
	if strings.Contains(warnBuf.String(), "ranking") || !strings.Contains(warnBuf.String(), "skipped") {
		t.Fatalf("warn handler got wrong records: %q", warnBuf.String())
	}
	if !strings.Contains(warnBuf.String(), "component=knn") {
		t.Fatalf("attributes not propagated: %q", warnBuf.String())
	}
}

func TestTeeHandlerCollapses(t *testing.T) {
	if _, ok := TeeHandler().(NoopHandler); !ok {
		t.Fatal("expected noop handler for no inputs")
	}
	single := slog.NewTextHandler(&bytes.Buffer{}, nil)
	if TeeHandler(nil, single) != slog.Handler(single) {
		t.Fatal("expected single handler to be returned as-is")
	}
}

func TestWithMinLevelOnlyRaises(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	quiet := WithMinLevel(base, slog.LevelWarn)
	quiet.Info("hidden info")
	quiet.Warn("shown warn")

	// Lowering again keeps the stricter floor.
	relaxed := WithMinLevel(quiet, slog.LevelDebug)
	relaxed.Info("still hidden")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown warn") {
		t.Fatalf("unexpected output %q", out)
	}
}
