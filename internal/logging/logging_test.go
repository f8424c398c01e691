package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestHolderSilentByDefault(t *testing.T) {
	var h Holder
	if h.Logger().Enabled(context.Background(), slog.LevelError) {
		t.Fatal("zero holder must discard records")
	}
}

func TestHolderSetAndReset(t *testing.T) {
	var h Holder
	var buf bytes.Buffer
	h.Set(slog.New(slog.NewTextHandler(&buf, nil)))

	h.Logger().Info("device selected", "name", "stub")
	if !strings.Contains(buf.String(), "device selected") {
		t.Fatalf("record not written: %q", buf.String())
	}

	h.Set(nil)
	buf.Reset()
	h.Logger().Error("dropped")
	if buf.Len() != 0 {
		t.Fatalf("nil logger still wrote %q", buf.String())
	}
}
