package reqctx

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestWithRequestContext_KeepsClientID(t *testing.T) {
	ctx := WithRequestContext(context.Background(), " abc-123 ")
	if id := GetRequestContext(ctx).RequestID; id != "abc-123" {
		t.Errorf("Expected abc-123, got %q", id)
	}
}

func TestWithRequestContext_GeneratesID(t *testing.T) {
	for _, id := range []string{"", strings.Repeat("x", maxIDLen+1)} {
		ctx := WithRequestContext(context.Background(), id)
		got := GetRequestContext(ctx).RequestID
		if _, err := uuid.Parse(got); err != nil {
			t.Errorf("Expected a UUID for %q, got %q", id, got)
		}
	}
}

func TestGetRequestContext_Missing(t *testing.T) {
	if id := GetRequestContext(context.Background()).RequestID; id != "unknown" {
		t.Errorf("Expected unknown, got %q", id)
	}
}

func TestNewRequestError(t *testing.T) {
	base := errors.New("boom")
	ctx := WithRequestContext(context.Background(), "req-1")

	err := NewRequestError(ctx, base)
	if err.Error() != "[req-1] boom" {
		t.Errorf("Expected \"[req-1] boom\", got %q", err.Error())
	}
	if !errors.Is(err, base) {
		t.Error("Expected RequestError to unwrap to the cause")
	}
}

func TestLogger_TagsRequestID(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)
	defer func() { log.Logger = prev }()

	ctx := WithRequestContext(context.Background(), "req-42")
	Logger(ctx).Debug().Msg("hello")

	out := buf.String()
	if !strings.Contains(out, `"request_id":"req-42"`) || !strings.Contains(out, `"message":"hello"`) {
		t.Errorf("Expected request_id and message in log line, got %q", out)
	}
}
