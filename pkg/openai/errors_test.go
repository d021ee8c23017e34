package openai

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/xutq/Raycast-Easydict/pkg/api"
)

func errorResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestMapHTTPError(t *testing.T) {
	tests := []struct {
		status      int
		wantCode    string
		wantMessage string
	}{
		{http.StatusTooManyRequests, "429", "Too Many Requests"},
		{http.StatusUnauthorized, "401", "Unauthorized"},
		{http.StatusInternalServerError, "500", "Internal Server Error"},
		{http.StatusBadRequest, "400", "Bad Request"},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			qerr := mapHTTPError(errorResponse(tt.status, `{"error":{"message":"detail"}}`))
			if qerr.Type != api.ErrorTypeAPI {
				t.Errorf("Type = %q, want %q", qerr.Type, api.ErrorTypeAPI)
			}
			if qerr.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", qerr.Code, tt.wantCode)
			}
			if qerr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", qerr.Message, tt.wantMessage)
			}
		})
	}
}

func TestMapTransportErrorTimeoutCause(t *testing.T) {
	ctx, cancel := context.WithCancelCause(context.Background())
	cancel(errFirstByteTimeout)

	err := mapTransportError(ctx, errors.New("read: connection closed"))

	var qerr *api.QueryError
	if !errors.As(err, &qerr) {
		t.Fatalf("expected QueryError, got %v", err)
	}
	if qerr.Type != api.ErrorTypeTimeout || qerr.Message != "Request timeout." {
		t.Errorf("got %+v, want fixed timeout error", qerr)
	}
}

func TestMapTransportErrorCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := mapTransportError(ctx, &url.Error{Op: "Post", Err: context.Canceled})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestMapTransportErrorDeadline(t *testing.T) {
	err := mapTransportError(context.Background(), context.DeadlineExceeded)

	var qerr *api.QueryError
	if !errors.As(err, &qerr) {
		t.Fatalf("expected QueryError, got %v", err)
	}
	if qerr.Type != api.ErrorTypeTimeout {
		t.Errorf("Type = %q, want timeout", qerr.Type)
	}
}

func TestMapTransportErrorNetwork(t *testing.T) {
	err := mapTransportError(context.Background(), &url.Error{
		Op:  "Post",
		URL: "http://example.com",
		Err: errors.New("connection refused"),
	})

	var qerr *api.QueryError
	if !errors.As(err, &qerr) {
		t.Fatalf("expected QueryError, got %v", err)
	}
	if qerr.Type != api.ErrorTypeNetwork {
		t.Errorf("Type = %q, want network", qerr.Type)
	}
	if qerr.Code != streamErrorCode {
		t.Errorf("Code = %q, want %q", qerr.Code, streamErrorCode)
	}
	if qerr.Message != "connection refused" {
		t.Errorf("Message = %q, want unwrapped cause", qerr.Message)
	}
}

func TestExtractErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "Unknown error"},
		{"plain", errors.New("boom"), "boom"},
		{"url error unwrapped", &url.Error{Op: "Post", Err: errors.New("reset")}, "reset"},
		{"query error passthrough", api.NewAPIError("500", "backend down"), "backend down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractErrorMessage(tt.err); got != tt.want {
				t.Errorf("extractErrorMessage = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractBodyErrorMessage(t *testing.T) {
	if got := extractBodyErrorMessage([]byte(`{"error":{"message":"quota exceeded"}}`)); got != "quota exceeded" {
		t.Errorf("got %q, want nested message", got)
	}
	if got := extractBodyErrorMessage([]byte(`not json`)); got != "" {
		t.Errorf("got %q, want empty for malformed body", got)
	}
}
