package openai

import (
	"context"
	"strings"
	"testing"

	"github.com/xutq/Raycast-Easydict/pkg/api"
)

// runDecoder feeds SSE data through parseStream and returns the decoder
// along with every delta and finish reason observed by the consumer.
func runDecoder(t *testing.T, sourceText, sseData string) (*streamDecoder, []api.Delta, []string) {
	t.Helper()

	var deltas []api.Delta
	var finishes []string
	dec := newStreamDecoder(sourceText,
		func(d api.Delta) { deltas = append(deltas, d) },
		func(reason string) { finishes = append(finishes, reason) },
		nil,
	)

	if err := parseStream(context.Background(), strings.NewReader(sseData), dec); err != nil {
		t.Fatalf("parseStream: %v", err)
	}
	return dec, deltas, finishes
}

func TestStreamAccumulatesDeltas(t *testing.T) {
	sseData := `data: {"choices":[{"index":0,"delta":{"role":"assistant","content":"A"},"finish_reason":null}]}

data: {"choices":[{"index":0,"delta":{"content":"B"},"finish_reason":null}]}

data: {"choices":[{"index":0,"delta":{"content":"C"},"finish_reason":null}]}

data: [DONE]
`
	dec, deltas, finishes := runDecoder(t, "abc", sseData)

	if got := dec.text(); got != "ABC" {
		t.Errorf("accumulated text = %q, want %q", got, "ABC")
	}
	if len(deltas) != 3 {
		t.Fatalf("expected 3 deltas, got %d: %+v", len(deltas), deltas)
	}
	if deltas[0].Role != "assistant" {
		t.Errorf("first delta role = %q, want assistant", deltas[0].Role)
	}
	if deltas[1].Role != "" || deltas[2].Role != "" {
		t.Error("role should only be present on the first delta")
	}
	if len(finishes) != 1 || finishes[0] != "stop" {
		t.Errorf("finishes = %v, want exactly one %q", finishes, "stop")
	}
}

func TestStreamIgnoresFramesAfterTerminator(t *testing.T) {
	sseData := `data: {"choices":[{"index":0,"delta":{"role":"assistant","content":"A"},"finish_reason":null}]}

data: [DONE]

data: {"choices":[{"index":0,"delta":{"content":"B"},"finish_reason":null}]}
`
	dec, _, finishes := runDecoder(t, "abc", sseData)

	if got := dec.text(); got != "A" {
		t.Errorf("accumulated text = %q, want %q (nothing after terminator)", got, "A")
	}
	if len(finishes) != 1 {
		t.Errorf("finish fired %d times, want 1", len(finishes))
	}
}

func TestStreamLeadingQuoteStripped(t *testing.T) {
	sseData := `data: {"choices":[{"index":0,"delta":{"role":"assistant","content":"“你好"},"finish_reason":null}]}

data: [DONE]
`
	dec, deltas, _ := runDecoder(t, "hello", sseData)

	if got := dec.text(); got != "你好" {
		t.Errorf("accumulated text = %q, want %q", got, "你好")
	}
	if len(deltas) != 1 || deltas[0].Content != "你好" {
		t.Errorf("emitted delta = %+v, want corrected content", deltas)
	}
}

func TestStreamLeadingQuoteKeptWhenSourceQuoted(t *testing.T) {
	sseData := `data: {"choices":[{"index":0,"delta":{"role":"assistant","content":"“你好"},"finish_reason":null}]}

data: [DONE]
`
	dec, _, _ := runDecoder(t, `"hello"`, sseData)

	if got := dec.text(); got != "“你好" {
		t.Errorf("accumulated text = %q, want quote preserved", got)
	}
}

func TestStreamQuoteCorrectionAfterRoleOnlyFrame(t *testing.T) {
	// Some backends send a role-only first frame with no content. The first
	// actual text arrives on the next frame, which has no role; the
	// correction window is still open for it.
	sseData := `data: {"choices":[{"index":0,"delta":{"role":"assistant"},"finish_reason":null}]}

data: {"choices":[{"index":0,"delta":{"content":"「こんにちは"},"finish_reason":null}]}

data: [DONE]
`
	dec, _, _ := runDecoder(t, "hello", sseData)

	if got := dec.text(); got != "こんにちは" {
		t.Errorf("accumulated text = %q, want %q", got, "こんにちは")
	}
}

func TestStreamEmptyChoicesSkipped(t *testing.T) {
	sseData := `data: {"choices":[]}

data: {"choices":[{"index":0,"delta":{"role":"assistant","content":"hi"},"finish_reason":null}]}

data: [DONE]
`
	dec, deltas, _ := runDecoder(t, "x", sseData)

	if got := dec.text(); got != "hi" {
		t.Errorf("accumulated text = %q, want %q", got, "hi")
	}
	if len(deltas) != 1 {
		t.Errorf("expected 1 delta (keep-alive skipped), got %d", len(deltas))
	}
}

func TestStreamFinishReasonTerminates(t *testing.T) {
	sseData := `data: {"choices":[{"index":0,"delta":{"role":"assistant","content":"done"},"finish_reason":null}]}

data: {"choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}

data: [DONE]
`
	dec, _, finishes := runDecoder(t, "x", sseData)

	if got := dec.text(); got != "done" {
		t.Errorf("accumulated text = %q, want %q", got, "done")
	}
	// finish_reason terminates the stream; the trailing sentinel must not
	// fire the callback a second time.
	if len(finishes) != 1 || finishes[0] != "stop" {
		t.Errorf("finishes = %v, want exactly one %q", finishes, "stop")
	}
}

func TestStreamEndWithoutTerminatorStillFinishes(t *testing.T) {
	sseData := `data: {"choices":[{"index":0,"delta":{"role":"assistant","content":"partial"},"finish_reason":null}]}
`
	dec, _, finishes := runDecoder(t, "x", sseData)

	if got := dec.text(); got != "partial" {
		t.Errorf("accumulated text = %q, want %q", got, "partial")
	}
	if len(finishes) != 1 {
		t.Errorf("finish fired %d times on clean EOF, want 1", len(finishes))
	}
}

func TestStreamCommentsAndBlankLinesIgnored(t *testing.T) {
	sseData := `: keep-alive

data: {"choices":[{"index":0,"delta":{"role":"assistant","content":"ok"},"finish_reason":null}]}

data: [DONE]
`
	dec, _, _ := runDecoder(t, "x", sseData)

	if got := dec.text(); got != "ok" {
		t.Errorf("accumulated text = %q, want %q", got, "ok")
	}
}

func TestStreamFirstFrameCallback(t *testing.T) {
	var calls int
	dec := newStreamDecoder("x", nil, nil, func() { calls++ })

	sseData := `data: {"choices":[{"index":0,"delta":{"role":"assistant","content":"a"},"finish_reason":null}]}

data: {"choices":[{"index":0,"delta":{"content":"b"},"finish_reason":null}]}

data: [DONE]
`
	if err := parseStream(context.Background(), strings.NewReader(sseData), dec); err != nil {
		t.Fatalf("parseStream: %v", err)
	}
	if calls != 1 {
		t.Errorf("first-frame callback fired %d times, want 1", calls)
	}
}

func TestStreamContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString(`data: {"choices":[{"index":0,"delta":{"content":"x"},"finish_reason":null}]}` + "\n\n")
	}

	dec := newStreamDecoder("x", nil, nil, nil)
	err := parseStream(ctx, strings.NewReader(sb.String()), dec)
	if err == nil {
		t.Fatal("expected error from canceled context")
	}
	if dec.text() != "" {
		t.Errorf("accumulated text = %q, want empty after immediate cancel", dec.text())
	}
}

func TestTrimEchoedQuote(t *testing.T) {
	tests := []struct {
		name   string
		source string
		delta  string
		want   string
	}{
		{"cjk double quote stripped", "hello", "“你好", "你好"},
		{"straight double quote stripped", "hello", `"hi`, "hi"},
		{"straight single quote stripped", "hello", "'hi", "hi"},
		{"corner bracket stripped", "hello", "「や", "や"},
		{"source already quoted", `"hello"`, "“你好", "“你好"},
		{"source corner bracket", "「こん」", "「や", "「や"},
		{"no leading quote in delta", "hello", "hi", "hi"},
		{"empty delta", "hello", "", ""},
		{"quote only delta", "hello", "“", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := trimEchoedQuote(tt.source, tt.delta); got != tt.want {
				t.Errorf("trimEchoedQuote(%q, %q) = %q, want %q", tt.source, tt.delta, got, tt.want)
			}
		})
	}
}
