package openai

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xutq/Raycast-Easydict/pkg/api"
	"github.com/xutq/Raycast-Easydict/pkg/debug"
)

// openingQuotes are the characters a model sometimes echoes at the very
// start of a translation when the source text had none: straight double
// quote, Chinese left double quotation mark, straight single quote, and the
// Japanese corner bracket.
const openingQuotes = "\"“'「"

// streamDecoder assembles the translated text for a single streaming
// request. Each request owns its own decoder; state is never shared.
type streamDecoder struct {
	sourceText string
	onMessage  func(api.Delta)
	onFinish   func(reason string)

	// onFirstFrame fires once when the first frame arrives, before it is
	// decoded. Used to cancel the first-byte timeout.
	onFirstFrame func()

	acc        strings.Builder
	firstDelta bool // leading-quote correction still pending
	sawFrame   bool
	finished   bool
}

// newStreamDecoder creates a decoder for one request.
func newStreamDecoder(sourceText string, onMessage func(api.Delta), onFinish func(string), onFirstFrame func()) *streamDecoder {
	return &streamDecoder{
		sourceText:   sourceText,
		onMessage:    onMessage,
		onFinish:     onFinish,
		onFirstFrame: onFirstFrame,
		firstDelta:   true,
	}
}

// text returns the accumulated translation so far.
func (d *streamDecoder) text() string {
	return d.acc.String()
}

// handleFrame processes one data frame payload. It returns false once the
// stream has terminated; frames after that point are ignored.
func (d *streamDecoder) handleFrame(payload string) bool {
	if d.finished {
		return false
	}

	if !d.sawFrame {
		d.sawFrame = true
		if d.onFirstFrame != nil {
			d.onFirstFrame()
		}
	}

	var chunk ChatCompletionChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		// Terminator sentinel ("[DONE]" or any non-JSON frame): clean end
		// of stream, not an error.
		d.finish("stop")
		return false
	}

	// Keep-alive or empty chunk.
	if len(chunk.Choices) == 0 {
		return true
	}

	choice := chunk.Choices[0]

	// A finish_reason frame carries no new text. It is the authoritative
	// in-band termination signal.
	if choice.FinishReason != nil && *choice.FinishReason != "" {
		d.finish(*choice.FinishReason)
		return false
	}

	content := ""
	if choice.Delta.Content != nil {
		content = *choice.Delta.Content
	}
	role := choice.Delta.Role

	if d.firstDelta {
		content = trimEchoedQuote(d.sourceText, content)
	}

	d.acc.WriteString(content)

	// Role is only present on the very first delta in this wire format;
	// its absence signals the correction window has closed.
	if role == "" {
		d.firstDelta = false
	}

	if d.onMessage != nil {
		d.onMessage(api.Delta{Content: content, Role: role})
	}
	return true
}

// finish fires the consumer's finish callback exactly once. Both the
// finish_reason field and the terminator sentinel route here, so neither
// path can double-fire.
func (d *streamDecoder) finish(reason string) {
	if d.finished {
		return
	}
	d.finished = true
	debug.Log("streaming", "stream finished", "reason", reason, "chars", d.acc.Len())
	if d.onFinish != nil {
		d.onFinish(reason)
	}
}

// trimEchoedQuote strips a stray opening quote from the first delta when the
// source text does not itself start with one.
func trimEchoedQuote(source, delta string) string {
	if delta == "" {
		return delta
	}
	first, size := utf8.DecodeRuneInString(delta)
	if !strings.ContainsRune(openingQuotes, first) {
		return delta
	}
	if source != "" {
		srcFirst, _ := utf8.DecodeRuneInString(source)
		if strings.ContainsRune(openingQuotes, srcFirst) {
			return delta
		}
	}
	return delta[size:]
}

// parseStream reads SSE lines from body and feeds each data frame to the
// decoder. Lines without a data prefix (comments, blank keep-alives) are
// transport framing and skipped. A body that ends without a terminator is
// treated as a clean end of stream.
func parseStream(ctx context.Context, body io.Reader, dec *streamDecoder) error {
	scanner := bufio.NewScanner(body)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}

		if !dec.handleFrame(payload) {
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}

	dec.finish("stop")
	return nil
}
