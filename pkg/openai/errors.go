package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/xutq/Raycast-Easydict/pkg/api"
	"github.com/xutq/Raycast-Easydict/pkg/debug"
)

// errFirstByteTimeout marks a request aborted because no stream frame
// arrived within the deadline. Carried as a cancellation cause so it can be
// told apart from a deliberate cancel.
var errFirstByteTimeout = errors.New("timed out waiting for first response frame")

// streamErrorCode is the code attached to stream transport failures. The
// consumer surface keys these off a 401-style code.
const streamErrorCode = "401"

// mapHTTPError converts a non-2xx response into a QueryError carrying the
// status code and status text. The body is drained for debug logging only;
// choices are never read on this path.
func mapHTTPError(resp *http.Response) *api.QueryError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if len(body) > 0 {
		debug.Log("translate", "backend returned error status",
			"status", resp.StatusCode,
			"detail", extractBodyErrorMessage(body),
			"body", debug.Truncate(string(body), 200),
		)
	}

	message := http.StatusText(resp.StatusCode)
	if message == "" {
		message = resp.Status
	}
	return api.NewAPIError(strconv.Itoa(resp.StatusCode), message)
}

// mapTransportError normalizes a transport-level failure from either path.
// Deliberate cancellation surfaces as context.Canceled with no error
// payload; the first-byte timeout and deadline overruns map to the fixed
// timeout message; everything else becomes a network QueryError with a
// best-effort extracted message.
func mapTransportError(ctx context.Context, err error) error {
	if cause := context.Cause(ctx); cause != nil {
		switch {
		case errors.Is(cause, errFirstByteTimeout):
			return api.NewTimeoutError()
		case errors.Is(cause, context.DeadlineExceeded):
			return api.NewTimeoutError()
		case errors.Is(cause, context.Canceled):
			return context.Canceled
		}
	}

	switch {
	case errors.Is(err, context.Canceled):
		return context.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return api.NewTimeoutError()
	}

	return api.NewNetworkError(streamErrorCode, extractErrorMessage(err))
}

// extractErrorMessage pulls a human-readable message out of a transport
// error, unwrapping url.Error noise. Defaults to "Unknown error".
func extractErrorMessage(err error) string {
	if err == nil {
		return "Unknown error"
	}

	var qerr *api.QueryError
	if errors.As(err, &qerr) {
		return qerr.Message
	}

	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Err != nil {
		return uerr.Err.Error()
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Unknown error"
}

// extractBodyErrorMessage tries to parse an error payload in the backend's
// nested error-object format.
func extractBodyErrorMessage(body []byte) string {
	var errResp ChatErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}
	return ""
}
