package openai

import "strings"

// Model family markers. Capabilities are pure functions of the model
// identifier; nothing is stored per model.
const (
	// translationModeMarker tags model variants specialized for direct
	// source-to-target translation. They take the raw text as a single user
	// message plus translation_options, bypassing chat prompting.
	translationModeMarker = "hunyuan-translation"

	// nonStreamingMarker tags the stricter variant whose streaming responses
	// are unreliable. Requests to it always use the non-streaming path.
	nonStreamingMarker = "hunyuan-translation-lite"
)

// SupportsTranslationMode reports whether the model takes raw text plus a
// translation_options object instead of a prompted message sequence.
func SupportsTranslationMode(model string) bool {
	return strings.Contains(model, translationModeMarker)
}

// RequiresNonStreaming reports whether streaming must be disabled for the
// model regardless of its other capabilities.
func RequiresNonStreaming(model string) bool {
	return strings.Contains(model, nonStreamingMarker)
}
