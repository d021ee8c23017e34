// Package openai orchestrates translation requests against OpenAI-compatible
// chat completion backends. It builds model-specific payloads, selects
// streaming or non-streaming transport per model, decodes SSE streams into
// incremental deltas, and normalizes every failure mode into one error shape.
package openai
