package openai

// Chat Completions request/response types, trimmed to the translation use
// case. These mirror the OpenAI Chat Completions API format.

// ChatCompletionRequest is the request body for the chat completions endpoint.
type ChatCompletionRequest struct {
	Model              string              `json:"model"`
	Messages           []ChatMessage       `json:"messages"`
	Stream             bool                `json:"stream"`
	Temperature        *float64            `json:"temperature,omitempty"`
	TopP               *float64            `json:"top_p,omitempty"`
	MaxTokens          *int                `json:"max_tokens,omitempty"`
	FrequencyPenalty   *float64            `json:"frequency_penalty,omitempty"`
	PresencePenalty    *float64            `json:"presence_penalty,omitempty"`
	TranslationOptions *TranslationOptions `json:"translation_options,omitempty"`
}

// TranslationOptions carries the language pair for dedicated translation
// models. Those models reject sampling parameters, so this is the only
// extra field ever attached alongside the message list.
type TranslationOptions struct {
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

// ChatMessage represents a message in the Chat Completions format.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionResponse is the non-streaming response body.
type ChatCompletionResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
}

// ChatChoice represents one completion choice.
type ChatChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// ChatCompletionChunk is a single SSE frame in a streaming response.
type ChatCompletionChunk struct {
	ID      string            `json:"id"`
	Object  string            `json:"object"`
	Model   string            `json:"model"`
	Choices []ChatChunkChoice `json:"choices"`
}

// ChatChunkChoice represents a streaming choice delta.
type ChatChunkChoice struct {
	Index        int            `json:"index"`
	Delta        ChatChunkDelta `json:"delta"`
	FinishReason *string        `json:"finish_reason"`
}

// ChatChunkDelta holds incremental content in a streaming frame. Role is
// only present on the very first delta of a response.
type ChatChunkDelta struct {
	Role    string  `json:"role,omitempty"`
	Content *string `json:"content,omitempty"`
}

// ChatErrorResponse is the error format returned by chat completion backends.
type ChatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}
