// Package llm provides the chat-completion client the describe and transform
// stages use to generate description and long-form text from transcripts.
// Any OpenAI-compatible endpoint works; the base URL and model come from the
// [llm] config section.
package llm
