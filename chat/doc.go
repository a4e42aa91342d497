// Package chat orchestrates a single conversation against a completion
// backend: it maintains the ordered message history and system prompt,
// merges base configuration with per-call overrides, dispatches single-shot
// or streaming completions, retries transient failures with exponential
// backoff, and emits structured diagnostics events.
//
// The package does not own any wire protocol. Transport details live behind
// the llm.Backend interface; the adapters in llm/openai, llm/anthropic, and
// llm/ollama are selected automatically from the provider ID, or injected
// with WithBackend.
package chat
