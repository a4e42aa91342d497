// Package llm provides the provider-neutral core types for chatkit.
//
// This package defines the common message, response, and error types that
// allow the orchestration layer to work with multiple completion providers
// (OpenRouter, OpenAI, Anthropic, Ollama, etc.) without being tightly
// coupled to any specific provider's SDK.
//
// # Core Concepts
//
//  1. Messages: the Message type represents a conversation message with a
//     role (user, assistant, system) and content blocks (text or image
//     references).
//
//  2. Backend Interface: the Backend interface provides Complete() for
//     non-streaming calls and CompleteStream() for streaming calls.
//     Implementations live in the llm/openai, llm/anthropic, and llm/ollama
//     subpackages and handle provider-specific wire details.
//
//  3. Registry: the Registry type maps provider IDs to connection profiles
//     (display name, base endpoint, default model, default headers). It is
//     pre-populated with the built-in providers and safe for concurrent use.
//
//  4. Errors: the Error type provides a uniform taxonomy (validation,
//     provider_not_found, empty_conversation, no_user_turn, backend,
//     request_failed, missing_credential) with errors.As predicates.
//
// # Extension Points
//
// To add a new completion provider:
//  1. Implement the Backend interface
//  2. Translate provider responses into CompletionResult / DeltaStream
//  3. Translate provider errors with NewBackendError
//  4. Register a Profile for it so the orchestration layer can resolve it
package llm
