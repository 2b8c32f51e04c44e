// Package providers implements the Reviewer interface for each supported LLM
// provider.
//
// Supported providers: Anthropic (Claude), OpenAI (GPT/o-series), Google
// (Gemini), and Ollama / LM Studio for self-hosted models.
//
// All providers share a common retry helper with exponential back-off on
// rate-limit and server errors. Credentials are passed in by the caller;
// nothing in this package reads the environment. Failures carry a typed
// taxonomy inspectable with [IsAuth], [IsRateLimit], [IsServer], and
// [IsEmptyResponse].
//
// Use [New] to obtain a Reviewer by provider name and model string.
package providers
