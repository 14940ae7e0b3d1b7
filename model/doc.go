// Package model defines the language-model client boundary consumed by
// agents: an ordered chat exchange in, free text out. The core tolerates
// arbitrary responses; ExtractJSON recovers structured payloads on a
// best-effort basis and callers fall back to the raw text when parsing fails.
//
// Provider adapters live in sub-packages (openai, anthropic); MockModel keeps
// tests and examples free of network calls.
package model
