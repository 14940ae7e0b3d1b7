// Package agent provides the built-in BrandMesh agents plus the BaseAgent
// embedding type they share. BaseAgent owns the envelope discipline (task in,
// correlated result or error out); concrete agents register one handler per
// action and only ever see well-formed task envelopes.
package agent
