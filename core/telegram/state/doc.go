// Package state provides a lightweight per-chat conversation state manager.
// It is domain-agnostic: bots define their own State values.
package state
