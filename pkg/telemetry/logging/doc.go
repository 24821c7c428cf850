// Package logging configures structured logging for the Pulse service.
//
// It wraps log/slog: Setup builds a JSON or text handler from
// configuration and installs it as the process default, and context
// helpers carry a request-scoped logger through handler chains.
package logging
