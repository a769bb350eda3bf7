// Package logger configures log/slog for the server and the command line
// tool and carries request-scoped loggers through context.Context.
package logger
