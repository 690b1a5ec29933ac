// Package logging builds the slog loggers used across soundrip.
//
// It offers a compact console handler for interactive use, a JSON handler for
// service deployments, and helpers for component-scoped loggers so every line
// carries a stable component prefix. Attr aliases keep call sites free of
// direct slog imports.
package logging
