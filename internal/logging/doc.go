// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package logging provides centralized zerolog-based structured logging for Reelmatch.
//
// The package keeps a single global zerolog.Logger that every other package
// reaches through the level helpers (Info, Warn, Error, ...) or through a
// component logger created with WithComponent.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Int("items", n).Msg("Catalog loaded")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Poster lookup degraded")
//
// # Configuration
//
// Environment Variables (read through internal/config):
//
//	LOG_LEVEL   - Minimum log level: trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - Output format: json, console (default: json)
//	LOG_CALLER  - Include caller file:line: true, false (default: false)
//
// # Context
//
// HTTP middleware stores a request ID in the request context. Ctx(ctx) returns
// a logger that carries it, so all log lines for one request can be joined.
//
// # Suture Integration
//
// The supervision tree expects a *slog.Logger. NewSlogLogger returns one that
// writes through zerolog so supervisor events share the same output.
//
// # Secrets
//
// RedactURL and RedactSecret mask credentials before they reach a log line.
// The TMDB client embeds its API key in the request URL, and net/http errors
// repeat that URL verbatim.
package logging
