// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package services provides suture.Service wrappers for Reelmatch components.

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

and identifies itself through fmt.Stringer for supervisor log lines.

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server and converts ListenAndServe to Serve
  - Drains connections with Shutdown on context cancellation
  - Returns listen errors so the supervisor can restart it with backoff

Poster Cache GC (CacheGCService):
  - Runs badger value-log garbage collection for the poster disk cache
  - Ticks at the configured poster.gc_interval
  - Logs GC failures instead of returning them, so one bad pass does not
    restart the service

# Usage

	tree.AddDataService(services.NewCacheGCService(badgerCache, cfg.Poster.GCInterval, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logger))
*/
package services
