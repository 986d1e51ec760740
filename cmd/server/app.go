// Reelmatch - Movie Similarity Recommendations and Local Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tomtom215/reelmatch/internal/api"
	"github.com/tomtom215/reelmatch/internal/catalog"
	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/metrics"
	"github.com/tomtom215/reelmatch/internal/poster"
	"github.com/tomtom215/reelmatch/internal/recommend"
	"github.com/tomtom215/reelmatch/internal/usage"
)

// app holds the wired components. Everything is built before the
// supervisor starts; nothing here is restarted.
type app struct {
	catalog   *catalog.Catalog
	engine    *recommend.Engine
	resolver  *poster.Resolver
	diskCache *poster.BadgerCache
	usage     *usage.Store
	service   *recommend.Service
	handler   http.Handler
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}

	cat, err := catalog.Load(ctx, catalog.Paths{
		Items:  cfg.Data.ItemsPath,
		Matrix: cfg.Data.MatrixPath,
	}, catalog.Options{
		RejectDuplicateTitles: cfg.Data.RejectDuplicateTitles,
		Logger:                logging.WithComponent("catalog"),
	})
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	a.catalog = cat
	metrics.CatalogItems.Set(float64(cat.Len()))
	if dups := cat.Duplicates(); len(dups) > 0 {
		logging.Warn().
			Int("duplicate_titles", len(dups)).
			Str("items_path", cfg.Data.ItemsPath).
			Msg("Duplicate titles resolved to their first row")
	}

	a.engine, err = recommend.NewEngine(cat, recommend.EngineConfig{
		DefaultK:    cfg.Recommend.DefaultK,
		MaxK:        cfg.Recommend.MaxK,
		Parallelism: cfg.Poster.Parallelism,
	}, logging.WithComponent("recommend"))
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	a.resolver, a.diskCache, err = initPosters(cfg)
	if err != nil {
		return nil, err
	}

	a.usage, err = initUsage(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.service = recommend.NewService(a.engine, a.resolver, a.usage, logging.Logger())

	handler := api.NewHandler(api.HandlerConfig{
		Catalog:     cat,
		Recommender: a.service,
		Usage:       a.usage,
		Posters:     a.resolver,
		MaxK:        cfg.Recommend.MaxK,
		Version:     version,
	})
	a.handler = api.NewRouter(handler, middlewareConfig(cfg)).SetupChi()

	return a, nil
}

func middlewareConfig(cfg *config.Config) *api.ChiMiddlewareConfig {
	mw := api.DefaultChiMiddlewareConfig()
	if len(cfg.Server.CORSOrigins) > 0 {
		mw.CORSAllowedOrigins = cfg.Server.CORSOrigins
	}
	mw.RateLimitRequests = cfg.Server.RateLimitRequests
	mw.RateLimitWindow = cfg.Server.RateLimitWindow
	return mw
}

// Close releases the poster cache and the usage store.
func (a *app) Close() {
	if a.diskCache != nil {
		if err := a.diskCache.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close poster cache")
		}
		a.diskCache = nil
	}
	if a.usage != nil {
		if err := a.usage.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close usage store")
		}
		a.usage = nil
	}
}
