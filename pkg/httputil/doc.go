// Package httputil fetches documentation pages for the report pipelines.
//
// # Overview
//
// [Fetcher] issues one GET per URL through a response cache supplied by the
// caller (see package cache). It has no retry or backoff: a failed request
// is logged and returned as an error carrying errors.ErrCodeFetch, and the
// pipeline decides whether to skip the page or stop.
//
// # Caching
//
// Successful page bodies are stored under "page:<url>" with the configured
// TTL, so repeated runs read from disk (or Redis) instead of the network:
//
//	c, _ := cache.NewFileCache(dir)
//	f := httputil.NewFetcher(c, httputil.Options{TTL: 24 * time.Hour})
//	page, err := f.Get(ctx, "https://peps.python.org/")
//
// Archives fetched with [Fetcher.Download] bypass the cache.
//
// # Encoding
//
// Bodies are always decoded as UTF-8, whatever the server declares. Invalid
// byte sequences become U+FFFD; the detected charset is logged at debug
// level to help diagnose such pages.
package httputil
