// SalonPulse - Customer and Platform Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonpulse

/*
Package cache is the in-memory snapshot cache.

Entries expire after a TTL and the cache holds at most a fixed number of
entries, evicting the least recently used one when full. Per-salon customer
insights are keyed by salon and options, so capacity bounds memory even on
platforms with many salons.

	c := cache.New(5*time.Minute, 1024)
	key := cache.GenerateKey("customer_insights", params)
	if v, ok := c.Get(key); ok {
	    return v.(models.CustomerInsights), nil
	}

Expired entries are removed lazily on Get and in bulk by Cleanup, which the
snapshot refresher calls on every tick.
*/
package cache
