// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics holds the Prometheus collectors of the service. They are
// registered on the default registry and served by the router at /metrics.
package metrics
