// Should I Race This - iRacing Race Recommendation Engine
// Copyright 2026 Ben Giese (BenGiese22)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/BenGiese22/should-i-race-this

// Package metrics provides Prometheus instrumentation for the service.
//
// Metrics are registered with the default registry via promauto and
// exposed by the /metrics endpoint in internal/api. Helper functions
// wrap the common multi-metric recording patterns so call sites stay
// one line.
package metrics
