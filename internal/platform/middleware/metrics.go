// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/epaper/internal/platform/metrics"
)

// unmatchedRoute labels requests that did not hit a registered route, keeping
// label cardinality bounded when scanners probe random paths.
const unmatchedRoute = "unmatched"

// Metrics records request counts and latency per route template.
//
// It must be mounted on the chi router (not wrapped around it) so the route
// pattern is known once the downstream handler returns.
func Metrics(registry *metrics.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			startTime := time.Now()
			recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(recorder, request)

			route := unmatchedRoute
			if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
				if pattern := routeContext.RoutePattern(); pattern != "" {
					route = pattern
				}
			}

			registry.HTTPRequestsTotal.WithLabelValues(request.Method, route, strconv.Itoa(recorder.status)).Inc()
			registry.HTTPRequestDuration.WithLabelValues(request.Method, route).Observe(time.Since(startTime).Seconds())
		})
	}
}
