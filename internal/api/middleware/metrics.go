package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/openfedcloud/fedmgr/pkg/metrics"
)

// Metrics records request counts and latencies.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		metrics.APIRequestsTotal.WithLabelValues(r.Method, strconv.Itoa(rw.status)).Inc()
		metrics.APIRequestDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}
