package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-connect-api/internal/service"
)

func TestMetricsHandlerReady(t *testing.T) {
	healthy := func(context.Context) error { return nil }
	broken := func(context.Context) error { return errors.New("connection refused") }

	router := newTestRouter()
	router.GET("/ready", NewMetricsHandler(nil, map[string]ReadinessCheck{"postgres": healthy}).Ready)
	w := performRequest(router, http.MethodGet, "/ready", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready","checks":{"postgres":"ok"}}`, w.Body.String())

	router = newTestRouter()
	router.GET("/ready", NewMetricsHandler(nil, map[string]ReadinessCheck{"postgres": healthy, "redis": broken}).Ready)
	w = performRequest(router, http.MethodGet, "/ready", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable","checks":{"postgres":"ok","redis":"connection refused"}}`, w.Body.String())
}

func TestMetricsHandlerPrometheus(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.RecordMessageSent("text")

	h := NewMetricsHandler(metrics, nil)
	router := newTestRouter()
	router.GET("/metrics", h.Prometheus)
	router.GET("/health", h.Health)

	w := performRequest(router, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "messages_sent_total")

	w = performRequest(router, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	router = newTestRouter()
	router.GET("/metrics", NewMetricsHandler(nil, nil).Prometheus)
	w = performRequest(router, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
