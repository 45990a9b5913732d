package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/eksdesign/stand-platform/internal/config"
	"github.com/eksdesign/stand-platform/internal/observability/metrics"
	"github.com/eksdesign/stand-platform/pkg/logging"
)

func TestSetupMetricsExposesIntakeCounters(t *testing.T) {
	handler, intakeMetrics := setupMetrics()
	require.NotNil(t, handler)
	require.NotNil(t, intakeMetrics)

	intakeMetrics.ObserveSubmission("contact", metrics.OutcomeAccepted, 0.01)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "eks_intake_submissions_total")
}

func TestBuildHandlerWithoutBackingServices(t *testing.T) {
	cfg := &appconfig.Config{
		RateLimitBackend: "memory",
		EmailProvider:    "none",
		ReferencePrefix:  "EKS",
	}

	handler, cleanup, err := buildHandler(context.Background(), cfg, logging.New("error"))
	require.NoError(t, err)
	defer cleanup()

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	req := httptest.NewRequest(http.MethodPost, "/contact",
		strings.NewReader(`{"name":"Jane","email":"jane@example.com","message":"Hello"}`))
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rr.Body.String(), `eks_intake_submissions_total{endpoint="contact",outcome="accepted"} 1`)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
