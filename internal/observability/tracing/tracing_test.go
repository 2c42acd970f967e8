package tracing

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(nil, Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, provider)
}

func TestNewProvider_RejectsUnknownProtocol(t *testing.T) {
	_, err := NewProvider(nil, Config{Enabled: true, ExporterProtocol: "smoke"}, zap.NewNop())
	require.Error(t, err)
}

func TestGinMiddleware_RecordsSpan(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/v1/bills/quote", func(c *gin.Context) {
		_ = c.Error(errors.New("store_unavailable: connection refused"))
		c.Status(http.StatusInternalServerError)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/bills/quote", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "HTTP GET /health", spans[0].Name())
	assert.Equal(t, "HTTP POST /v1/bills/quote", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	require.NotEmpty(t, spans[1].Events())
}

func TestErrorClass(t *testing.T) {
	assert.Equal(t, "store_unavailable", errorClass(errors.New("store_unavailable: dial tcp")))
	assert.Equal(t, "internal_error", errorClass(errors.New("boom")))
	assert.Equal(t, "unknown", errorClass(nil))
}
