package http

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()

	w := request(h, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	return w.Body.String()
}

func counterLine(path string, n int) string {
	return fmt.Sprintf(`demo_http_requests_total{method="GET",path=%q,status="200"} %d`, path, n)
}

func TestMetrics_CountsRequestsByRouteAndStatus(t *testing.T) {
	s, reg, _ := newTestServer(t)
	h := s.Handler()

	for i := 0; i < 3; i++ {
		request(h, http.MethodGet, "/health")
	}
	for i := 0; i < 2; i++ {
		request(h, http.MethodGet, "/")
	}
	request(h, http.MethodGet, "/nope")

	body := scrape(t, h)

	assert.Contains(t, body, counterLine("/health", 3))
	assert.Contains(t, body, counterLine("/", 2))
	assert.Contains(t, body, `demo_http_requests_total{method="GET",path="<unmatched>",status="404"} 1`)
	assert.Contains(t, body, `demo_http_request_duration_seconds_count{method="GET",path="/health",status="200"} 3`)
	assert.Contains(t, body, `demo_app_info{version="test"} 1`)

	count, err := testutil.GatherAndCount(reg, "demo_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestMetrics_EndpointIsNotSelfCounted(t *testing.T) {
	s, _, _ := newTestServer(t)

	scrape(t, s.Handler())
	body := scrape(t, s.Handler())

	assert.NotContains(t, body, `path="/metrics"`)
}

func TestMetrics_CountersAreNonDecreasing(t *testing.T) {
	s, _, _ := newTestServer(t)
	h := s.Handler()

	request(h, http.MethodGet, "/health")
	assert.Contains(t, scrape(t, h), counterLine("/health", 1))

	request(h, http.MethodGet, "/health")
	assert.Contains(t, scrape(t, h), counterLine("/health", 2))

	assert.Contains(t, scrape(t, h), counterLine("/health", 2))
}

func TestServer_Addr(t *testing.T) {
	s := NewServer(&Config{Host: "0.0.0.0", Port: 8080})

	assert.Equal(t, "0.0.0.0:8080", s.Addr())
}

func TestServer_ListenFailsWhenPortTaken(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	_, portStr, err := net.SplitHostPort(taken.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	s := NewServer(&Config{Host: "127.0.0.1", Port: port})

	err = s.Listen()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")

	err = s.Start()
	assert.Error(t, err)
}

func TestServer_EndToEnd(t *testing.T) {
	s := NewServer(&Config{Host: "127.0.0.1", Port: 0, Logger: zap.NewNop()})
	require.NoError(t, s.Listen())

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	base := "http://" + s.Addr()
	client := &http.Client{Timeout: 5 * time.Second}

	get := func(path string) (int, string) {
		resp, err := client.Get(base + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	code, body := get("/health")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, healthBody, body)

	code, body = get("/")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, welcomeBody, body)

	code, _ = get("/nope")
	assert.Equal(t, http.StatusNotFound, code)

	code, body = get("/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, counterLine("/health", 1))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	select {
	case err := <-errCh:
		assert.NoError(t, err, "Start should return nil after graceful shutdown")
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
