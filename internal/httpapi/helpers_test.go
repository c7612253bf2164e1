// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package httpapi_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gatehouse-auth/gatehouse/internal/auth/authtest"
	"github.com/gatehouse-auth/gatehouse/internal/httpapi"
)

const appOrigin = "http://app.test"

// browser replays cookies the way a browser would, honouring path scope.
type browser struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, handler http.Handler) *browser {
	return &browser{t: t, handler: handler, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(method, path string, body any) *httptest.ResponseRecorder {
	b.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(b.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "httpapi-test")
	for _, c := range b.cookies {
		if strings.HasPrefix(path, c.Path) {
			req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
		}
	}

	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return rec
}

func (b *browser) has(name string) bool {
	_, ok := b.cookies[name]
	return ok
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func setCookies(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

type stubMetrics struct {
	mu     sync.Mutex
	routes []string
}

func (m *stubMetrics) ObserveHTTPRequest(method, route string, status int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes = append(m.routes, method+" "+route+" "+http.StatusText(status))
}

type fixture struct {
	env     *authtest.Env
	metrics *stubMetrics
	logs    *bytes.Buffer
	handler http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	env := authtest.NewEnv(t)
	f := &fixture{env: env, metrics: &stubMetrics{}, logs: &bytes.Buffer{}}
	f.handler = httpapi.NewRouter(httpapi.Options{
		Service:   env.Service,
		Cookies:   httpapi.NewCookies(true, "").WithClock(env.Clock.Now),
		AppOrigin: appOrigin,
		Logger:    slog.New(slog.NewJSONHandler(f.logs, nil)),
		Metrics:   f.metrics,
	})
	return f
}

func registerBody(email, password string) map[string]string {
	return map[string]string{"email": email, "password": password, "confirmPassword": password}
}
