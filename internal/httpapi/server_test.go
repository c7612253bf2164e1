// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package httpapi_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/gatehouse-auth/gatehouse/internal/httpapi"
	"github.com/gatehouse-auth/gatehouse/pkg/errutil"
)

func TestServer_StartStopLeavesNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	f := newFixture(t)
	srv := httpapi.NewServer("127.0.0.1:0", f.handler, time.Second, nil)
	errCh, err := srv.Start()
	require.NoError(t, err)

	client := &http.Client{Transport: &http.Transport{}}
	resp, err := client.Get("http://" + srv.Addr() + "/health")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	client.CloseIdleConnections()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
	require.NoError(t, srv.Stop(ctx), "second stop is a no-op")

	_, open := <-errCh
	assert.False(t, open)
}

func TestServer_DoubleStart(t *testing.T) {
	srv := httpapi.NewServer("127.0.0.1:0", http.NotFoundHandler(), time.Second, nil)
	_, err := srv.Start()
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Stop(context.Background()) })

	_, err = srv.Start()
	errutil.AssertErrorCode(t, err, "HTTP_RUNNING")
}
