package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/customer-service/internal/config"
	"github.com/unclebandit/customer-service/internal/controller"
	"github.com/unclebandit/customer-service/internal/db"
	"github.com/unclebandit/customer-service/internal/handler"
	"github.com/unclebandit/customer-service/internal/queue"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		DBDriver:   config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "customers.db"),
	}
	sqlDB, err := db.Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	repo, err := newCustomerRepository(cfg, sqlDB)
	require.NoError(t, err)
	events, closeEvents, err := newEventQueue(cfg, repo)
	require.NoError(t, err)
	t.Cleanup(closeEvents)
	_, inMemory := events.(*queue.InMemoryQueue)
	require.True(t, inMemory)

	ctrl := &controller.CustomerController{Repo: repo, Events: events}
	srv := httptest.NewServer(newRouter(ctrl, handler.NewSystemHandler(sqlDB)))
	t.Cleanup(srv.Close)
	return srv
}

func TestAddCustomerEndToEnd(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/customer/add-customer", "application/json",
		strings.NewReader(`{"name":"Jane Smith","address":"456 Oak Ave","salary":65000}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(handler.RequestIDHeader))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"message":"Customer Added Successfully","success":true,"data":{"id":1,"name":"Jane Smith","address":"456 Oak Ave","salary":65000.0}}`,
		string(body))
}

func TestAddCustomerEndToEndWithoutBody(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/customer/add-customer", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRoutes(t *testing.T) {
	srv := newTestServer(t)

	for _, tc := range []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/openapi.json", http.StatusOK},
		{http.MethodGet, "/customer/add-customer", http.StatusMethodNotAllowed},
		{http.MethodDelete, "/customer/1", http.StatusNotFound},
	} {
		req, err := http.NewRequest(tc.method, srv.URL+tc.path, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, tc.want, resp.StatusCode, "%s %s", tc.method, tc.path)
	}
}
