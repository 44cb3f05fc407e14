package schedule

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curbside/internal/sentinel"
	"curbside/internal/subscriber/models"
)

func testAddress(t *testing.T) models.Address {
	t.Helper()
	addr, err := models.NewAddress("1403", "E", "POTTER", "AV", "1403 E POTTER AV")
	require.NoError(t, err)
	return addr
}

func TestHTTPSourceLookup(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"laddr":  q.Get("laddr"),
			"sdir":   q.Get("sdir"),
			"sname":  q.Get("sname"),
			"stype":  q.Get("stype"),
			"faddr":  q.Get("faddr"),
			"redir":  q.Get("redir"),
			"embed":  q.Get("embed"),
			"method": q.Get("method"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"garbage": {"date": "FRIDAY JANUARY 2, 2026", "is_determined": true, "route": "G12"},
			"recycling": {"date": "MONDAY JANUARY 12, 2026", "alt_date": "", "is_determined": true}
		}`))
	}))
	defer srv.Close()

	source := NewHTTPSource(srv.URL, time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	payload, err := source.Lookup(context.Background(), testAddress(t))
	require.NoError(t, err)

	assert.Equal(t, "1403", gotQuery["laddr"])
	assert.Equal(t, "E", gotQuery["sdir"])
	assert.Equal(t, "POTTER", gotQuery["sname"])
	assert.Equal(t, "AV", gotQuery["stype"])
	assert.Equal(t, "1403 E POTTER AV", gotQuery["faddr"])
	assert.Equal(t, "y", gotQuery["redir"])
	assert.Equal(t, "y", gotQuery["embed"])
	assert.Equal(t, "na", gotQuery["method"])

	require.True(t, payload.Success)
	require.NotNil(t, payload.Garbage)
	assert.Equal(t, "FRIDAY JANUARY 2, 2026", payload.Garbage.Date)
	assert.True(t, payload.Garbage.IsDetermined)
	assert.Equal(t, "G12", payload.Garbage.Route)
	require.NotNil(t, payload.Recycling)
	assert.True(t, payload.Determined())
}

func TestHTTPSourceLookupNonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	source := NewHTTPSource(srv.URL, time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := source.Lookup(context.Background(), testAddress(t))
	require.ErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestHTTPSourceLookupBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	source := NewHTTPSource(srv.URL, time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := source.Lookup(context.Background(), testAddress(t))
	require.ErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestHTTPSourceLookupTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	source := NewHTTPSource(srv.URL, 50*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := source.Lookup(context.Background(), testAddress(t))
	require.ErrorIs(t, err, sentinel.ErrUnavailable)
}
