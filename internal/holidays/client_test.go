package holidays

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const yearPayload = `[
	{"date":"2025-01-01","localName":"Yılbaşı","name":"New Year's Day","countryCode":"TR","global":true,"counties":null,"types":["Public"]},
	{"date":"2025-04-23","localName":"Ulusal Egemenlik ve Çocuk Bayramı","name":"National Sovereignty and Children's Day","countryCode":"TR","global":true,"counties":null,"types":["Public"]},
	{"date":"2025-05-19","localName":"Bölgesel Gün","name":"Regional Day","countryCode":"TR","global":false,"counties":["TR-34"],"types":["Public"]},
	{"date":"2025-06-05","localName":"Anma Günü","name":"Observance Day","countryCode":"TR","global":true,"counties":null,"types":["Observance"]}
]`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "TR")
}

func TestIsPublicHoliday(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/PublicHolidays/2025/TR", r.URL.Path)
		w.Write([]byte(yearPayload))
	})

	ctx := context.Background()
	assert.True(t, client.IsPublicHoliday(ctx, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, client.IsPublicHoliday(ctx, time.Date(2025, time.April, 23, 0, 0, 0, 0, time.UTC)))
	assert.False(t, client.IsPublicHoliday(ctx, time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)))
}

func TestIsPublicHoliday_FiltersScopedAndNonPublic(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(yearPayload))
	})

	ctx := context.Background()
	// Subdivision-scoped entry does not count.
	assert.False(t, client.IsPublicHoliday(ctx, time.Date(2025, time.May, 19, 0, 0, 0, 0, time.UTC)))
	// Observance-type entry does not count.
	assert.False(t, client.IsPublicHoliday(ctx, time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC)))
}

func TestIsPublicHoliday_CachesPerYear(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(yearPayload))
	})

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		client.IsPublicHoliday(ctx, time.Date(2025, time.January, 1+i, 0, 0, 0, 0, time.UTC))
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestIsPublicHoliday_FailsOpenOnServerError(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	ctx := context.Background()
	assert.False(t, client.IsPublicHoliday(ctx, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)))
	// The failed year is cached empty — no retry storm.
	assert.False(t, client.IsPublicHoliday(ctx, time.Date(2025, time.April, 23, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClearCache(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(yearPayload))
	})

	ctx := context.Background()
	client.IsPublicHoliday(ctx, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
	client.ClearCache()
	client.IsPublicHoliday(ctx, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	client := NewClient("", "TR")
	assert.Equal(t, DefaultBaseURL, client.baseURL)
}
