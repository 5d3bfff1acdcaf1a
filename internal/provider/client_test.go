package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDoctor_ToleratesMissingFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/doctors/3", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))
		_, _ = w.Write([]byte(`{"id":3,"name":"Dr. Silva"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", time.Second)
	d, err := c.GetDoctor(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, "Dr. Silva", d.Name)
	// Absent fields come back as empty collections, never nil.
	assert.NotNil(t, d.ConsultationHours)
	assert.NotNil(t, d.UnavailableDates)
	assert.Empty(t, d.ConsultationHours)
}

func TestGetDoctor_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	_, err := c.GetDoctor(context.Background(), 1)
	assert.Error(t, err)
}

func TestListDoctors_RedisCache(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"doctors":[{"id":1,"name":"Dr. Silva","consultation_hours":[{"day":"Monday","hours":[{"start_time":"09:00:00","end_time":"12:00:00"}]}]}]}`))
	}))
	defer srv.Close()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	c := NewClient(srv.URL, "", time.Second)
	c.UseRedisCache(rdb, time.Minute)

	ctx := context.Background()

	first, err := c.ListDoctors(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "Monday", first[0].ConsultationHours[0].Day)

	// Second call is served from cache.
	second, err := c.ListDoctors(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), calls.Load())

	// Expired cache falls through to the upstream again.
	mr.FastForward(2 * time.Minute)
	_, err = c.ListDoctors(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestListAppointments_MixedDateFormats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"appointments":[
			{"id":1,"doctor_id":2,"date":"2025-03-14","time":"14:00:00","appointment_method":"video"},
			{"id":2,"doctor_id":2,"date":"15/03/2025","time":"09:30:00","meet_link":"https://meet.example.com/z"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	apps, err := c.ListAppointments(context.Background())
	require.NoError(t, err)

	require.Len(t, apps, 2)
	// Raw formats pass through untouched; normalization happens at the
	// meeting-evaluator and store boundaries.
	assert.Equal(t, "2025-03-14", apps[0].Date)
	assert.Equal(t, "15/03/2025", apps[1].Date)
	assert.True(t, apps[1].IsVirtual())
}
