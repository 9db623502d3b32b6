package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestURLParamContexts(t *testing.T) {
	router := chi.NewRouter()
	router.With(CourseCtx(), ModuleCtx(), DoubtCtx()).Get("/courses/{courseID}/modules/{moduleID}/doubts/{doubtID}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(CourseID(r.Context()) + "/" + ModuleID(r.Context()) + "/" + DoubtID(r.Context())))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/courses/course1/modules/mod1_vid/doubts/d1", nil))
	assert.Equal(t, "course1/mod1_vid/d1", rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	limited := RateLimit(2, time.Hour, func(r *http.Request) string {
		return r.Header.Get("X-Student")
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func(student string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("X-Student", student)
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, send("8918"))
	assert.Equal(t, http.StatusNoContent, send("8918"))
	assert.Equal(t, http.StatusTooManyRequests, send("8918"))
	// Other clients have their own budget.
	assert.Equal(t, http.StatusNoContent, send("8946"))
}

func TestRateLimitDisabled(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := RateLimit(0, time.Minute, nil)(next)
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	router := chi.NewRouter()
	router.Use(m.Middleware)
	router.Get("/courses/{courseID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	router.Handle("/metrics", m.Handler())
	m.DoubtEvents.WithLabelValues("created").Inc()

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/courses/course9", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `http_requests_total{endpoint="/courses/{courseID}",method="GET",status="404"} 1`), body)
	assert.True(t, strings.Contains(body, `learnhub_doubt_events_total{event="created"} 1`), body)
}
