package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type contextKey string

const (
	courseIDKey contextKey = "courseID"
	moduleIDKey contextKey = "moduleID"
	doubtIDKey  contextKey = "doubtID"
)

// CourseCtx sets "courseID" from the URL param in the request context.
func CourseCtx() func(handler http.Handler) http.Handler {
	return urlParamCtx("courseID", courseIDKey)
}

// ModuleCtx sets "moduleID" from the URL param in the request context.
func ModuleCtx() func(handler http.Handler) http.Handler {
	return urlParamCtx("moduleID", moduleIDKey)
}

// DoubtCtx sets "doubtID" from the URL param in the request context.
func DoubtCtx() func(handler http.Handler) http.Handler {
	return urlParamCtx("doubtID", doubtIDKey)
}

func CourseID(ctx context.Context) string { return stringValue(ctx, courseIDKey) }
func ModuleID(ctx context.Context) string { return stringValue(ctx, moduleIDKey) }
func DoubtID(ctx context.Context) string  { return stringValue(ctx, doubtIDKey) }

func urlParamCtx(param string, key contextKey) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			value := chi.URLParam(r, param)

			ctx := context.WithValue(r.Context(), key, value)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func stringValue(ctx context.Context, key contextKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}
