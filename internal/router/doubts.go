package router

import (
	"encoding/json"
	"fmt"
	"net/http"

	"learnhub/internal/auth"
	"learnhub/internal/middleware"
	"learnhub/internal/models"
	"learnhub/internal/qerrors"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"
)

func (rt *Router) DoubtRoutes() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.CourseCtx(), middleware.ModuleCtx(), rt.requireAuth(), rt.moduleExists)

	// Reading the module's threads
	router.Get("/", rt.listDoubtsHandler)
	router.Get("/stream", rt.streamDoubtsHandler)

	// Posting to the module's threads
	router.Group(func(r chi.Router) {
		r.Use(auth.RequireChat(rt.Auth.Roles()))
		r.Use(middleware.RateLimit(rt.Config.DoubtRateLimit, rt.Config.DoubtRateWindow, sessionStudentKey))

		r.Post("/", rt.createDoubtHandler)
		r.With(middleware.DoubtCtx()).Post("/{doubtID}/replies", rt.createReplyHandler)
		r.With(middleware.DoubtCtx()).Post("/{doubtID}/pin", rt.togglePinHandler)
	})

	return router
}

// moduleExists rejects requests for modules that are not in the catalog.
func (rt *Router) moduleExists(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if _, err := rt.Catalog.GetModule(middleware.CourseID(ctx), middleware.ModuleID(ctx)); err != nil {
			rt.writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GET: /
func (rt *Router) listDoubtsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	doubts, err := rt.Doubts.List(ctx, middleware.CourseID(ctx), middleware.ModuleID(ctx))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	render.JSON(w, r, doubts)
}

// GET: /stream
//
// Streams every ordered snapshot of the module's doubts as server-sent events until the client
// disconnects.
func (rt *Router) streamDoubtsHandler(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		rt.writeError(w, r, qerrors.Unavailable(fmt.Errorf("streaming unsupported")))
		return
	}

	ctx := r.Context()
	courseID, moduleID := middleware.CourseID(ctx), middleware.ModuleID(ctx)
	sub, err := rt.Doubts.Watch(ctx, courseID, moduleID)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	defer sub.Unsubscribe()

	if rt.Metrics != nil {
		rt.Metrics.ActiveStreams.Inc()
		defer rt.Metrics.ActiveStreams.Dec()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for snapshot := range sub.Updates() {
		if err := writeEvent(w, "doubts", snapshot); err != nil {
			return
		}
		flusher.Flush()
	}

	if err := sub.Err(); err != nil {
		rt.Logger.Warn("doubt stream ended",
			zap.String("courseId", courseID),
			zap.String("moduleId", moduleID),
			zap.Error(err))
		_ = writeEvent(w, "error", qerrors.ErrorResponse{
			Title:       qerrors.Title(err),
			Description: err.Error(),
		})
		flusher.Flush()
	}
}

// POST: /
func (rt *Router) createDoubtHandler(w http.ResponseWriter, r *http.Request) {
	session, err := auth.GetSessionFromRequest(r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	var req models.CreateDoubtRequest
	if err := decodeJSON(r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}
	ctx := r.Context()
	req.CourseID = middleware.CourseID(ctx)
	req.ModuleID = middleware.ModuleID(ctx)
	req.SenderID = session.StudentID()
	req.SenderName = session.Profile().Name

	id, err := rt.Doubts.AddDoubt(ctx, &req)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	rt.countDoubtEvent("created")

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]string{"id": id})
}

// POST: /{doubtID}/replies
func (rt *Router) createReplyHandler(w http.ResponseWriter, r *http.Request) {
	session, err := auth.GetSessionFromRequest(r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	var req models.CreateReplyRequest
	if err := decodeJSON(r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}
	ctx := r.Context()
	req.CourseID = middleware.CourseID(ctx)
	req.ModuleID = middleware.ModuleID(ctx)
	req.DoubtID = middleware.DoubtID(ctx)
	req.SenderID = session.StudentID()
	req.SenderName = session.Profile().Name

	reply, err := rt.Doubts.AddReply(ctx, &req)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	rt.countDoubtEvent("replied")

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, reply)
}

// POST: /{doubtID}/pin
func (rt *Router) togglePinHandler(w http.ResponseWriter, r *http.Request) {
	session, err := auth.GetSessionFromRequest(r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	var req models.TogglePinRequest
	if err := decodeJSON(r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}
	ctx := r.Context()
	req.CourseID = middleware.CourseID(ctx)
	req.ModuleID = middleware.ModuleID(ctx)
	req.DoubtID = middleware.DoubtID(ctx)
	req.RequesterID = session.StudentID()

	pinned, err := rt.Doubts.TogglePin(ctx, &req)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	rt.countDoubtEvent("pinned")

	render.JSON(w, r, map[string]bool{"pinned": pinned})
}

func (rt *Router) countDoubtEvent(event string) {
	if rt.Metrics != nil {
		rt.Metrics.DoubtEvents.WithLabelValues(event).Inc()
	}
}

func sessionStudentKey(r *http.Request) string {
	session, err := auth.GetSessionFromRequest(r)
	if err != nil {
		return ""
	}
	return session.StudentID()
}

func writeEvent(w http.ResponseWriter, event string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
	return err
}
