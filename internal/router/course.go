package router

import (
	"net/http"

	"learnhub/internal/auth"
	"learnhub/internal/catalog"
	"learnhub/internal/middleware"
	"learnhub/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

func (rt *Router) CourseRoutes() *chi.Mux {
	router := chi.NewRouter()

	// Browsing the catalog
	router.Get("/", rt.listCoursesHandler)
	router.With(middleware.CourseCtx()).Get("/{courseID}", rt.getCourseHandler)

	// Modifying courses themselves
	router.Group(func(r chi.Router) {
		r.Use(rt.requireAuth(), auth.RequireAdmin(rt.Auth.Roles()))

		r.Post("/", rt.createCourseHandler)
		r.With(middleware.CourseCtx()).Patch("/{courseID}", rt.updateCourseHandler)
		r.With(middleware.CourseCtx()).Delete("/{courseID}", rt.deleteCourseHandler)

		r.With(middleware.CourseCtx()).Post("/{courseID}/modules", rt.addModuleHandler)
		r.With(middleware.CourseCtx(), middleware.ModuleCtx()).Patch("/{courseID}/modules/{moduleID}", rt.updateModuleHandler)
		r.With(middleware.CourseCtx(), middleware.ModuleCtx()).Delete("/{courseID}/modules/{moduleID}", rt.removeModuleHandler)
	})

	// Per-module Q&A
	router.Mount("/{courseID}/modules/{moduleID}/doubts", rt.DoubtRoutes())

	return router
}

// GET: /
func (rt *Router) listCoursesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	courses := rt.Catalog.List(catalog.Filter{
		LearningStyle: models.LearningStyle(q.Get("learningStyle")),
		Category:      q.Get("category"),
		Difficulty:    models.DifficultyLevel(q.Get("difficulty")),
	})

	render.JSON(w, r, courses)
}

// GET: /{courseID}
func (rt *Router) getCourseHandler(w http.ResponseWriter, r *http.Request) {
	course, err := rt.Catalog.Get(middleware.CourseID(r.Context()))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	render.JSON(w, r, course)
}

// POST: /
func (rt *Router) createCourseHandler(w http.ResponseWriter, r *http.Request) {
	var req models.Course
	if err := decodeJSON(r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}

	course, err := rt.Editor.CreateCourse(r.Context(), editorID(r), &req)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, course)
}

// PATCH: /{courseID}
func (rt *Router) updateCourseHandler(w http.ResponseWriter, r *http.Request) {
	var req models.CourseUpdate
	if err := decodeJSON(r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}

	course, err := rt.Editor.UpdateCourse(r.Context(), editorID(r), middleware.CourseID(r.Context()), &req)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	render.JSON(w, r, course)
}

// DELETE: /{courseID}
func (rt *Router) deleteCourseHandler(w http.ResponseWriter, r *http.Request) {
	if err := rt.Editor.DeleteCourse(r.Context(), editorID(r), middleware.CourseID(r.Context())); err != nil {
		rt.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// POST: /{courseID}/modules
func (rt *Router) addModuleHandler(w http.ResponseWriter, r *http.Request) {
	var req *models.CourseModule
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			rt.writeError(w, r, err)
			return
		}
	}

	module, err := rt.Editor.AddModule(r.Context(), editorID(r), middleware.CourseID(r.Context()), req)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, module)
}

// PATCH: /{courseID}/modules/{moduleID}
func (rt *Router) updateModuleHandler(w http.ResponseWriter, r *http.Request) {
	var req models.ModuleUpdate
	if err := decodeJSON(r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}

	module, err := rt.Editor.UpdateModule(r.Context(), editorID(r), middleware.CourseID(r.Context()), middleware.ModuleID(r.Context()), &req)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	render.JSON(w, r, module)
}

// DELETE: /{courseID}/modules/{moduleID}
func (rt *Router) removeModuleHandler(w http.ResponseWriter, r *http.Request) {
	err := rt.Editor.RemoveModule(r.Context(), editorID(r), middleware.CourseID(r.Context()), middleware.ModuleID(r.Context()))
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func editorID(r *http.Request) string {
	session, err := auth.GetSessionFromRequest(r)
	if err != nil {
		return ""
	}
	return session.StudentID()
}
