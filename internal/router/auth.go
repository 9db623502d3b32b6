package router

import (
	"net/http"

	"learnhub/internal/analytics"
	"learnhub/internal/auth"
	"learnhub/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func (rt *Router) AuthRoutes() *chi.Mux {
	router := chi.NewRouter()

	// Auth routes that require authentication
	router.Route("/me", func(r chi.Router) {
		r.Use(rt.requireAuth())

		// Information about the current student
		r.Get("/", rt.getMeHandler)
		r.Get("/analytics", rt.getAnalyticsHandler)

		r.Post("/completedCourses", rt.addCompletedCourseHandler)
		r.Delete("/completedCourses/{courseID}", rt.removeCompletedCourseHandler)

		r.Post("/quizAttempts", rt.submitQuizAttemptHandler)

		r.Get("/progress", rt.listProgressHandler)
		r.Post("/progress/{moduleID}", rt.storeProgressHandler)
	})

	// Alter the current session. No auth middlewares required.
	router.Post("/session", rt.createSessionHandler)
	router.Post("/signout", rt.signOutHandler)

	return router
}

// GET: /me
func (rt *Router) getMeHandler(w http.ResponseWriter, r *http.Request) {
	profile, err := sessionProfile(r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	render.JSON(w, r, profile)
}

// GET: /me/analytics
func (rt *Router) getAnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	session, err := auth.GetSessionFromRequest(r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	uid := session.Identity().UID

	var profile *models.StudentProfile
	var progress []*models.ModuleProgress
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		profile, err = rt.Profiles.GetStudentProfile(ctx, uid)
		return err
	})
	g.Go(func() error {
		var err error
		progress, err = rt.Profiles.ListModuleProgress(ctx, uid)
		return err
	})
	if err := g.Wait(); err != nil {
		rt.writeError(w, r, err)
		return
	}

	render.JSON(w, r, analytics.GenerateStudentAnalytics(profile, progress))
}

// POST: /me/completedCourses
func (rt *Router) addCompletedCourseHandler(w http.ResponseWriter, r *http.Request) {
	profile, err := sessionProfile(r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	var req models.CompletedCourseRequest
	if err := decodeJSON(r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}
	if _, err := rt.Catalog.Get(req.CourseID); err != nil {
		rt.writeError(w, r, err)
		return
	}

	if err := rt.Progress.AddCompletedCourse(r.Context(), profile.UID, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DELETE: /me/completedCourses/{courseID}
func (rt *Router) removeCompletedCourseHandler(w http.ResponseWriter, r *http.Request) {
	profile, err := sessionProfile(r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	if err := rt.Progress.RemoveCompletedCourse(r.Context(), profile.UID, chi.URLParam(r, "courseID")); err != nil {
		rt.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// POST: /me/quizAttempts
func (rt *Router) submitQuizAttemptHandler(w http.ResponseWriter, r *http.Request) {
	profile, err := sessionProfile(r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	var req models.SubmitQuizAttemptRequest
	if err := decodeJSON(r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}
	req.UserID = profile.UID

	attempt, err := rt.Progress.SubmitQuizAttempt(r.Context(), &req)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, attempt)
}

// GET: /me/progress
func (rt *Router) listProgressHandler(w http.ResponseWriter, r *http.Request) {
	profile, err := sessionProfile(r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	progress, err := rt.Progress.ListModuleProgress(r.Context(), profile.UID)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	render.JSON(w, r, progress)
}

// POST: /me/progress/{moduleID}
func (rt *Router) storeProgressHandler(w http.ResponseWriter, r *http.Request) {
	profile, err := sessionProfile(r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	var req models.StoreModuleProgressRequest
	if err := decodeJSON(r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}

	p, err := rt.Progress.StoreModuleProgress(r.Context(), profile.UID, chi.URLParam(r, "moduleID"), &req)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	render.JSON(w, r, p)
}

// POST: /session
func (rt *Router) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}

	// Set session expiration to the configured lifetime (5 days by default).
	expiresIn := rt.Config.SessionCookieExpiration

	// Creating the session cookie also verifies the ID token, and the student ID is checked
	// against the allowlist before any profile is written.
	cookie, profile, err := rt.Auth.StartSession(r.Context(), &req, expiresIn)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}

	http.SetCookie(w, rt.sessionCookie(cookie, int(expiresIn.Seconds())))
	render.JSON(w, r, profile)
}

// POST: /signout
func (rt *Router) signOutHandler(w http.ResponseWriter, r *http.Request) {
	if tokenCookie, err := r.Cookie(rt.Config.SessionCookieName); err == nil {
		session, err := rt.Auth.SessionFromCookie(r.Context(), tokenCookie.Value)
		if err == nil {
			if err := session.Logout(r.Context()); err != nil {
				rt.Logger.Warn("sign out failed", zap.Error(err))
				if rt.Config.ClearSessionOnSignOutFailure {
					http.SetCookie(w, rt.sessionCookie("", -1))
				}
				rt.writeError(w, r, err)
				return
			}
		}
	}

	http.SetCookie(w, rt.sessionCookie("", -1))
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) sessionCookie(value string, maxAge int) *http.Cookie {
	var sameSite http.SameSite
	if rt.Config.IsHTTPS {
		sameSite = http.SameSiteNoneMode
	} else {
		sameSite = http.SameSiteLaxMode
	}

	return &http.Cookie{
		Name:     rt.Config.SessionCookieName,
		Value:    value,
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: sameSite,
		Secure:   rt.Config.IsHTTPS,
		Path:     "/",
	}
}
