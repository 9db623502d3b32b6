package catalog

import (
	"context"
	"fmt"

	"learnhub/internal/models"
	"learnhub/internal/qerrors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultModuleDuration = "30 mins"

// AdminChecker decides whether a student may edit the catalog.
type AdminChecker interface {
	IsAdmin(studentID string) bool
}

// Editor applies admin edits to a Catalog. Every method checks the editor's student ID first.
type Editor struct {
	catalog *Catalog
	admins  AdminChecker
	logger  *zap.Logger
}

func NewEditor(catalog *Catalog, admins AdminChecker, logger *zap.Logger) *Editor {
	return &Editor{catalog: catalog, admins: admins, logger: logger}
}

func (e *Editor) CreateCourse(ctx context.Context, studentID string, course *models.Course) (*models.Course, error) {
	if !e.admins.IsAdmin(studentID) {
		return nil, qerrors.AdminOnlyError
	}

	created := copyCourse(course)
	created.ID = "course-" + uuid.NewString()
	for _, m := range created.Modules {
		fillModuleDefaults(m)
	}
	if err := models.Validate(created); err != nil {
		return nil, err
	}

	e.catalog.add(created)
	e.logger.Info("course created", zap.String("courseId", created.ID), zap.String("by", studentID))
	return created, nil
}

func (e *Editor) UpdateCourse(ctx context.Context, studentID, courseID string, update *models.CourseUpdate) (*models.Course, error) {
	if !e.admins.IsAdmin(studentID) {
		return nil, qerrors.AdminOnlyError
	}
	if err := models.Validate(update); err != nil {
		return nil, err
	}

	course, err := e.catalog.update(courseID, func(c *models.Course) error {
		if update.Name != nil {
			c.Name = *update.Name
		}
		if update.Description != nil {
			c.Description = *update.Description
		}
		if update.LearningStyle != nil {
			c.LearningStyle = *update.LearningStyle
		}
		if update.Category != nil {
			c.Category = *update.Category
		}
		if update.Difficulty != nil {
			c.Difficulty = *update.Difficulty
		}
		return models.Validate(c)
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("course updated", zap.String("courseId", courseID), zap.String("by", studentID))
	return course, nil
}

func (e *Editor) DeleteCourse(ctx context.Context, studentID, courseID string) error {
	if !e.admins.IsAdmin(studentID) {
		return qerrors.AdminOnlyError
	}
	if err := e.catalog.remove(courseID); err != nil {
		return err
	}

	e.logger.Info("course deleted", zap.String("courseId", courseID), zap.String("by", studentID))
	return nil
}

// AddModule appends a module to a course. A nil module adds an untitled video.
func (e *Editor) AddModule(ctx context.Context, studentID, courseID string, module *models.CourseModule) (*models.CourseModule, error) {
	if !e.admins.IsAdmin(studentID) {
		return nil, qerrors.AdminOnlyError
	}

	m := &models.CourseModule{}
	if module != nil {
		*m = *module
	}
	m.ID = "mod-" + uuid.NewString()
	fillModuleDefaults(m)
	if err := models.Validate(m); err != nil {
		return nil, err
	}

	_, err := e.catalog.update(courseID, func(c *models.Course) error {
		c.Modules = append(c.Modules, m)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("module added", zap.String("courseId", courseID), zap.String("moduleId", m.ID))
	added := *m
	return &added, nil
}

func (e *Editor) UpdateModule(ctx context.Context, studentID, courseID, moduleID string, update *models.ModuleUpdate) (*models.CourseModule, error) {
	if !e.admins.IsAdmin(studentID) {
		return nil, qerrors.AdminOnlyError
	}
	if err := models.Validate(update); err != nil {
		return nil, err
	}

	var updated models.CourseModule
	_, err := e.catalog.update(courseID, func(c *models.Course) error {
		m := findModule(c, moduleID)
		if m == nil {
			return qerrors.ModuleNotFoundError
		}
		if update.Type != nil {
			m.Type = *update.Type
		}
		if update.Title != nil {
			m.Title = *update.Title
		}
		if update.URL != nil {
			m.URL = *update.URL
		}
		if update.Description != nil {
			m.Description = *update.Description
		}
		if update.Content != nil {
			m.Content = *update.Content
		}
		if update.EstimatedDuration != nil {
			m.EstimatedDuration = *update.EstimatedDuration
		}
		updated = *m
		return models.Validate(m)
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("module updated", zap.String("courseId", courseID), zap.String("moduleId", moduleID))
	return &updated, nil
}

func (e *Editor) RemoveModule(ctx context.Context, studentID, courseID, moduleID string) error {
	if !e.admins.IsAdmin(studentID) {
		return qerrors.AdminOnlyError
	}

	_, err := e.catalog.update(courseID, func(c *models.Course) error {
		for i, m := range c.Modules {
			if m.ID == moduleID {
				c.Modules = append(c.Modules[:i], c.Modules[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: %s", qerrors.ModuleNotFoundError, moduleID)
	})
	if err != nil {
		return err
	}

	e.logger.Info("module removed", zap.String("courseId", courseID), zap.String("moduleId", moduleID))
	return nil
}

// Helpers

func fillModuleDefaults(m *models.CourseModule) {
	if m.ID == "" {
		m.ID = "mod-" + uuid.NewString()
	}
	if m.Type == "" {
		m.Type = models.ModuleVideo
	}
	if m.EstimatedDuration == "" {
		m.EstimatedDuration = defaultModuleDuration
	}
}

func findModule(c *models.Course, moduleID string) *models.CourseModule {
	for _, m := range c.Modules {
		if m.ID == moduleID {
			return m
		}
	}
	return nil
}
