package catalog

import (
	"strings"
	"sync"

	"learnhub/internal/models"
	"learnhub/internal/qerrors"
)

// Catalog is the in-memory course list. Edits are not persisted.
type Catalog struct {
	lock    *sync.RWMutex
	courses []*models.Course
}

func NewCatalog(courses []*models.Course) *Catalog {
	c := &Catalog{lock: &sync.RWMutex{}}
	for _, course := range courses {
		c.courses = append(c.courses, copyCourse(course))
	}
	return c
}

// Filter narrows List. Empty fields match everything.
type Filter struct {
	LearningStyle models.LearningStyle
	Category      string
	Difficulty    models.DifficultyLevel
}

func (f Filter) matches(c *models.Course) bool {
	if f.LearningStyle != "" && c.LearningStyle != f.LearningStyle {
		return false
	}
	if f.Category != "" && !strings.EqualFold(c.Category, f.Category) {
		return false
	}
	if f.Difficulty != "" && c.Difficulty != f.Difficulty {
		return false
	}
	return true
}

// List returns the courses matching f, in catalog order.
func (c *Catalog) List(f Filter) []*models.Course {
	c.lock.RLock()
	defer c.lock.RUnlock()

	courses := make([]*models.Course, 0, len(c.courses))
	for _, course := range c.courses {
		if f.matches(course) {
			courses = append(courses, copyCourse(course))
		}
	}
	return courses
}

func (c *Catalog) Get(courseID string) (*models.Course, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	i := c.indexOf(courseID)
	if i < 0 {
		return nil, qerrors.CourseNotFoundError
	}
	return copyCourse(c.courses[i]), nil
}

// GetModule returns one module of a course.
func (c *Catalog) GetModule(courseID, moduleID string) (*models.CourseModule, error) {
	course, err := c.Get(courseID)
	if err != nil {
		return nil, err
	}
	for _, m := range course.Modules {
		if m.ID == moduleID {
			return m, nil
		}
	}
	return nil, qerrors.ModuleNotFoundError
}

// update applies fn to the stored course under the write lock.
func (c *Catalog) update(courseID string, fn func(course *models.Course) error) (*models.Course, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	i := c.indexOf(courseID)
	if i < 0 {
		return nil, qerrors.CourseNotFoundError
	}

	updated := copyCourse(c.courses[i])
	if err := fn(updated); err != nil {
		return nil, err
	}
	c.courses[i] = updated
	return copyCourse(updated), nil
}

func (c *Catalog) add(course *models.Course) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.courses = append(c.courses, copyCourse(course))
}

func (c *Catalog) remove(courseID string) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	i := c.indexOf(courseID)
	if i < 0 {
		return qerrors.CourseNotFoundError
	}
	c.courses = append(c.courses[:i], c.courses[i+1:]...)
	return nil
}

// indexOf must be called with the lock held.
func (c *Catalog) indexOf(courseID string) int {
	for i, course := range c.courses {
		if course.ID == courseID {
			return i
		}
	}
	return -1
}

func copyCourse(course *models.Course) *models.Course {
	c := *course
	c.Modules = make([]*models.CourseModule, 0, len(course.Modules))
	for _, m := range course.Modules {
		mc := *m
		c.Modules = append(c.Modules, &mc)
	}
	return &c
}
