package catalog

import (
	"context"
	"errors"
	"testing"

	"learnhub/internal/models"
	"learnhub/internal/qerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type adminSet map[string]bool

func (a adminSet) IsAdmin(studentID string) bool { return a[studentID] }

func newTestEditor() (*Editor, *Catalog) {
	c := NewCatalog(SeedCourses())
	return NewEditor(c, adminSet{"8918": true}, zap.NewNop()), c
}

func strPtr(s string) *string { return &s }

func TestSeedCoursesAreValid(t *testing.T) {
	courses := SeedCourses()
	require.Len(t, courses, 6)
	for _, c := range courses {
		assert.NoError(t, models.Validate(c), c.ID)
	}
}

func TestCatalogList(t *testing.T) {
	c := NewCatalog(SeedCourses())

	assert.Len(t, c.List(Filter{}), 6)
	visual := c.List(Filter{LearningStyle: models.LearningStyleVisual})
	require.Len(t, visual, 3)
	assert.Equal(t, "course1", visual[0].ID)

	science := c.List(Filter{Category: "science", Difficulty: models.DifficultyAdvanced})
	require.Len(t, science, 1)
	assert.Equal(t, "course4", science[0].ID)
}

func TestCatalogReturnsCopies(t *testing.T) {
	c := NewCatalog(SeedCourses())

	course, err := c.Get("course1")
	require.NoError(t, err)
	course.Name = "changed"
	course.Modules[0].Title = "changed"

	again, err := c.Get("course1")
	require.NoError(t, err)
	assert.Equal(t, "Visual Learners: Intro to Algebra", again.Name)
	assert.Equal(t, "Understanding Variables", again.Modules[0].Title)

	_, err = c.Get("nope")
	assert.True(t, errors.Is(err, qerrors.NotFoundError))

	m, err := c.GetModule("course6", "mod6_ar1")
	require.NoError(t, err)
	assert.Equal(t, models.ModuleARInteractiveLab, m.Type)
	_, err = c.GetModule("course6", "nope")
	assert.True(t, errors.Is(err, qerrors.ModuleNotFoundError))
}

func TestEditorRequiresAdmin(t *testing.T) {
	e, c := newTestEditor()
	ctx := context.Background()

	_, err := e.CreateCourse(ctx, "8946", &models.Course{})
	assert.True(t, errors.Is(err, qerrors.PermissionError))
	_, err = e.UpdateCourse(ctx, "8946", "course1", &models.CourseUpdate{Name: strPtr("x")})
	assert.True(t, errors.Is(err, qerrors.PermissionError))
	err = e.DeleteCourse(ctx, "", "course1")
	assert.True(t, errors.Is(err, qerrors.PermissionError))
	_, err = e.AddModule(ctx, "8946", "course1", nil)
	assert.True(t, errors.Is(err, qerrors.PermissionError))
	_, err = e.UpdateModule(ctx, "8946", "course1", "mod1_vid", &models.ModuleUpdate{})
	assert.True(t, errors.Is(err, qerrors.PermissionError))
	err = e.RemoveModule(ctx, "8946", "course1", "mod1_vid")
	assert.True(t, errors.Is(err, qerrors.PermissionError))

	assert.Len(t, c.List(Filter{}), 6)
}

func TestEditorCreateCourse(t *testing.T) {
	e, c := newTestEditor()
	ctx := context.Background()

	_, err := e.CreateCourse(ctx, "8918", &models.Course{Name: "Geometry", Category: "Mathematics", Difficulty: models.DifficultyBeginner})
	assert.True(t, errors.Is(err, qerrors.ValidationError))

	created, err := e.CreateCourse(ctx, "8918", &models.Course{
		Name:          "Geometry",
		LearningStyle: models.LearningStyleVisual,
		Category:      "Mathematics",
		Difficulty:    models.DifficultyBeginner,
		Modules:       []*models.CourseModule{{Title: "Shapes"}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	require.Len(t, created.Modules, 1)
	assert.Equal(t, models.ModuleVideo, created.Modules[0].Type)
	assert.Equal(t, "30 mins", created.Modules[0].EstimatedDuration)
	assert.NotEmpty(t, created.Modules[0].ID)

	stored, err := c.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Geometry", stored.Name)
	assert.Len(t, c.List(Filter{}), 7)
}

func TestEditorUpdateCourse(t *testing.T) {
	e, _ := newTestEditor()
	ctx := context.Background()

	style := models.LearningStyle("olfactory")
	_, err := e.UpdateCourse(ctx, "8918", "course1", &models.CourseUpdate{LearningStyle: &style})
	assert.True(t, errors.Is(err, qerrors.ValidationError))

	_, err = e.UpdateCourse(ctx, "8918", "course1", &models.CourseUpdate{Name: strPtr("  ")})
	assert.True(t, errors.Is(err, qerrors.ValidationError))

	_, err = e.UpdateCourse(ctx, "8918", "nope", &models.CourseUpdate{Name: strPtr("x")})
	assert.True(t, errors.Is(err, qerrors.NotFoundError))

	level := models.DifficultyAdvanced
	updated, err := e.UpdateCourse(ctx, "8918", "course1", &models.CourseUpdate{Name: strPtr("Algebra II"), Difficulty: &level})
	require.NoError(t, err)
	assert.Equal(t, "Algebra II", updated.Name)
	assert.Equal(t, models.DifficultyAdvanced, updated.Difficulty)
	assert.Equal(t, "Mathematics", updated.Category)
	assert.Len(t, updated.Modules, 4)
}

func TestEditorModules(t *testing.T) {
	e, c := newTestEditor()
	ctx := context.Background()

	added, err := e.AddModule(ctx, "8918", "course6", nil)
	require.NoError(t, err)
	assert.Equal(t, models.ModuleVideo, added.Type)

	kind := models.ModuleType("hologram")
	_, err = e.UpdateModule(ctx, "8918", "course6", added.ID, &models.ModuleUpdate{Type: &kind})
	assert.True(t, errors.Is(err, qerrors.ValidationError))

	audio := models.ModuleAudio
	updated, err := e.UpdateModule(ctx, "8918", "course6", added.ID, &models.ModuleUpdate{Type: &audio, Title: strPtr("Fourier by ear")})
	require.NoError(t, err)
	assert.Equal(t, models.ModuleAudio, updated.Type)
	assert.Equal(t, "Fourier by ear", updated.Title)

	_, err = e.UpdateModule(ctx, "8918", "course6", "nope", &models.ModuleUpdate{Title: strPtr("x")})
	assert.True(t, errors.Is(err, qerrors.ModuleNotFoundError))

	require.NoError(t, e.RemoveModule(ctx, "8918", "course6", "mod6_ar1"))
	course, err := c.Get("course6")
	require.NoError(t, err)
	require.Len(t, course.Modules, 1)
	assert.Equal(t, added.ID, course.Modules[0].ID)

	err = e.RemoveModule(ctx, "8918", "course6", "mod6_ar1")
	assert.True(t, errors.Is(err, qerrors.ModuleNotFoundError))
}

func TestEditorDeleteCourse(t *testing.T) {
	e, c := newTestEditor()
	ctx := context.Background()

	require.NoError(t, e.DeleteCourse(ctx, "8918", "course2"))
	_, err := c.Get("course2")
	assert.True(t, errors.Is(err, qerrors.NotFoundError))
	assert.True(t, errors.Is(e.DeleteCourse(ctx, "8918", "course2"), qerrors.NotFoundError))
}
