package analytics

import (
	"math"
	"reflect"
	"testing"

	"learnhub/internal/models"
)

func createProfile() *models.StudentProfile {
	return &models.StudentProfile{
		UID:              "uid-1",
		StudentID:        "8918",
		CoursesCompleted: []string{"course1", "course3"},
		QuizzesAttempted: []*models.QuizAttemptSummary{
			{QuizID: "algebra", Score: 40},
			{QuizID: "algebra", Score: 80},
			{QuizID: "history", Score: 100},
			{QuizID: "python", Score: 60},
		},
	}
}

func createProgress() []*models.ModuleProgress {
	return []*models.ModuleProgress{
		{ModuleID: "mod1_vid", CompletionStatus: "Completed"},
		{ModuleID: "mod1_ex", CompletionStatus: "In Progress"},
		{ModuleID: "mod3_vid", CompletionStatus: "Completed"},
	}
}

func TestGenerateStudentAnalytics(t *testing.T) {
	analytics := GenerateStudentAnalytics(createProfile(), createProgress())

	if analytics.QuizAttempts != 4 {
		t.Errorf("Expected 4 quiz attempts, got %d", analytics.QuizAttempts)
	}

	if analytics.QuizzesTaken != 3 {
		t.Errorf("Expected 3 quizzes taken, got %d", analytics.QuizzesTaken)
	}

	expectedBestScores := map[string]float64{"algebra": 80, "history": 100, "python": 60}
	if !reflect.DeepEqual(analytics.BestScores, expectedBestScores) {
		t.Errorf("Expected best scores to be %v, got %v", expectedBestScores, analytics.BestScores)
	}

	if analytics.CoursesCompleted != 2 {
		t.Errorf("Expected 2 courses completed, got %d", analytics.CoursesCompleted)
	}

	if analytics.ModulesCompleted != 2 {
		t.Errorf("Expected 2 modules completed, got %d", analytics.ModulesCompleted)
	}

	if !approximatelyEqual(analytics.Scores.P50, 70) {
		t.Errorf("Expected P50 to be 70, got %f", analytics.Scores.P50)
	}
}

func TestGenerateStudentAnalyticsEmptyProfile(t *testing.T) {
	analytics := GenerateStudentAnalytics(&models.StudentProfile{StudentID: "8946"}, nil)

	if analytics.QuizAttempts != 0 || analytics.QuizzesTaken != 0 || analytics.ModulesCompleted != 0 {
		t.Errorf("Expected empty analytics, got %+v", analytics)
	}

	if analytics.Scores != (models.Percentiles{}) {
		t.Errorf("Expected zero percentiles, got %+v", analytics.Scores)
	}
}

func approximatelyEqual(a float64, b float64) bool {
	return math.Abs(a-b) < 0.00001
}

func TestCalculatePercentiles(t *testing.T) {
	basicDistribution := []float64{2, 5, 10}
	basicPercentiles := CalculatePercentiles(basicDistribution)
	expectedBasicPercentiles := &models.Percentiles{
		P50: 5,
		P90: 9,
		P99: 9.9,
	}

	if !approximatelyEqual(basicPercentiles.P50, expectedBasicPercentiles.P50) {
		t.Errorf("Expected P50 to be %f, got %f", expectedBasicPercentiles.P50, basicPercentiles.P50)
	}
	if !approximatelyEqual(basicPercentiles.P90, expectedBasicPercentiles.P90) {
		t.Errorf("Expected P90 to be %f, got %f", expectedBasicPercentiles.P90, basicPercentiles.P90)
	}
	if !approximatelyEqual(basicPercentiles.P99, expectedBasicPercentiles.P99) {
		t.Errorf("Expected P99 to be %f, got %f", expectedBasicPercentiles.P99, basicPercentiles.P99)
	}

	single := CalculatePercentiles([]float64{42})
	if single.P50 != 42 || single.P99 != 42 {
		t.Errorf("Expected a single value to be every percentile, got %+v", single)
	}
}
