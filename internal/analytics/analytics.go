package analytics

import (
	"sort"

	"learnhub/internal/models"
)

const moduleCompleted = "Completed"

// GenerateStudentAnalytics summarises a student's quiz history and progress. Does not need/use
// any Firebase connection.
func GenerateStudentAnalytics(profile *models.StudentProfile, progress []*models.ModuleProgress) *models.StudentAnalytics {
	analytics := &models.StudentAnalytics{
		StudentID:        profile.StudentID,
		QuizAttempts:     len(profile.QuizzesAttempted),
		BestScores:       make(map[string]float64),
		CoursesCompleted: len(profile.CoursesCompleted),
	}

	scores := make([]float64, 0, len(profile.QuizzesAttempted))
	for _, attempt := range profile.QuizzesAttempted {
		scores = append(scores, attempt.Score)
		if best, ok := analytics.BestScores[attempt.QuizID]; !ok || attempt.Score > best {
			analytics.BestScores[attempt.QuizID] = attempt.Score
		}
	}
	analytics.QuizzesTaken = len(analytics.BestScores)
	analytics.Scores = CalculatePercentiles(scores)

	for _, p := range progress {
		if p.CompletionStatus == moduleCompleted {
			analytics.ModulesCompleted++
		}
	}

	return analytics
}

// CalculatePercentiles returns the P50, P90 and P99 of data. data is sorted in place.
func CalculatePercentiles(data []float64) models.Percentiles {
	if len(data) == 0 {
		return models.Percentiles{}
	}

	sort.Float64s(data)

	calculatePercentile := func(percentile float64) float64 {
		rank := percentile / 100 * float64(len(data)-1)
		rankInt := int(rank)

		// If the rank is an integer, return the value at that index
		if rank == float64(rankInt) {
			return data[rankInt]
		}

		// Otherwise, linearly interpolate
		baseline := data[rankInt]
		interpolation := (rank - float64(rankInt)) * (data[rankInt+1] - data[rankInt])

		return baseline + interpolation
	}

	return models.Percentiles{
		P50: calculatePercentile(50),
		P90: calculatePercentile(90),
		P99: calculatePercentile(99),
	}
}
