package models

// Percentiles is a generic struct for storing percentiles for any distribution of data.
type Percentiles struct {
	P50 float64 `json:"p50"`
	P90 float64 `json:"p90"`
	P99 float64 `json:"p99"`
}

// StudentAnalytics summarises a student's quiz history and course completion. It is derived
// from the StudentProfile on request and never stored.
type StudentAnalytics struct {
	StudentID string `json:"studentId"`

	// QuizAttempts is the number of quiz attempts on the profile.
	QuizAttempts int `json:"quizAttempts"`
	// QuizzesTaken is the number of distinct quizzes attempted.
	QuizzesTaken int `json:"quizzesTaken"`
	// Scores is a distribution over all attempt scores.
	Scores Percentiles `json:"scores"`
	// BestScores maps quiz ID to the best score achieved on it.
	BestScores map[string]float64 `json:"bestScores"`

	CoursesCompleted int `json:"coursesCompleted"`
	// ModulesCompleted counts module progress records with a "Completed" status.
	ModulesCompleted int `json:"modulesCompleted"`
}
