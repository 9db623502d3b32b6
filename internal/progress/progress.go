package progress

import (
	"context"
	"math"

	"learnhub/internal/models"
	"learnhub/internal/qerrors"

	"go.uber.org/zap"
)

// Store persists quiz attempts and per-module progress.
type Store interface {
	CreateQuizAttempt(ctx context.Context, a *models.QuizAttempt) (*models.QuizAttempt, error)
	AppendQuizAttemptSummary(ctx context.Context, uid string, s *models.QuizAttemptSummary) error
	AddCompletedCourse(ctx context.Context, uid string, courseID string) error
	RemoveCompletedCourse(ctx context.Context, uid string, courseID string) error
	SaveModuleProgress(ctx context.Context, uid string, p *models.ModuleProgress) (*models.ModuleProgress, error)
	ListModuleProgress(ctx context.Context, uid string) ([]*models.ModuleProgress, error)
}

type Service struct {
	store  Store
	logger *zap.Logger
}

func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// SubmitQuizAttempt scores and stores an attempt, then records a summary on the student's
// profile.
func (s *Service) SubmitQuizAttempt(ctx context.Context, req *models.SubmitQuizAttemptRequest) (*models.QuizAttempt, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	score := Score(req.Answers, req.Questions)
	attempt, err := s.store.CreateQuizAttempt(ctx, &models.QuizAttempt{
		QuizID:          req.QuizID,
		QuizTitle:       req.QuizTitle,
		UserID:          req.UserID,
		Answers:         req.Answers,
		Score:           score,
		TotalQuestions:  len(req.Questions),
		DurationSeconds: req.DurationSeconds,
	})
	if err != nil {
		return nil, err
	}

	err = s.store.AppendQuizAttemptSummary(ctx, req.UserID, &models.QuizAttemptSummary{
		QuizID:      attempt.QuizID,
		Score:       attempt.Score,
		AttemptedAt: attempt.CompletedAt,
	})
	if err != nil {
		s.logger.Warn("quiz attempt stored without profile summary",
			zap.String("attemptId", attempt.ID),
			zap.String("uid", req.UserID),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("quiz attempt submitted",
		zap.String("attemptId", attempt.ID),
		zap.String("quizId", attempt.QuizID),
		zap.Float64("score", attempt.Score))
	return attempt, nil
}

// Score is the percentage of questions answered correctly, rounded to two decimals. Answers to
// unknown questions are ignored.
func Score(answers []*models.UserAnswer, questions []*models.QuizQuestion) float64 {
	if len(questions) == 0 {
		return 0
	}

	correct := make(map[string]string, len(questions))
	for _, q := range questions {
		correct[q.ID] = q.CorrectOptionID
	}

	n := 0
	for _, a := range answers {
		if want, ok := correct[a.QuestionID]; ok && a.SelectedOptionID == want {
			n++
		}
	}
	return math.Round(float64(n)/float64(len(questions))*100*100) / 100
}

func (s *Service) AddCompletedCourse(ctx context.Context, uid string, req *models.CompletedCourseRequest) error {
	if err := models.Validate(req); err != nil {
		return err
	}
	return s.store.AddCompletedCourse(ctx, uid, req.CourseID)
}

func (s *Service) RemoveCompletedCourse(ctx context.Context, uid string, courseID string) error {
	if courseID == "" {
		return qerrors.Validation("courseID is required")
	}
	return s.store.RemoveCompletedCourse(ctx, uid, courseID)
}

// StoreModuleProgress replaces the student's progress record for a module.
func (s *Service) StoreModuleProgress(ctx context.Context, uid, moduleID string, req *models.StoreModuleProgressRequest) (*models.ModuleProgress, error) {
	if uid == "" || moduleID == "" {
		return nil, qerrors.Validation("student id and module id are required")
	}
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	p, err := s.store.SaveModuleProgress(ctx, uid, &models.ModuleProgress{
		ModuleID:         moduleID,
		ModuleName:       req.ModuleName,
		CompletionStatus: req.CompletionStatus,
		Score:            req.Score,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("module progress stored",
		zap.String("uid", uid),
		zap.String("moduleId", moduleID),
		zap.String("status", req.CompletionStatus))
	return p, nil
}

func (s *Service) ListModuleProgress(ctx context.Context, uid string) ([]*models.ModuleProgress, error) {
	return s.store.ListModuleProgress(ctx, uid)
}
