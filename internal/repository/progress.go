package repository

import (
	"context"
	"fmt"

	"learnhub/internal/models"

	"cloud.google.com/go/firestore"
	"github.com/mitchellh/mapstructure"
	"google.golang.org/api/iterator"
)

func (fr *FirebaseRepository) CreateQuizAttempt(ctx context.Context, a *models.QuizAttempt) (*models.QuizAttempt, error) {
	answers := make([]map[string]interface{}, 0, len(a.Answers))
	for _, ans := range a.Answers {
		answers = append(answers, map[string]interface{}{
			"questionId":       ans.QuestionID,
			"selectedOptionId": ans.SelectedOptionID,
		})
	}

	data := map[string]interface{}{
		"quizId":         a.QuizID,
		"quizTitle":      a.QuizTitle,
		"userId":         a.UserID,
		"answers":        answers,
		"score":          a.Score,
		"totalQuestions": a.TotalQuestions,
		"completedAt":    firestore.ServerTimestamp,
	}
	if a.DurationSeconds > 0 {
		data["durationSeconds"] = a.DurationSeconds
	}

	ref := fr.firestoreClient.Collection(models.FirestoreQuizAttemptsCollection).NewDoc()
	wr, err := ref.Create(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("error creating quiz attempt: %v", err)
	}

	created := *a
	created.ID = ref.ID
	completedAt := wr.UpdateTime
	created.CompletedAt = &completedAt
	return &created, nil
}

func (fr *FirebaseRepository) SaveModuleProgress(ctx context.Context, uid string, p *models.ModuleProgress) (*models.ModuleProgress, error) {
	if err := validateID(uid); err != nil {
		return nil, err
	}
	if err := validateID(p.ModuleID); err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"moduleName":       p.ModuleName,
		"completionStatus": p.CompletionStatus,
		"score":            nil,
		"timestamp":        firestore.ServerTimestamp,
	}
	if p.Score != nil {
		data["score"] = *p.Score
	}

	wr, err := fr.firestoreClient.Collection(models.FirestoreStudentsCollection).Doc(uid).
		Collection(models.FirestoreProgressCollection).Doc(p.ModuleID).
		Set(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("error saving module progress: %v", err)
	}

	saved := *p
	ts := wr.UpdateTime
	saved.Timestamp = &ts
	return &saved, nil
}

func (fr *FirebaseRepository) ListModuleProgress(ctx context.Context, uid string) ([]*models.ModuleProgress, error) {
	if err := validateID(uid); err != nil {
		return nil, err
	}

	iter := fr.firestoreClient.Collection(models.FirestoreStudentsCollection).Doc(uid).
		Collection(models.FirestoreProgressCollection).Documents(ctx)
	defer iter.Stop()

	progress := make([]*models.ModuleProgress, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var p models.ModuleProgress
		if err := mapstructure.Decode(doc.Data(), &p); err != nil {
			return nil, fmt.Errorf("error decoding module progress: %v", err)
		}
		p.ModuleID = doc.Ref.ID
		progress = append(progress, &p)
	}
	return progress, nil
}
