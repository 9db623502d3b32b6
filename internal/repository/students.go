package repository

import (
	"context"
	"fmt"

	"learnhub/internal/models"
	"learnhub/internal/qerrors"

	"cloud.google.com/go/firestore"
	"github.com/golang/glog"
	"github.com/mitchellh/mapstructure"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// initializeAllowlistListener keeps an in-memory copy of the allowed_students collection, so we
// don't have to query Firestore on every login.
func (fr *FirebaseRepository) initializeAllowlistListener(ctx context.Context) error {
	handleDocs := func(docs []*firestore.DocumentSnapshot) error {
		newAllowlist := make(map[string]*models.AllowedStudent)
		for _, doc := range docs {
			if !doc.Exists() {
				continue
			}

			var s models.AllowedStudent
			err := mapstructure.Decode(doc.Data(), &s)
			if err != nil {
				glog.Warningf("skipping malformed allowed_students/%s: %v\n", doc.Ref.ID, err)
				continue
			}
			s.StudentID = doc.Ref.ID
			newAllowlist[doc.Ref.ID] = &s
		}

		fr.setAllowlist(newAllowlist)
		return nil
	}

	done := make(chan error, 1)
	query := fr.firestoreClient.Collection(models.FirestoreAllowedStudentsCollection).Query
	go fr.createCollectionInitializer(ctx, query, done, handleDocs, fr.allowlistListenerStopped)
	return <-done
}

func (fr *FirebaseRepository) setAllowlist(allowlist map[string]*models.AllowedStudent) {
	fr.allowlistLock.Lock()
	defer fr.allowlistLock.Unlock()
	fr.allowlist = allowlist
	fr.allowlistReady = true
}

// allowlistListenerStopped drops the cached allowlist, so lookups read Firestore directly
// instead of a copy that no longer receives updates.
func (fr *FirebaseRepository) allowlistListenerStopped(err error) {
	glog.Warningf("allowlist listener stopped, falling back to direct reads: %v\n", err)

	fr.allowlistLock.Lock()
	defer fr.allowlistLock.Unlock()
	fr.allowlist = make(map[string]*models.AllowedStudent)
	fr.allowlistReady = false
}

// cachedAllowedStudent looks studentID up in the listener's copy of the allowlist. ready is false
// when there is no live copy to consult.
func (fr *FirebaseRepository) cachedAllowedStudent(studentID string) (s *models.AllowedStudent, ok bool, ready bool) {
	fr.allowlistLock.RLock()
	defer fr.allowlistLock.RUnlock()
	if !fr.allowlistReady {
		return nil, false, false
	}
	s, ok = fr.allowlist[studentID]
	return s, ok, true
}

func (fr *FirebaseRepository) GetAllowedStudent(ctx context.Context, studentID string) (*models.AllowedStudent, error) {
	if err := validateID(studentID); err != nil {
		return nil, err
	}

	s, ok, ready := fr.cachedAllowedStudent(studentID)
	if ready {
		if !ok {
			return nil, fmt.Errorf("allowed student %w", qerrors.NotFoundError)
		}
		return s, nil
	}

	// Listener not attached (or failed); fall back to a direct read.
	doc, err := fr.firestoreClient.Collection(models.FirestoreAllowedStudentsCollection).Doc(studentID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, fmt.Errorf("allowed student %w", qerrors.NotFoundError)
	}
	if err != nil {
		return nil, err
	}

	var allowed models.AllowedStudent
	if err := mapstructure.Decode(doc.Data(), &allowed); err != nil {
		return nil, err
	}
	allowed.StudentID = doc.Ref.ID
	return &allowed, nil
}

func (fr *FirebaseRepository) GetStudentProfile(ctx context.Context, uid string) (*models.StudentProfile, error) {
	if err := validateID(uid); err != nil {
		return nil, err
	}

	doc, err := fr.firestoreClient.Collection(models.FirestoreStudentsCollection).Doc(uid).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, qerrors.ProfileNotFoundError
	}
	if err != nil {
		return nil, err
	}

	var p models.StudentProfile
	if err := mapstructure.Decode(doc.Data(), &p); err != nil {
		return nil, fmt.Errorf("error decoding student profile: %v", err)
	}
	p.UID = doc.Ref.ID
	return &p, nil
}

func (fr *FirebaseRepository) SaveStudentProfile(ctx context.Context, p *models.StudentProfile) (*models.StudentProfile, error) {
	if err := validateID(p.UID); err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"uid":              p.UID,
		"studentId":        p.StudentID,
		"name":             p.Name,
		"email":            p.Email,
		"coursesCompleted": nonNilStrings(p.CoursesCompleted),
		"quizzesAttempted": quizSummariesToData(p.QuizzesAttempted),
		"lastLogin":        firestore.ServerTimestamp,
	}
	if p.CreatedAt == nil {
		data["createdAt"] = firestore.ServerTimestamp
	} else {
		data["createdAt"] = *p.CreatedAt
	}

	wr, err := fr.firestoreClient.Collection(models.FirestoreStudentsCollection).Doc(p.UID).Set(ctx, data, firestore.MergeAll)
	if err != nil {
		return nil, fmt.Errorf("error saving student profile: %v", err)
	}

	// Server timestamps resolve to the commit time of the write.
	saved := *p
	committed := wr.UpdateTime
	saved.LastLogin = &committed
	if saved.CreatedAt == nil {
		saved.CreatedAt = &committed
	}
	saved.CoursesCompleted = nonNilStrings(p.CoursesCompleted)
	if saved.QuizzesAttempted == nil {
		saved.QuizzesAttempted = []*models.QuizAttemptSummary{}
	}
	return &saved, nil
}

func (fr *FirebaseRepository) AddCompletedCourse(ctx context.Context, uid string, courseID string) error {
	_, err := fr.firestoreClient.Collection(models.FirestoreStudentsCollection).Doc(uid).Update(ctx, []firestore.Update{
		{Path: "coursesCompleted", Value: firestore.ArrayUnion(courseID)},
	})
	if status.Code(err) == codes.NotFound {
		return qerrors.ProfileNotFoundError
	}
	return err
}

func (fr *FirebaseRepository) RemoveCompletedCourse(ctx context.Context, uid string, courseID string) error {
	_, err := fr.firestoreClient.Collection(models.FirestoreStudentsCollection).Doc(uid).Update(ctx, []firestore.Update{
		{Path: "coursesCompleted", Value: firestore.ArrayRemove(courseID)},
	})
	if status.Code(err) == codes.NotFound {
		return qerrors.ProfileNotFoundError
	}
	return err
}

func (fr *FirebaseRepository) AppendQuizAttemptSummary(ctx context.Context, uid string, s *models.QuizAttemptSummary) error {
	ref := fr.firestoreClient.Collection(models.FirestoreStudentsCollection).Doc(uid)
	return fr.firestoreClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return qerrors.ProfileNotFoundError
		}
		if err != nil {
			return err
		}

		var p models.StudentProfile
		if err := mapstructure.Decode(doc.Data(), &p); err != nil {
			return err
		}
		attempts := append(p.QuizzesAttempted, s)
		return tx.Update(ref, []firestore.Update{
			{Path: "quizzesAttempted", Value: quizSummariesToData(attempts)},
		})
	})
}

// Helpers

func quizSummariesToData(summaries []*models.QuizAttemptSummary) []map[string]interface{} {
	data := make([]map[string]interface{}, 0, len(summaries))
	for _, s := range summaries {
		entry := map[string]interface{}{
			"quizId": s.QuizID,
			"score":  s.Score,
		}
		if s.AttemptedAt != nil {
			entry["attemptedAt"] = *s.AttemptedAt
		}
		data = append(data, entry)
	}
	return data
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func isStreamClosed(err error) bool {
	if err == ErrWatchStopped {
		return true
	}
	code := status.Code(err)
	return code == codes.Canceled || code == codes.DeadlineExceeded
}

func validateID(id string) error {
	if id == "" {
		return qerrors.Validation("id must be a non-empty string")
	}
	if len(id) > 128 {
		return qerrors.Validation("id string must not be longer than 128 characters")
	}
	return nil
}
