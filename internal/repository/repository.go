package repository

import (
	"context"
	"fmt"
	"sync"

	"learnhub/internal/models"

	"github.com/golang/glog"
	"google.golang.org/api/iterator"

	"cloud.google.com/go/firestore"
)

// ErrWatchStopped is returned by DoubtIterator.Next once the iterator has been stopped or its
// context cancelled.
var ErrWatchStopped = iterator.Done

// Repository encapsulates access to the document store.
type Repository interface {
	// GetAllowedStudent returns the allowlist record for studentID, or qerrors.NotFoundError.
	GetAllowedStudent(ctx context.Context, studentID string) (*models.AllowedStudent, error)

	// GetStudentProfile returns the profile keyed by uid, or qerrors.ProfileNotFoundError.
	GetStudentProfile(ctx context.Context, uid string) (*models.StudentProfile, error)
	// SaveStudentProfile merge-writes p. LastLogin is set to the server time, and CreatedAt too
	// when p.CreatedAt is nil. The returned profile carries the resolved times.
	SaveStudentProfile(ctx context.Context, p *models.StudentProfile) (*models.StudentProfile, error)
	AddCompletedCourse(ctx context.Context, uid string, courseID string) error
	RemoveCompletedCourse(ctx context.Context, uid string, courseID string) error
	// AppendQuizAttemptSummary appends s to the profile's quizzesAttempted.
	AppendQuizAttemptSummary(ctx context.Context, uid string, s *models.QuizAttemptSummary) error

	// CreateQuizAttempt stores a into student_quiz_attempts with a server CompletedAt.
	CreateQuizAttempt(ctx context.Context, a *models.QuizAttempt) (*models.QuizAttempt, error)
	SaveModuleProgress(ctx context.Context, uid string, p *models.ModuleProgress) (*models.ModuleProgress, error)
	ListModuleProgress(ctx context.Context, uid string) ([]*models.ModuleProgress, error)

	// CreateDoubt stores d with a server timestamp and returns its ID.
	CreateDoubt(ctx context.Context, d *models.DoubtMessage) (string, error)
	GetDoubt(ctx context.Context, courseID, moduleID, doubtID string) (*models.DoubtMessage, error)
	// UpdateDoubtReplies reads the doubt's replies, passes them to fn and writes back the whole
	// list fn returns, atomically with respect to other reply updates.
	UpdateDoubtReplies(ctx context.Context, courseID, moduleID, doubtID string, fn func([]*models.DoubtReply) ([]*models.DoubtReply, error)) error
	SetDoubtPinned(ctx context.Context, courseID, moduleID, doubtID string, pinned bool) error
	// WatchDoubts streams snapshots of a module's doubts ordered by timestamp ascending.
	WatchDoubts(ctx context.Context, courseID, moduleID string) DoubtIterator
}

// DoubtIterator yields successive doubt snapshots for one (course, module) scope.
type DoubtIterator interface {
	// Next blocks until the next snapshot is available. It returns ErrWatchStopped after Stop.
	Next() ([]*models.DoubtMessage, error)
	Stop()
}

// FirebaseRepository queries and persists portal data in Firestore.
type FirebaseRepository struct {
	firestoreClient *firestore.Client

	allowlistLock *sync.RWMutex
	allowlist     map[string]*models.AllowedStudent
	// allowlistReady is set once the first allowed_students snapshot has been applied.
	allowlistReady bool
}

func NewFirebaseRepository(ctx context.Context, firestoreClient *firestore.Client) (*FirebaseRepository, error) {
	fr := &FirebaseRepository{
		firestoreClient: firestoreClient,
		allowlistLock:   &sync.RWMutex{},
		allowlist:       make(map[string]*models.AllowedStudent),
	}

	// Execute the listeners sequentially, in case later listeners need to utilize data fetched
	// by previous listeners
	initFns := []func(context.Context) error{fr.initializeAllowlistListener}
	for _, initFn := range initFns {
		if err := initFn(ctx); err != nil {
			return nil, fmt.Errorf("error initializing Firestore listener: %v", err)
		}
	}

	glog.Infof("✅ Successfully created Firebase repository client")
	return fr, nil
}

// createCollectionInitializer listens to query and calls handleDocs with every snapshot. done is
// closed after the first snapshot has been handled; the listener keeps running until ctx ends.
// onStop is called with the terminating error if the listener ends after its first snapshot.
func (fr *FirebaseRepository) createCollectionInitializer(ctx context.Context, query firestore.Query, done chan<- error, handleDocs func(docs []*firestore.DocumentSnapshot) error, onStop func(err error)) {
	it := query.Snapshots(ctx)
	defer it.Stop()

	first := true
	for {
		snap, err := it.Next()
		if err != nil {
			if first {
				done <- err
				close(done)
				return
			}
			if !isStreamClosed(err) {
				glog.Errorf("snapshot listener error: %v\n", err)
			}
			if onStop != nil {
				onStop(err)
			}
			return
		}

		docs, err := snap.Documents.GetAll()
		if err == nil {
			err = handleDocs(docs)
		}
		if err != nil {
			glog.Warningf("error handling snapshot: %v\n", err)
		}

		if first {
			first = false
			done <- nil
			close(done)
		}
	}
}
