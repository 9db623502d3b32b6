package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"learnhub/internal/models"
	"learnhub/internal/qerrors"

	"github.com/google/uuid"
)

type scopeKey struct {
	courseID, moduleID string
}

// MemoryRepository is a Repository held entirely in process memory. It is used for local
// development and tests. Server timestamps come from a clock that strictly increases.
type MemoryRepository struct {
	mu sync.RWMutex

	now      func() time.Time
	lastTime time.Time

	allowlist map[string]*models.AllowedStudent
	profiles  map[string]*models.StudentProfile
	attempts  map[string]*models.QuizAttempt
	progress  map[string]map[string]*models.ModuleProgress
	doubts    map[scopeKey]map[string]*models.DoubtMessage
	watchers  map[scopeKey]map[*memoryDoubtIterator]struct{}

	profileWrites int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		now:       time.Now,
		allowlist: make(map[string]*models.AllowedStudent),
		profiles:  make(map[string]*models.StudentProfile),
		attempts:  make(map[string]*models.QuizAttempt),
		progress:  make(map[string]map[string]*models.ModuleProgress),
		doubts:    make(map[scopeKey]map[string]*models.DoubtMessage),
		watchers:  make(map[scopeKey]map[*memoryDoubtIterator]struct{}),
	}
}

// AddAllowedStudent seeds the allowlist.
func (mr *MemoryRepository) AddAllowedStudent(s *models.AllowedStudent) {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	c := *s
	mr.allowlist[s.StudentID] = &c
}

// ProfileWrites returns the number of profile writes performed so far.
func (mr *MemoryRepository) ProfileWrites() int {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return mr.profileWrites
}

// BreakWatches fails every open doubt watch with err.
func (mr *MemoryRepository) BreakWatches(err error) {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	for _, ws := range mr.watchers {
		for w := range ws {
			w.fail(err)
		}
	}
}

// serverTime must be called with mu held.
func (mr *MemoryRepository) serverTime() time.Time {
	t := mr.now().UTC()
	if !t.After(mr.lastTime) {
		t = mr.lastTime.Add(time.Microsecond)
	}
	mr.lastTime = t
	return t
}

func (mr *MemoryRepository) GetAllowedStudent(ctx context.Context, studentID string) (*models.AllowedStudent, error) {
	if err := validateID(studentID); err != nil {
		return nil, err
	}

	mr.mu.RLock()
	defer mr.mu.RUnlock()
	s, ok := mr.allowlist[studentID]
	if !ok {
		return nil, fmt.Errorf("allowed student %w", qerrors.NotFoundError)
	}
	c := *s
	return &c, nil
}

func (mr *MemoryRepository) GetStudentProfile(ctx context.Context, uid string) (*models.StudentProfile, error) {
	if err := validateID(uid); err != nil {
		return nil, err
	}

	mr.mu.RLock()
	defer mr.mu.RUnlock()
	p, ok := mr.profiles[uid]
	if !ok {
		return nil, qerrors.ProfileNotFoundError
	}
	return copyProfile(p), nil
}

func (mr *MemoryRepository) SaveStudentProfile(ctx context.Context, p *models.StudentProfile) (*models.StudentProfile, error) {
	if err := validateID(p.UID); err != nil {
		return nil, err
	}

	mr.mu.Lock()
	defer mr.mu.Unlock()

	saved := copyProfile(p)
	now := mr.serverTime()
	saved.LastLogin = &now
	if saved.CreatedAt == nil {
		createdAt := now
		saved.CreatedAt = &createdAt
	}
	mr.profiles[p.UID] = saved
	mr.profileWrites++
	return copyProfile(saved), nil
}

func (mr *MemoryRepository) AddCompletedCourse(ctx context.Context, uid string, courseID string) error {
	mr.mu.Lock()
	defer mr.mu.Unlock()

	p, ok := mr.profiles[uid]
	if !ok {
		return qerrors.ProfileNotFoundError
	}
	for _, c := range p.CoursesCompleted {
		if c == courseID {
			return nil
		}
	}
	p.CoursesCompleted = append(p.CoursesCompleted, courseID)
	mr.profileWrites++
	return nil
}

func (mr *MemoryRepository) RemoveCompletedCourse(ctx context.Context, uid string, courseID string) error {
	mr.mu.Lock()
	defer mr.mu.Unlock()

	p, ok := mr.profiles[uid]
	if !ok {
		return qerrors.ProfileNotFoundError
	}
	kept := make([]string, 0, len(p.CoursesCompleted))
	for _, c := range p.CoursesCompleted {
		if c != courseID {
			kept = append(kept, c)
		}
	}
	p.CoursesCompleted = kept
	mr.profileWrites++
	return nil
}

func (mr *MemoryRepository) AppendQuizAttemptSummary(ctx context.Context, uid string, s *models.QuizAttemptSummary) error {
	mr.mu.Lock()
	defer mr.mu.Unlock()

	p, ok := mr.profiles[uid]
	if !ok {
		return qerrors.ProfileNotFoundError
	}
	c := *s
	p.QuizzesAttempted = append(p.QuizzesAttempted, &c)
	mr.profileWrites++
	return nil
}

func (mr *MemoryRepository) CreateQuizAttempt(ctx context.Context, a *models.QuizAttempt) (*models.QuizAttempt, error) {
	mr.mu.Lock()
	defer mr.mu.Unlock()

	created := *a
	created.ID = uuid.NewString()
	completedAt := mr.serverTime()
	created.CompletedAt = &completedAt
	created.Answers = append([]*models.UserAnswer(nil), a.Answers...)

	stored := created
	mr.attempts[created.ID] = &stored
	return &created, nil
}

func (mr *MemoryRepository) SaveModuleProgress(ctx context.Context, uid string, p *models.ModuleProgress) (*models.ModuleProgress, error) {
	if err := validateID(uid); err != nil {
		return nil, err
	}
	if err := validateID(p.ModuleID); err != nil {
		return nil, err
	}

	mr.mu.Lock()
	defer mr.mu.Unlock()

	saved := *p
	ts := mr.serverTime()
	saved.Timestamp = &ts
	if mr.progress[uid] == nil {
		mr.progress[uid] = make(map[string]*models.ModuleProgress)
	}
	stored := saved
	mr.progress[uid][p.ModuleID] = &stored
	return &saved, nil
}

func (mr *MemoryRepository) ListModuleProgress(ctx context.Context, uid string) ([]*models.ModuleProgress, error) {
	if err := validateID(uid); err != nil {
		return nil, err
	}

	mr.mu.RLock()
	defer mr.mu.RUnlock()

	progress := make([]*models.ModuleProgress, 0, len(mr.progress[uid]))
	for _, p := range mr.progress[uid] {
		c := *p
		progress = append(progress, &c)
	}
	sort.Slice(progress, func(i, j int) bool {
		return progress[i].ModuleID < progress[j].ModuleID
	})
	return progress, nil
}

func (mr *MemoryRepository) CreateDoubt(ctx context.Context, d *models.DoubtMessage) (string, error) {
	mr.mu.Lock()
	defer mr.mu.Unlock()

	key := scopeKey{d.CourseID, d.ModuleID}
	stored := &models.DoubtMessage{
		ID:         uuid.NewString(),
		Text:       d.Text,
		SenderID:   d.SenderID,
		SenderName: d.SenderName,
		Pinned:     false,
		Replies:    []*models.DoubtReply{},
		ModuleID:   d.ModuleID,
		CourseID:   d.CourseID,
	}
	ts := mr.serverTime()
	stored.Timestamp = &ts

	if mr.doubts[key] == nil {
		mr.doubts[key] = make(map[string]*models.DoubtMessage)
	}
	mr.doubts[key][stored.ID] = stored
	mr.notifyLocked(key)
	return stored.ID, nil
}

func (mr *MemoryRepository) GetDoubt(ctx context.Context, courseID, moduleID, doubtID string) (*models.DoubtMessage, error) {
	mr.mu.RLock()
	defer mr.mu.RUnlock()

	d, ok := mr.doubts[scopeKey{courseID, moduleID}][doubtID]
	if !ok {
		return nil, qerrors.DoubtNotFoundError
	}
	return copyDoubt(d), nil
}

func (mr *MemoryRepository) UpdateDoubtReplies(ctx context.Context, courseID, moduleID, doubtID string, fn func([]*models.DoubtReply) ([]*models.DoubtReply, error)) error {
	mr.mu.Lock()
	defer mr.mu.Unlock()

	key := scopeKey{courseID, moduleID}
	d, ok := mr.doubts[key][doubtID]
	if !ok {
		return qerrors.DoubtNotFoundError
	}

	replies, err := fn(copyDoubt(d).Replies)
	if err != nil {
		return err
	}
	d.Replies = copyReplies(replies)
	mr.notifyLocked(key)
	return nil
}

func (mr *MemoryRepository) SetDoubtPinned(ctx context.Context, courseID, moduleID, doubtID string, pinned bool) error {
	mr.mu.Lock()
	defer mr.mu.Unlock()

	key := scopeKey{courseID, moduleID}
	d, ok := mr.doubts[key][doubtID]
	if !ok {
		return qerrors.DoubtNotFoundError
	}
	d.Pinned = pinned
	mr.notifyLocked(key)
	return nil
}

func (mr *MemoryRepository) WatchDoubts(ctx context.Context, courseID, moduleID string) DoubtIterator {
	key := scopeKey{courseID, moduleID}
	it := &memoryDoubtIterator{
		repo:   mr,
		key:    key,
		ctx:    ctx,
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	// The first Next returns the current state.
	it.notify <- struct{}{}

	mr.mu.Lock()
	defer mr.mu.Unlock()
	if mr.watchers[key] == nil {
		mr.watchers[key] = make(map[*memoryDoubtIterator]struct{})
	}
	mr.watchers[key][it] = struct{}{}
	return it
}

// snapshot returns the scope's doubts ordered by timestamp ascending.
func (mr *MemoryRepository) snapshot(key scopeKey) []*models.DoubtMessage {
	mr.mu.RLock()
	defer mr.mu.RUnlock()

	doubts := make([]*models.DoubtMessage, 0, len(mr.doubts[key]))
	for _, d := range mr.doubts[key] {
		doubts = append(doubts, copyDoubt(d))
	}
	sort.Slice(doubts, func(i, j int) bool {
		if !doubts[i].Timestamp.Equal(*doubts[j].Timestamp) {
			return doubts[i].Timestamp.Before(*doubts[j].Timestamp)
		}
		return doubts[i].ID < doubts[j].ID
	})
	return doubts
}

func (mr *MemoryRepository) notifyLocked(key scopeKey) {
	for w := range mr.watchers[key] {
		w.signal()
	}
}

func (mr *MemoryRepository) removeWatcher(it *memoryDoubtIterator) {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	delete(mr.watchers[it.key], it)
	if len(mr.watchers[it.key]) == 0 {
		delete(mr.watchers, it.key)
	}
}

type memoryDoubtIterator struct {
	repo *MemoryRepository
	key  scopeKey
	ctx  context.Context

	// notify holds at most one pending change, so bursts of writes coalesce.
	notify chan struct{}
	done   chan struct{}
	once   sync.Once

	errLock sync.Mutex
	err     error
}

func (it *memoryDoubtIterator) Next() ([]*models.DoubtMessage, error) {
	if it.closed() {
		return nil, ErrWatchStopped
	}
	select {
	case <-it.done:
		return nil, ErrWatchStopped
	case <-it.ctx.Done():
		return nil, ErrWatchStopped
	case <-it.notify:
	}
	// A pending change and Stop can be ready at the same time; Stop wins.
	if it.closed() {
		return nil, ErrWatchStopped
	}

	it.errLock.Lock()
	err := it.err
	it.errLock.Unlock()
	if err != nil {
		return nil, err
	}
	return it.repo.snapshot(it.key), nil
}

func (it *memoryDoubtIterator) Stop() {
	it.once.Do(func() {
		close(it.done)
		it.repo.removeWatcher(it)
	})
}

func (it *memoryDoubtIterator) closed() bool {
	select {
	case <-it.done:
		return true
	default:
		return it.ctx.Err() != nil
	}
}

func (it *memoryDoubtIterator) signal() {
	select {
	case it.notify <- struct{}{}:
	default:
	}
}

func (it *memoryDoubtIterator) fail(err error) {
	it.errLock.Lock()
	it.err = err
	it.errLock.Unlock()
	it.signal()
}

// Helpers

func copyProfile(p *models.StudentProfile) *models.StudentProfile {
	c := *p
	c.CoursesCompleted = append([]string{}, p.CoursesCompleted...)
	c.QuizzesAttempted = make([]*models.QuizAttemptSummary, 0, len(p.QuizzesAttempted))
	for _, s := range p.QuizzesAttempted {
		sc := *s
		c.QuizzesAttempted = append(c.QuizzesAttempted, &sc)
	}
	return &c
}

func copyDoubt(d *models.DoubtMessage) *models.DoubtMessage {
	c := *d
	c.Replies = copyReplies(d.Replies)
	return &c
}

func copyReplies(replies []*models.DoubtReply) []*models.DoubtReply {
	c := make([]*models.DoubtReply, 0, len(replies))
	for _, r := range replies {
		rc := *r
		c = append(c, &rc)
	}
	return c
}
