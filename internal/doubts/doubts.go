package doubts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"learnhub/internal/models"
	"learnhub/internal/qerrors"
	"learnhub/internal/repository"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Store persists doubt threads.
type Store interface {
	CreateDoubt(ctx context.Context, d *models.DoubtMessage) (string, error)
	GetDoubt(ctx context.Context, courseID, moduleID, doubtID string) (*models.DoubtMessage, error)
	UpdateDoubtReplies(ctx context.Context, courseID, moduleID, doubtID string, fn func([]*models.DoubtReply) ([]*models.DoubtReply, error)) error
	SetDoubtPinned(ctx context.Context, courseID, moduleID, doubtID string, pinned bool) error
	WatchDoubts(ctx context.Context, courseID, moduleID string) repository.DoubtIterator
}

type scope struct {
	courseID, moduleID string
}

// Service manages the doubt threads of every (course, module) pair.
type Service struct {
	store  Store
	logger *zap.Logger

	now   func() time.Time
	newID func() string
}

func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return ulid.Make().String() },
	}
}

// Watch opens a live feed of the module's doubts. The feed ends when ctx is done, when
// Unsubscribe is called, or on the first transport error.
func (s *Service) Watch(ctx context.Context, courseID, moduleID string) (*Subscription, error) {
	if courseID == "" || moduleID == "" {
		return nil, qerrors.MissingDoubtScopeErr
	}

	ctx, cancel := context.WithCancel(ctx)
	it := s.store.WatchDoubts(ctx, courseID, moduleID)
	return newSubscription(ctx, cancel, it, scope{courseID, moduleID}), nil
}

// Subscribe is the callback form of Watch. onData receives every ordered snapshot; onError is
// called at most once, when a transport error ends the feed. The returned function unsubscribes
// and may be called any number of times.
func (s *Service) Subscribe(ctx context.Context, courseID, moduleID string, onData func([]*models.DoubtMessage), onError func(error)) (func(), error) {
	sub, err := s.Watch(ctx, courseID, moduleID)
	if err != nil {
		return nil, err
	}

	go func() {
		for snapshot := range sub.Updates() {
			if sub.stopped() {
				continue
			}
			onData(snapshot)
		}
		if err := sub.Err(); err != nil {
			s.logger.Warn("doubt subscription failed",
				zap.String("courseId", courseID),
				zap.String("moduleId", moduleID),
				zap.Error(err))
			if onError != nil {
				onError(err)
			}
		}
	}()

	return sub.Unsubscribe, nil
}

// List returns the module's doubts in display order.
func (s *Service) List(ctx context.Context, courseID, moduleID string) ([]*models.DoubtMessage, error) {
	sub, err := s.Watch(ctx, courseID, moduleID)
	if err != nil {
		return nil, err
	}
	defer sub.Unsubscribe()

	select {
	case snapshot, ok := <-sub.Updates():
		if !ok {
			if err := sub.Err(); err != nil {
				return nil, err
			}
			return nil, ctx.Err()
		}
		return snapshot, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// AddDoubt starts a new unpinned thread with no replies. The creation time is assigned by the
// store.
func (s *Service) AddDoubt(ctx context.Context, req *models.CreateDoubtRequest) (string, error) {
	if err := validateMessage(req.CourseID, req.ModuleID, req.Text, req.SenderID); err != nil {
		return "", err
	}

	id, err := s.store.CreateDoubt(ctx, &models.DoubtMessage{
		Text:       req.Text,
		SenderID:   req.SenderID,
		SenderName: senderName(req.SenderName, req.SenderID),
		Pinned:     false,
		Replies:    []*models.DoubtReply{},
		ModuleID:   req.ModuleID,
		CourseID:   req.CourseID,
	})
	if err != nil {
		return "", err
	}

	s.logger.Info("doubt created",
		zap.String("courseId", req.CourseID),
		zap.String("moduleId", req.ModuleID),
		zap.String("doubtId", id),
		zap.String("senderId", req.SenderID))
	return id, nil
}

// AddReply appends a reply to a doubt and rewrites the reply list sorted oldest first.
func (s *Service) AddReply(ctx context.Context, req *models.CreateReplyRequest) (*models.DoubtReply, error) {
	if err := validateMessage(req.CourseID, req.ModuleID, req.Text, req.SenderID); err != nil {
		return nil, err
	}
	if req.DoubtID == "" {
		return nil, qerrors.Validation("doubtId is required")
	}

	ts := s.now().UTC()
	reply := &models.DoubtReply{
		ID:         s.newID(),
		Text:       req.Text,
		SenderID:   req.SenderID,
		SenderName: senderName(req.SenderName, req.SenderID),
		Timestamp:  &ts,
	}

	err := s.store.UpdateDoubtReplies(ctx, req.CourseID, req.ModuleID, req.DoubtID, func(replies []*models.DoubtReply) ([]*models.DoubtReply, error) {
		updated := make([]*models.DoubtReply, 0, len(replies)+1)
		updated = append(updated, normalizeReplies(replies, req.DoubtID)...)
		updated = append(updated, reply)
		SortReplies(updated)
		return updated, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("reply added",
		zap.String("doubtId", req.DoubtID),
		zap.String("replyId", reply.ID),
		zap.String("senderId", req.SenderID))
	return reply, nil
}

// TogglePin sets the doubt's pinned flag to the opposite of req.CurrentlyPinned. Only the
// doubt's sender may do so. It returns the new pinned state.
func (s *Service) TogglePin(ctx context.Context, req *models.TogglePinRequest) (bool, error) {
	if req.CourseID == "" || req.ModuleID == "" {
		return false, qerrors.MissingDoubtScopeErr
	}
	if err := models.Validate(req); err != nil {
		return false, err
	}

	d, err := s.store.GetDoubt(ctx, req.CourseID, req.ModuleID, req.DoubtID)
	if err != nil {
		return false, err
	}
	if d.SenderID != req.RequesterID {
		return false, qerrors.PinNotOwnerError
	}

	pinned := !req.CurrentlyPinned
	if err := s.store.SetDoubtPinned(ctx, req.CourseID, req.ModuleID, req.DoubtID, pinned); err != nil {
		return false, err
	}

	s.logger.Info("doubt pin toggled", zap.String("doubtId", req.DoubtID), zap.Bool("pinned", pinned))
	return pinned, nil
}

// Helpers

func validateMessage(courseID, moduleID, text, senderID string) error {
	if courseID == "" || moduleID == "" {
		return qerrors.MissingDoubtScopeErr
	}
	if strings.TrimSpace(text) == "" {
		return qerrors.EmptyDoubtTextError
	}
	if senderID == "" {
		return qerrors.Validation("senderId is required")
	}
	return nil
}

func senderName(name, senderID string) string {
	if strings.TrimSpace(name) == "" {
		return senderID
	}
	return name
}

// normalize fills in fields that older or hand-edited documents may lack.
func normalize(doubts []*models.DoubtMessage, sc scope) []*models.DoubtMessage {
	for _, d := range doubts {
		if d.CourseID == "" {
			d.CourseID = sc.courseID
		}
		if d.ModuleID == "" {
			d.ModuleID = sc.moduleID
		}
		d.SenderName = senderName(d.SenderName, d.SenderID)
		d.Replies = normalizeReplies(d.Replies, d.ID)
		SortReplies(d.Replies)
	}
	return doubts
}

// normalizeReplies gives every reply an ID, a sender name and a timestamp. Replies without a
// readable timestamp are dated at the Unix epoch.
func normalizeReplies(replies []*models.DoubtReply, doubtID string) []*models.DoubtReply {
	if replies == nil {
		return []*models.DoubtReply{}
	}
	for i, r := range replies {
		if r.ID == "" {
			r.ID = fmt.Sprintf("%s-reply-%d", doubtID, i)
		}
		r.SenderName = senderName(r.SenderName, r.SenderID)
		if r.Timestamp == nil {
			epoch := time.Unix(0, 0).UTC()
			r.Timestamp = &epoch
		}
	}
	return replies
}
