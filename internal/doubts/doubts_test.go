package doubts

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"learnhub/internal/models"
	"learnhub/internal/qerrors"
	"learnhub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testCourse = "course1"
	testModule = "c1m1"
)

func newTestService() (*Service, *repository.MemoryRepository) {
	repo := repository.NewMemoryRepository()
	return NewService(repo, zap.NewNop()), repo
}

func addDoubt(t *testing.T, svc *Service, senderID, text string) string {
	t.Helper()
	id, err := svc.AddDoubt(context.Background(), &models.CreateDoubtRequest{
		CourseID: testCourse,
		ModuleID: testModule,
		Text:     text,
		SenderID: senderID,
	})
	require.NoError(t, err)
	return id
}

func firstSnapshot(t *testing.T, svc *Service) []*models.DoubtMessage {
	t.Helper()
	doubts, err := svc.List(context.Background(), testCourse, testModule)
	require.NoError(t, err)
	return doubts
}

func TestAddDoubtThenSubscribe(t *testing.T) {
	svc, _ := newTestService()
	id := addDoubt(t, svc, "8918", "What is a closure?")

	sub, err := svc.Watch(context.Background(), testCourse, testModule)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	select {
	case doubts := <-sub.Updates():
		require.Len(t, doubts, 1)
		d := doubts[0]
		assert.Equal(t, id, d.ID)
		assert.Equal(t, "What is a closure?", d.Text)
		assert.Equal(t, "8918", d.SenderID)
		assert.Equal(t, "8918", d.SenderName)
		assert.False(t, d.Pinned)
		assert.Equal(t, []*models.DoubtReply{}, d.Replies)
		assert.Equal(t, testCourse, d.CourseID)
		assert.Equal(t, testModule, d.ModuleID)
		assert.NotNil(t, d.Timestamp)
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}
}

func TestAddDoubtValidation(t *testing.T) {
	svc, _ := newTestService()

	tests := []struct {
		name string
		req  *models.CreateDoubtRequest
	}{
		{name: "blank text", req: &models.CreateDoubtRequest{CourseID: testCourse, ModuleID: testModule, Text: "  \n\t", SenderID: "8918"}},
		{name: "missing course", req: &models.CreateDoubtRequest{ModuleID: testModule, Text: "hi", SenderID: "8918"}},
		{name: "missing module", req: &models.CreateDoubtRequest{CourseID: testCourse, Text: "hi", SenderID: "8918"}},
		{name: "missing sender", req: &models.CreateDoubtRequest{CourseID: testCourse, ModuleID: testModule, Text: "hi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddDoubt(context.Background(), tt.req)
			assert.True(t, errors.Is(err, qerrors.ValidationError), err)
		})
	}

	assert.Empty(t, firstSnapshot(t, svc))
}

func TestAddReplyKeepsRepliesSorted(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	id := addDoubt(t, svc, "8918", "question")

	// Seed replies written out of order, one without a timestamp and one without an id.
	err := repo.UpdateDoubtReplies(ctx, testCourse, testModule, id, func(r []*models.DoubtReply) ([]*models.DoubtReply, error) {
		return []*models.DoubtReply{
			{ID: "late", Text: "c", SenderID: "8946", Timestamp: at(3000)},
			{Text: "b", SenderID: "8947", Timestamp: at(2000)},
			{ID: "broken", Text: "a", SenderID: "8946"},
		}, nil
	})
	require.NoError(t, err)

	svc.now = func() time.Time { return *at(2500) }
	reply, err := svc.AddReply(ctx, &models.CreateReplyRequest{
		CourseID: testCourse, ModuleID: testModule, DoubtID: id,
		Text: " answer ", SenderID: "8918", SenderName: "Ada",
	})
	require.NoError(t, err)
	assert.Equal(t, " answer ", reply.Text)
	assert.NotEmpty(t, reply.ID)

	d, err := repo.GetDoubt(ctx, testCourse, testModule, id)
	require.NoError(t, err)
	require.Len(t, d.Replies, 4)
	for i := 1; i < len(d.Replies); i++ {
		assert.False(t, d.Replies[i].Timestamp.Before(*d.Replies[i-1].Timestamp), "replies out of order at %d", i)
	}
	assert.Equal(t, "broken", d.Replies[0].ID)
	assert.Equal(t, time.Unix(0, 0).UTC(), *d.Replies[0].Timestamp)
	assert.Equal(t, fmt.Sprintf("%s-reply-1", id), d.Replies[1].ID)
	assert.Equal(t, reply.ID, d.Replies[2].ID)
	assert.Equal(t, " answer ", d.Replies[2].Text)
	assert.Equal(t, "late", d.Replies[3].ID)
}

func TestAddDoubtKeepsSuppliedText(t *testing.T) {
	svc, _ := newTestService()
	text := "  Why does\n  this loop never end?  "
	id := addDoubt(t, svc, "8946", text)

	doubts := firstSnapshot(t, svc)
	require.Len(t, doubts, 1)
	assert.Equal(t, id, doubts[0].ID)
	assert.Equal(t, text, doubts[0].Text)
}

func TestAddReplyErrors(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddReply(ctx, &models.CreateReplyRequest{
		CourseID: testCourse, ModuleID: testModule, DoubtID: "missing", Text: "hi", SenderID: "8918",
	})
	assert.True(t, errors.Is(err, qerrors.NotFoundError))

	id := addDoubt(t, svc, "8918", "question")
	_, err = svc.AddReply(ctx, &models.CreateReplyRequest{
		CourseID: testCourse, ModuleID: testModule, DoubtID: id, Text: "   ", SenderID: "8918",
	})
	assert.True(t, errors.Is(err, qerrors.ValidationError))

	_, err = svc.AddReply(ctx, &models.CreateReplyRequest{
		CourseID: testCourse, ModuleID: testModule, Text: "hi", SenderID: "8918",
	})
	assert.True(t, errors.Is(err, qerrors.ValidationError))
}

func TestConcurrentRepliesAreNotLost(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	id := addDoubt(t, svc, "8918", "question")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.AddReply(ctx, &models.CreateReplyRequest{
				CourseID: testCourse, ModuleID: testModule, DoubtID: id,
				Text: fmt.Sprintf("reply %d", i), SenderID: "8946",
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	d, err := repo.GetDoubt(ctx, testCourse, testModule, id)
	require.NoError(t, err)
	assert.Len(t, d.Replies, 20)
}

func TestTogglePin(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	id := addDoubt(t, svc, "8918", "question")

	pinReq := func(requester string, current bool) *models.TogglePinRequest {
		return &models.TogglePinRequest{
			CourseID: testCourse, ModuleID: testModule, DoubtID: id,
			CurrentlyPinned: current, RequesterID: requester,
		}
	}

	_, err := svc.TogglePin(ctx, pinReq("8946", false))
	assert.True(t, errors.Is(err, qerrors.PermissionError))
	d, err := repo.GetDoubt(ctx, testCourse, testModule, id)
	require.NoError(t, err)
	assert.False(t, d.Pinned)

	pinned, err := svc.TogglePin(ctx, pinReq("8918", false))
	require.NoError(t, err)
	assert.True(t, pinned)
	d, err = repo.GetDoubt(ctx, testCourse, testModule, id)
	require.NoError(t, err)
	assert.True(t, d.Pinned)

	// The caller's view wins, even when stale.
	pinned, err = svc.TogglePin(ctx, pinReq("8918", false))
	require.NoError(t, err)
	assert.True(t, pinned)

	pinned, err = svc.TogglePin(ctx, pinReq("8918", true))
	require.NoError(t, err)
	assert.False(t, pinned)

	missing := pinReq("8918", false)
	missing.DoubtID = "missing"
	_, err = svc.TogglePin(ctx, missing)
	assert.True(t, errors.Is(err, qerrors.NotFoundError))
}

func TestPinnedDoubtsListFirst(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	first := addDoubt(t, svc, "8918", "first")
	second := addDoubt(t, svc, "8946", "second")

	_, err := svc.TogglePin(ctx, &models.TogglePinRequest{
		CourseID: testCourse, ModuleID: testModule, DoubtID: second, RequesterID: "8946",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{second, first}, ids(firstSnapshot(t, svc)))
}

func TestWatchRequiresScope(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Watch(context.Background(), "", testModule)
	assert.True(t, errors.Is(err, qerrors.ValidationError))

	_, err = svc.Subscribe(context.Background(), testCourse, "", func([]*models.DoubtMessage) {}, nil)
	assert.True(t, errors.Is(err, qerrors.ValidationError))
}

func TestSubscriptionDeliversLatestState(t *testing.T) {
	svc, _ := newTestService()
	sub, err := svc.Watch(context.Background(), testCourse, testModule)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	for i := 0; i < 5; i++ {
		addDoubt(t, svc, "8918", fmt.Sprintf("doubt %d", i))
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case doubts := <-sub.Updates():
			if len(doubts) == 5 {
				assert.Equal(t, "doubt 0", doubts[0].Text)
				assert.Equal(t, "doubt 4", doubts[4].Text)
				return
			}
		case <-deadline:
			t.Fatal("latest snapshot never delivered")
		}
	}
}

func TestSubscribeCallbacks(t *testing.T) {
	svc, repo := newTestService()

	snapshots := make(chan []*models.DoubtMessage, 10)
	errs := make(chan error, 10)
	unsubscribe, err := svc.Subscribe(context.Background(), testCourse, testModule,
		func(doubts []*models.DoubtMessage) { snapshots <- doubts },
		func(err error) { errs <- err })
	require.NoError(t, err)
	defer unsubscribe()

	select {
	case doubts := <-snapshots:
		assert.Empty(t, doubts)
	case <-time.After(time.Second):
		t.Fatal("initial snapshot not delivered")
	}

	addDoubt(t, svc, "8918", "hello")
	select {
	case doubts := <-snapshots:
		require.Len(t, doubts, 1)
		assert.Equal(t, "hello", doubts[0].Text)
	case <-time.After(time.Second):
		t.Fatal("update not delivered")
	}

	transport := errors.New("transport closed")
	repo.BreakWatches(transport)
	select {
	case err := <-errs:
		assert.Equal(t, transport, err)
	case <-time.After(time.Second):
		t.Fatal("error not delivered")
	}

	// The subscription has stopped: later writes are not delivered.
	addDoubt(t, svc, "8918", "after error")
	select {
	case <-snapshots:
		t.Fatal("snapshot delivered after the subscription ended")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Len(t, errs, 0)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	svc, _ := newTestService()

	calls := make(chan []*models.DoubtMessage, 10)
	errs := make(chan error, 1)
	unsubscribe, err := svc.Subscribe(context.Background(), testCourse, testModule,
		func(doubts []*models.DoubtMessage) { calls <- doubts },
		func(err error) { errs <- err })
	require.NoError(t, err)

	<-calls
	unsubscribe()
	unsubscribe()

	addDoubt(t, svc, "8918", "after unsubscribe")
	select {
	case <-calls:
		t.Fatal("snapshot delivered after unsubscribe")
	case err := <-errs:
		t.Fatalf("unexpected error after unsubscribe: %v", err)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscriptionEndsWithContext(t *testing.T) {
	svc, _ := newTestService()
	ctx, cancel := context.WithCancel(context.Background())

	sub, err := svc.Watch(ctx, testCourse, testModule)
	require.NoError(t, err)
	<-sub.Updates()

	cancel()
	select {
	case _, ok := <-sub.Updates():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("subscription did not end with its context")
	}
	assert.NoError(t, sub.Err())
}
