package repository

import (
	"context"
	"fmt"
	"time"

	"learnhub/internal/models"
	"learnhub/internal/qerrors"

	"cloud.google.com/go/firestore"
	"github.com/golang/glog"
	"github.com/mitchellh/mapstructure"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (fr *FirebaseRepository) doubtsCollection(courseID, moduleID string) *firestore.CollectionRef {
	return fr.firestoreClient.
		Collection(models.FirestoreCoursesCollection).Doc(courseID).
		Collection(models.FirestoreModulesCollection).Doc(moduleID).
		Collection(models.FirestoreDoubtsCollection)
}

func (fr *FirebaseRepository) CreateDoubt(ctx context.Context, d *models.DoubtMessage) (string, error) {
	ref, _, err := fr.doubtsCollection(d.CourseID, d.ModuleID).Add(ctx, map[string]interface{}{
		"text":       d.Text,
		"senderId":   d.SenderID,
		"senderName": d.SenderName,
		"timestamp":  firestore.ServerTimestamp,
		"pinned":     false,
		"replies":    []map[string]interface{}{},
		"moduleId":   d.ModuleID,
		"courseId":   d.CourseID,
	})
	if err != nil {
		return "", fmt.Errorf("error creating doubt: %v", err)
	}

	return ref.ID, nil
}

func (fr *FirebaseRepository) GetDoubt(ctx context.Context, courseID, moduleID, doubtID string) (*models.DoubtMessage, error) {
	doc, err := fr.doubtsCollection(courseID, moduleID).Doc(doubtID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, qerrors.DoubtNotFoundError
	}
	if err != nil {
		return nil, err
	}

	return decodeDoubt(doc)
}

func (fr *FirebaseRepository) UpdateDoubtReplies(ctx context.Context, courseID, moduleID, doubtID string, fn func([]*models.DoubtReply) ([]*models.DoubtReply, error)) error {
	ref := fr.doubtsCollection(courseID, moduleID).Doc(doubtID)
	return fr.firestoreClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return qerrors.DoubtNotFoundError
		}
		if err != nil {
			return err
		}

		d, err := decodeDoubt(doc)
		if err != nil {
			return err
		}
		replies, err := fn(d.Replies)
		if err != nil {
			return err
		}

		return tx.Update(ref, []firestore.Update{
			{Path: "replies", Value: repliesToData(replies)},
		})
	})
}

func (fr *FirebaseRepository) SetDoubtPinned(ctx context.Context, courseID, moduleID, doubtID string, pinned bool) error {
	_, err := fr.doubtsCollection(courseID, moduleID).Doc(doubtID).Update(ctx, []firestore.Update{
		{Path: "pinned", Value: pinned},
	})
	if status.Code(err) == codes.NotFound {
		return qerrors.DoubtNotFoundError
	}
	return err
}

func (fr *FirebaseRepository) WatchDoubts(ctx context.Context, courseID, moduleID string) DoubtIterator {
	query := fr.doubtsCollection(courseID, moduleID).OrderBy("timestamp", firestore.Asc)
	return &firestoreDoubtIterator{it: query.Snapshots(ctx)}
}

// firestoreDoubtIterator adapts a query snapshot iterator to DoubtIterator.
type firestoreDoubtIterator struct {
	it *firestore.QuerySnapshotIterator
}

func (i *firestoreDoubtIterator) Next() ([]*models.DoubtMessage, error) {
	snap, err := i.it.Next()
	if err != nil {
		if isStreamClosed(err) {
			return nil, ErrWatchStopped
		}
		return nil, err
	}

	docs, err := snap.Documents.GetAll()
	if err != nil {
		return nil, err
	}

	doubts := make([]*models.DoubtMessage, 0, len(docs))
	for _, doc := range docs {
		d, err := decodeDoubt(doc)
		if err != nil {
			glog.Warningf("skipping malformed doubt %s: %v\n", doc.Ref.Path, err)
			continue
		}
		doubts = append(doubts, d)
	}
	return doubts, nil
}

func (i *firestoreDoubtIterator) Stop() {
	i.it.Stop()
}

// Helpers

// decodeDoubt decodes a doubt document. Replies are decoded leniently: a reply whose timestamp is
// not a time is kept with a nil Timestamp.
func decodeDoubt(doc *firestore.DocumentSnapshot) (*models.DoubtMessage, error) {
	data := doc.Data()
	rawReplies := data["replies"]
	delete(data, "replies")

	var d models.DoubtMessage
	if err := mapstructure.Decode(data, &d); err != nil {
		return nil, fmt.Errorf("error decoding doubt: %v", err)
	}
	d.ID = doc.Ref.ID
	d.Replies = decodeReplies(rawReplies)
	return &d, nil
}

func decodeReplies(raw interface{}) []*models.DoubtReply {
	items, _ := raw.([]interface{})
	replies := make([]*models.DoubtReply, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		r := &models.DoubtReply{}
		r.ID, _ = m["id"].(string)
		r.Text, _ = m["text"].(string)
		r.SenderID, _ = m["senderId"].(string)
		r.SenderName, _ = m["senderName"].(string)
		if ts, ok := m["timestamp"].(time.Time); ok {
			r.Timestamp = &ts
		}
		replies = append(replies, r)
	}
	return replies
}

func repliesToData(replies []*models.DoubtReply) []map[string]interface{} {
	data := make([]map[string]interface{}, 0, len(replies))
	for _, r := range replies {
		entry := map[string]interface{}{
			"id":         r.ID,
			"text":       r.Text,
			"senderId":   r.SenderID,
			"senderName": r.SenderName,
		}
		if r.Timestamp != nil {
			entry["timestamp"] = *r.Timestamp
		}
		data = append(data, entry)
	}
	return data
}
