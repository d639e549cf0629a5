package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/socialnet/friends-api/internal/core/domain"
)

const collectionRequests = "friend_requests"

// RequestRepository implements ports.RequestRepository backed by MongoDB.
type RequestRepository struct {
	col *mongo.Collection
}

func NewRequestRepository(db *mongo.Database) *RequestRepository {
	return &RequestRepository{col: db.Collection(collectionRequests)}
}

type mongoRequest struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	SenderID   string             `bson:"sender_id"`
	ReceiverID string             `bson:"receiver_id"`
	Status     string             `bson:"status"`
	Timestamp  time.Time          `bson:"timestamp"`
}

func (mr mongoRequest) toDomain() *domain.FriendRequest {
	return &domain.FriendRequest{
		ID:         mr.ID.Hex(),
		SenderID:   mr.SenderID,
		ReceiverID: mr.ReceiverID,
		Status:     domain.RequestStatus(mr.Status),
		Timestamp:  mr.Timestamp,
	}
}

// Create inserts a new request row. The unique (sender_id, receiver_id) index
// means that of two concurrent sends for the same ordered pair exactly one
// insert succeeds; the loser gets domain.ErrDuplicateRequest.
func (r *RequestRepository) Create(ctx context.Context, req *domain.FriendRequest) (*domain.FriendRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoRequest{
		SenderID:   req.SenderID,
		ReceiverID: req.ReceiverID,
		Status:     string(req.Status),
		Timestamp:  req.Timestamp.UTC(),
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateRequest
		}
		return nil, fmt.Errorf("insert friend request: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id string) (*domain.FriendRequest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRequestNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mr mongoRequest
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("find friend request: %w", err)
	}
	return mr.toDomain(), nil
}

// ExistsBetween reports whether any row with this exact ordered pair exists,
// regardless of status.
func (r *RequestRepository) ExistsBetween(ctx context.Context, senderID, receiverID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err := r.col.FindOne(ctx, bson.M{"sender_id": senderID, "receiver_id": receiverID}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("check friend request: %w", err)
	}
	return true, nil
}

// CountSince counts rows created by sender with timestamp >= since, across all
// statuses.
func (r *RequestRepository) CountSince(ctx context.Context, senderID string, since time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{
		"sender_id": senderID,
		"timestamp": bson.M{"$gte": since.UTC()},
	})
	if err != nil {
		return 0, fmt.Errorf("count friend requests: %w", err)
	}
	return n, nil
}

// UpdateStatus overwrites the status unconditionally; the timestamp is never
// touched.
func (r *RequestRepository) UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrRequestNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"status": string(status)}})
	if err != nil {
		return fmt.Errorf("update friend request status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}

func (r *RequestRepository) ListByReceiverAndStatus(ctx context.Context, receiverID string, status domain.RequestStatus) ([]*domain.FriendRequest, error) {
	return r.list(ctx, bson.M{"receiver_id": receiverID, "status": string(status)})
}

// ListInvolving returns rows where the user is sender or receiver and the
// status matches.
func (r *RequestRepository) ListInvolving(ctx context.Context, userID string, status domain.RequestStatus) ([]*domain.FriendRequest, error) {
	return r.list(ctx, bson.M{
		"status": string(status),
		"$or": bson.A{
			bson.M{"sender_id": userID},
			bson.M{"receiver_id": userID},
		},
	})
}

func (r *RequestRepository) list(ctx context.Context, filter bson.M) ([]*domain.FriendRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list friend requests: %w", err)
	}
	defer cur.Close(ctx)

	var rows []*domain.FriendRequest
	for cur.Next(ctx) {
		var mr mongoRequest
		if err := cur.Decode(&mr); err != nil {
			return nil, fmt.Errorf("decode friend request: %w", err)
		}
		rows = append(rows, mr.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list friend requests: %w", err)
	}
	return rows, nil
}

// EnsureIndexes creates the indexes the ledger relies on. The unique compound
// index on (sender_id, receiver_id) is the duplicate guard.
func (r *RequestRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sender_id", Value: 1}, {Key: "receiver_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "receiver_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "sender_id", Value: 1}, {Key: "timestamp", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
