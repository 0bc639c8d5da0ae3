package request

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository handles DB operations for blood requests.
type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: db.Collection("requests")}
}

func (r *MongoRepository) Insert(ctx context.Context, req *Request) error {
	_, err := r.collection.InsertOne(ctx, req)
	return err
}

// List returns requests with the given status, newest first.
func (r *MongoRepository) List(ctx context.Context, status string) ([]*Request, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"status": status}, opts)
	if err != nil {
		return nil, err
	}
	requests := []*Request{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Request, error) {
	var req Request
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *MongoRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status string) (*Request, error) {
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var req Request
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&req)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

// SetNotifiedDonors records which donors a created request reached, for audit.
func (r *MongoRepository) SetNotifiedDonors(ctx context.Context, id primitive.ObjectID, donorIDs []primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"notifiedDonors": donorIDs, "updatedAt": time.Now()}}
	_, err := r.collection.UpdateByID(ctx, id, update)
	return err
}
