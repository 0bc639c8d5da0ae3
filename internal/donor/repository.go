package donor

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository handles DB operations for donors.
type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: db.Collection("donors")}
}

func (r *MongoRepository) Insert(ctx context.Context, d *Donor) error {
	_, err := r.collection.InsertOne(ctx, d)
	return err
}

// Search returns donors matching the filter, newest first. Blood group and
// city are exact matches, mirroring the public search form.
func (r *MongoRepository) Search(ctx context.Context, f SearchFilter) ([]*Donor, error) {
	filter := bson.M{}
	if f.BloodGroup != "" {
		filter["bloodGroup"] = f.BloodGroup
	}
	if f.City != "" {
		filter["city"] = f.City
	}
	if f.OnlyVerified {
		filter["verificationStatus"] = StatusVerified
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	donors := []*Donor{}
	if err := cursor.All(ctx, &donors); err != nil {
		return nil, err
	}
	return donors, nil
}

// FindEligible selects donors a request can be matched to: exact blood group,
// available, verified, reachable by phone, and in the same city compared
// case-insensitively as a whole string. A blank city leaves the city
// unconstrained.
func (r *MongoRepository) FindEligible(ctx context.Context, bloodGroup, city string) ([]*Donor, error) {
	cursor, err := r.collection.Find(ctx, eligibleFilter(bloodGroup, city))
	if err != nil {
		return nil, err
	}
	donors := []*Donor{}
	if err := cursor.All(ctx, &donors); err != nil {
		return nil, err
	}
	return donors, nil
}

// eligibleFilter builds the matching query. City is an anchored
// case-insensitive whole-string comparison; a blank city (after trimming)
// leaves the city unconstrained.
func eligibleFilter(bloodGroup, city string) bson.M {
	filter := bson.M{
		"bloodGroup":         bloodGroup,
		"availability":       true,
		"verificationStatus": StatusVerified,
		"phone":              bson.M{"$exists": true, "$ne": ""},
	}
	if city = strings.TrimSpace(city); city != "" {
		filter["city"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(city) + "$", Options: "i"}
	}
	return filter
}

func (r *MongoRepository) SetVerificationStatus(ctx context.Context, id primitive.ObjectID, status string) (*Donor, error) {
	return r.updateByID(ctx, id, bson.M{"verificationStatus": status})
}

func (r *MongoRepository) SetAvailability(ctx context.Context, id primitive.ObjectID, available bool) (*Donor, error) {
	return r.updateByID(ctx, id, bson.M{"availability": available})
}

func (r *MongoRepository) updateByID(ctx context.Context, id primitive.ObjectID, fields bson.M) (*Donor, error) {
	fields["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var donor Donor
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&donor)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &donor, nil
}
