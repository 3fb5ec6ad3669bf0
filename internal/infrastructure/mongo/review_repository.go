package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bizbranches/api/internal/application"
	"github.com/bizbranches/api/internal/domain"
)

// ReviewRepository is the Mongo implementation of the review port. Reviews
// were written by several generations of the public site, so the business
// reference is matched under both historical keys and both stored types.
type ReviewRepository struct {
	collection *mongo.Collection
}

// NewReviewRepository binds the repository to its collection.
func NewReviewRepository(db *mongo.Database, collection string) *ReviewRepository {
	return &ReviewRepository{collection: db.Collection(collection)}
}

// businessReferenceFilter matches the business reference in any of the forms
// it was ever stored in.
func businessReferenceFilter(businessID string) bson.M {
	clauses := bson.A{
		bson.M{"businessId": businessID},
		bson.M{"business_id": businessID},
	}
	if oid, err := primitive.ObjectIDFromHex(businessID); err == nil {
		clauses = append(clauses,
			bson.M{"businessId": oid},
			bson.M{"business_id": oid},
		)
	}
	return bson.M{"$or": clauses}
}

func (r *ReviewRepository) Find(ctx context.Context, businessID string, paging application.Paging) ([]domain.Review, int, error) {
	filter := businessReferenceFilter(strings.TrimSpace(businessID))

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(paging.Skip())).
		SetLimit(int64(paging.Limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	reviews := make([]domain.Review, 0)
	for cursor.Next(ctx) {
		var doc ReviewDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, mapReview(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return reviews, int(total), nil
}

// Update applies the non-nil patch fields and returns the updated review.
func (r *ReviewRepository) Update(ctx context.Context, id string, patch application.ReviewPatch) (*domain.Review, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, application.ErrNotFound
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Comment != nil {
		set["comment"] = strings.TrimSpace(*patch.Comment)
	}
	if patch.Rating != nil {
		set["rating"] = *patch.Rating
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc ReviewDocument
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, application.ErrNotFound
		}
		return nil, err
	}
	review := mapReview(doc)
	return &review, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return application.ErrNotFound
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return application.ErrNotFound
	}
	return nil
}
