package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bizbranches/api/internal/application"
	"github.com/bizbranches/api/internal/domain"
)

// CategoryRepository is the Mongo implementation of the category port.
// Categories are keyed by slug, not by _id; subcategories live embedded in
// their parent document and are addressed with positional updates.
type CategoryRepository struct {
	collection *mongo.Collection
}

// NewCategoryRepository binds the repository to its collection.
func NewCategoryRepository(db *mongo.Database, collection string) *CategoryRepository {
	return &CategoryRepository{collection: db.Collection(collection)}
}

func (r *CategoryRepository) List(ctx context.Context, query string) ([]domain.Category, error) {
	filter := bson.M{}
	if query != "" {
		regex := caseInsensitive(query)
		filter["$or"] = bson.A{
			bson.M{"slug": regex},
			bson.M{"name": regex},
		}
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "slug", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	categories := make([]domain.Category, 0)
	for cursor.Next(ctx) {
		var doc CategoryDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		categories = append(categories, mapCategory(doc))
	}
	return categories, cursor.Err()
}

func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	var doc CategoryDocument
	if err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, application.ErrNotFound
		}
		return nil, err
	}
	category := mapCategory(doc)
	return &category, nil
}

// IncrementCount bumps the parent counter, creating the category on first
// sight of its slug.
func (r *CategoryRepository) IncrementCount(ctx context.Context, slug, name string) error {
	update := bson.M{
		"$inc": bson.M{"count": 1},
		"$setOnInsert": bson.M{
			"name":      name,
			"createdAt": time.Now().UTC(),
		},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"slug": slug}, update, options.Update().SetUpsert(true))
	return err
}

// IncrementSubcategory bumps the embedded subcategory counter, appending the
// subcategory to the parent's array when it is not there yet.
func (r *CategoryRepository) IncrementSubcategory(ctx context.Context, slug, subSlug, subName string) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"slug": slug, "subcategories.slug": subSlug},
		bson.M{"$inc": bson.M{"subcategories.$.count": 1}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount > 0 {
		return nil
	}
	_, err = r.collection.UpdateOne(ctx,
		bson.M{"slug": slug},
		bson.M{"$push": bson.M{"subcategories": SubcategoryDocument{
			Slug:  subSlug,
			Name:  subName,
			Count: 1,
		}}},
	)
	return err
}

// UpsertWithImage creates or refreshes a category with its image. The counter
// is never touched here; only the submission path moves it.
func (r *CategoryRepository) UpsertWithImage(ctx context.Context, slug, name, imageURL, imagePublicID string) error {
	update := bson.M{
		"$set": bson.M{
			"name":          name,
			"imageUrl":      imageURL,
			"imagePublicId": imagePublicID,
		},
		"$setOnInsert": bson.M{
			"count":     0,
			"createdAt": time.Now().UTC(),
		},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"slug": slug}, update, options.Update().SetUpsert(true))
	return err
}

// EnsureSubcategory appends the subcategory unless one with the same slug is
// already embedded.
func (r *CategoryRepository) EnsureSubcategory(ctx context.Context, slug string, sub domain.Subcategory) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"slug": slug, "subcategories.slug": bson.M{"$ne": sub.Slug}},
		bson.M{"$push": bson.M{"subcategories": SubcategoryDocument{
			Slug:  sub.Slug,
			Name:  sub.Name,
			Count: sub.Count,
		}}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		// Either the category is missing or the subcategory already exists.
		// Only the former is an error.
		count, err := r.collection.CountDocuments(ctx, bson.M{"slug": slug}, options.Count().SetLimit(1))
		if err != nil {
			return err
		}
		if count == 0 {
			return application.ErrNotFound
		}
	}
	return nil
}

// Rename changes a category's display name and, with it, its slug. Business
// documents keep their original category string, so counts and lookups that
// match on the old slug will drift until re-submission.
func (r *CategoryRepository) Rename(ctx context.Context, slug, newName, newSlug string) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"slug": slug},
		bson.M{"$set": bson.M{"name": newName, "slug": newSlug}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return application.ErrNotFound
	}
	return nil
}

func (r *CategoryRepository) SetImage(ctx context.Context, slug, imageURL, imagePublicID string) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"slug": slug},
		bson.M{"$set": bson.M{"imageUrl": imageURL, "imagePublicId": imagePublicID}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return application.ErrNotFound
	}
	return nil
}

func (r *CategoryRepository) RenameSubcategory(ctx context.Context, slug, subSlug, newName, newSubSlug string) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"slug": slug, "subcategories.slug": subSlug},
		bson.M{"$set": bson.M{
			"subcategories.$.name": newName,
			"subcategories.$.slug": newSubSlug,
		}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return application.ErrNotFound
	}
	return nil
}

func (r *CategoryRepository) RemoveSubcategory(ctx context.Context, slug, subSlug string) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"slug": slug},
		bson.M{"$pull": bson.M{"subcategories": bson.M{"slug": subSlug}}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return application.ErrNotFound
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, slug string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"slug": slug})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return application.ErrNotFound
	}
	return nil
}
