package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IndexConfig names the collections that receive startup indexes.
type IndexConfig struct {
	Businesses string
	Categories string
	Users      string
}

// EnsureIndexes creates the query-path indexes at startup. CreateMany is
// idempotent against indexes that already exist.
func EnsureIndexes(ctx context.Context, db *mongo.Database, cfg IndexConfig) error {
	businessIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "city", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "province", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "featured", Value: 1}, {Key: "featuredAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdBy", Value: 1}}},
		{Keys: bson.D{{Key: "reviewedBy", Value: 1}, {Key: "reviewedAt", Value: -1}}},
	}
	if _, err := db.Collection(cfg.Businesses).Indexes().CreateMany(ctx, businessIndexes); err != nil {
		return err
	}

	categoryIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := db.Collection(cfg.Categories).Indexes().CreateMany(ctx, categoryIndexes); err != nil {
		return err
	}

	userIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := db.Collection(cfg.Users).Indexes().CreateMany(ctx, userIndexes); err != nil {
		return err
	}
	return nil
}
