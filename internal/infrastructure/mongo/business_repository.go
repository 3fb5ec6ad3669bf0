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

// BusinessRepository is the Mongo implementation of the business port.
type BusinessRepository struct {
	collection *mongo.Collection
}

// NewBusinessRepository binds the repository to its collection.
func NewBusinessRepository(db *mongo.Database, collection string) *BusinessRepository {
	return &BusinessRepository{collection: db.Collection(collection)}
}

// Find returns one page of businesses plus the unpaginated total for the
// same filter. The history view routes through an aggregation that joins
// creator names; every other view is a plain find.
func (r *BusinessRepository) Find(ctx context.Context, filter application.BusinessFilter, paging application.Paging) ([]domain.Business, int, error) {
	mongoFilter := buildListFilter(filter)

	var docs []BusinessDocument
	var err error
	if filter.History {
		docs, err = r.findHistory(ctx, mongoFilter, paging)
	} else {
		docs, err = r.findPage(ctx, mongoFilter, buildListSort(false), paging)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, mongoFilter)
	if err != nil {
		return nil, 0, err
	}

	businesses := make([]domain.Business, 0, len(docs))
	for _, doc := range docs {
		businesses = append(businesses, mapBusiness(doc))
	}
	return businesses, int(total), nil
}

func (r *BusinessRepository) findPage(ctx context.Context, filter bson.M, sort bson.D, paging application.Paging) ([]BusinessDocument, error) {
	opts := options.Find().
		SetSort(sort).
		SetSkip(int64(paging.Skip())).
		SetLimit(int64(paging.Limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := make([]BusinessDocument, 0)
	for cursor.Next(ctx) {
		var doc BusinessDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, cursor.Err()
}

func (r *BusinessRepository) findHistory(ctx context.Context, filter bson.M, paging application.Paging) ([]BusinessDocument, error) {
	cursor, err := r.collection.Aggregate(ctx, historyPipeline(filter, paging.Skip(), paging.Limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := make([]BusinessDocument, 0)
	for cursor.Next(ctx) {
		var doc BusinessDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, cursor.Err()
}

func (r *BusinessRepository) FindByID(ctx context.Context, id string) (*domain.Business, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		// The public site sometimes passes a slug where an id is expected.
		return r.FindBySlug(ctx, id)
	}
	var doc BusinessDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, application.ErrNotFound
		}
		return nil, err
	}
	business := mapBusiness(doc)
	return &business, nil
}

func (r *BusinessRepository) FindBySlug(ctx context.Context, slug string) (*domain.Business, error) {
	var doc BusinessDocument
	if err := r.collection.FindOne(ctx, bson.M{"slug": strings.TrimSpace(slug)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, application.ErrNotFound
		}
		return nil, err
	}
	business := mapBusiness(doc)
	return &business, nil
}

func (r *BusinessRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"slug": slug}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *BusinessRepository) Insert(ctx context.Context, business *domain.Business) error {
	doc := buildBusinessDocument(business)
	doc.ID = primitive.NewObjectID()
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	business.ID = doc.ID.Hex()
	return nil
}

// statusUpdate renders a moderation transition as a Mongo update. Approving
// or re-pending unsets any lingering rejection reason so the
// reason-implies-rejected invariant holds.
func statusUpdate(change application.StatusChange) bson.M {
	set := bson.M{
		"status":     change.Status,
		"updatedAt":  time.Now().UTC(),
		"reviewedBy": change.ReviewedBy,
		"reviewedAt": change.ReviewedAt,
	}
	if change.Status == domain.StatusRejected && change.RejectionReason != "" {
		set["rejectionReason"] = change.RejectionReason
		return bson.M{"$set": set}
	}
	return bson.M{"$set": set, "$unset": bson.M{"rejectionReason": ""}}
}

func (r *BusinessRepository) UpdateStatus(ctx context.Context, id string, change application.StatusChange) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return application.ErrNotFound
	}
	result, err := r.collection.UpdateByID(ctx, objectID, statusUpdate(change))
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return application.ErrNotFound
	}
	return nil
}

// UpdateStatusBulk applies one status change across the whole id set in a
// single UpdateMany; ids that do not exist simply do not match.
func (r *BusinessRepository) UpdateStatusBulk(ctx context.Context, ids []string, change application.StatusChange) (application.BulkResult, error) {
	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
		if err != nil {
			// Unparseable ids count as unmatched, same as ids that do not
			// exist.
			continue
		}
		objectIDs = append(objectIDs, oid)
	}
	result, err := r.collection.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": objectIDs}}, statusUpdate(change))
	if err != nil {
		return application.BulkResult{}, err
	}
	return application.BulkResult{Matched: result.MatchedCount, Modified: result.ModifiedCount}, nil
}

func (r *BusinessRepository) SetFeatured(ctx context.Context, id string, featured bool, featuredAt *time.Time) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return application.ErrNotFound
	}
	update := bson.M{"$set": bson.M{"featured": featured, "updatedAt": time.Now().UTC()}}
	if featuredAt != nil {
		update["$set"].(bson.M)["featuredAt"] = *featuredAt
	} else {
		update["$unset"] = bson.M{"featuredAt": ""}
	}
	result, err := r.collection.UpdateByID(ctx, objectID, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return application.ErrNotFound
	}
	return nil
}

// UpdateFields writes the non-empty canonical fields of a partial edit,
// mirroring each value into its legacy alias. A logo attachment replaces
// whichever logo representation was stored before, keeping the hosted URL
// and the inline fallback mutually exclusive.
func (r *BusinessRepository) UpdateFields(ctx context.Context, id string, patch application.FieldPatch) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return application.ErrNotFound
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	unset := bson.M{}

	fields := patch.Fields
	assign := func(value string, keys ...string) {
		if value == "" {
			return
		}
		for _, key := range keys {
			set[key] = value
		}
	}
	assign(fields.Name, "name", "businessName")
	assign(fields.ContactPerson, "contactPerson", "contactPersonName")
	assign(fields.Category, "category")
	assign(fields.SubCategory, "subCategory")
	assign(fields.Province, "province")
	assign(fields.City, "city")
	assign(fields.Area, "area")
	assign(fields.PostalCode, "postalCode", "zipCode")
	assign(fields.Address, "address")
	assign(fields.Phone, "phone")
	assign(fields.Whatsapp, "whatsapp")
	assign(fields.Email, "email")
	assign(fields.Description, "description")
	assign(fields.WebsiteURL, "websiteUrl", "website")
	assign(fields.FacebookURL, "facebookUrl")
	assign(fields.GmbURL, "gmbUrl")
	assign(fields.YoutubeURL, "youtubeUrl")
	assign(fields.SwiftCode, "swiftCode")
	assign(fields.BranchCode, "branchCode")
	assign(fields.CityDialingCode, "cityDialingCode")
	assign(fields.IBAN, "iban")

	if logo := patch.Logo; logo != nil {
		if logo.URL != "" {
			set["logoUrl"] = logo.URL
			set["logoPublicId"] = logo.PublicID
			unset["logoDataUrl"] = ""
		} else {
			set["logoDataUrl"] = logo.DataURL
			unset["logoUrl"] = ""
			unset["logoPublicId"] = ""
		}
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	result, err := r.collection.UpdateByID(ctx, objectID, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return application.ErrNotFound
	}
	return nil
}

func (r *BusinessRepository) Delete(ctx context.Context, id string) error {
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

func (r *BusinessRepository) FindFeatured(ctx context.Context, limit int) ([]domain.Business, error) {
	filter := bson.M{"featured": true, "status": domain.StatusApproved}
	opts := options.Find().
		SetSort(bson.D{{Key: "featuredAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	businesses := make([]domain.Business, 0, limit)
	for cursor.Next(ctx) {
		var doc BusinessDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		businesses = append(businesses, mapBusiness(doc))
	}
	return businesses, cursor.Err()
}

func (r *BusinessRepository) FindPublic(ctx context.Context, filter application.PublicFilter, paging application.Paging) ([]domain.Business, int, error) {
	mongoFilter := buildPublicFilter(filter)

	docs, err := r.findPage(ctx, mongoFilter, bson.D{{Key: "createdAt", Value: -1}}, paging)
	if err != nil {
		return nil, 0, err
	}
	total, err := r.collection.CountDocuments(ctx, mongoFilter)
	if err != nil {
		return nil, 0, err
	}

	businesses := make([]domain.Business, 0, len(docs))
	for _, doc := range docs {
		businesses = append(businesses, mapBusiness(doc))
	}
	return businesses, int(total), nil
}

func (r *BusinessRepository) StatusCounts(ctx context.Context) (application.StatusCounts, error) {
	pipeline := mongoPipeline{
		bson.M{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return application.StatusCounts{}, err
	}
	defer cursor.Close(ctx)

	var counts application.StatusCounts
	for cursor.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			Count  int    `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return application.StatusCounts{}, err
		}
		counts.Total += row.Count
		switch row.Status {
		case domain.StatusPending:
			counts.Pending = row.Count
		case domain.StatusApproved:
			counts.Approved = row.Count
		case domain.StatusRejected:
			counts.Rejected = row.Count
		}
	}
	return counts, cursor.Err()
}

func (r *BusinessRepository) RecentActivity(ctx context.Context, since time.Time) ([]application.ActivityBucket, error) {
	pipeline := mongoPipeline{
		bson.M{"$match": bson.M{"reviewedAt": bson.M{"$gte": since}}},
		bson.M{"$group": bson.M{
			"_id": bson.M{
				"status": "$status",
				"date":   bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$reviewedAt"}},
			},
			"count": bson.M{"$sum": 1},
		}},
		bson.M{"$sort": bson.M{"_id.date": -1}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	buckets := make([]application.ActivityBucket, 0)
	for cursor.Next(ctx) {
		var row struct {
			ID struct {
				Status string `bson:"status"`
				Date   string `bson:"date"`
			} `bson:"_id"`
			Count int `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		buckets = append(buckets, application.ActivityBucket{Status: row.ID.Status, Date: row.ID.Date, Count: row.Count})
	}
	return buckets, cursor.Err()
}

func (r *BusinessRepository) ReviewerStats(ctx context.Context) ([]application.ReviewerStat, error) {
	pipeline := mongoPipeline{
		bson.M{"$match": bson.M{"reviewedBy": bson.M{"$exists": true, "$ne": nil}}},
		bson.M{"$group": bson.M{
			"_id":           "$reviewedBy",
			"totalReviewed": bson.M{"$sum": 1},
			"approved": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", domain.StatusApproved}}, 1, 0},
			}},
			"rejected": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", domain.StatusRejected}}, 1, 0},
			}},
		}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	stats := make([]application.ReviewerStat, 0)
	for cursor.Next(ctx) {
		var row struct {
			Reviewer      string `bson:"_id"`
			TotalReviewed int    `bson:"totalReviewed"`
			Approved      int    `bson:"approved"`
			Rejected      int    `bson:"rejected"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		stats = append(stats, application.ReviewerStat{
			Reviewer:      row.Reviewer,
			TotalReviewed: row.TotalReviewed,
			Approved:      row.Approved,
			Rejected:      row.Rejected,
		})
	}
	return stats, cursor.Err()
}

func (r *BusinessRepository) RecentSubmissions(ctx context.Context, limit int) ([]domain.Business, error) {
	docs, err := r.findPage(ctx, bson.M{}, bson.D{{Key: "createdAt", Value: -1}}, application.Paging{Page: 1, Limit: limit})
	if err != nil {
		return nil, err
	}
	businesses := make([]domain.Business, 0, len(docs))
	for _, doc := range docs {
		businesses = append(businesses, mapBusiness(doc))
	}
	return businesses, nil
}

func (r *BusinessRepository) RecentReviewed(ctx context.Context, limit int) ([]domain.Business, error) {
	filter := bson.M{"reviewedAt": bson.M{"$exists": true}}
	docs, err := r.findPage(ctx, filter, bson.D{{Key: "reviewedAt", Value: -1}}, application.Paging{Page: 1, Limit: limit})
	if err != nil {
		return nil, err
	}
	businesses := make([]domain.Business, 0, len(docs))
	for _, doc := range docs {
		businesses = append(businesses, mapBusiness(doc))
	}
	return businesses, nil
}

func (r *BusinessRepository) TopSubmitters(ctx context.Context, limit int) ([]application.SubmitterStat, error) {
	pipeline := mongoPipeline{
		bson.M{"$match": bson.M{"createdBy": bson.M{"$exists": true, "$ne": nil}}},
		bson.M{"$group": bson.M{
			"_id":           "$createdBy",
			"businessCount": bson.M{"$sum": 1},
			"approvedCount": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", domain.StatusApproved}}, 1, 0},
			}},
			"pendingCount": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", domain.StatusPending}}, 1, 0},
			}},
		}},
		bson.M{"$sort": bson.M{"businessCount": -1}},
		bson.M{"$limit": limit},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	stats := make([]application.SubmitterStat, 0, limit)
	for cursor.Next(ctx) {
		var row struct {
			ID            any `bson:"_id"`
			BusinessCount int `bson:"businessCount"`
			ApprovedCount int `bson:"approvedCount"`
			PendingCount  int `bson:"pendingCount"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		stats = append(stats, application.SubmitterStat{
			UserID:        referenceString(row.ID),
			BusinessCount: row.BusinessCount,
			ApprovedCount: row.ApprovedCount,
			PendingCount:  row.PendingCount,
		})
	}
	return stats, cursor.Err()
}

func (r *BusinessRepository) CountByCreator(ctx context.Context, userID string) (int, error) {
	count, err := r.collection.CountDocuments(ctx, creatorClause(userID))
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
