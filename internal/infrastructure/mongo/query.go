package mongo

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bizbranches/api/internal/application"
)

// caseInsensitive builds a case-insensitive substring regex for value.
func caseInsensitive(value string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(value), Options: "i"}
}

// anchored builds a case-insensitive whole-value match for value.
func anchored(value string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(value) + "$", Options: "i"}
}

// creatorClause matches a creator reference stored as either an ObjectID or
// a plain hex string.
func creatorClause(createdBy string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(createdBy); err == nil {
		return bson.M{"$or": bson.A{
			bson.M{"createdBy": oid},
			bson.M{"createdBy": createdBy},
		}}
	}
	return bson.M{"createdBy": createdBy}
}

// buildListFilter translates the shared list-view parameters into a single
// Mongo filter. Exact-match filters are ANDed; the free-text query is an OR
// of case-insensitive substring matches across the searchable fields.
func buildListFilter(filter application.BusinessFilter) bson.M {
	clauses := make([]bson.M, 0)

	exact := []struct {
		key   string
		value string
	}{
		{"category", filter.Category},
		{"province", filter.Province},
		{"city", filter.City},
		{"area", filter.Area},
		{"status", filter.Status},
		{"source", filter.Source},
	}
	for _, e := range exact {
		if e.value != "" {
			clauses = append(clauses, bson.M{e.key: e.value})
		}
	}

	switch filter.Reviewed {
	case application.ReviewedOnly:
		clauses = append(clauses, bson.M{"reviewedBy": bson.M{"$exists": true}})
	case application.NotReviewed:
		clauses = append(clauses, bson.M{"reviewedBy": bson.M{"$exists": false}})
	}

	if filter.CreatedBy != "" {
		clauses = append(clauses, creatorClause(filter.CreatedBy))
	}

	if filter.Query != "" {
		regex := caseInsensitive(filter.Query)
		clauses = append(clauses, bson.M{"$or": bson.A{
			bson.M{"name": regex},
			bson.M{"description": regex},
			bson.M{"category": regex},
			bson.M{"province": regex},
			bson.M{"city": regex},
			bson.M{"area": regex},
		}})
	}

	switch len(clauses) {
	case 0:
		return bson.M{}
	case 1:
		return clauses[0]
	default:
		return bson.M{"$and": clauses}
	}
}

// buildListSort returns the shared list ordering: status groups first with
// newest submissions on top, except the history view which is purely
// reverse-chronological.
func buildListSort(history bool) bson.D {
	if history {
		return bson.D{{Key: "createdAt", Value: -1}}
	}
	return bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}
}

// buildPublicFilter is the approved-only public directory query.
func buildPublicFilter(filter application.PublicFilter) bson.M {
	query := bson.M{"status": "approved"}
	if filter.Search != "" {
		regex := caseInsensitive(filter.Search)
		query["$or"] = bson.A{
			bson.M{"name": regex},
			bson.M{"businessName": regex},
			bson.M{"contactPerson": regex},
			bson.M{"contactPersonName": regex},
			bson.M{"description": regex},
			bson.M{"address": regex},
			bson.M{"city": regex},
			bson.M{"category": regex},
		}
	}
	if filter.City != "" {
		query["city"] = anchored(filter.City)
	}
	if filter.Category != "" {
		query["category"] = anchored(filter.Category)
	}
	return query
}

// historyPipeline joins each business with its creator's display name. The
// creator reference may be stored as a string or ObjectID, so it is coerced
// before the lookup.
func historyPipeline(filter bson.M, skip, limit int) mongoPipeline {
	return mongoPipeline{
		bson.M{"$match": filter},
		bson.M{"$addFields": bson.M{
			"createdByObjId": bson.M{
				"$cond": bson.M{
					"if":   bson.M{"$eq": bson.A{bson.M{"$type": "$createdBy"}, "string"}},
					"then": bson.M{"$toObjectId": "$createdBy"},
					"else": "$createdBy",
				},
			},
		}},
		bson.M{"$lookup": bson.M{
			"from":         "users",
			"localField":   "createdByObjId",
			"foreignField": "_id",
			"as":           "creator",
		}},
		bson.M{"$addFields": bson.M{
			"createdByName": bson.M{"$arrayElemAt": bson.A{"$creator.name", 0}},
		}},
		bson.M{"$sort": bson.M{"createdAt": -1}},
		bson.M{"$skip": skip},
		bson.M{"$limit": limit},
	}
}

type mongoPipeline []bson.M
