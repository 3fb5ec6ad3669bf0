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

// UserRepository is the Mongo implementation of the user port.
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository binds the repository to its collection.
func NewUserRepository(db *mongo.Database, collection string) *UserRepository {
	return &UserRepository{collection: db.Collection(collection)}
}

// List returns every user, newest first, without password hashes.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetProjection(bson.M{"password": 0})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := make([]domain.User, 0)
	for cursor.Next(ctx) {
		var doc UserDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		users = append(users, mapUser(doc))
	}
	return users, cursor.Err()
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, application.ErrNotFound
	}
	var doc UserDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, application.ErrNotFound
		}
		return nil, err
	}
	user := mapUser(doc)
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var doc UserDocument
	if err := r.collection.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, application.ErrNotFound
		}
		return nil, err
	}
	user := mapUser(doc)
	return &user, nil
}

func (r *UserRepository) Insert(ctx context.Context, user *domain.User) error {
	doc := UserDocument{
		ID:        primitive.NewObjectID(),
		Name:      user.Name,
		Email:     strings.ToLower(user.Email),
		Password:  user.PasswordHash,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	user.ID = doc.ID.Hex()
	return nil
}

func (r *UserRepository) Update(ctx context.Context, id, name, email, role string) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return application.ErrNotFound
	}

	now := time.Now().UTC()
	set := bson.M{"updatedAt": now}
	if name != "" {
		set["name"] = name
	}
	if email != "" {
		set["email"] = strings.ToLower(email)
	}
	if role == domain.RoleAdmin || role == domain.RoleUser {
		set["role"] = role
	}

	result, err := r.collection.UpdateByID(ctx, objectID, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return application.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
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

func (r *UserRepository) StampLastLogin(ctx context.Context, id string, at time.Time) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return application.ErrNotFound
	}
	_, err = r.collection.UpdateByID(ctx, objectID, bson.M{"$set": bson.M{"lastLogin": at}})
	return err
}
