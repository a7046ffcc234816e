package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const collection = "users"

// MongoRepo is the document-store implementation of Repo.
type MongoRepo struct {
	db *mongo.Database
}

// NewMongoRepo constructs the repo and ensures the unique email index.
func NewMongoRepo(ctx context.Context, db *mongo.Database) (*MongoRepo, error) {
	_, err := db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("create users email index: %w", err)
	}
	return &MongoRepo{db: db}, nil
}

func (r *MongoRepo) Create(ctx context.Context, user User) (User, error) {
	now := time.Now().UTC()
	user.Email = strings.ToLower(user.Email)
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.db.Collection(collection).InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return user, nil
}

func (r *MongoRepo) GetByID(ctx context.Context, userID string) (User, error) {
	result := r.db.Collection(collection).FindOne(ctx, bson.M{"_id": userID})
	return decodeUser(result)
}

func (r *MongoRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	result := r.db.Collection(collection).FindOne(ctx, bson.M{"email": strings.ToLower(email)})
	return decodeUser(result)
}

func decodeUser(result *mongo.SingleResult) (User, error) {
	var user User
	if err := result.Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}
