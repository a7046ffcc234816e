package resumes

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const collection = "resumes"

// MongoRepo is the document-store implementation of Repo.
type MongoRepo struct {
	db *mongo.Database
}

// NewMongoRepo constructs the repo.
func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{db: db}
}

func (r *MongoRepo) Create(ctx context.Context, resume Resume) (Resume, error) {
	now := time.Now().UTC()
	resume.CreatedAt = now
	resume.UpdatedAt = now

	if _, err := r.db.Collection(collection).InsertOne(ctx, resume); err != nil {
		return Resume{}, err
	}
	return resume, nil
}

func (r *MongoRepo) ListByUser(ctx context.Context, userID string) ([]Resume, error) {
	cursor, err := r.db.Collection(collection).Find(ctx,
		bson.M{"user": userID},
		options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetProjection(bson.D{{Key: "resumeText", Value: 0}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := make([]Resume, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *MongoRepo) ScoresByUser(ctx context.Context, userID string) ([]string, error) {
	cursor, err := r.db.Collection(collection).Find(ctx,
		bson.M{"user": userID},
		options.Find().SetProjection(bson.D{{Key: "score", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Score string `bson:"score"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	scores := make([]string, 0, len(rows))
	for _, row := range rows {
		scores = append(scores, row.Score)
	}
	return scores, nil
}

func (r *MongoRepo) DailyStats(ctx context.Context, userID string) ([]DayStat, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "user", Value: userID}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$dateToString", Value: bson.D{
				{Key: "format", Value: "%Y-%m-%d"},
				{Key: "date", Value: "$createdAt"},
			}}}},
			{Key: "resumes", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "date", Value: "$_id"},
			{Key: "resumes", Value: 1},
		}}},
	}
	cursor, err := r.db.Collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	stats := make([]DayStat, 0)
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}
