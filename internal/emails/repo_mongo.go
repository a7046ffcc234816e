package emails

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const collection = "emails"

// MongoRepo is the document-store implementation of Repo.
type MongoRepo struct {
	db *mongo.Database
}

// NewMongoRepo constructs the repo.
func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{db: db}
}

func (r *MongoRepo) Create(ctx context.Context, email Email) (Email, error) {
	now := time.Now().UTC()
	email.CreatedAt = now
	email.UpdatedAt = now

	if _, err := r.db.Collection(collection).InsertOne(ctx, email); err != nil {
		return Email{}, err
	}
	return email, nil
}

func (r *MongoRepo) ListByUser(ctx context.Context, userID string) ([]Email, error) {
	cursor, err := r.db.Collection(collection).Find(ctx,
		bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := make([]Email, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// wordCountRegex matches one word per run of non-whitespace, so the server
// side counts exactly like strings.Fields does in the memory repo.
const wordCountRegex = `\S+`

// wordCountExpr counts whitespace-separated words of generatedEmail inside an
// aggregation stage.
var wordCountExpr = bson.D{{Key: "$size", Value: bson.D{
	{Key: "$regexFindAll", Value: bson.D{
		{Key: "input", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$generatedEmail", ""}}}},
		{Key: "regex", Value: wordCountRegex},
	}},
}}}

func (r *MongoRepo) TotalsByUser(ctx context.Context, userID string) (Totals, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "userId", Value: userID}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "emails", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "words", Value: bson.D{{Key: "$sum", Value: wordCountExpr}}},
		}}},
	}
	cursor, err := r.db.Collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return Totals{}, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Emails int `bson:"emails"`
		Words  int `bson:"words"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return Totals{}, err
	}
	if len(rows) == 0 {
		return Totals{}, nil
	}
	return Totals{Emails: rows[0].Emails, Words: rows[0].Words}, nil
}

func (r *MongoRepo) DailyStats(ctx context.Context, userID string) ([]DayStat, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "userId", Value: userID}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$dateToString", Value: bson.D{
				{Key: "format", Value: "%Y-%m-%d"},
				{Key: "date", Value: "$createdAt"},
			}}}},
			{Key: "emails", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "words", Value: bson.D{{Key: "$sum", Value: wordCountExpr}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "date", Value: "$_id"},
			{Key: "emails", Value: 1},
			{Key: "words", Value: 1},
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
