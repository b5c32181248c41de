// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

package dataset

import (
	"context"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tomtom215/filmrec/internal/logging"
	"github.com/tomtom215/filmrec/internal/ratings"
)

// ratingDocument is one rating in the MongoDB collection.
// userId may be stored as a string or a number.
type ratingDocument struct {
	UserID bson.RawValue `bson:"userId"`
	Title  string        `bson:"title"`
	Rating float64       `bson:"rating"`
	Genres string        `bson:"genres"`
}

// MongoSource reads ratings from a MongoDB collection.
type MongoSource struct {
	uri        string
	database   string
	collection string
}

// NewMongoSource creates a source for database.collection at uri.
func NewMongoSource(uri, database, collection string) *MongoSource {
	return &MongoSource{uri: uri, database: database, collection: collection}
}

// Name implements Source.
func (s *MongoSource) Name() string { return "mongo" }

// Load connects, reads the whole collection and disconnects.
func (s *MongoSource) Load(ctx context.Context) (*ratings.Table, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	defer func() {
		if derr := client.Disconnect(context.WithoutCancel(ctx)); derr != nil {
			logging.Warn().Err(derr).Msg("Failed to disconnect from MongoDB")
		}
	}()

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return readCollection(ctx, client.Database(s.database).Collection(s.collection))
}

// readCollection decodes every document of coll in natural order.
func readCollection(ctx context.Context, coll *mongo.Collection) (*ratings.Table, error) {
	projection := bson.D{
		{Key: "_id", Value: 0},
		{Key: "userId", Value: 1},
		{Key: "title", Value: 1},
		{Key: "rating", Value: 1},
		{Key: "genres", Value: 1},
	}
	cursor, err := coll.Find(ctx, bson.D{}, options.Find().SetProjection(projection))
	if err != nil {
		return nil, fmt.Errorf("find ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []ratings.Rating
	for cursor.Next(ctx) {
		var doc ratingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode rating document %d: %w", len(rows), err)
		}
		row, err := doc.toRating()
		if err != nil {
			return nil, fmt.Errorf("rating document %d: %w", len(rows), err)
		}
		rows = append(rows, row)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}

	table := ratings.NewTable(rows)
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

func (d ratingDocument) toRating() (ratings.Rating, error) {
	user, err := userIDString(d.UserID)
	if err != nil {
		return ratings.Rating{}, err
	}
	return ratings.Rating{
		UserID: user,
		Title:  d.Title,
		Rating: d.Rating,
		Genres: d.Genres,
	}, nil
}

// userIDString renders a string or numeric userId as a string.
func userIDString(v bson.RawValue) (string, error) {
	switch v.Type {
	case bsontype.String:
		return v.StringValue(), nil
	case bsontype.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10), nil
	case bsontype.Int64:
		return strconv.FormatInt(v.Int64(), 10), nil
	case bsontype.Double:
		return strconv.FormatFloat(v.Double(), 'f', -1, 64), nil
	case 0, bsontype.Null, bsontype.Undefined:
		return "", nil
	default:
		return "", fmt.Errorf("unsupported userId type %s", v.Type)
	}
}
