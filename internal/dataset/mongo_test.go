// Filmrec - Film Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmrec

package dataset

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/tomtom215/filmrec/internal/ratings"
)

func rawValue(t *testing.T, v interface{}) bson.RawValue {
	t.Helper()
	typ, data, err := bson.MarshalValue(v)
	if err != nil {
		t.Fatalf("MarshalValue(%v) error = %v", v, err)
	}
	return bson.RawValue{Type: typ, Value: data}
}

func TestUserIDString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   func(t *testing.T) bson.RawValue
		want    string
		wantErr bool
	}{
		{name: "string", value: func(t *testing.T) bson.RawValue { return rawValue(t, "u42") }, want: "u42"},
		{name: "int32", value: func(t *testing.T) bson.RawValue { return rawValue(t, int32(7)) }, want: "7"},
		{name: "int64", value: func(t *testing.T) bson.RawValue { return rawValue(t, int64(610)) }, want: "610"},
		{name: "double", value: func(t *testing.T) bson.RawValue { return rawValue(t, 12.0) }, want: "12"},
		{name: "missing", value: func(t *testing.T) bson.RawValue { return bson.RawValue{} }, want: ""},
		{name: "boolean", value: func(t *testing.T) bson.RawValue { return rawValue(t, true) }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := userIDString(tt.value(t))
			if (err != nil) != tt.wantErr {
				t.Fatalf("userIDString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("userIDString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewMongoSource(t *testing.T) {
	t.Parallel()

	src := NewMongoSource("mongodb://localhost:27017", "filmrec", "ratings")
	if src.Name() != "mongo" {
		t.Errorf("Name() = %q, want mongo", src.Name())
	}
}

func TestReadCollection(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes documents in order", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		first := mtest.CreateCursorResponse(1, ns, mtest.FirstBatch,
			bson.D{{Key: "userId", Value: int32(1)}, {Key: "title", Value: "Heat"}, {Key: "rating", Value: 4.5}, {Key: "genres", Value: "Action|Crime"}},
			bson.D{{Key: "userId", Value: "u2"}, {Key: "title", Value: "Up"}, {Key: "rating", Value: int32(3)}},
		)
		last := mtest.CreateCursorResponse(0, ns, mtest.NextBatch,
			bson.D{{Key: "userId", Value: int64(3)}, {Key: "title", Value: "Alien"}, {Key: "rating", Value: 5.0}, {Key: "genres", Value: "Horror|Sci-Fi"}},
		)
		mt.AddMockResponses(first, last)

		table, err := readCollection(context.Background(), mt.Coll)
		if err != nil {
			mt.Fatalf("readCollection() error = %v", err)
		}

		want := []ratings.Rating{
			{UserID: "1", Title: "Heat", Rating: 4.5, Genres: "Action|Crime"},
			{UserID: "u2", Title: "Up", Rating: 3},
			{UserID: "3", Title: "Alien", Rating: 5, Genres: "Horror|Sci-Fi"},
		}
		if table.Len() != len(want) {
			mt.Fatalf("Len() = %d, want %d", table.Len(), len(want))
		}
		for i, w := range want {
			if got := table.At(i); got != w {
				mt.Errorf("At(%d) = %+v, want %+v", i, got, w)
			}
		}
	})

	mt.Run("empty collection", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := readCollection(context.Background(), mt.Coll)
		if !errors.Is(err, ratings.ErrEmptyTable) {
			mt.Errorf("readCollection() error = %v, want ErrEmptyTable", err)
		}
	})

	mt.Run("invalid rating rejected", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "userId", Value: "u1"}, {Key: "title", Value: "Heat"}, {Key: "rating", Value: 9.0}},
		))

		_, err := readCollection(context.Background(), mt.Coll)
		if err == nil || !strings.Contains(err.Error(), "out of range") {
			mt.Errorf("readCollection() error = %v, want out of range error", err)
		}
	})

	mt.Run("find error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Name:    "Unauthorized",
			Message: "not authorized",
		}))

		_, err := readCollection(context.Background(), mt.Coll)
		if err == nil || !strings.Contains(err.Error(), "find ratings") {
			mt.Errorf("readCollection() error = %v, want find error", err)
		}
	})
}
