package sampler

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 5 * time.Second

type live struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ Source = (*live)(nil)

// NewSourceLive connects to a MongoDB deployment and returns a Source over
// one database. The connection is verified with a ping before returning, so
// a bad URI fails here rather than on first use.
func NewSourceLive(ctx context.Context, uri, database string) (Source, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongodb uri must not be empty")
	}
	if database == "" {
		return nil, fmt.Errorf("database name must not be empty")
	}

	opts := options.Client().ApplyURI(uri).SetServerSelectionTimeout(connectTimeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to %q: %w", uri, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging %q: %w", uri, err)
	}

	return &live{client: client, db: client.Database(database)}, nil
}

func (s *live) Collections(ctx context.Context) ([]string, error) {
	names, err := s.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	return names, nil
}

func (s *live) Sample(ctx context.Context, collection string, n int) ([]any, error) {
	opts := options.Find().SetLimit(int64(n))
	cur, err := s.db.Collection(collection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("sampling %q: %w", collection, err)
	}
	return drain(ctx, cur)
}

func (s *live) Find(ctx context.Context, collection string, req FindRequest) ([]any, error) {
	filter := req.Filter
	if filter == nil {
		filter = bson.D{}
	}

	opts := options.Find()
	if req.Projection != nil {
		opts.SetProjection(req.Projection)
	}
	if len(req.Sort) > 0 {
		sort := make(bson.D, len(req.Sort))
		for i, sf := range req.Sort {
			sort[i] = bson.E{Key: sf.Field, Value: sf.Direction}
		}
		opts.SetSort(sort)
	}
	if req.Skip > 0 {
		opts.SetSkip(req.Skip)
	}
	if req.Limit > 0 {
		opts.SetLimit(req.Limit)
	}

	cur, err := s.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("querying %q: %w", collection, err)
	}
	return drain(ctx, cur)
}

func (s *live) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func drain(ctx context.Context, cur *mongo.Cursor) ([]any, error) {
	defer cur.Close(ctx)

	var docs []any
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterating cursor: %w", err)
	}
	return docs, nil
}
