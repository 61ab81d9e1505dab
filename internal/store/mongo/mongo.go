// Package mongo implements store.Store on MongoDB. Document ids are stored
// as hex strings in _id.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/getyourdepa/depa-cms/internal/patch"
	"github.com/getyourdepa/depa-cms/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is a MongoDB-backed document store.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo connection URI is empty")
	}

	opts := options.Client().ApplyURI(uri).
		SetMaxPoolSize(50).
		SetMinPoolSize(5).
		SetConnectTimeout(5 * time.Second).
		SetSocketTimeout(10 * time.Second)

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancelPing := context.WithTimeout(ctx, 2*time.Second)
	defer cancelPing()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return New(client, database), nil
}

// New wraps a connected client.
func New(client *mongo.Client, database string) *Store {
	return &Store{client: client, db: client.Database(database)}
}

type snapshot struct {
	id  string
	raw bson.Raw
}

func (s snapshot) ID() string { return s.id }

func (s snapshot) DataTo(dst any) error {
	return bson.Unmarshal(s.raw, dst)
}

func (s *Store) Add(ctx context.Context, collection string, doc any) (string, error) {
	id := primitive.NewObjectID().Hex()
	if err := s.Create(ctx, collection, id, doc); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Create(ctx context.Context, collection, id string, doc any) error {
	m, err := toDocument(doc)
	if err != nil {
		return fmt.Errorf("mongo encode %s: %w", collection, err)
	}
	m["_id"] = id

	if _, err := s.db.Collection(collection).InsertOne(ctx, m); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("mongo insert %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (store.Snapshot, error) {
	raw, err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("mongo find %s/%s: %w", collection, id, err)
	}
	return snapshot{id: id, raw: raw}, nil
}

func (s *Store) List(ctx context.Context, collection string, order ...store.Order) ([]store.Snapshot, error) {
	opts := options.Find()
	if len(order) > 0 {
		sort := bson.D{}
		for _, o := range order {
			dir := 1
			if o.Direction == store.Desc {
				dir = -1
			}
			sort = append(sort, bson.E{Key: o.Field, Value: dir})
		}
		opts.SetSort(sort)
	}

	cursor, err := s.db.Collection(collection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo list %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var out []store.Snapshot
	for cursor.Next(ctx) {
		raw := make(bson.Raw, len(cursor.Current))
		copy(raw, cursor.Current)
		id, _ := raw.Lookup("_id").StringValueOK()
		out = append(out, snapshot{id: id, raw: raw})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongo list %s: %w", collection, err)
	}
	return out, nil
}

func (s *Store) Update(ctx context.Context, collection, id string, p *patch.Patch) error {
	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, UpdateDocument(p))
	if err != nil {
		return fmt.Errorf("mongo update %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("mongo delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

// UpdateDocument flattens a patch into $set and $unset operators.
func UpdateDocument(p *patch.Patch) bson.M {
	set := bson.M{}
	unset := bson.M{}
	for _, op := range p.Ops() {
		if op.Delete {
			unset[op.Path] = ""
			continue
		}
		set[op.Path] = op.Value
	}

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}

func toDocument(doc any) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}
