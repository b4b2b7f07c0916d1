package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/scopeplot/pkg/cursor"
	"github.com/matzehuels/scopeplot/pkg/errors"
	"github.com/matzehuels/scopeplot/pkg/observability"
)

const mongoCollection = "cursor_layouts"

// MongoStore keeps one document per layout, keyed by name.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and uses database db.
func NewMongoStore(ctx context.Context, uri, db string) (*MongoStore, error) {
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	if db == "" {
		db = "scopeplot"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "configure mongo client")
	}
	ping := func(ctx context.Context) error { return client.Ping(ctx, nil) }
	if err := connect(ctx, ping); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongo")
	}
	return &MongoStore{client: client, coll: client.Database(db).Collection(mongoCollection)}, nil
}

func (s *MongoStore) Save(ctx context.Context, l cursor.Layout) error {
	if err := errors.ValidateLayoutName(l.Name); err != nil {
		return err
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": l.Name}, l, options.Replace().SetUpsert(true))
	observability.Store().OnSave(ctx, BackendMongo, len(l.Cursors), err)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "save layout %q", l.Name)
	}
	return nil
}

func (s *MongoStore) Load(ctx context.Context, name string) (cursor.Layout, error) {
	if err := errors.ValidateLayoutName(name); err != nil {
		return cursor.Layout{}, err
	}
	start := time.Now()
	var l cursor.Layout
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&l)
	observability.Store().OnLoad(ctx, BackendMongo, err == nil, time.Since(start))
	if err == mongo.ErrNoDocuments {
		return cursor.Layout{}, notFound(name)
	}
	if err != nil {
		return cursor.Layout{}, errors.Wrap(errors.ErrCodeNetwork, err, "load layout %q", name)
	}
	return l, nil
}

func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list layouts")
	}
	var docs []struct {
		Name string `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list layouts")
	}
	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.Name
	}
	return names, nil
}

func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateLayoutName(name); err != nil {
		return err
	}
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": name}); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "delete layout %q", name)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
