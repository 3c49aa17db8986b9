package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/figtree/pkg/errors"
	"github.com/matzehuels/figtree/pkg/scene"
)

// TemplatesCollection is the collection MongoStore writes to.
const TemplatesCollection = "templates"

// templateDoc is the stored form of an asset.
type templateDoc struct {
	BuildID   string          `bson:"build_id"`
	Kind      scene.AssetKind `bson:"kind"`
	Name      string          `bson:"name"`
	SourceID  string          `bson:"source_id,omitempty"`
	Root      *scene.Node     `bson:"root"`
	CreatedAt time.Time       `bson:"created_at"`
}

// MongoStore keeps one document per asset in a MongoDB collection with a
// unique (build_id, kind, name) index.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	owned  bool
}

// NewMongoStore connects to uri, pings the server and ensures the index.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if err := errors.ValidateURL(uri, "mongodb", "mongodb+srv"); err != nil {
		return nil, err
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongodb")
	}
	s := NewMongoStoreFromClient(client, database)
	s.owned = true
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// NewMongoStoreFromClient uses an existing client. Close leaves the client
// connected.
func NewMongoStoreFromClient(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{client: client, coll: client.Database(database).Collection(TemplatesCollection)}
}

// EnsureIndexes creates the unique asset index if it does not exist.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "build_id", Value: 1}, {Key: "kind", Value: 1}, {Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("build_kind_name"),
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "create index")
	}
	return nil
}

func assetFilter(buildID string, kind scene.AssetKind, name string) bson.D {
	return bson.D{{Key: "build_id", Value: buildID}, {Key: "kind", Value: kind}, {Key: "name", Value: name}}
}

func (s *MongoStore) Put(ctx context.Context, buildID string, a scene.Asset) error {
	if err := ValidateBuildID(buildID); err != nil {
		return err
	}
	doc := templateDoc{
		BuildID:   buildID,
		Kind:      a.Kind,
		Name:      a.Name,
		SourceID:  a.SourceID,
		Root:      a.Root,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.coll.ReplaceOne(ctx, assetFilter(buildID, a.Kind, a.Name), doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "put %s %s", a.Kind, a.Name)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, buildID string, kind scene.AssetKind, name string) error {
	if _, err := s.coll.DeleteOne(ctx, assetFilter(buildID, kind, name)); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete %s %s", kind, name)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context, buildID string) ([]scene.Asset, error) {
	if err := ValidateBuildID(buildID); err != nil {
		return nil, err
	}
	cur, err := s.coll.Find(ctx, bson.D{{Key: "build_id", Value: buildID}})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "find build %s", buildID)
	}
	var docs []templateDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode build %s", buildID)
	}
	if len(docs) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "build %s not found", buildID)
	}
	out := make([]scene.Asset, len(docs))
	for i, d := range docs {
		out[i] = scene.Asset{Name: d.Name, Kind: d.Kind, SourceID: d.SourceID, Root: d.Root}
	}
	sortAssets(out)
	return out, nil
}

// Close disconnects the client if the store created it.
func (s *MongoStore) Close(ctx context.Context) error {
	if !s.owned {
		return nil
	}
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
