// Package mongo serves a lexicon from a MongoDB collection.
//
// Each document is a [lexicon.Synset] keyed by its ID, with lemmas stored
// normalized so that lookups match the tokenizer's keys:
//
//	{ "_id": "perro.n.01", "lemmas": ["perro", "can"], "hypernyms": ["canino.n.01"], "gloss": "..." }
package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/conceptmap/pkg/lexicon"
	"github.com/matzehuels/conceptmap/pkg/text"
)

// Defaults for Options.
const (
	DefaultDatabase    = "lexicon"
	DefaultCollection  = "synsets"
	DefaultDialTimeout = 5 * time.Second
)

// Options configures the connection.
type Options struct {
	URI         string
	Database    string
	Collection  string
	DialTimeout time.Duration
}

func (o *Options) setDefaults() {
	if o.Database == "" {
		o.Database = DefaultDatabase
	}
	if o.Collection == "" {
		o.Collection = DefaultCollection
	}
	if o.DialTimeout <= 0 {
		o.DialTimeout = DefaultDialTimeout
	}
}

// Store is a lexicon.Store backed by MongoDB.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Open connects to MongoDB, pings it and ensures the lemma index.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.URI == "" {
		return nil, lexicon.Unavailable("mongo", errors.New("empty uri"))
	}
	opts.setDefaults()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(opts.URI).
		SetConnectTimeout(opts.DialTimeout).
		SetServerSelectionTimeout(opts.DialTimeout))
	if err != nil {
		return nil, lexicon.Unavailable("mongo", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, lexicon.Unavailable("mongo", err)
	}

	coll := client.Database(opts.Database).Collection(opts.Collection)
	if _, err := coll.Indexes().CreateOne(ctx, lemmaIndex()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, lexicon.Unavailable("mongo", err)
	}
	return &Store{client: client, coll: coll}, nil
}

// SynsetsFor returns the IDs of synsets listing lemma, sorted by ID.
func (s *Store) SynsetsFor(ctx context.Context, lemma string) ([]string, error) {
	cur, err := s.coll.Find(ctx, lemmaFilter(lemma), options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, lexicon.Unavailable("mongo", err)
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, lexicon.Unavailable("mongo", err)
		}
		ids = append(ids, doc.ID)
	}
	if err := cur.Err(); err != nil {
		return nil, lexicon.Unavailable("mongo", err)
	}
	return ids, nil
}

// Synset loads one synset by ID.
func (s *Store) Synset(ctx context.Context, id string) (lexicon.Synset, error) {
	var syn lexicon.Synset
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&syn)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return lexicon.Synset{}, lexicon.ErrNotFound
	}
	if err != nil {
		return lexicon.Synset{}, lexicon.Unavailable("mongo", err)
	}
	return syn, nil
}

// Import upserts every synset of f. It returns the number of documents
// inserted or replaced.
func (s *Store) Import(ctx context.Context, f lexicon.File) (int, error) {
	models, err := replaceModels(f)
	if err != nil {
		return 0, err
	}
	if len(models) == 0 {
		return 0, nil
	}
	res, err := s.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, lexicon.Unavailable("mongo", err)
	}
	return int(res.UpsertedCount + res.MatchedCount), nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultDialTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func lemmaFilter(lemma string) bson.M {
	return bson.M{"lemmas": text.Normalize(lemma)}
}

func lemmaIndex() mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: "lemmas", Value: 1}},
		Options: options.Index().SetName("lemmas_1"),
	}
}

// document returns syn as stored: lemmas normalized and deduplicated.
func document(syn lexicon.Synset) lexicon.Synset {
	out := syn
	out.Lemmas = make([]string, 0, len(syn.Lemmas))
	seen := make(map[string]bool, len(syn.Lemmas))
	for _, l := range syn.Lemmas {
		key := text.Normalize(l)
		if seen[key] {
			continue
		}
		seen[key] = true
		out.Lemmas = append(out.Lemmas, key)
	}
	return out
}

func replaceModels(f lexicon.File) ([]mongo.WriteModel, error) {
	models := make([]mongo.WriteModel, 0, len(f.Synsets))
	for _, syn := range f.Synsets {
		if err := syn.Validate(); err != nil {
			return nil, err
		}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": syn.ID}).
			SetReplacement(document(syn)).
			SetUpsert(true))
	}
	return models, nil
}

var _ lexicon.Store = (*Store)(nil)
