package mongo

import (
	"context"
	"slices"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	cerrors "github.com/matzehuels/conceptmap/pkg/errors"
	"github.com/matzehuels/conceptmap/pkg/lexicon"
)

func TestLemmaFilterNormalizes(t *testing.T) {
	got := lemmaFilter("Perro")
	if got["lemmas"] != "perro" {
		t.Errorf("lemmaFilter = %v, want lemmas=perro", got)
	}
}

func TestDocument(t *testing.T) {
	syn := lexicon.Synset{ID: "perro.n.01", Lemmas: []string{"Perro", "perro", "Can"}}
	doc := document(syn)
	if !slices.Equal(doc.Lemmas, []string{"perro", "can"}) {
		t.Errorf("Lemmas = %v", doc.Lemmas)
	}
	if syn.Lemmas[0] != "Perro" {
		t.Error("document mutated its input")
	}

	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	var back lexicon.Synset
	if err := bson.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if back.ID != "perro.n.01" {
		t.Errorf("_id round trip = %q", back.ID)
	}
	if id := bson.Raw(raw).Lookup("_id").StringValue(); id != "perro.n.01" {
		t.Errorf("_id field = %q", id)
	}
}

func TestReplaceModels(t *testing.T) {
	f := lexicon.File{Synsets: []lexicon.Synset{
		{ID: "a.n.01", Lemmas: []string{"a"}},
		{ID: "b.n.01", Lemmas: []string{"b"}, Hypernyms: []string{"a.n.01"}},
	}}
	models, err := replaceModels(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(models) != 2 {
		t.Fatalf("len = %d, want 2", len(models))
	}
	m, ok := models[1].(*mongo.ReplaceOneModel)
	if !ok {
		t.Fatalf("model type %T", models[1])
	}
	if m.Upsert == nil || !*m.Upsert {
		t.Error("replace should upsert")
	}

	if _, err := replaceModels(lexicon.File{Synsets: []lexicon.Synset{{ID: "x"}}}); err == nil {
		t.Error("invalid synset should be rejected")
	}
}

func TestLemmaIndex(t *testing.T) {
	idx := lemmaIndex()
	if idx.Options == nil || idx.Options.Name == nil || *idx.Options.Name != "lemmas_1" {
		t.Errorf("index options = %+v", idx.Options)
	}
}

func TestOpenEmptyURI(t *testing.T) {
	_, err := Open(context.Background(), Options{})
	if !cerrors.Is(err, cerrors.ErrCodeLexiconUnavailable) {
		t.Errorf("err = %v, want LEXICON_UNAVAILABLE", err)
	}
}

func TestSetDefaults(t *testing.T) {
	var o Options
	o.setDefaults()
	if o.Database != DefaultDatabase || o.Collection != DefaultCollection || o.DialTimeout != DefaultDialTimeout {
		t.Errorf("defaults = %+v", o)
	}
}
