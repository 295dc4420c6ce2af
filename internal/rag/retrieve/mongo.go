package retrieve

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	errx "github.com/octank-fsi/dialog-agent/internal/core/error"
	logx "github.com/octank-fsi/dialog-agent/pkg/logger"
)

type Config struct {
	Collection string `envconfig:"SEARCH_COLLECTION" default:"documents"`
}

// corpusDoc is the stored shape of one indexed document.
type corpusDoc struct {
	Title      string `bson:"title"`
	URI        string `bson:"uri"`
	Excerpt    string `bson:"excerpt"`
	AnswerText string `bson:"answer_text,omitempty"`
	Type       string `bson:"type"`
}

// MongoRetriever queries a full-text-indexed corpus collection and returns
// hits in the store's own relevance order; no local re-ranking.
type MongoRetriever struct {
	col *mongo.Collection
}

func NewMongoRetriever(db *mongo.Database, cfg Config) *MongoRetriever {
	return &MongoRetriever{col: db.Collection(cfg.Collection)}
}

// Query runs a text search for q and returns up to k normalized documents.
// Zero results is a valid outcome, not an error.
func (r *MongoRetriever) Query(ctx context.Context, q string, k int) ([]Document, error) {
	filter := bson.M{"$text": bson.M{"$search": strings.TrimSpace(q)}}
	opts := options.Find().
		SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetSort(bson.D{{Key: "score", Value: bson.M{"$meta": "textScore"}}}).
		SetLimit(int64(k))

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		logx.Error().Err(err).Str("query", q).Msg("document search failed")
		return nil, errx.WrapMongo(err)
	}
	defer cursor.Close(ctx)

	var raw []corpusDoc
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, errx.WrapMongo(err)
	}

	docs := make([]Document, 0, len(raw))
	for _, d := range raw {
		docs = append(docs, Document{
			Title:   d.Title,
			Excerpt: BestExcerpt(d.Type, d.AnswerText, d.Excerpt),
			URI:     d.URI,
			Type:    d.Type,
		})
	}

	logx.Debug().Str("query", q).Int("hits", len(docs)).Msg("document search completed")
	return docs, nil
}
