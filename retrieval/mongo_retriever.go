package retrieval

import (
	"context"
	"fmt"

	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/SaiNageswarS/go-collection-boot/linq"
	"github.com/chatrag/chatrag/conversation"
	"github.com/chatrag/chatrag/db"
	"github.com/chatrag/chatrag/llm"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// search parameters.
const (
	numCandidates  = 100 // ANN candidates scanned per query
	candidateLimit = 20  // hits kept before the project filter is applied
)

// MongoRetriever performs semantic search over the passages collection using
// the Atlas vector index. The query is embedded, the nearest passages are
// fetched with their similarity scores, and an optional projectName filter
// scopes results to one tenant.
type MongoRetriever struct {
	mongo    odm.MongoClient
	dbName   string
	embedder llm.Embedder
}

func NewMongoRetriever(mongoClient odm.MongoClient, dbName string, embedder llm.Embedder) *MongoRetriever {
	return &MongoRetriever{
		mongo:    mongoClient,
		dbName:   dbName,
		embedder: embedder,
	}
}

func (r *MongoRetriever) Search(ctx context.Context, query string, k int, projectFilter string) ([]conversation.RetrievedSection, error) {
	embedding, err := r.embedder.GetEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", conversation.ErrRetrieval, err)
	}

	cursor, err := r.passages().Aggregate(ctx, r.buildPipeline(embedding, k, projectFilter))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", conversation.ErrRetrieval, err)
	}
	defer cursor.Close(ctx)

	var hits []passageHit
	if err := cursor.All(ctx, &hits); err != nil {
		return nil, fmt.Errorf("%w: decode hits: %v", conversation.ErrRetrieval, err)
	}

	sections, err := toSections(ctx, hits)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", conversation.ErrRetrieval, err)
	}

	return sections, nil
}

// toSections maps raw hits to scored sections. $vectorSearch returns hits
// best-first; the order is kept.
func toSections(ctx context.Context, hits []passageHit) ([]conversation.RetrievedSection, error) {
	return linq.Pipe2(
		linq.FromSlice(ctx, hits),

		linq.Select(func(hit passageHit) conversation.RetrievedSection {
			return conversation.RetrievedSection{Score: hit.Score, Content: hit.Content}
		}),

		linq.ToSlice[conversation.RetrievedSection](),
	)
}

func (r *MongoRetriever) buildPipeline(embedding []float32, k int, projectFilter string) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: db.VectorIndexName},
			{Key: "path", Value: db.VectorPath},
			{Key: "queryVector", Value: embedding},
			{Key: "numCandidates", Value: numCandidates},
			{Key: "limit", Value: candidateLimit},
		}}},
	}

	if projectFilter != "" {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.D{
			{Key: "projectName", Value: projectFilter},
		}}})
	}

	return append(pipeline,
		bson.D{{Key: "$limit", Value: k}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "content", Value: 1},
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
		}}},
	)
}

func (r *MongoRetriever) passages() *mongo.Collection {
	return r.mongo.Database(r.dbName).Collection(db.PassageModel{}.CollectionName())
}

type passageHit struct {
	Content string  `bson:"content"`
	Score   float64 `bson:"score"`
}
