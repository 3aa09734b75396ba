package db

import (
	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/chatrag/chatrag/llm"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	VectorIndexName = "passageEmbeddingIndex"
	VectorPath      = "embedding"
)

// PassageModel is one knowledge-base passage with its embedding. Index
// construction and ingestion are owned by a separate pipeline; this service
// only searches the collection.
type PassageModel struct {
	PassageID   string      `json:"passageId" bson:"_id"`
	ProjectName string      `json:"projectName" bson:"projectName"`
	Content     string      `json:"content" bson:"content"`
	Embedding   bson.Vector `json:"-" bson:"embedding"` // not serialized in JSON
}

func (m PassageModel) Id() string { return m.PassageID }

func (m PassageModel) CollectionName() string { return "passages" }

// Indexes
func (m PassageModel) VectorIndexSpecs() []odm.VectorIndexSpec {
	return []odm.VectorIndexSpec{
		{
			Name:          VectorIndexName,
			Path:          VectorPath,
			Type:          "vector",
			NumDimensions: llm.EmbeddingDimensions,
			Similarity:    "cosine",
			Quantization:  "scalar",
		},
	}
}
