package db

import (
	"testing"

	"github.com/chatrag/chatrag/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationModel(t *testing.T) {
	model := ConversationModel{ID: "42"}

	assert.Equal(t, "42", model.Id())
	assert.Equal(t, "conversations", model.CollectionName())
}

func TestConversationKey(t *testing.T) {
	assert.Equal(t, "42", ConversationKey(42))
	assert.Equal(t, "9007199254740993", ConversationKey(9007199254740993))
}

func TestPassageModel_VectorIndex(t *testing.T) {
	model := PassageModel{PassageID: "p1"}

	assert.Equal(t, "p1", model.Id())
	assert.Equal(t, "passages", model.CollectionName())

	specs := model.VectorIndexSpecs()
	require.Len(t, specs, 1)
	assert.Equal(t, VectorIndexName, specs[0].Name)
	assert.Equal(t, VectorPath, specs[0].Path)
	assert.Equal(t, llm.EmbeddingDimensions, specs[0].NumDimensions)
	assert.Equal(t, "cosine", specs[0].Similarity)
}
