package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"treehole/models"
)

func TestZipPostContents(t *testing.T) {
	refA := primitive.NewObjectID()
	refB := primitive.NewObjectID()
	refC := primitive.NewObjectID()

	indexes := []models.Post{
		{ID: 1, Title: "a", ContentRef: refA.Hex()},
		{ID: 2, Title: "b", ContentRef: refB.Hex()},
		{ID: 3, Title: "c", ContentRef: refC.Hex()},
	}
	contents := map[string]*models.PostContent{
		refC.Hex(): {ID: refC, Text: "text c"},
		refA.Hex(): {ID: refA, Text: "text a"},
		// refB deliberately missing.
	}

	pairs := zipPostContents(indexes, contents)
	require.Len(t, pairs, 3)

	// Index order wins over map order.
	assert.Equal(t, uint(1), pairs[0].Index.ID)
	assert.Equal(t, "text a", pairs[0].Content.Text)

	assert.Equal(t, uint(2), pairs[1].Index.ID)
	assert.Nil(t, pairs[1].Content)

	assert.Equal(t, uint(3), pairs[2].Index.ID)
	assert.Equal(t, "text c", pairs[2].Content.Text)
}

func TestZipPostContentsEmpty(t *testing.T) {
	pairs := zipPostContents(nil, nil)
	assert.Empty(t, pairs)
}

func TestExtendImageSlots(t *testing.T) {
	id := primitive.NewObjectID()

	t.Run("extends short array", func(t *testing.T) {
		ids := extendImageSlots([]*primitive.ObjectID{&id}, 4)
		require.Len(t, ids, 5)
		assert.Equal(t, &id, ids[0])
		for i := 1; i < 5; i++ {
			assert.Nil(t, ids[i])
		}
	})

	t.Run("keeps long array", func(t *testing.T) {
		in := []*primitive.ObjectID{&id, nil, &id}
		ids := extendImageSlots(in, 1)
		assert.Len(t, ids, 3)
	})

	t.Run("extends nil array", func(t *testing.T) {
		ids := extendImageSlots(nil, 0)
		require.Len(t, ids, 1)
		assert.Nil(t, ids[0])
	})
}
