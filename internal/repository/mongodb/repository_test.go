package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/mamadbah2/warehouse/internal/domain/models"
)

func TestSaveSnapshot(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	takenAt := time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC)
	createdAt := time.Date(2026, 10, 19, 20, 0, 1, 0, time.UTC)

	mt.Run("document shape", func(mt *mtest.T) {
		repo := newRepository(mt.Client, "warehouse")
		repo.now = func() time.Time { return createdAt }
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := repo.SaveSnapshot(context.Background(), models.InventorySnapshot{
			TakenAt:  takenAt,
			Totals:   models.Totals{Value: 140, Units: 7, Items: 1},
			LowStock: []int{},
			Items: []models.Item{
				{ID: 1, Name: "Chair", Category: models.CategoryFurniture, UnitPrice: 20, Quantity: 7},
			},
		})
		require.NoError(mt, err)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "insert", evt.CommandName)
		assert.Equal(mt, "warehouse", evt.DatabaseName)
		assert.Equal(mt, SnapshotCollection, evt.Command.Lookup("insert").StringValue())

		docs, err := evt.Command.Lookup("documents").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, docs, 1)
		doc := docs[0].Document()

		assert.True(mt, takenAt.Equal(doc.Lookup("taken_at").Time()))
		assert.True(mt, createdAt.Equal(doc.Lookup("created_at").Time()))
		assert.Equal(mt, 140.0, doc.Lookup("totals", "value").Double())
		assert.Equal(mt, int64(7), doc.Lookup("totals", "units").AsInt64())

		items, err := doc.Lookup("items").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, items, 1)
		item := items[0].Document()
		assert.Equal(mt, int64(1), item.Lookup("id").AsInt64())
		assert.Equal(mt, "Chair", item.Lookup("name").StringValue())
		assert.Equal(mt, "Furniture", item.Lookup("category").StringValue())
		assert.Equal(mt, 20.0, item.Lookup("unit_price").Double())
		assert.Equal(mt, int64(7), item.Lookup("quantity").AsInt64())
	})

	mt.Run("empty lists stored as arrays", func(mt *mtest.T) {
		repo := newRepository(mt.Client, "warehouse")
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		require.NoError(mt, repo.SaveSnapshot(context.Background(), models.InventorySnapshot{TakenAt: takenAt}))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		docs, err := evt.Command.Lookup("documents").Array().Values()
		require.NoError(mt, err)
		doc := docs[0].Document()

		items, err := doc.Lookup("items").Array().Values()
		require.NoError(mt, err)
		assert.Empty(mt, items)
		lowStock, err := doc.Lookup("low_stock").Array().Values()
		require.NoError(mt, err)
		assert.Empty(mt, lowStock)
		assert.False(mt, doc.Lookup("created_at").Time().IsZero())
	})

	mt.Run("server error", func(mt *mtest.T) {
		repo := newRepository(mt.Client, "warehouse")
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))

		err := repo.SaveSnapshot(context.Background(), models.InventorySnapshot{TakenAt: takenAt})
		require.ErrorContains(mt, err, "insert inventory snapshot")
		require.ErrorContains(mt, err, "duplicate key")
	})
}
