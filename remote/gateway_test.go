package remote

import (
	"context"
	"testing"

	"dollardash/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMockGateway(mt *mtest.T) (*Gateway, string) {
	ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
	return New(mt.Coll, mt.Coll, mt.Coll), ns
}

func commandNames(mt *mtest.T) []string {
	var names []string
	for _, evt := range mt.GetAllStartedEvents() {
		names = append(names, evt.CommandName)
	}
	return names
}

func TestReadConfig(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("missing document writes the default", func(mt *mtest.T) {
		g, ns := newMockGateway(mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		cfg, err := g.readConfig(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, models.DefaultStoreConfig(), cfg)

		require.Equal(mt, []string{"find", "update"}, commandNames(mt))
		evts := mt.GetAllStartedEvents()
		upd := evts[1].Command
		assert.True(mt, upd.Lookup("updates", "0", "upsert").Boolean())
		assert.Equal(mt, storeDocID, upd.Lookup("updates", "0", "q", "_id").StringValue())

		var rec configRecord
		require.NoError(mt, bson.Unmarshal(upd.Lookup("updates", "0", "u").Document(), &rec))
		assert.Equal(mt, configRecord{ID: storeDocID, ItemPrice: 100, BundleItemCount: 6}, rec)
	})

	mt.Run("existing document is returned as stored", func(mt *mtest.T) {
		g, ns := newMockGateway(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: storeDocID},
			{Key: "itemPrice", Value: 150},
			{Key: "bundleItemCount", Value: 4},
		}))

		cfg, err := g.readConfig(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, models.StoreConfig{ItemPrice: 150, BundleItemCount: 4}, cfg)
		assert.Equal(mt, []string{"find"}, commandNames(mt))
	})

	mt.Run("failed default write is reported", func(mt *mtest.T) {
		g, ns := newMockGateway(mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 13, Name: "Unauthorized", Message: "not allowed"}),
		)

		_, err := g.readConfig(context.Background())
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "create default config")
	})
}

func TestLoadProducts(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("empty collection shows the seed catalog without writing it", func(mt *mtest.T) {
		g, ns := newMockGateway(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		products, err := g.loadProducts(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, models.SeedProducts(), products)
		assert.Equal(mt, []string{"find"}, commandNames(mt))
	})

	mt.Run("stored products are returned", func(mt *mtest.T) {
		g, ns := newMockGateway(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "p1"},
			{Key: "name", Value: "Chips"},
			{Key: "price", Value: 100},
			{Key: "category", Value: "Snacks"},
			{Key: "image", Value: "https://img/1.png"},
		}))

		products, err := g.loadProducts(context.Background())
		require.NoError(mt, err)
		require.Len(mt, products, 1)
		assert.Equal(mt, "p1", products[0].ID)
		assert.Equal(mt, models.CategorySnacks, products[0].Category)
		assert.Equal(mt, []string{"find"}, commandNames(mt))
	})
}
