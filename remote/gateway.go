package remote

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"dollardash/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const storeDocID = "store"

// ErrNotFound is returned by writes that target a missing document.
var ErrNotFound = errors.New("not found")

// Gateway talks to the shared document store. Reads arrive only through the
// live subscriptions; writes return their error to the caller untouched.
type Gateway struct {
	products *mongo.Collection
	orders   *mongo.Collection
	settings *mongo.Collection
}

func New(products, orders, settings *mongo.Collection) *Gateway {
	return &Gateway{products: products, orders: orders, settings: settings}
}

// Subscription is a live feed that can be cancelled.
type Subscription interface {
	Unsubscribe()
}

type feed struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Unsubscribe stops the feed and waits for its goroutine to exit.
func (s *feed) Unsubscribe() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}

// watch re-reads the whole collection on open and after every change event.
func watch(ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline, reload func(context.Context) error, onErr func(error)) Subscription {
	ctx, cancel := context.WithCancel(ctx)
	sub := &feed{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(sub.done)

		stream, err := coll.Watch(ctx, pipeline)
		if err != nil {
			if ctx.Err() == nil {
				onErr(fmt.Errorf("watch %s: %w", coll.Name(), err))
			}
			return
		}
		defer stream.Close(context.Background())

		if err := reload(ctx); err != nil {
			if ctx.Err() == nil {
				onErr(err)
			}
			return
		}

		for stream.Next(ctx) {
			if err := reload(ctx); err != nil {
				if ctx.Err() == nil {
					onErr(err)
				}
				return
			}
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			onErr(fmt.Errorf("watch %s: %w", coll.Name(), err))
		}
	}()

	return sub
}

// SubscribeProducts delivers the full catalog. An empty collection delivers
// the seed catalog for display without writing it back.
func (g *Gateway) SubscribeProducts(ctx context.Context, onData func([]models.Product), onErr func(error)) Subscription {
	return watch(ctx, g.products, mongo.Pipeline{}, func(ctx context.Context) error {
		products, err := g.loadProducts(ctx)
		if err != nil {
			return err
		}
		onData(products)
		return nil
	}, onErr)
}

// SubscribeOrders delivers all orders, newest first.
func (g *Gateway) SubscribeOrders(ctx context.Context, onData func([]models.Order), onErr func(error)) Subscription {
	return watch(ctx, g.orders, mongo.Pipeline{}, func(ctx context.Context) error {
		orders, err := g.readOrders(ctx)
		if err != nil {
			return err
		}
		onData(orders)
		return nil
	}, onErr)
}

// SubscribeConfig delivers the store configuration, creating the default
// document when it does not exist yet.
func (g *Gateway) SubscribeConfig(ctx context.Context, onData func(models.StoreConfig), onErr func(error)) Subscription {
	pipeline := mongo.Pipeline{{{Key: "$match", Value: bson.D{{Key: "documentKey._id", Value: storeDocID}}}}}
	return watch(ctx, g.settings, pipeline, func(ctx context.Context) error {
		cfg, err := g.readConfig(ctx)
		if err != nil {
			return err
		}
		onData(cfg)
		return nil
	}, onErr)
}

// loadProducts reads the catalog, substituting the seed catalog when the
// collection is empty. The seed is never written back.
func (g *Gateway) loadProducts(ctx context.Context) ([]models.Product, error) {
	products, err := g.readProducts(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return models.SeedProducts(), nil
	}
	return products, nil
}

func (g *Gateway) readProducts(ctx context.Context) ([]models.Product, error) {
	cur, err := g.products.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cur.Close(ctx)

	var recs []productRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	out := make([]models.Product, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.toModel())
	}
	return out, nil
}

func (g *Gateway) readOrders(ctx context.Context) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cur, err := g.orders.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cur.Close(ctx)

	var recs []orderRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return mapOrders(recs), nil
}

func mapOrders(recs []orderRecord) []models.Order {
	out := make([]models.Order, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.toModel())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out
}

func (g *Gateway) readConfig(ctx context.Context) (models.StoreConfig, error) {
	var rec configRecord
	err := g.settings.FindOne(ctx, bson.M{"_id": storeDocID}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		def := models.DefaultStoreConfig()
		if err := g.SetConfig(ctx, def); err != nil {
			return models.StoreConfig{}, fmt.Errorf("create default config: %w", err)
		}
		log.Println("[Gateway] created default store config")
		return def, nil
	}
	if err != nil {
		return models.StoreConfig{}, fmt.Errorf("read config: %w", err)
	}
	return rec.toModel(), nil
}

// AddProduct stores p under a new id and returns it.
func (g *Gateway) AddProduct(ctx context.Context, p models.Product) (string, error) {
	p.ID = primitive.NewObjectID().Hex()
	if _, err := g.products.InsertOne(ctx, productFromModel(p)); err != nil {
		return "", fmt.Errorf("insert product: %w", err)
	}
	return p.ID, nil
}

func (g *Gateway) UpdateProduct(ctx context.Context, p models.Product) error {
	rec := productFromModel(p)
	res, err := g.products.ReplaceOne(ctx, bson.M{"_id": rec.ID}, rec)
	if err != nil {
		return fmt.Errorf("update product %s: %w", p.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update product %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

func (g *Gateway) DeleteProduct(ctx context.Context, id string) error {
	if _, err := g.products.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	return nil
}

func (g *Gateway) SetConfig(ctx context.Context, cfg models.StoreConfig) error {
	rec := configRecord{ID: storeDocID, ItemPrice: cfg.ItemPrice, BundleItemCount: cfg.BundleItemCount}
	opts := options.Replace().SetUpsert(true)
	if _, err := g.settings.ReplaceOne(ctx, bson.M{"_id": storeDocID}, rec, opts); err != nil {
		return fmt.Errorf("set config: %w", err)
	}
	return nil
}

// AddOrder stores o under a new id and returns it.
func (g *Gateway) AddOrder(ctx context.Context, o models.Order) (string, error) {
	o.ID = primitive.NewObjectID().Hex()
	if _, err := g.orders.InsertOne(ctx, orderFromModel(o)); err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}
	return o.ID, nil
}
