package mode

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"dollardash/localstore"
	"dollardash/models"
	"dollardash/remote"
	"dollardash/state"
)

type Mode string

const (
	Remote Mode = "remote"
	Local  Mode = "local"
)

// ErrNotFound is returned for writes to a missing product in either mode.
var ErrNotFound = remote.ErrNotFound

// Gateway is the remote document store as seen by the controller.
type Gateway interface {
	SubscribeProducts(ctx context.Context, onData func([]models.Product), onErr func(error)) remote.Subscription
	SubscribeOrders(ctx context.Context, onData func([]models.Order), onErr func(error)) remote.Subscription
	SubscribeConfig(ctx context.Context, onData func(models.StoreConfig), onErr func(error)) remote.Subscription
	AddProduct(ctx context.Context, p models.Product) (string, error)
	UpdateProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	SetConfig(ctx context.Context, cfg models.StoreConfig) error
	AddOrder(ctx context.Context, o models.Order) (string, error)
}

// Controller decides which data source is authoritative and is the only path
// through which shared data is written. Once it falls back to local mode it
// stays there until Reset.
type Controller struct {
	gw    Gateway
	snaps *localstore.Snapshots
	prefs *localstore.Prefs
	state *state.Store

	mu     sync.Mutex
	gen    uint64
	subs   []remote.Subscription
	cancel context.CancelFunc
	mode   atomic.Value

	now func() time.Time
}

// New builds a controller. gw may be nil, in which case the service runs in
// local mode only.
func New(gw Gateway, snaps *localstore.Snapshots, prefs *localstore.Prefs, st *state.Store) *Controller {
	c := &Controller{
		gw:    gw,
		snaps: snaps,
		prefs: prefs,
		state: st,
		now:   time.Now,
	}
	c.mode.Store(Local)
	return c
}

// Mode reports the active data source.
func (c *Controller) Mode() Mode {
	return c.mode.Load().(Mode)
}

func (c *Controller) setMode(m Mode) {
	c.mode.Store(m)
	c.state.Touch(state.KindMode)
}

// Start picks the data source for this run.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	flag, err := c.prefs.Mode()
	if err != nil {
		log.Printf("[Mode] read flag: %v", err)
	}
	if c.gw == nil || flag == string(Local) {
		c.hydrateLocal()
		c.setMode(Local)
		log.Println("[Mode] running on local snapshots")
		return nil
	}

	c.gen++
	gen := c.gen
	subCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.cancel = cancel
	c.setMode(Remote)

	c.subs = []remote.Subscription{
		c.gw.SubscribeProducts(subCtx, func(p []models.Product) {
			c.apply(gen, func() { c.state.SetProducts(p) })
		}, func(err error) { c.fail(gen, err) }),
		c.gw.SubscribeOrders(subCtx, func(o []models.Order) {
			c.apply(gen, func() { c.state.SetOrders(o) })
		}, func(err error) { c.fail(gen, err) }),
		c.gw.SubscribeConfig(subCtx, func(cfg models.StoreConfig) {
			c.apply(gen, func() { c.state.SetConfig(cfg) })
		}, func(err error) { c.fail(gen, err) }),
	}
	log.Println("[Mode] subscribed to remote store")
	return nil
}

func (c *Controller) apply(gen uint64, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || c.Mode() != Remote {
		return
	}
	fn()
}

// fail switches to local mode for good. It runs on a subscription goroutine,
// so the subscriptions are torn down asynchronously.
func (c *Controller) fail(gen uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || c.Mode() != Remote {
		return
	}

	log.Printf("[Mode] remote sync failed, switching to local: %v", err)
	if err := c.prefs.SetMode(string(Local)); err != nil {
		log.Printf("[Mode] persist flag: %v", err)
	}

	c.gen++
	subs, cancel := c.subs, c.cancel
	c.subs, c.cancel = nil, nil
	go teardown(subs, cancel)

	c.hydrateLocal()
	c.setMode(Local)
}

func teardown(subs []remote.Subscription, cancel context.CancelFunc) {
	if cancel != nil {
		cancel()
	}
	for _, s := range subs {
		s.Unsubscribe()
	}
}

func (c *Controller) hydrateLocal() {
	snap := c.snaps.Load()
	c.state.SetProducts(snap.Products)
	c.state.SetOrders(snap.Orders)
	c.state.SetConfig(snap.Config)
}

// Stop cancels any live subscriptions.
func (c *Controller) Stop() {
	c.mu.Lock()
	c.gen++
	subs, cancel := c.subs, c.cancel
	c.subs, c.cancel = nil, nil
	c.mu.Unlock()

	teardown(subs, cancel)
}

// Reset forgets the persisted mode and starts over from a blank state.
func (c *Controller) Reset(ctx context.Context) error {
	c.Stop()
	if err := c.prefs.ClearMode(); err != nil {
		return fmt.Errorf("clear mode flag: %w", err)
	}
	c.state.Reset()
	log.Println("[Mode] reset requested")
	return c.Start(ctx)
}

func (c *Controller) stamp() int64 {
	return c.now().UnixMilli()
}

// AddProduct creates p and returns it with its assigned id.
func (c *Controller) AddProduct(ctx context.Context, p models.Product) (models.Product, error) {
	if c.Mode() == Remote {
		id, err := c.gw.AddProduct(ctx, p)
		if err != nil {
			return models.Product{}, err
		}
		p.ID = id
		return p, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	all := c.state.UpdateProducts(func(list []models.Product) []models.Product {
		p.ID = uniqueID(c.stamp(), list)
		return append(list, p)
	})
	return p, c.snaps.SaveProducts(all)
}

func uniqueID(ms int64, list []models.Product) string {
	taken := make(map[string]bool, len(list))
	for _, p := range list {
		taken[p.ID] = true
	}
	id := strconv.FormatInt(ms, 10)
	for taken[id] {
		ms++
		id = strconv.FormatInt(ms, 10)
	}
	return id
}

func (c *Controller) UpdateProduct(ctx context.Context, p models.Product) error {
	if c.Mode() == Remote {
		return c.gw.UpdateProduct(ctx, p)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	found := false
	all := c.state.UpdateProducts(func(list []models.Product) []models.Product {
		for i := range list {
			if list[i].ID == p.ID {
				list[i] = p
				found = true
			}
		}
		return list
	})
	if !found {
		return fmt.Errorf("product %s: %w", p.ID, ErrNotFound)
	}
	return c.snaps.SaveProducts(all)
}

func (c *Controller) DeleteProduct(ctx context.Context, id string) error {
	if c.Mode() == Remote {
		return c.gw.DeleteProduct(ctx, id)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	all := c.state.UpdateProducts(func(list []models.Product) []models.Product {
		out := list[:0]
		for _, p := range list {
			if p.ID != id {
				out = append(out, p)
			}
		}
		return out
	})
	return c.snaps.SaveProducts(all)
}

func (c *Controller) UpdateConfig(ctx context.Context, cfg models.StoreConfig) error {
	if c.Mode() == Remote {
		return c.gw.SetConfig(ctx, cfg)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SetConfig(cfg)
	return c.snaps.SaveConfig(cfg)
}

// CreateOrder stores o and returns it with its assigned id.
func (c *Controller) CreateOrder(ctx context.Context, o models.Order) (models.Order, error) {
	if c.Mode() == Remote {
		id, err := c.gw.AddOrder(ctx, o)
		if err != nil {
			return models.Order{}, err
		}
		o.ID = id
		return o, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	o.ID = fmt.Sprintf("LOCAL-%d", c.stamp())
	all := c.state.UpdateOrders(func(list []models.Order) []models.Order {
		return append([]models.Order{o}, list...)
	})
	return o, c.snaps.SaveOrders(all)
}

// ClearOrders empties the order list. In remote mode only the in-memory view
// is cleared; the next remote snapshot brings the history back.
func (c *Controller) ClearOrders(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.SetOrders(nil)
	if c.Mode() == Remote {
		return nil
	}
	return c.snaps.SaveOrders(nil)
}
