package notify

import (
	"encoding/json"
	"log"

	"dollardash/catalog"
	"dollardash/models"
	"dollardash/state"
)

// StoreView is the shopper-facing summary pushed on every change.
type StoreView struct {
	Action      string             `json:"action"`
	Mode        string             `json:"mode"`
	Offline     bool               `json:"offline"`
	Config      models.StoreConfig `json:"config"`
	BundlePrice int                `json:"bundlePrice"`
	Products    []models.Product   `json:"products"`
}

type ordersView struct {
	Action string         `json:"action"`
	Orders []models.Order `json:"orders"`
}

// StatePusher turns shared state changes into websocket messages.
type StatePusher struct {
	hub   *Hub
	store *state.Store
	mode  func() string
}

func NewStatePusher(hub *Hub, store *state.Store, mode func() string) *StatePusher {
	return &StatePusher{hub: hub, store: store, mode: mode}
}

// Watch subscribes to store changes.
func (p *StatePusher) Watch() {
	p.store.OnChange(func(k state.Kind) {
		if k == state.KindOrders {
			if data := p.ordersMessage(); data != nil {
				p.hub.Broadcast(models.RoomAdmin, data)
			}
			return
		}
		if data := p.storeMessage(); data != nil {
			p.hub.Broadcast("", data)
		}
	})
}

// Welcome returns the messages a newly joined client should see.
func (p *StatePusher) Welcome(room string) [][]byte {
	var out [][]byte
	if data := p.storeMessage(); data != nil {
		out = append(out, data)
	}
	if room == models.RoomAdmin {
		if data := p.ordersMessage(); data != nil {
			out = append(out, data)
		}
	}
	return out
}

// View builds the current store summary.
func (p *StatePusher) View() StoreView {
	cfg := p.store.Config()
	m := p.mode()
	return StoreView{
		Action:      "state",
		Mode:        m,
		Offline:     m == "local",
		Config:      cfg,
		BundlePrice: cfg.BundlePrice(),
		Products:    catalog.Project(p.store.Products(), cfg),
	}
}

func (p *StatePusher) storeMessage() []byte {
	data, err := json.Marshal(p.View())
	if err != nil {
		log.Printf("[Notify] marshal state: %v", err)
		return nil
	}
	return data
}

func (p *StatePusher) ordersMessage() []byte {
	data, err := json.Marshal(ordersView{Action: "orders", Orders: p.store.Orders()})
	if err != nil {
		log.Printf("[Notify] marshal orders: %v", err)
		return nil
	}
	return data
}
