package remote

import "dollardash/models"

// Documents as they are stored. Mapped to models at the package boundary so
// storage tags never leak into the rest of the service.

type productRecord struct {
	ID          string `bson:"_id"`
	Name        string `bson:"name"`
	Price       int    `bson:"price"`
	Category    string `bson:"category"`
	Image       string `bson:"image"`
	Description string `bson:"description,omitempty"`
}

type customerRecord struct {
	Name    string `bson:"name"`
	Phone   string `bson:"phone"`
	Address string `bson:"address"`
	City    string `bson:"city"`
}

type lineRecord struct {
	ProductID   string `bson:"id"`
	Name        string `bson:"name"`
	Price       int    `bson:"price"`
	Category    string `bson:"category"`
	Image       string `bson:"image"`
	Description string `bson:"description,omitempty"`
	Quantity    int    `bson:"quantity"`
}

type orderRecord struct {
	ID        string         `bson:"_id"`
	Customer  customerRecord `bson:"customer"`
	Items     []lineRecord   `bson:"items"`
	Total     int            `bson:"total"`
	Timestamp int64          `bson:"timestamp"`
}

type configRecord struct {
	ID              string `bson:"_id"`
	ItemPrice       int    `bson:"itemPrice"`
	BundleItemCount int    `bson:"bundleItemCount"`
}

func (r productRecord) toModel() models.Product {
	return models.Product{
		ID:          r.ID,
		Name:        r.Name,
		Price:       r.Price,
		Category:    models.Category(r.Category),
		Image:       r.Image,
		Description: r.Description,
	}
}

func productFromModel(p models.Product) productRecord {
	return productRecord{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Category:    string(p.Category),
		Image:       p.Image,
		Description: p.Description,
	}
}

func (r orderRecord) toModel() models.Order {
	items := make([]models.CartItem, 0, len(r.Items))
	for _, l := range r.Items {
		items = append(items, models.CartItem{
			Product: models.Product{
				ID:          l.ProductID,
				Name:        l.Name,
				Price:       l.Price,
				Category:    models.Category(l.Category),
				Image:       l.Image,
				Description: l.Description,
			},
			Quantity: l.Quantity,
		})
	}
	return models.Order{
		ID: r.ID,
		Customer: models.Customer{
			Name:    r.Customer.Name,
			Phone:   r.Customer.Phone,
			Address: r.Customer.Address,
			City:    r.Customer.City,
		},
		Items:     items,
		Total:     r.Total,
		Timestamp: r.Timestamp,
	}
}

func orderFromModel(o models.Order) orderRecord {
	lines := make([]lineRecord, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, lineRecord{
			ProductID:   it.ID,
			Name:        it.Name,
			Price:       it.Price,
			Category:    string(it.Category),
			Image:       it.Image,
			Description: it.Description,
			Quantity:    it.Quantity,
		})
	}
	return orderRecord{
		ID: o.ID,
		Customer: customerRecord{
			Name:    o.Customer.Name,
			Phone:   o.Customer.Phone,
			Address: o.Customer.Address,
			City:    o.Customer.City,
		},
		Items:     lines,
		Total:     o.Total,
		Timestamp: o.Timestamp,
	}
}

func (r configRecord) toModel() models.StoreConfig {
	return models.StoreConfig{ItemPrice: r.ItemPrice, BundleItemCount: r.BundleItemCount}
}
