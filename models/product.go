package models

// Category is one of the fixed shop aisles.
type Category string

const (
	CategorySnacks     Category = "Snacks"
	CategoryStationery Category = "Stationery"
	CategoryHouseware  Category = "Houseware"
	CategoryGadgets    Category = "Gadgets"
	CategorySelfCare   Category = "Self-Care"
)

// Categories lists the aisles in display order.
var Categories = []Category{
	CategorySnacks,
	CategoryStationery,
	CategoryHouseware,
	CategoryGadgets,
	CategorySelfCare,
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Product is a catalog entry. Price is only meaningful at write time; shoppers
// always see StoreConfig.ItemPrice.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       int      `json:"price"`
	Category    Category `json:"category"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
}

// SeedProducts is the bundled catalog shown when no other source has products.
func SeedProducts() []Product {
	return []Product{
		{ID: "1", Name: "Crunchy Corn Chips", Price: 100, Category: CategorySnacks, Image: "https://picsum.photos/seed/snack1/400/300", Description: "Savory and spicy corn chips."},
		{ID: "2", Name: "Neon Gel Pens (3pk)", Price: 100, Category: CategoryStationery, Image: "https://picsum.photos/seed/pen1/400/300", Description: "Smooth writing in vibrant colors."},
		{ID: "3", Name: "Ceramic Mini Planter", Price: 100, Category: CategoryHouseware, Image: "https://picsum.photos/seed/house1/400/300", Description: "Perfect for small succulents."},
		{ID: "4", Name: "USB LED Light", Price: 100, Category: CategoryGadgets, Image: "https://picsum.photos/seed/gadget1/400/300", Description: "Brighten your workspace anywhere."},
		{ID: "5", Name: "Charcoal Face Mask", Price: 100, Category: CategorySelfCare, Image: "https://picsum.photos/seed/care1/400/300", Description: "Deep cleaning for glowing skin."},
		{ID: "6", Name: "Sour Gummy Worms", Price: 100, Category: CategorySnacks, Image: "https://picsum.photos/seed/snack2/400/300", Description: "Tangy and chewy treats."},
		{ID: "7", Name: "Washi Tape Set", Price: 100, Category: CategoryStationery, Image: "https://picsum.photos/seed/stationery2/400/300", Description: "Decorative tapes for journaling."},
		{ID: "8", Name: "Microfiber Cloth", Price: 100, Category: CategoryHouseware, Image: "https://picsum.photos/seed/house2/400/300", Description: "Ultra-absorbent cleaning cloth."},
		{ID: "9", Name: "Phone Kickstand", Price: 100, Category: CategoryGadgets, Image: "https://picsum.photos/seed/gadget2/400/300", Description: "Sturdy support for all smartphones."},
		{ID: "10", Name: "Scented Candle", Price: 100, Category: CategorySelfCare, Image: "https://picsum.photos/seed/care2/400/300", Description: "Lavender scent for relaxation."},
		{ID: "11", Name: "Roasted Almonds", Price: 100, Category: CategorySnacks, Image: "https://picsum.photos/seed/snack3/400/300", Description: "Nutritious and lightly salted."},
		{ID: "12", Name: "Memo Pad Cube", Price: 100, Category: CategoryStationery, Image: "https://picsum.photos/seed/stationery3/400/300", Description: "Colorful squares for quick notes."},
	}
}
