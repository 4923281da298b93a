package models

// Customer holds cash-on-delivery details collected at checkout.
type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
}

// Order is append-only once created.
type Order struct {
	ID        string     `json:"id"`
	Customer  Customer   `json:"customer"`
	Items     []CartItem `json:"items"`
	Total     int        `json:"total"`
	Timestamp int64      `json:"timestamp"`
}

// Cities accepted at checkout.
var Cities = []string{"Karachi", "Lahore", "Islamabad", "Faisalabad", "Rawalpindi"}
