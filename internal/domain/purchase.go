package domain

import "time"

// DefaultRoom is the room assigned to purchases created without one
const DefaultRoom = "Other"

// Purchase is a planned or completed purchase tracked in the budget
type Purchase struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Link      string    `json:"link,omitempty"`
	Cost      float64   `json:"cost"`
	Purchased bool      `json:"purchased"`
	Comments  string    `json:"comments,omitempty"`
	Room      string    `json:"room"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PurchaseInput holds the user-editable fields of a purchase
type PurchaseInput struct {
	Name      string  `json:"name" validate:"required,max=200"`
	Link      string  `json:"link" validate:"omitempty,url,max=2048"`
	Cost      float64 `json:"cost" validate:"gte=0"`
	Purchased bool    `json:"purchased"`
	Comments  string  `json:"comments" validate:"max=2000"`
	Room      string  `json:"room" validate:"max=100"`
}

// PurchaseFilter narrows a purchase listing
type PurchaseFilter struct {
	Room string
}

// PurchaseTotals holds the running totals shown above the purchase list
type PurchaseTotals struct {
	Total     float64            `json:"total"`     // sum of all costs
	Purchased float64            `json:"purchased"` // sum of costs already purchased
	Remaining float64            `json:"remaining"` // total - purchased
	Count     int                `json:"count"`
	ByRoom    map[string]float64 `json:"byRoom"`
}
