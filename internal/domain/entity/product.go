package entity

// Product represents a purchasable catalog entry
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       uint32  `json:"stock"`
	ImageURL    string  `json:"image_url"`
}
