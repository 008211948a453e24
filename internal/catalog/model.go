package catalog

type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	UnitPrice   float64 `json:"unit_price"`
	Unit        string  `json:"unit"`
	Stock       *int64  `json:"stock,omitempty"`
	Description *string `json:"description,omitempty"`
}
