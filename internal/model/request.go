package model

// AddProductRequest is the payload for creating a product.
type AddProductRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Notes    string `json:"notes"`
}

// AddConcessionRequest is the payload for creating a concession.
type AddConcessionRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Notes    string `json:"notes"`
}

// AddPriceRequest is the payload for recording a price observation. Date is
// optional; an empty value defaults to today, matching the entry form.
type AddPriceRequest struct {
	Product    string  `json:"product"`
	Concession string  `json:"concession"`
	Amount     float64 `json:"amount"`
	Date       string  `json:"date"`
	Notes      string  `json:"notes"`
}
