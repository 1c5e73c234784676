package model

// Service mirrors a row of the `services` table.  Price is a DECIMAL(10,2)
// column scanned as float64; validation guarantees it is positive before a
// row is ever written.
type Service struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}
