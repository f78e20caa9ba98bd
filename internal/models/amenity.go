package models

// Amenity is one entry of the society's ordered amenity list.
type Amenity struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	OrderIndex int    `json:"order_index"`
}
