package entity

import "time"

// Customer representa un cliente de la tienda. Email único por tienda.
type Customer struct {
	ID        string
	StoreID   string
	Name      string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
