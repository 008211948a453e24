package order

import (
	"time"

	"materiaux-bot/internal/session"
)

// Status is an open vocabulary: the operator may set any uppercase token
// (EN_COURS, LIVRÉ, ANNULÉ, ...). Only NEW is assigned by this process.
type Status string

const StatusNew Status = "NEW"

type Order struct {
	ID           int64
	UserID       int64
	Status       Status
	Total        float64
	DeliveryType session.DeliveryType
	Address      string
	Phone        string
	CreatedAt    time.Time
	Items        []Item
}

// Item captures the unit price at order time. Catalog price changes after
// the order is placed must not alter it.
type Item struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	Unit        string
	Quantity    float64
	UnitPrice   float64
}

func (i Item) Subtotal() float64 {
	return i.Quantity * i.UnitPrice
}
