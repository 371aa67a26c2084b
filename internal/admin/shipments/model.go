// Package shipments manages outbound shipments and their proof-of-delivery
// photos.
package shipments

import "time"

var statuses = []string{"pending", "in_transit", "delivered", "cancelled"}

// Shipment is one delivery run.
type Shipment struct {
	ID          int64     `json:"id"`
	Number      string    `json:"shipment_number"`
	PartnerID   int64     `json:"delivery_partner_id"`
	PartnerName string    `json:"delivery_partner_name"`
	Destination string    `json:"destination"`
	ShipDate    string    `json:"ship_date"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
}

// ShipmentInput is the create/edit payload.
type ShipmentInput struct {
	Number      string `json:"shipment_number" form:"shipment_number" validate:"required,max=50"`
	PartnerID   int64  `json:"delivery_partner_id" form:"delivery_partner_id" validate:"gt=0"`
	Destination string `json:"destination" form:"destination" validate:"required,max=255"`
	ShipDate    string `json:"ship_date" form:"ship_date" validate:"required,datetime=2006-01-02"`
	Status      string `json:"status" form:"status" validate:"required,oneof=pending in_transit delivered cancelled"`
	Notes       string `json:"notes" form:"notes" validate:"max=1000"`
}
