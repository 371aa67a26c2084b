// Package partners manages the delivery partners that carry shipments.
package partners

// Partner is a courier or driver.
type Partner struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Vehicle     string `json:"vehicle_type"`
	PlateNumber string `json:"plate_number"`
	Active      bool   `json:"is_active"`
}

// PartnerInput is the create/edit payload.
type PartnerInput struct {
	Name        string `json:"name" form:"name" validate:"required,max=120"`
	Phone       string `json:"phone" form:"phone" validate:"required,max=30"`
	Vehicle     string `json:"vehicle_type" form:"vehicle_type" validate:"required,oneof=motorcycle car van truck"`
	PlateNumber string `json:"plate_number" form:"plate_number" validate:"max=20"`
	Active      bool   `json:"is_active" form:"is_active"`
}
