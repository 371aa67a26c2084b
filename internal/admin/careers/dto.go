package careers

// CareerInput is the create/edit payload.
type CareerInput struct {
	Title        string `json:"title" form:"title" validate:"required,max=150"`
	Location     string `json:"location" form:"location" validate:"required,max=150"`
	Description  string `json:"description" form:"description" validate:"required,max=5000"`
	Requirements string `json:"requirements" form:"requirements" validate:"max=5000"`
	Active       bool   `json:"is_active" form:"is_active"`
}
