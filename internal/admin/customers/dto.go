package customers

// CustomerInput is the edit payload.
type CustomerInput struct {
	Name     string `json:"name" form:"name" validate:"required,max=120"`
	Email    string `json:"email" form:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" form:"phone" validate:"required,max=30"`
	ShopName string `json:"shop_name" form:"shop_name" validate:"max=150"`
	Tier     string `json:"tier" form:"tier" validate:"omitempty,oneof=gold silver bronze"`
	Status   string `json:"status" form:"status" validate:"required,oneof=active inactive"`
}

type statusInput struct {
	Status string `json:"status"`
}
