package announcements

// AnnouncementInput is the create/edit payload.
type AnnouncementInput struct {
	Title   string `json:"title" form:"title" validate:"required,max=200"`
	Content string `json:"content" form:"content" validate:"required,max=5000"`
	Active  bool   `json:"is_active" form:"is_active"`
}
