package dto

type CreateTagRequest struct {
	Name  string `json:"name" validate:"required"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

type TagResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}
