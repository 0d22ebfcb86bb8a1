package model

type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       Money    `json:"price"`
	Quantity    int      `json:"quantity"`
	UserID      string   `json:"userId"`
	CategoryID  string   `json:"categoryId,omitempty"`
	Images      []string `json:"images,omitempty"`
}

// FirstImage is the image shown on cart and order lines.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

type ProductRequest struct {
	Name        string   `json:"name" validate:"notblank"`
	Description string   `json:"description,omitempty"`
	Price       Money    `json:"price" validate:"gt=0"`
	Quantity    int      `json:"quantity" validate:"gte=0"`
	CategoryID  string   `json:"categoryId,omitempty"`
	Images      []string `json:"images,omitempty"`
}

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}
