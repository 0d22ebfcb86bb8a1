package model

type Role string

const (
	RoleClient Role = "CLIENT"
	RoleSeller Role = "SELLER"
)

type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Role      Role   `json:"role"`
	AvatarURL string `json:"avatar,omitempty"`
}

type UserUpdateRequest struct {
	Name      string `json:"name,omitempty"`
	Password  string `json:"password,omitempty"`
	AvatarURL string `json:"avatar,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginResponse struct {
	Message string `json:"message,omitempty"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"notblank,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
	Role     string `json:"role" validate:"oneof=client seller"`
}

type Media struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	OwnerID   string `json:"ownerId,omitempty"`
	OwnerType string `json:"ownerType,omitempty"`
}

type AnalyticsItem struct {
	ProductID  string   `json:"productId,omitempty"`
	Name       string   `json:"name"`
	Count      int      `json:"count"`
	Amount     Money    `json:"amount"`
	Categories []string `json:"categories"`
}

type Analytics struct {
	TotalAmount     Money           `json:"totalAmount"`
	Items           []AnalyticsItem `json:"items"`
	Categories      []string        `json:"categories"`
	CategoryAmounts []Money         `json:"categoryAmounts"`
}
