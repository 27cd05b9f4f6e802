package http

import (
	"time"

	"github.com/tsirionantsoa/taskhub/internal/users/domain"
	"github.com/tsirionantsoa/taskhub/internal/users/service"
)

// Handler bundles the dependencies for user endpoints.
type Handler struct {
	userService *service.UserService
}

func New(userService *service.UserService) *Handler {
	return &Handler{userService: userService}
}

// UserView is the public shape of a user. It never carries the password hash.
type UserView struct {
	ID          int64     `json:"id"`
	Name        string    `json:"nom"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	DateCreated time.Time `json:"dateCreation"`
}

func ToView(u *domain.User) UserView {
	return UserView{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		DateCreated: u.CreatedAt,
	}
}

type updateReq struct {
	Name     *string `json:"nom"`
	Email    *string `json:"email"`
	Password *string `json:"motDePasse"`
}
