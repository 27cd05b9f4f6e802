package http

import "github.com/tsirionantsoa/taskhub/internal/auth/service"

type Handler struct {
	authService *service.AuthService
}

func New(authService *service.AuthService) *Handler {
	return &Handler{
		authService: authService,
	}
}

type registerReq struct {
	Name     string `json:"nom"`
	Email    string `json:"email"`
	Password string `json:"motDePasse"`
	Role     string `json:"role"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"motDePasse"`
}

// RegisterResponse keeps the historical snake_case hash field.
type RegisterResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"nom"`
	Email        string `json:"email"`
	PasswordHash string `json:"mot_de_passe"`
	Role         string `json:"role"`
	Message      string `json:"message"`
}

type LoginResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"nom"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Message string `json:"message"`
}
