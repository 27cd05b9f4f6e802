package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tsirionantsoa/taskhub/internal/auth/domain"
	"github.com/tsirionantsoa/taskhub/internal/platform/httperr"
	userdomain "github.com/tsirionantsoa/taskhub/internal/users/domain"
)

const msgBadCredentials = "Email ou mot de passe incorrect."

func (h *Handler) register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid request body")
		return
	}

	reg, err := h.authService.Register(c.Request.Context(), &userdomain.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		if errors.Is(err, userdomain.ErrDuplicateEmail) {
			httperr.BadRequest(c, err.Error())
			return
		}
		httperr.Write(c, "auth.register", err)
		return
	}

	c.JSON(http.StatusOK, RegisterResponse{
		ID:           reg.ID,
		Name:         reg.Name,
		Email:        reg.Email,
		PasswordHash: reg.PasswordHash,
		Role:         reg.Role,
		Message:      reg.Message,
	})
}

func (h *Handler) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid request body")
		return
	}

	p, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": msgBadCredentials})
			return
		}
		httperr.Write(c, "auth.login", err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		ID:      p.ID,
		Name:    p.Name,
		Email:   p.Email,
		Role:    p.Role,
		Message: p.Message,
	})
}
