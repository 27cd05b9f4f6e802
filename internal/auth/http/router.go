package http

import "github.com/gin-gonic/gin"

// Register attaches the auth routes. loginGuard runs in front of login only.
func (h *Handler) Register(rg *gin.RouterGroup, loginGuard ...gin.HandlerFunc) {
	rg.POST("/register", h.register)
	rg.POST("/login", append(loginGuard, h.login)...)
}
