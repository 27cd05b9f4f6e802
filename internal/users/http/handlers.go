package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tsirionantsoa/taskhub/internal/platform/httperr"
	"github.com/tsirionantsoa/taskhub/internal/users/domain"
)

func (h *Handler) list(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		httperr.Write(c, "users.list", err)
		return
	}

	out := make([]UserView, 0, len(users))
	for i := range users {
		out = append(out, ToView(&users[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) count(c *gin.Context) {
	n, err := h.userService.Count(c.Request.Context())
	if err != nil {
		httperr.Write(c, "users.count", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

func (h *Handler) get(c *gin.Context) {
	id, ok := httperr.PathID(c, "id")
	if !ok {
		return
	}

	u, err := h.userService.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			httperr.NotFound(c, "user not found")
			return
		}
		httperr.Write(c, "users.get", err)
		return
	}
	c.JSON(http.StatusOK, ToView(u))
}

func (h *Handler) update(c *gin.Context) {
	id, ok := httperr.PathID(c, "id")
	if !ok {
		return
	}

	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid request body")
		return
	}

	u, err := h.userService.Update(c.Request.Context(), id, &domain.UpdateRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			httperr.NotFound(c, "user not found")
		case errors.Is(err, domain.ErrDuplicateEmail):
			httperr.BadRequest(c, err.Error())
		default:
			httperr.Write(c, "users.update", err)
		}
		return
	}
	c.JSON(http.StatusOK, ToView(u))
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := httperr.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			httperr.NotFound(c, "user not found")
			return
		}
		httperr.Write(c, "users.delete", err)
		return
	}
	c.Status(http.StatusNoContent)
}
