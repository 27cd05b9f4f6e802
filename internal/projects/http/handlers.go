package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tsirionantsoa/taskhub/internal/platform/httperr"
	"github.com/tsirionantsoa/taskhub/internal/projects/domain"
)

func (h *Handler) create(c *gin.Context) {
	ownerID, ok := httperr.QueryID(c, "userId")
	if !ok {
		return
	}

	var req projectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid request body")
		return
	}

	p, err := h.projectService.Create(c.Request.Context(), ownerID, req.input())
	if err != nil {
		if errors.Is(err, domain.ErrOwnerNotFound) {
			httperr.BadRequest(c, "user not found")
			return
		}
		httperr.Write(c, "projects.create", err)
		return
	}
	c.JSON(http.StatusOK, ToView(p))
}

func (h *Handler) listByOwner(c *gin.Context) {
	ownerID, ok := httperr.PathID(c, "id")
	if !ok {
		return
	}

	items, err := h.projectService.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		httperr.Write(c, "projects.list", err)
		return
	}

	out := make([]ProjectView, 0, len(items))
	for i := range items {
		out = append(out, ToView(&items[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := httperr.PathID(c, "id")
	if !ok {
		return
	}

	p, err := h.projectService.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			httperr.NotFound(c, "project not found")
			return
		}
		httperr.Write(c, "projects.get", err)
		return
	}
	c.JSON(http.StatusOK, ToView(p))
}

func (h *Handler) update(c *gin.Context) {
	id, ok := httperr.PathID(c, "id")
	if !ok {
		return
	}

	var req projectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid request body")
		return
	}

	p, err := h.projectService.Update(c.Request.Context(), id, req.input())
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			httperr.NotFound(c, "project not found")
			return
		}
		httperr.Write(c, "projects.update", err)
		return
	}
	c.JSON(http.StatusOK, ToView(p))
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := httperr.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			httperr.NotFound(c, "project not found")
			return
		}
		httperr.Write(c, "projects.delete", err)
		return
	}
	c.Status(http.StatusNoContent)
}
