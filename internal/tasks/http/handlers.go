package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tsirionantsoa/taskhub/internal/platform/httperr"
	"github.com/tsirionantsoa/taskhub/internal/tasks/domain"
)

func (h *Handler) create(c *gin.Context) {
	projectID, ok := httperr.QueryID(c, "projetId")
	if !ok {
		return
	}

	var req taskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid request body")
		return
	}

	t, err := h.taskService.Create(c.Request.Context(), projectID, req.input())
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			httperr.BadRequest(c, "project not found")
			return
		}
		httperr.Write(c, "tasks.create", err)
		return
	}
	c.JSON(http.StatusOK, ToView(t))
}

func (h *Handler) listByProject(c *gin.Context) {
	projectID, ok := httperr.PathID(c, "projetId")
	if !ok {
		return
	}

	items, err := h.taskService.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		httperr.Write(c, "tasks.list", err)
		return
	}

	out := make([]TaskView, 0, len(items))
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

	t, err := h.taskService.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			httperr.NotFound(c, "task not found")
			return
		}
		httperr.Write(c, "tasks.get", err)
		return
	}
	c.JSON(http.StatusOK, ToView(t))
}

func (h *Handler) update(c *gin.Context) {
	id, ok := httperr.PathID(c, "id")
	if !ok {
		return
	}

	var req taskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid request body")
		return
	}

	t, err := h.taskService.Update(c.Request.Context(), id, req.input())
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			httperr.NotFound(c, "task not found")
			return
		}
		httperr.Write(c, "tasks.update", err)
		return
	}
	c.JSON(http.StatusOK, ToView(t))
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := httperr.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			httperr.NotFound(c, "task not found")
			return
		}
		httperr.Write(c, "tasks.delete", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) stats(c *gin.Context) {
	userID, ok := httperr.PathID(c, "userId")
	if !ok {
		return
	}

	s, err := h.taskService.Stats(c.Request.Context(), userID)
	if err != nil {
		httperr.Write(c, "tasks.stats", err)
		return
	}
	c.JSON(http.StatusOK, StatsView{Completed: s.Completed, InProgress: s.InProgress})
}
