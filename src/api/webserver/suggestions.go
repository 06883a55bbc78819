package webserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stake-plus/guildpulse/src/suggestions"
)

// Suggestions serves suggestion records.
type Suggestions struct {
	registry suggestions.Registry
}

func (h *Suggestions) List(c *gin.Context) {
	if h.registry == nil {
		writeError(c, http.StatusServiceUnavailable, "suggestions are disabled")
		return
	}
	status := suggestions.Status(c.Query("status"))
	if status != "" && !status.Valid() {
		writeError(c, http.StatusBadRequest, "status must be pending, approved or rejected")
		return
	}

	list, err := h.registry.List(c.Request.Context(), status)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "list suggestions")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"suggestions": list})
}

func (h *Suggestions) Get(c *gin.Context) {
	if h.registry == nil {
		writeError(c, http.StatusServiceUnavailable, "suggestions are disabled")
		return
	}
	s, err := h.registry.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, suggestions.ErrNotFound) {
		writeError(c, http.StatusNotFound, "suggestion not found")
		return
	}
	if err != nil {
		writeError(c, http.StatusInternalServerError, "load suggestion")
		return
	}
	writeJSON(c, http.StatusOK, s)
}
