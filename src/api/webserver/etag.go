package webserver

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/OneOfOne/xxhash"
	"github.com/gin-gonic/gin"
)

// writeJSON renders v with a content-hash ETag and answers 304 when the
// client already holds the same representation.
func writeJSON(c *gin.Context, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"err": "encode response"})
		return
	}

	tag := fmt.Sprintf(`"%016x"`, xxhash.Checksum64(body))
	c.Header("ETag", tag)
	c.Header("Cache-Control", "no-cache")
	if status == http.StatusOK && c.GetHeader("If-None-Match") == tag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(status, "application/json; charset=utf-8", body)
}

func writeError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"err": msg})
}
