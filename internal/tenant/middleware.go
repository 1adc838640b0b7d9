package tenant

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"xmlprocessor/internal/store"
)

const (
	ClientIDHeader   = "X-Client-ID"
	ClientNameHeader = "X-Client-Name"
)

// Middleware resolves the request's client from the X-Client-ID or
// X-Client-Name header and attaches it to the request context. Requests
// without a resolvable client pass through; downstream handlers decide
// whether a missing client context is an error.
func Middleware(clients *store.ClientStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if idStr := c.GetHeader(ClientIDHeader); idStr != "" {
			if id, err := uuid.Parse(idStr); err == nil {
				if client, err := clients.GetByID(id); err == nil {
					c.Request = c.Request.WithContext(WithClient(c.Request.Context(), client))
					c.Next()
					return
				}
			} else {
				log.Printf("Ignoring malformed %s header: %q", ClientIDHeader, idStr)
			}
		} else if name := c.GetHeader(ClientNameHeader); name != "" {
			if client, err := clients.GetByName(name); err == nil {
				c.Request = c.Request.WithContext(WithClient(c.Request.Context(), client))
				c.Next()
				return
			}
		}
		c.Next()
	}
}
