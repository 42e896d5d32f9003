package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CompanyGuard rejects requests that reached a company-scoped route without
// company context. It relies on AuthMiddleware having set company_id.
func CompanyGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := GetCompanyID(c); err != nil {
			abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "company context required")
			return
		}
		c.Next()
	}
}
