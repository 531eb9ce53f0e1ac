package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	customErrors "github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/model"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/principal"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/result"
)

// AccessCookie carries the access token. The gate reads nothing else.
const AccessCookie = "access"

const principalKey = "principal"

type Verifier interface {
	VerifyPrincipal(ctx context.Context, access string) result.Result[model.Principal]
}

// Authenticate admits a request only with a verified access token. The
// principal is stored on the gin context and on the request context.
func Authenticate(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		access, err := c.Cookie(AccessCookie)
		if err != nil || access == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": customErrors.ErrNoToken.Error(),
			})
			return
		}

		res := v.VerifyPrincipal(c.Request.Context(), access)
		p, err := res.Unwrap()
		if customErrors.IsInternal(err) {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "internal server error",
			})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": res.Message(),
			})
			return
		}

		c.Set(principalKey, p)
		c.Request = c.Request.WithContext(principal.With(c.Request.Context(), p))
		c.Next()
	}
}

// PrincipalFrom returns the principal stored by Authenticate.
func PrincipalFrom(c *gin.Context) (model.Principal, bool) {
	if p, ok := principal.From(c.Request.Context()); ok {
		return p, true
	}
	v, ok := c.Get(principalKey)
	if !ok {
		return model.Principal{}, false
	}
	p, ok := v.(model.Principal)
	return p, ok
}
