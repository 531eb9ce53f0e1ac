package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Miraines/MoonyAndStarry/commission-service/internal/adapters/transport/http/middleware"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/model"
)

const (
	IDCookie      = "id"
	RefreshCookie = "refresh"
)

// CookieConfig applies to every auth cookie. All of them are HTTP-only.
type CookieConfig struct {
	Domain     string
	Secure     bool
	SameSite   http.SameSite
	RefreshTTL time.Duration
}

func (cc CookieConfig) set(c *gin.Context, name, value string, ttl time.Duration) {
	c.SetSameSite(cc.SameSite)
	c.SetCookie(name, value, int(ttl.Seconds()), "/", cc.Domain, cc.Secure, true)
}

func (cc CookieConfig) setTokens(c *gin.Context, t model.Tokens) {
	if t.ID != "" {
		cc.set(c, IDCookie, t.ID, t.TTL)
	}
	cc.set(c, middleware.AccessCookie, t.Access, t.TTL)
	if t.Refresh != "" {
		cc.set(c, RefreshCookie, t.Refresh, cc.RefreshTTL)
	}
}

func (cc CookieConfig) clear(c *gin.Context) {
	for _, name := range []string{IDCookie, middleware.AccessCookie, RefreshCookie} {
		c.SetSameSite(cc.SameSite)
		c.SetCookie(name, "", -1, "/", cc.Domain, cc.Secure, true)
	}
}
