package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Miraines/MoonyAndStarry/commission-service/internal/adapters/transport/http/dto"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/adapters/transport/http/middleware"
	appsvc "github.com/Miraines/MoonyAndStarry/commission-service/internal/app/auth/service"
	customErrors "github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/result"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/infra/log"
)

type AuthHandler struct {
	svc     appsvc.Service
	cookies CookieConfig
	logger  *zap.Logger
}

func NewAuthHandler(svc appsvc.Service, cookies CookieConfig, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, cookies: cookies, logger: logger}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var in dto.RegisterDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	ok, err := h.svc.Register(c.Request.Context(), in).Unwrap()
	if err != nil {
		h.logger.Warn("register failed", log.Email(in.Email), zap.Error(err))
		// A missing personal record is a data problem on our side.
		if customErrors.IsNotFound(err) {
			fail(c, http.StatusInternalServerError, err.Error())
			return
		}
		handleError(c, err, http.StatusBadRequest)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "result": ok})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in dto.LoginDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := h.svc.Login(c.Request.Context(), in).Unwrap()
	if err != nil {
		h.logger.Info("login failed", log.Email(in.Email), zap.Error(err))
		handleError(c, err, http.StatusBadRequest)
		return
	}
	h.cookies.setTokens(c, tokens)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Logout always clears the cookies. A valid access cookie is revoked first.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	if access, _ := c.Cookie(middleware.AccessCookie); access != "" {
		if p, err := h.svc.VerifyPrincipal(ctx, access).Unwrap(); err == nil {
			if err := h.svc.Logout(ctx, p).Err(); err != nil {
				handleError(c, err, http.StatusBadRequest)
				return
			}
		}
	}
	h.cookies.clear(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "logged out"})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var in dto.RefreshDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	in.RefreshToken, _ = c.Cookie(RefreshCookie)

	tokens, err := h.svc.Refresh(c.Request.Context(), in).Unwrap()
	if err != nil {
		handleError(c, err, http.StatusBadRequest)
		return
	}
	h.cookies.setTokens(c, tokens)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AuthHandler) Verify(c *gin.Context) {
	access, _ := c.Cookie(middleware.AccessCookie)
	ok, err := h.svc.Verify(c.Request.Context(), access).Unwrap()
	if err != nil {
		handleError(c, err, http.StatusBadRequest)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "result": ok})
}

func (h *AuthHandler) Profile(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, customErrors.ErrNoToken.Error())
		return
	}
	profile, err := h.svc.Profile(c.Request.Context(), p).Unwrap()
	if err != nil {
		handleError(c, err, http.StatusBadRequest)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": profile})
}

type adminCall func(ctx context.Context, targetID, adminID int64) result.Result[bool]

func (h *AuthHandler) BlockUser(c *gin.Context) {
	h.adminAction(c, "blocked", h.svc.BlockUser)
}

func (h *AuthHandler) UnblockUser(c *gin.Context) {
	h.adminAction(c, "unblocked", h.svc.UnblockUser)
}

func (h *AuthHandler) DeleteUser(c *gin.Context) {
	h.adminAction(c, "deleted", h.svc.DeleteUser)
}

func (h *AuthHandler) RestoreUser(c *gin.Context) {
	h.adminAction(c, "restored", h.svc.RestoreUser)
}

// adminAction runs call on the :id user for the resolved caller and reports
// whether a row changed under key.
func (h *AuthHandler) adminAction(c *gin.Context, key string, call adminCall) {
	target, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || target <= 0 {
		fail(c, http.StatusBadRequest, "invalid user id")
		return
	}
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, customErrors.ErrNoToken.Error())
		return
	}

	ctx := c.Request.Context()
	admin, err := h.svc.ResolveUser(ctx, p).Unwrap()
	if err != nil {
		handleError(c, err, http.StatusBadRequest)
		return
	}

	changed, err := call(ctx, target, admin.ID).Unwrap()
	if err != nil {
		handleError(c, err, http.StatusBadRequest)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, key: changed})
}
