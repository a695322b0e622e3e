package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/retailpos/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/retailpos/pkg/errors"
	"github.com/xiebiao/retailpos/pkg/response"
)

// TokenRevoker Token黑名单写入（redis.SessionStore实现）
type TokenRevoker interface {
	AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error
}

// SessionHandler 收银终端会话
type SessionHandler struct {
	revoker TokenRevoker
}

// NewSessionHandler 创建会话处理器，revoker为nil时注销不可用
func NewSessionHandler(revoker TokenRevoker) *SessionHandler {
	return &SessionHandler{revoker: revoker}
}

// Logout 注销当前Token
// @Summary      注销
// @Description  当前Token加入黑名单直到过期（需要启用Redis）
// @Tags         会话
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response "注销成功"
// @Router       /session/logout [post]
func (h *SessionHandler) Logout(c *gin.Context) {
	if h.revoker == nil {
		response.Error(c, apperrors.New(apperrors.ErrCodeBusinessError, "未启用Token黑名单，无法注销"))
		return
	}

	token, ttl := middleware.GetToken(c)
	if err := h.revoker.AddToBlacklist(c.Request.Context(), token, ttl); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
