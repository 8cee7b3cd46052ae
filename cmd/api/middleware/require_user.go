package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"research-chat/cmd/api/auth"
	"research-chat/cmd/api/dto"
	"research-chat/cmd/api/trace"
	"research-chat/internal/logger"
)

const (
	HeaderUserID = "X-User-Id"
	ctxKeyUserID = "user_id"
)

var errMissingUserHeader = errors.New("missing_user_id")

// RequireUser 는 요청의 사용자 식별자를 컨텍스트에 저장한다.
// jwt 가 nil 이 아니면 Bearer 토큰의 sub 클레임을, nil 이면 X-User-Id 헤더를 사용한다.
func RequireUser(jwt *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwt == nil {
			userID := strings.TrimSpace(c.GetHeader(HeaderUserID))
			if userID == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponseDTO{Error: errMissingUserHeader.Error()})
				return
			}
			setUser(c, userID)
			c.Next()
			return
		}

		token, err := auth.ExtractBearerToken(c)
		if err != nil {
			auth.AbortWithUnauthorized(c, err)
			return
		}

		userID, _, err := jwt.Parse(token)
		if err != nil {
			logger.WarnWithFields("token parse error", logger.Fields{
				"request_id": trace.RequestIDFromContext(c.Request.Context()),
				"error":      err.Error(),
			})
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponseDTO{Error: "invalid_token"})
			return
		}

		setUser(c, userID)
		c.Next()
	}
}

func setUser(c *gin.Context, userID string) {
	c.Set(ctxKeyUserID, userID)
	trace.SetUser(c.Request.Context(), userID)
}

// UserID 는 RequireUser 가 저장한 사용자 식별자를 반환한다.
func UserID(c *gin.Context) string {
	return c.GetString(ctxKeyUserID)
}
