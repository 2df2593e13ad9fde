package middleware

import (
	"foodgram/jwt"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"strings"
)

// 支援 "Bearer <token>" 及 "Token <token>"
func tokenFromHeader(header string) string {
	for _, prefix := range []string{"Bearer ", "Token "} {
		if strings.HasPrefix(header, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(header, prefix))
		}
	}
	return ""
}

func AuthMiddleware(db *gorm.DB, tokens *jwt.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromHeader(c.GetHeader("Authorization"))

		if token == "" {
			c.Next()
			return
		}

		//如Token不合法或錯誤則視為匿名使用者
		userID, role, err := tokens.VerifyToken(token, db)
		if err != nil {
			zap.L().Info("無法驗證Token", zap.Error(err))
			c.Next()
			return
		}

		c.Set("Token", token)
		c.Set("UserID", userID)
		c.Set("Role", role)
		c.Next()
	}
}
