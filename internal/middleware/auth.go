package middleware

import (
	"strings"
	"time"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"

	"github.com/khushalsehrawat/ecomm/internal/auth"
	"github.com/khushalsehrawat/ecomm/internal/config"
)

// JWTAuth 校验 Authorization 头里的 JWT，通过后把 user_id / email
// 放进请求上下文。tokenCache 可为 nil（跳过缓存，每次都解析）。
func JWTAuth(cfg *config.JWTConfig, tokenCache *auth.TokenCache) iris.Handler {
	return func(ctx iris.Context) {
		token := strings.TrimPrefix(ctx.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": "missing token"})
			return
		}

		var claims *auth.Claims
		if tokenCache != nil {
			cached, hit, err := tokenCache.Get(ctx.Request().Context(), token)
			if err != nil {
				zap.L().Warn("token cache lookup failed", zap.Error(err))
			}
			// 缓存命中同样要校验过期时间：缓存 TTL 可能比 token
			// 剩余有效期长，过期条目清掉后走正常解析（解析会拒绝）
			if hit {
				if cached.ExpiresAt != nil && cached.ExpiresAt.After(time.Now()) {
					claims = cached
				} else if err := tokenCache.Delete(ctx.Request().Context(), token); err != nil {
					zap.L().Warn("token cache delete failed", zap.Error(err))
				}
			}
		}

		if claims == nil {
			parsed, err := auth.ParseToken(cfg, token)
			if err != nil {
				ctx.StopWithJSON(401, iris.Map{"code": 401, "msg": "invalid token"})
				return
			}
			claims = parsed
			if tokenCache != nil {
				if err := tokenCache.Set(ctx.Request().Context(), token, claims); err != nil {
					zap.L().Warn("token cache store failed", zap.Error(err))
				}
			}
		}

		ctx.Values().Set("user_id", claims.UserID)
		ctx.Values().Set("email", claims.Email)
		ctx.Next()
	}
}
