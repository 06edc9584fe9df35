package middleware

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kataras/iris/v12"
	radix "github.com/mediocregopher/radix/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khushalsehrawat/ecomm/internal/auth"
	"github.com/khushalsehrawat/ecomm/internal/config"
)

// stubStore 内存版 Redis，只实现 token 缓存用到的 GET / SETEX / DEL
type stubStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newStubRedis() (*stubStore, radix.Conn) {
	s := &stubStore{data: make(map[string]string)}
	conn := radix.Stub("tcp", "127.0.0.1:6379", func(args []string) interface{} {
		s.mu.Lock()
		defer s.mu.Unlock()
		switch args[0] {
		case "GET":
			return s.data[args[1]]
		case "SETEX":
			s.data[args[1]] = args[3]
			return "OK"
		case "DEL":
			n := 0
			for _, k := range args[1:] {
				if _, ok := s.data[k]; ok {
					delete(s.data, k)
					n++
				}
			}
			return n
		}
		return nil
	})
	return s, conn
}

func (s *stubStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

func signToken(t *testing.T, secret string, expiresAt time.Time) (string, *auth.Claims) {
	t.Helper()
	claims := &auth.Claims{
		UserID: 7,
		Email:  "a@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(expiresAt.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token, claims
}

func newAuthApp(t *testing.T, cfg *config.JWTConfig, cache *auth.TokenCache) *iris.Application {
	t.Helper()
	app := iris.New()
	app.Get("/protected", JWTAuth(cfg, cache), func(ctx iris.Context) {
		ctx.JSON(iris.Map{"code": 0})
	})
	require.NoError(t, app.Build())
	return app
}

func doGet(app *iris.Application, token string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	app.ServeHTTP(rec, req)
	return rec
}

// TestJWTAuth_ValidToken 有效 token 放行，解析结果写进缓存，二次请求走缓存命中
func TestJWTAuth_ValidToken(t *testing.T) {
	cfg := &config.JWTConfig{Secret: "test-secret"}
	store, conn := newStubRedis()
	defer conn.Close()
	cache := auth.NewTokenCache(conn, nil, time.Minute)
	app := newAuthApp(t, cfg, cache)

	token, _ := signToken(t, cfg.Secret, time.Now().Add(time.Hour))

	assert.Equal(t, 200, doGet(app, token).Code)
	assert.Equal(t, 1, store.size())
	assert.Equal(t, 200, doGet(app, token).Code)
}

// TestJWTAuth_ExpiredCachedToken 过期 token 即使 claims 还躺在缓存里也必须
// 拒绝，并清掉过期的缓存条目
func TestJWTAuth_ExpiredCachedToken(t *testing.T) {
	cfg := &config.JWTConfig{Secret: "test-secret"}
	store, conn := newStubRedis()
	defer conn.Close()
	cache := auth.NewTokenCache(conn, nil, 10*time.Minute)
	app := newAuthApp(t, cfg, cache)

	// 一小时前就过期的 token，claims 提前塞进缓存，模拟缓存 TTL
	// 比 token 剩余有效期长的窗口
	token, claims := signToken(t, cfg.Secret, time.Now().Add(-time.Hour))
	require.NoError(t, cache.Set(context.Background(), token, claims))
	require.Equal(t, 1, store.size())

	assert.Equal(t, 401, doGet(app, token).Code)
	assert.Equal(t, 0, store.size(), "stale cache entry must be cleared")

	// 再请求一次依然 401，不会因为缓存空了就放行
	assert.Equal(t, 401, doGet(app, token).Code)
}

// TestJWTAuth_MissingToken 没带 token 直接 401
func TestJWTAuth_MissingToken(t *testing.T) {
	cfg := &config.JWTConfig{Secret: "test-secret"}
	app := newAuthApp(t, cfg, auth.NewTokenCache(nil, nil, 0))

	assert.Equal(t, 401, doGet(app, "").Code)
}
