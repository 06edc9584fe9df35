package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/khushalsehrawat/ecomm/internal/auth"
	"github.com/khushalsehrawat/ecomm/internal/config"
	"github.com/khushalsehrawat/ecomm/internal/datamodels/user"
)

type UserService struct {
	repo user.Repository
	jwt  *config.JWTConfig
}

func NewUserService(repo user.Repository, jwt *config.JWTConfig) *UserService {
	return &UserService{repo: repo, jwt: jwt}
}

func hashPassword(raw, salt string) string {
	h := sha256.Sum256([]byte(raw + salt))
	return hex.EncodeToString(h[:])
}

func newSalt() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

// Register 注册新用户。邮箱重复返回 user.ErrEmailTaken，
// 其他持久化失败原样向上传递，调用方能区分两种失败。
func (s *UserService) Register(ctx context.Context, name, email, password string) (*user.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}

	u := &user.User{
		Name:  name,
		Email: email,
		Salt:  newSalt(),
	}
	u.Password = hashPassword(password, u.Salt)

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, user.ErrEmailTaken
		}
		return nil, fmt.Errorf("register user: %w", err)
	}
	GetMonitor().RecordRegister()
	return u, nil
}

// Login 按邮箱登录，成功返回用户和 JWT。
// 账号不存在和密码错误都返回 user.ErrInvalidCredentials。
func (s *UserService) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", user.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("login lookup: %w", err)
	}

	hashed := hashPassword(password, u.Salt)
	if subtle.ConstantTimeCompare([]byte(hashed), []byte(u.Password)) != 1 {
		return nil, "", user.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(s.jwt, u.ID, u.Email)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	GetMonitor().RecordLogin()
	return u, token, nil
}

// ListAll 返回所有用户，不分页
func (s *UserService) ListAll(ctx context.Context) ([]*user.User, error) {
	return s.repo.ListAll(ctx)
}
