package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	radix "github.com/mediocregopher/radix/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/khushalsehrawat/ecomm/internal/datamodels/product"
)

const (
	redisProductItemKey = "product:item:%d" // productID
	redisProductAllKey  = "product:all"
)

// ProductService 商品服务，读路径带 Redis 旁路缓存。
// redis 为 nil 时退化为直查数据库，缓存故障只记日志不影响请求。
type ProductService struct {
	repo       product.Repository
	redis      radix.Client
	ttlSeconds int
}

func NewProductService(repo product.Repository, redis radix.Client, ttlSeconds int) *ProductService {
	if ttlSeconds <= 0 {
		ttlSeconds = 300
	}
	return &ProductService{repo: repo, redis: redis, ttlSeconds: ttlSeconds}
}

func (s *ProductService) cacheGet(key string, dest interface{}) bool {
	if s.redis == nil {
		return false
	}
	var raw string
	if err := s.redis.Do(radix.Cmd(&raw, "GET", key)); err != nil {
		GetMonitor().RecordCacheError()
		zap.L().Warn("product cache get failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		// 缓存数据损坏，清掉重建
		_ = s.redis.Do(radix.Cmd(nil, "DEL", key))
		return false
	}
	return true
}

func (s *ProductService) cacheSet(key string, value interface{}) {
	if s.redis == nil {
		return
	}
	body, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.redis.Do(radix.FlatCmd(nil, "SETEX", key, s.ttlSeconds, body)); err != nil {
		GetMonitor().RecordCacheError()
		zap.L().Warn("product cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *ProductService) cacheDel(keys ...string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Do(radix.Cmd(nil, "DEL", keys...)); err != nil {
		GetMonitor().RecordCacheError()
		zap.L().Warn("product cache del failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// GetByID 查询单个商品，不存在时返回 product.ErrNotFound
func (s *ProductService) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	key := fmt.Sprintf(redisProductItemKey, id)
	var cached product.Product
	if s.cacheGet(key, &cached) {
		return &cached, nil
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrNotFound
		}
		return nil, err
	}
	s.cacheSet(key, p)
	return p, nil
}

// ListAll 返回所有商品
func (s *ProductService) ListAll(ctx context.Context) ([]*product.Product, error) {
	var cached []*product.Product
	if s.cacheGet(redisProductAllKey, &cached) {
		return cached, nil
	}

	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheSet(redisProductAllKey, list)
	return list, nil
}

// Create 创建商品，除名称非空外不做校验
func (s *ProductService) Create(ctx context.Context, p *product.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("product name is required")
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}
	s.cacheDel(redisProductAllKey)
	return nil
}

// Delete 删除商品，id 不存在时同样返回成功（幂等删除）
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cacheDel(fmt.Sprintf(redisProductItemKey, id), redisProductAllKey)
	return nil
}
