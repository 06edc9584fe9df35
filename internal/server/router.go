package server

import (
	"errors"
	"time"

	"github.com/kataras/iris/v12"

	"github.com/khushalsehrawat/ecomm/internal/auth"
	"github.com/khushalsehrawat/ecomm/internal/config"
	"github.com/khushalsehrawat/ecomm/internal/datamodels/order"
	"github.com/khushalsehrawat/ecomm/internal/datamodels/product"
	"github.com/khushalsehrawat/ecomm/internal/datamodels/user"
	"github.com/khushalsehrawat/ecomm/internal/infra/mq"
	"github.com/khushalsehrawat/ecomm/internal/infra/redis"
	"github.com/khushalsehrawat/ecomm/internal/middleware"
	"github.com/khushalsehrawat/ecomm/internal/repository/mysql"
	"github.com/khushalsehrawat/ecomm/internal/service"
)

// writeErr 把服务层错误映射为 HTTP 状态码和统一的错误响应
func writeErr(ctx iris.Context, err error) {
	code := 500
	switch {
	case errors.Is(err, user.ErrNotFound), errors.Is(err, product.ErrNotFound):
		code = 404
	case errors.Is(err, user.ErrEmailTaken):
		code = 409
	case errors.Is(err, user.ErrInvalidCredentials):
		code = 401
	case errors.Is(err, order.ErrEmptyOrder), errors.Is(err, order.ErrInvalidQuantity):
		code = 400
	}
	ctx.StopWithJSON(code, iris.Map{"code": code, "msg": err.Error()})
}

// RegisterRoutes 注册所有 HTTP 路由
func RegisterRoutes(app *iris.Application, cfg *config.Config) {
	// 初始化基础设施
	db := mysql.Init(&cfg.MySQL)
	redisClient := redis.Init(&cfg.Redis)
	mqConn := mq.Init(&cfg.RabbitMQ)

	// 仓储与服务
	userRepo := mysql.NewUserRepository(db)
	productRepo := mysql.NewProductRepository(db)
	orderRepo := mysql.NewOrderRepository(db)

	publisher := mq.NewQueuePublisher(mqConn, mq.OrderEventsQueue)

	userSvc := service.NewUserService(userRepo, &cfg.JWT)
	productSvc := service.NewProductService(productRepo, redisClient, cfg.Redis.ProductTTLSeconds)
	orderSvc := service.NewOrderService(userRepo, productRepo, orderRepo, publisher)

	ring := auth.NewHashRing(cfg.Auth.Nodes, cfg.Auth.HashReplicas)
	tokenCache := auth.NewTokenCache(redisClient, ring, time.Duration(cfg.Auth.TokenCacheTTLSeconds)*time.Second)

	api := app.Party("/api")

	// 健康检查
	api.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"code": 0, "msg": "ok"})
	})

	// 注册
	api.Post("/users/register", func(ctx iris.Context) {
		var req struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		u, err := userSvc.Register(ctx.Request().Context(), req.Name, req.Email, req.Password)
		if err != nil {
			writeErr(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": u})
	})

	// 登录，成功返回用户和 token
	api.Post("/users/login", func(ctx iris.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		u, token, err := userSvc.Login(ctx.Request().Context(), req.Email, req.Password)
		if err != nil {
			writeErr(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": iris.Map{"user": u, "token": token}})
	})

	// 需要登录的接口
	authAPI := api.Party("/", middleware.JWTAuth(&cfg.JWT, tokenCache))

	// 用户列表
	authAPI.Get("/users", func(ctx iris.Context) {
		list, err := userSvc.ListAll(ctx.Request().Context())
		if err != nil {
			writeErr(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	// ---------- 商品 ----------

	authAPI.Get("/products", func(ctx iris.Context) {
		list, err := productSvc.ListAll(ctx.Request().Context())
		if err != nil {
			writeErr(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	authAPI.Get("/products/{id:uint64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetUint64("id")
		p, err := productSvc.GetByID(ctx.Request().Context(), int64(id))
		if err != nil {
			writeErr(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": p})
	})

	authAPI.Post("/products", func(ctx iris.Context) {
		var req struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			Price       int64  `json:"price"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		p := &product.Product{Name: req.Name, Description: req.Description, Price: req.Price}
		if err := productSvc.Create(ctx.Request().Context(), p); err != nil {
			writeErr(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": p})
	})

	authAPI.Delete("/products/{id:uint64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetUint64("id")
		if err := productSvc.Delete(ctx.Request().Context(), int64(id)); err != nil {
			writeErr(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0})
	})

	// ---------- 订单 ----------

	authAPI.Post("/orders", middleware.PlaceOrderRateLimit(), func(ctx iris.Context) {
		var req struct {
			UserID      int64           `json:"user_id"`
			Items       map[int64]int64 `json:"items"` // 商品ID -> 数量
			TotalAmount int64           `json:"total_amount"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StopWithJSON(400, iris.Map{"code": 400, "msg": err.Error()})
			return
		}
		dto, err := orderSvc.PlaceOrder(ctx.Request().Context(), req.UserID, req.Items, req.TotalAmount)
		if err != nil {
			writeErr(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": dto})
	})

	authAPI.Get("/orders", func(ctx iris.Context) {
		list, err := orderSvc.ListAll(ctx.Request().Context())
		if err != nil {
			writeErr(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	authAPI.Get("/users/{id:uint64}/orders", func(ctx iris.Context) {
		id, _ := ctx.Params().GetUint64("id")
		list, err := orderSvc.ListByUser(ctx.Request().Context(), int64(id))
		if err != nil {
			writeErr(ctx, err)
			return
		}
		ctx.JSON(iris.Map{"code": 0, "data": list})
	})

	// 运行统计
	authAPI.Get("/stats", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"code": 0, "data": service.GetMonitor().Snapshot()})
	})
}
