package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SlpAus/contest-hub-backend/api"
	"github.com/SlpAus/contest-hub-backend/internal/platform/config"
	"github.com/SlpAus/contest-hub-backend/internal/platform/database"
	"github.com/SlpAus/contest-hub-backend/internal/platform/health"
	"github.com/SlpAus/contest-hub-backend/internal/platform/shutdown"
	"github.com/SlpAus/contest-hub-backend/internal/platform/startup"
	"github.com/SlpAus/contest-hub-backend/pkg/lifecycle"
	"github.com/SlpAus/contest-hub-backend/pkg/token"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env中的变量会通过viper的AutomaticEnv覆盖配置文件
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("加载配置失败: %v", err))
	}

	token.InitSecretKey(cfg.Auth.JWTSecret, cfg.Auth.TokenTTLHours)
	database.InitDB(cfg.Database)
	database.InitRedis(cfg.Database.Redis)

	// 阻塞式获取初始Run ID，之后由健康检查器跟踪Redis重启
	health.InitializeRunID()

	// 执行应用首次启动初始化流程
	if err := startup.InitializeApplication(); err != nil {
		panic(fmt.Sprintf("应用初始化失败，无法启动: %v", err))
	}

	// 异步启动后台的持续健康检查器
	manager := lifecycle.NewManager()
	healthHandle, err := manager.NewServiceHandle("redis-health-checker")
	if err != nil {
		panic(err)
	}
	go health.StartRedisHealthCheck(healthHandle)

	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.Cors.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api.SetupRoutes(r)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	go func() {
		fmt.Printf("服务器已准备就绪，开始监听 %s\n", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic("Failed to start server: " + err.Error())
		}
	}()

	shutdown.ListenForSignalsAndShutdown(server, manager)
}
