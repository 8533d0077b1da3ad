package database

import (
	"context"
	"fmt"

	"github.com/SlpAus/contest-hub-backend/internal/platform/config"
	"github.com/redis/go-redis/v9"
)

// RDB 是一个全局的Redis客户端实例，供项目其他部分使用。
// Redis在本项目中只承担排行榜等聚合视图的缓存，允许为nil（未启用）。
var RDB *redis.Client

// Ctx 是一个全局的上下文，用于Redis操作
var Ctx = context.Background()

// InitRedis 初始化与Redis数据库的连接
func InitRedis(cfg config.RedisConfig) {
	// 创建一个新的Redis客户端
	// 使用从配置文件加载的参数
	RDB = redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 使用Ping命令来测试连接是否成功
	_, err := RDB.Ping(Ctx).Result()
	if err != nil {
		// 缓存不可用不应阻止服务启动，聚合视图会回退到数据库
		fmt.Printf("警告: 无法连接到Redis，聚合视图将直接查询数据库: %v\n", err)
		RDB = nil
		UpdateStatus(false, "")
		return
	}

	fmt.Println("Redis 连接成功！")
}

// IsRedisAvailable 判断Redis缓存当前是否可用。
func IsRedisAvailable() bool {
	return RDB != nil && IsRedisHealthy()
}
