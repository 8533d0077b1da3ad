package database

import (
	"fmt"
	"log"
	"os"

	"github.com/SlpAus/contest-hub-backend/internal/platform/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB 初始化数据库连接
func InitDB(cfg config.DatabaseConfig) {
	var err error

	// GORM日志配置
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: 0,
			LogLevel:      logger.Silent, // 在生产环境中可以设为Silent
			Colorful:      true,
		},
	)

	gormCfg := &gorm.Config{
		Logger: newLogger,
		// 让唯一键冲突统一表现为 gorm.ErrDuplicatedKey
		// 支付台账和用户注册都依赖这个哨兵错误
		TranslateError: true,
	}

	// 根据配置选择方言，开发环境用SQLite，部署时可切换到Postgres
	switch cfg.Dialect {
	case "postgres":
		DB, err = gorm.Open(postgres.Open(cfg.DSN), gormCfg)
	default:
		DB, err = gorm.Open(sqlite.Open(cfg.DSN), gormCfg)
	}

	if err != nil {
		fmt.Println("连接数据库失败", err)
		panic(err)
	}

	fmt.Println("数据库连接成功！")
}
