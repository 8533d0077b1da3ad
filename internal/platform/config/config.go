package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Cfg 是一个全局变量，用于存储所有应用程序的配置
var Cfg *Config

// Config 结构体定义了应用程序的所有配置项
// 它与 config.yaml 文件的结构完全对应
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

// ServerConfig 定义了服务器相关的配置
type ServerConfig struct {
	Mode    string     `mapstructure:"mode"`
	Address string     `mapstructure:"address"`
	Cors    CorsConfig `mapstructure:"cors"`
}

// CorsConfig 定义了CORS相关的配置
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// DatabaseConfig 定义了数据库和缓存相关的配置
type DatabaseConfig struct {
	// Dialect 可以是 "sqlite" 或 "postgres"
	Dialect string      `mapstructure:"dialect"`
	DSN     string      `mapstructure:"dsn"`
	Redis   RedisConfig `mapstructure:"redis"`
}

// RedisConfig 定义了Redis的配置
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig 定义了签发会话凭证所需的配置
type AuthConfig struct {
	// JWTSecret 为空时，服务器会在启动时生成一个随机密钥
	JWTSecret string `mapstructure:"jwtSecret"`
	// TokenTTLHours 是凭证的有效期（小时）
	TokenTTLHours int `mapstructure:"tokenTTLHours"`
}

// LoadConfig 函数负责查找、加载和解析配置文件
// 它会在指定的路径中查找名为 config.yaml 的文件
func LoadConfig() (*Config, error) {
	v := viper.New()

	// 1. 设置配置文件名和类型
	v.SetConfigName("config") // 文件名 (不带扩展名)
	v.SetConfigType("yaml")   // 文件类型

	// 2. 添加配置文件搜索路径
	// 可以添加多个路径，Viper会按顺序查找
	v.AddConfigPath("./config") // `config/config.yaml`
	v.AddConfigPath(".")        // `./config.yaml` (如果在根目录)

	// 3. 设置默认值，保证没有配置文件时也能以开发模式启动
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.cors.allowedOrigins", []string{"http://localhost:3000"})
	v.SetDefault("database.dialect", "sqlite")
	v.SetDefault("database.dsn", "contesthub.db")
	v.SetDefault("database.redis.address", "localhost:6379")
	v.SetDefault("database.redis.db", 0)
	v.SetDefault("auth.tokenTTLHours", 168)

	// 4. 设置环境变量支持
	// 允许通过环境变量覆盖配置，例如 DATABASE_DSN=...
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 5. 读取配置文件（找不到文件时回退到默认值，不视为错误）
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// 6. 将配置反序列化到结构体中
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// 7. 将加载的配置赋值给全局变量
	Cfg = &cfg

	return Cfg, nil
}
