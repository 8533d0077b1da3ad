package contest

import (
	"fmt"

	"github.com/SlpAus/contest-hub-backend/internal/platform/database"
)

// PrimeDB 负责迁移contest模块的数据库表结构。
func PrimeDB() error {
	if err := database.DB.AutoMigrate(&Contest{}); err != nil {
		return fmt.Errorf("无法迁移contest表: %w", err)
	}
	fmt.Println("Contest数据库表迁移成功。")
	return nil
}
