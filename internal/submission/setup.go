package submission

import (
	"fmt"

	"github.com/SlpAus/contest-hub-backend/internal/platform/database"
)

// PrimeDB 负责迁移submission模块的数据库表结构。
func PrimeDB() error {
	if err := database.DB.AutoMigrate(&Submission{}); err != nil {
		return fmt.Errorf("无法迁移submission表: %w", err)
	}
	fmt.Println("Submission数据库表迁移成功。")
	return nil
}
