package registration

import (
	"fmt"

	"github.com/SlpAus/contest-hub-backend/internal/platform/database"
)

// PrimeDB 负责迁移registration模块的数据库表结构。
// AutoMigrate会建立(ContestID, PayerEmail)上的复合唯一索引。
func PrimeDB() error {
	if err := database.DB.AutoMigrate(&Payment{}); err != nil {
		return fmt.Errorf("无法迁移payment表: %w", err)
	}
	fmt.Println("Payment数据库表迁移成功。")
	return nil
}
