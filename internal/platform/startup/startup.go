package startup

import (
	"fmt"

	"github.com/SlpAus/contest-hub-backend/internal/contest"
	"github.com/SlpAus/contest-hub-backend/internal/ranking"
	"github.com/SlpAus/contest-hub-backend/internal/registration"
	"github.com/SlpAus/contest-hub-backend/internal/submission"
	"github.com/SlpAus/contest-hub-backend/internal/user"
)

// InitializeApplication 是应用首次启动时执行的总入口
func InitializeApplication() error {
	fmt.Println("开始应用首次初始化...")

	if err := user.PrimeDB(); err != nil {
		return err
	}
	if err := contest.PrimeDB(); err != nil {
		return err
	}
	if err := registration.PrimeDB(); err != nil {
		return err
	}
	if err := submission.PrimeDB(); err != nil {
		return err
	}

	// 表结构就绪后预热聚合视图缓存
	if err := ranking.WarmupCache(); err != nil {
		return err
	}

	fmt.Println("应用初始化完成！")
	return nil
}

// RebuildCache 是一个专门用于在运行时热重建Redis缓存的函数
func RebuildCache() error {
	fmt.Println("开始缓存热重建...")
	if err := ranking.WarmupCache(); err != nil {
		return err
	}
	fmt.Println("缓存热重建完成。")
	return nil
}
