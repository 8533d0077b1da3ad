package database

import (
	"fmt"
	"sync"
)

// cacheStatus 线程安全地维护排行榜缓存(Redis)的可用状态。
// 缓存是尽力而为的：标记为不可用后聚合视图回退到数据库，不影响主流程。
type cacheStatus struct {
	mu        sync.RWMutex
	available bool
	// lastRunID 是最近一次确认健康时Redis的run_id，
	// 健康检查器靠它发现Redis重启造成的缓存丢失。
	lastRunID string
}

var rankingCacheStatus = &cacheStatus{
	// 启动时乐观假设可用，连接失败或首轮健康检查会纠正
	available: true,
}

// IsRedisHealthy 返回排行榜缓存当前是否可用。
func IsRedisHealthy() bool {
	rankingCacheStatus.mu.RLock()
	defer rankingCacheStatus.mu.RUnlock()
	return rankingCacheStatus.available
}

// SetInitialRunID 记录启动时获取的初始run_id。
func SetInitialRunID(runID string) {
	rankingCacheStatus.mu.Lock()
	defer rankingCacheStatus.mu.Unlock()
	rankingCacheStatus.lastRunID = runID
}

// UpdateStatus 更新缓存的可用状态，状态翻转时打印一条日志。
// run_id只在健康时推进，不健康期间保留重启前的基准值供下次比对。
func UpdateStatus(isHealthy bool, newRunID string) {
	rankingCacheStatus.mu.Lock()
	defer rankingCacheStatus.mu.Unlock()

	if rankingCacheStatus.available != isHealthy {
		rankingCacheStatus.available = isHealthy
		if isHealthy {
			fmt.Println("健康检查: 排行榜缓存已恢复可用。")
		} else {
			fmt.Println("健康检查警告: 排行榜缓存不可用，聚合视图将回退到数据库。")
		}
	}

	if isHealthy {
		rankingCacheStatus.lastRunID = newRunID
	}
}

// GetLastKnownRunID 返回最近一次确认健康时的run_id。
func GetLastKnownRunID() string {
	rankingCacheStatus.mu.RLock()
	defer rankingCacheStatus.mu.RUnlock()
	return rankingCacheStatus.lastRunID
}
