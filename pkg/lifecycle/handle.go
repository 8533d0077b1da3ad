package lifecycle

import (
	"context"
	"time"
)

// Handle 是分发给每个后台服务的生命周期控制器。
// 服务的Goroutine退出前应通过defer调用Close。
type Handle struct {
	ctx   context.Context
	Close func()
}

// Done 返回一个channel，管理器广播停机信号时该channel会关闭。
func (h *Handle) Done() <-chan struct{} {
	return h.ctx.Done()
}

// Sleep 暂停指定的时长；停机信号到来时提前返回上下文错误。
// 后台轮询循环应该用它代替time.Sleep。
func (h *Handle) Sleep(duration time.Duration) error {
	timer := time.NewTimer(duration)
	select {
	case <-h.Done():
		if !timer.Stop() {
			<-timer.C
		}
		return h.ctx.Err()
	case <-timer.C:
		return nil
	}
}
