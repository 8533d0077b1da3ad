package shutdown

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SlpAus/contest-hub-backend/pkg/lifecycle"
)

const (
	httpTimeout       = 15 * time.Second
	backgroundTimeout = 10 * time.Second
)

// ListenForSignalsAndShutdown 阻塞等待停机信号，然后按顺序关闭：
// 先让HTTP服务器完成正在进行的请求，再广播停机信号并等待后台服务退出。
func ListenForSignalsAndShutdown(server *http.Server, manager *lifecycle.Manager) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	fmt.Println("\n收到关闭信号，开始优雅停机...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), httpTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("HTTP服务器关闭错误: %v\n", err)
	} else {
		fmt.Println("HTTP服务器已关闭。")
	}

	manager.Shutdown()
	remaining := manager.WaitWithTimeout(backgroundTimeout)
	if len(remaining) == 0 {
		fmt.Println("所有后台服务已退出。")
	} else {
		fmt.Printf("等待超时，以下后台服务未能退出: %v\n", remaining)
	}

	fmt.Println("优雅停机完成。")
}
