//go:build !windows
// +build !windows

package global

import (
	"os"
	"os/signal"
	"syscall"
)

// SetupMainSignalHandler is for main to use at last
//
// 返回的 channel 在收到 SIGINT 或 SIGTERM 时关闭, SIGUSR1 触发 stackdump
func SetupMainSignalHandler() <-chan struct{} {
	mainOnce.Do(func() {
		mainStopCh = make(chan struct{})
		mc := make(chan os.Signal, 3)
		signal.Notify(mc, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1)
		go func() {
			for sig := range mc {
				if sig == syscall.SIGUSR1 {
					dumpStack()
					continue
				}
				close(mainStopCh)
				signal.Stop(mc)
				return
			}
		}()
	})
	return mainStopCh
}
