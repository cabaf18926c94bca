//go:build windows
// +build windows

package global

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Microsoft/go-winio"
	log "github.com/sirupsen/logrus"
)

// SetupMainSignalHandler is for main to use at last
//
// windows 下没有 SIGUSR1, 向 \\.\pipe\go-qqessentials-<pid> 写入 dumpstack 触发 stackdump
func SetupMainSignalHandler() <-chan struct{} {
	mainOnce.Do(func() {
		pipeName := fmt.Sprintf(`\\.\pipe\go-qqessentials-%d`, os.Getpid())
		pipe, err := winio.ListenPipe(pipeName, &winio.PipeConfig{})
		if err != nil {
			log.Errorf("创建 named pipe 失败. 将无法使用 dumpstack 功能: %v", err)
		} else {
			go servePipe(pipe)
		}

		mainStopCh = make(chan struct{})
		mc := make(chan os.Signal, 2)
		signal.Notify(mc, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-mc
			close(mainStopCh)
			signal.Stop(mc)
			if pipe != nil {
				_ = pipe.Close()
			}
		}()
	})
	return mainStopCh
}

func servePipe(pipe net.Listener) {
	const cmd = "dumpstack"
	for {
		c, err := pipe.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || errors.Is(err, winio.ErrPipeListenerClosed) {
				return
			}
			log.Errorf("accept named pipe 失败: %v", err)
			continue
		}
		go func() {
			defer c.Close()
			_ = c.SetReadDeadline(time.Now().Add(5 * time.Second))
			buf := make([]byte, len(cmd))
			n, err := c.Read(buf)
			if err != nil {
				log.Errorf("读取 named pipe 失败: %v", err)
				return
			}
			if string(buf[:n]) != cmd {
				log.Warnf("named pipe 读取到未知指令: %q", buf[:n])
				return
			}
			dumpStack()
		}()
	}
}
