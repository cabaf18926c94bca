// Package pprof provide pprof server of go-qqessentials
package pprof

import (
	"fmt"
	"net/http"
	"net/http/pprof"

	log "github.com/sirupsen/logrus"

	"github.com/qqessentials/go-qqessentials/modules/config"
)

// Handler 返回挂载了全部 /debug/pprof 路由的 handler
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}

// Run 启动 pprof 性能分析服务器, 未启用时直接返回
func Run(conf *config.Pprof) {
	if !conf.Enabled {
		return
	}
	addr := fmt.Sprintf("%s:%d", conf.Host, conf.Port)
	server := http.Server{Addr: addr, Handler: Handler()}
	log.Infof("pprof debug 服务器已启动: %v/debug/pprof", addr)
	log.Warnf("警告: pprof 服务不支持鉴权, 请不要运行在公网.")
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("pprof 服务启动失败, 请检查端口是否被占用: %v", err)
		}
	}()
}
