// Package qqessentials 程序的主体部分
package qqessentials

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/qqessentials/go-qqessentials/coolq"
	"github.com/qqessentials/go-qqessentials/global"
	"github.com/qqessentials/go-qqessentials/internal/base"
	"github.com/qqessentials/go-qqessentials/modules/api"
	"github.com/qqessentials/go-qqessentials/modules/config"
	"github.com/qqessentials/go-qqessentials/modules/essentials"
	"github.com/qqessentials/go-qqessentials/modules/filter"
	"github.com/qqessentials/go-qqessentials/modules/pprof"
	"github.com/qqessentials/go-qqessentials/pkg/onebot"
	"github.com/qqessentials/go-qqessentials/plugin"
	"github.com/qqessentials/go-qqessentials/server"
)

// Main 启动主程序
func Main() {
	base.Parse()
	switch {
	case base.LittleH:
		base.Help()
	case base.LittleWD != "":
		if err := base.ResetWorkingDir(); err != nil {
			log.Fatalf("切换工作目录失败: %v", err)
		}
	}

	conf, err := config.Parse(base.LittleC)
	if errors.Is(err, config.ErrGenerated) {
		log.Infof("默认配置文件已生成, 请编辑 %s 后重启程序.", base.LittleC)
		time.Sleep(time.Second * 5)
		os.Exit(0)
	}
	if err != nil {
		log.Fatalf("加载配置文件 %s 失败: %v", base.LittleC, err)
	}
	base.Init(conf)
	InitLog()
	log.Info("当前版本:", base.Version)

	log.Info("正在加载事件过滤器.")
	f, err := filter.Load(conf.Gateway.Filter)
	if err != nil {
		log.Fatalf("加载事件过滤器 %s 失败: %v", conf.Gateway.Filter, err)
	}

	transport, err := server.New(&conf.Gateway)
	if err != nil {
		log.Fatal(err)
	}
	caller := api.NewCaller(transport)
	caller.Use(api.Logging())
	if conf.Gateway.RateLimit.Enabled {
		caller.Use(api.RateLimit(conf.Gateway.RateLimit.Frequency, conf.Gateway.RateLimit.Bucket))
	}

	bot := coolq.NewQQBot(caller, f)
	engine := plugin.NewEngine(conf.CommandStart)
	essentials.New(bot, essentials.OptionsFromConfig(conf)).Register(engine)
	bot.OnEvent(engine.Handle)
	bot.OnEvent(func(_ context.Context, e onebot.Event) {
		if m, ok := e.(*onebot.MetaEvent); ok && m.MetaEventType == "lifecycle" && m.SubType == "connect" {
			printLoginInfo(bot)
		}
	})

	if conf.Essentials.EnableGroupRequestNotify {
		log.Infof("加群请求推送已启用, 目标群: %v", conf.Essentials.GroupRequestNotifyTarget)
	}
	pprof.Run(&conf.Pprof)
	transport.Run(func(payload gjson.Result) { bot.DispatchPayload(payload) })
	log.Info("资源初始化完成, 开始处理信息.")

	<-global.SetupMainSignalHandler()
	_ = transport.Close()
}

func printLoginInfo(bot *coolq.CQBot) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	uin, nickname, err := bot.GetLoginInfo(ctx)
	if err != nil {
		log.Warnf("获取登录号信息失败: %v", err)
		return
	}
	log.Infof("已连接到 OneBot 实现, 欢迎使用: %v (%v)", nickname, uin)
}
