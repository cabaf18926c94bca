// Package coolq 提供与 OneBot 实现交互的机器人抽象
package coolq

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/qqessentials/go-qqessentials/modules/filter"
	"github.com/qqessentials/go-qqessentials/pkg/onebot"
)

// MSG 动作参数
type MSG map[string]any

// Caller 向 OneBot 实现发出动作请求
type Caller interface {
	Call(ctx context.Context, action string, params any) (gjson.Result, error)
}

// EventHandler 事件处理函数
type EventHandler func(ctx context.Context, e onebot.Event)

// CQBot CQBot结构体,存储Bot实例相关配置
type CQBot struct {
	caller Caller
	filter filter.Filter

	mu     sync.RWMutex
	events []EventHandler
}

// NewQQBot 初始化一个QQBot实例, f 为 nil 时不过滤事件
func NewQQBot(caller Caller, f filter.Filter) *CQBot {
	return &CQBot{
		caller: caller,
		filter: f,
	}
}

// OnEvent 注册事件处理函数
func (bot *CQBot) OnEvent(f EventHandler) {
	bot.mu.Lock()
	defer bot.mu.Unlock()
	bot.events = append(bot.events, f)
}

// DispatchPayload 过滤并解析 OneBot 实现上报的事件, 然后分发给全部处理函数
func (bot *CQBot) DispatchPayload(payload gjson.Result) {
	if bot.filter != nil && !bot.filter.Eval(payload) {
		log.Debugf("上报Event %s 时被过滤.", payload.Raw)
		return
	}
	bot.Dispatch(onebot.ParseEvent(payload))
}

// Dispatch 将事件分发给全部处理函数, 每个处理函数在独立的 goroutine 中运行
//
// 事件处理不随连接断开而取消, 阻塞的动作调用由连接自身的超时结束
func (bot *CQBot) Dispatch(e onebot.Event) {
	bot.mu.RLock()
	handlers := append([]EventHandler(nil), bot.events...)
	bot.mu.RUnlock()
	for _, f := range handlers {
		go bot.invoke(f, e)
	}
}

func (bot *CQBot) invoke(fn EventHandler, e onebot.Event) {
	defer func() {
		if pan := recover(); pan != nil {
			log.Warnf("处理事件 %T 时出现错误: %v \n%s", e, pan, debug.Stack())
		}
	}()
	start := time.Now()
	fn(context.Background(), e)
	if cost := time.Since(start); cost > time.Second*5 {
		log.Debugf("警告: 事件处理耗时超过 5 秒 (%v), 请检查应用是否有堵塞.", cost)
	}
}
