// Package plugin 提供命令匹配与事件分发, 供功能模块注册处理函数
package plugin

import (
	"context"
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/qqessentials/go-qqessentials/pkg/onebot"
)

// Permission 判断消息发送者是否可以触发命令
type Permission func(ctx context.Context, e *onebot.MessageEvent) bool

// Command 一次命令调用
type Command struct {
	Event *onebot.MessageEvent
	Name  string // 匹配到的命令名
	Args  string // 命令名之后的内容, 已去除首尾空白
}

// CommandHandler 命令处理函数
type CommandHandler func(ctx context.Context, cmd *Command)

// RequestHandler 加群请求处理函数
type RequestHandler func(ctx context.Context, e *onebot.GroupRequestEvent)

// OnCommand 命令注册项
type OnCommand struct {
	Command    []string // 命令名及别名
	Priority   int      // 越小越先匹配
	Block      bool     // 匹配后不再尝试后续命令
	Permission Permission
	Handler    CommandHandler
}

// Engine 保存全部注册项, 由 Handle 作为事件入口
type Engine struct {
	starts []string

	mu       sync.RWMutex
	commands []*OnCommand
	requests []RequestHandler
}

// NewEngine 创建 Engine, commandStart 为命令前缀, 空字符串表示允许无前缀
func NewEngine(commandStart []string) *Engine {
	starts := append([]string(nil), commandStart...)
	if len(starts) == 0 {
		starts = []string{""}
	}
	// 优先匹配更长的前缀, 保证 "/" 先于 ""
	sort.SliceStable(starts, func(i, j int) bool { return len(starts[i]) > len(starts[j]) })
	return &Engine{starts: starts}
}

// Command 注册命令
func (e *Engine) Command(c OnCommand) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commands = append(e.commands, &c)
	sort.SliceStable(e.commands, func(i, j int) bool { return e.commands[i].Priority < e.commands[j].Priority })
}

// GroupRequest 注册加群请求处理函数
func (e *Engine) GroupRequest(h RequestHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.requests = append(e.requests, h)
}

// Handle 事件入口
func (e *Engine) Handle(ctx context.Context, ev onebot.Event) {
	switch ev := ev.(type) {
	case *onebot.GroupRequestEvent:
		e.handleRequest(ctx, ev)
	case *onebot.MessageEvent:
		e.handleMessage(ctx, ev)
	case *onebot.MetaEvent:
		log.Debugf("收到元事件: %v %v", ev.MetaEventType, ev.SubType)
	case *onebot.UnknownEvent:
		log.Debugf("忽略事件: %v", ev.Raw.Raw)
	default:
		log.Warnf("未知的事件类型: %T", ev)
	}
}

func (e *Engine) handleRequest(ctx context.Context, ev *onebot.GroupRequestEvent) {
	e.mu.RLock()
	handlers := append([]RequestHandler(nil), e.requests...)
	e.mu.RUnlock()
	for _, h := range handlers {
		h(ctx, ev)
	}
}

func (e *Engine) handleMessage(ctx context.Context, ev *onebot.MessageEvent) {
	if ev.SelfID != 0 && ev.UserID == ev.SelfID {
		return
	}
	text := strings.TrimSpace(ev.PlainText())
	if text == "" {
		return
	}
	e.mu.RLock()
	commands := append([]*OnCommand(nil), e.commands...)
	e.mu.RUnlock()
	for _, c := range commands {
		name, args, ok := e.match(c, text)
		if !ok {
			continue
		}
		if c.Permission != nil && !c.Permission(ctx, ev) {
			log.Debugf("用户 %v 没有权限使用命令 %v", ev.UserID, name)
			continue
		}
		log.Infof("用户 %v 触发命令 %v", ev.UserID, name)
		c.Handler(ctx, &Command{Event: ev, Name: name, Args: args})
		if c.Block {
			return
		}
	}
}

// match 去除命令前缀后取最长匹配的命令名
func (e *Engine) match(c *OnCommand, text string) (name, args string, ok bool) {
	for _, start := range e.starts {
		if !strings.HasPrefix(text, start) {
			continue
		}
		rest := text[len(start):]
		for _, n := range c.Command {
			if n != "" && strings.HasPrefix(rest, n) && len(n) > len(name) {
				name = n
			}
		}
		if name != "" {
			return name, strings.TrimSpace(rest[len(name):]), true
		}
	}
	return "", "", false
}

// SuperUser 仅允许 ids 中的用户
func SuperUser(ids ...int64) Permission {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return func(_ context.Context, e *onebot.MessageEvent) bool {
		_, ok := set[e.UserID]
		return ok
	}
}
