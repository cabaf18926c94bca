// Package essentials 群管理功能: 发送群消息, 加群请求推送与引用回复处理
package essentials

import (
	"context"

	"github.com/qqessentials/go-qqessentials/internal/msg"
	"github.com/qqessentials/go-qqessentials/modules/config"
	"github.com/qqessentials/go-qqessentials/pkg/onebot"
	"github.com/qqessentials/go-qqessentials/plugin"
)

// 命令名
const (
	CommandSendGroupMessage = "发送群消息"
	CommandApprove          = "同意加群请求"
	CommandReject           = "拒绝加群请求"
)

// Gateway 插件用到的 OneBot 动作, 由 *coolq.CQBot 实现
type Gateway interface {
	SendGroupMessage(ctx context.Context, groupID int64, m []msg.Element) (int64, error)
	Send(ctx context.Context, e *onebot.MessageEvent, text string) (int64, error)
	SetGroupAddRequest(ctx context.Context, flag string, approve bool, reason string) error
	GetGroupMemberInfo(ctx context.Context, groupID, userID int64, noCache bool) (*onebot.GroupMember, error)
	GetMessage(ctx context.Context, messageID int64) (*onebot.Message, error)
}

// Options 插件配置, 创建后不再改变
type Options struct {
	NotifyEnabled bool
	NotifyTargets []int64 // 推送目标群, 同时也是接受同意/拒绝命令的群
	Superusers    []int64
}

// OptionsFromConfig 从配置文件得到插件配置
func OptionsFromConfig(conf *config.Config) Options {
	return Options{
		NotifyEnabled: conf.Essentials.EnableGroupRequestNotify,
		NotifyTargets: conf.Essentials.GroupRequestNotifyTarget,
		Superusers:    conf.Superusers,
	}
}

// Essentials 插件实例, 各事件处理之间只共享只读配置
type Essentials struct {
	gw Gateway

	enabled    bool
	targets    []int64
	targetSet  map[int64]struct{}
	superusers map[int64]struct{}
	superList  []int64
}

// New 创建插件实例, opt 中的切片会被复制
func New(gw Gateway, opt Options) *Essentials {
	s := &Essentials{
		gw:         gw,
		enabled:    opt.NotifyEnabled,
		targets:    append([]int64(nil), opt.NotifyTargets...),
		targetSet:  make(map[int64]struct{}, len(opt.NotifyTargets)),
		superusers: make(map[int64]struct{}, len(opt.Superusers)),
		superList:  append([]int64(nil), opt.Superusers...),
	}
	for _, id := range opt.NotifyTargets {
		s.targetSet[id] = struct{}{}
	}
	for _, id := range opt.Superusers {
		s.superusers[id] = struct{}{}
	}
	return s
}

// Register 向 engine 注册全部命令与请求处理函数
func (s *Essentials) Register(e *plugin.Engine) {
	e.Command(plugin.OnCommand{
		Command:    []string{CommandSendGroupMessage},
		Priority:   5,
		Block:      true,
		Permission: plugin.SuperUser(s.superList...),
		Handler:    s.handleSendGroupMessage,
	})
	e.Command(plugin.OnCommand{
		Command:  []string{CommandApprove},
		Priority: 5,
		Block:    true,
		Handler:  s.handleApprove,
	})
	e.Command(plugin.OnCommand{
		Command:  []string{CommandReject},
		Priority: 5,
		Block:    true,
		Handler:  s.handleReject,
	})
	e.GroupRequest(func(ctx context.Context, ev *onebot.GroupRequestEvent) {
		s.Notify(ctx, ev)
	})
}

func (s *Essentials) isTarget(groupID int64) bool {
	_, ok := s.targetSet[groupID]
	return ok
}

func (s *Essentials) isSuperUser(userID int64) bool {
	_, ok := s.superusers[userID]
	return ok
}
