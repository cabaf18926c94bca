package coolq

import (
	"context"

	"github.com/pkg/errors"

	"github.com/qqessentials/go-qqessentials/internal/msg"
	"github.com/qqessentials/go-qqessentials/pkg/onebot"
)

// SendGroupMessage 发送群消息, 返回消息ID
//
// https://github.com/botuniverse/onebot-11/blob/master/api/public.md#send_group_msg-发送群消息
func (bot *CQBot) SendGroupMessage(ctx context.Context, groupID int64, m []msg.Element) (int64, error) {
	if len(m) == 0 {
		return 0, errors.New("empty message")
	}
	ret, err := bot.caller.Call(ctx, onebot.ActionSendGroupMsg, MSG{
		"group_id": groupID,
		"message":  m,
	})
	if err != nil {
		return 0, errors.Wrapf(err, "send group message to %d", groupID)
	}
	return ret.Get("message_id").Int(), nil
}

// SendPrivateMessage 发送私聊消息, 返回消息ID
//
// https://github.com/botuniverse/onebot-11/blob/master/api/public.md#send_private_msg-发送私聊消息
func (bot *CQBot) SendPrivateMessage(ctx context.Context, userID int64, m []msg.Element) (int64, error) {
	if len(m) == 0 {
		return 0, errors.New("empty message")
	}
	ret, err := bot.caller.Call(ctx, onebot.ActionSendPrivateMsg, MSG{
		"user_id": userID,
		"message": m,
	})
	if err != nil {
		return 0, errors.Wrapf(err, "send private message to %d", userID)
	}
	return ret.Get("message_id").Int(), nil
}

// Send 向事件来源(群或私聊)回复文本
func (bot *CQBot) Send(ctx context.Context, e *onebot.MessageEvent, text string) (int64, error) {
	m := []msg.Element{msg.Text(text)}
	if e.IsGroup() {
		return bot.SendGroupMessage(ctx, e.GroupID, m)
	}
	return bot.SendPrivateMessage(ctx, e.UserID, m)
}

// SetGroupAddRequest 处理加群请求, reason 仅在拒绝时有效
//
// https://github.com/botuniverse/onebot-11/blob/master/api/public.md#set_group_add_request-处理加群请求邀请
func (bot *CQBot) SetGroupAddRequest(ctx context.Context, flag string, approve bool, reason string) error {
	params := MSG{
		"flag":     flag,
		"sub_type": onebot.SubTypeAdd,
		"approve":  approve,
	}
	if !approve && reason != "" {
		params["reason"] = reason
	}
	_, err := bot.caller.Call(ctx, onebot.ActionSetGroupAddRequest, params)
	return errors.Wrap(err, "set group add request")
}

// GetGroupMemberInfo 获取群成员信息
//
// https://github.com/botuniverse/onebot-11/blob/master/api/public.md#get_group_member_info-获取群成员信息
func (bot *CQBot) GetGroupMemberInfo(ctx context.Context, groupID, userID int64, noCache bool) (*onebot.GroupMember, error) {
	ret, err := bot.caller.Call(ctx, onebot.ActionGetGroupMemberInfo, MSG{
		"group_id": groupID,
		"user_id":  userID,
		"no_cache": noCache,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "get member %d of group %d", userID, groupID)
	}
	if !ret.IsObject() {
		return nil, errors.Errorf("member %d of group %d not found", userID, groupID)
	}
	return onebot.ParseGroupMember(ret), nil
}

// GetMessage 获取消息
//
// https://github.com/botuniverse/onebot-11/blob/master/api/public.md#get_msg-获取消息
func (bot *CQBot) GetMessage(ctx context.Context, messageID int64) (*onebot.Message, error) {
	ret, err := bot.caller.Call(ctx, onebot.ActionGetMsg, MSG{"message_id": messageID})
	if err != nil {
		return nil, errors.Wrapf(err, "get message %d", messageID)
	}
	if !ret.IsObject() {
		return nil, errors.Errorf("message %d not found", messageID)
	}
	return onebot.ParseMessage(ret), nil
}

// GetLoginInfo 获取登录号信息
//
// https://github.com/botuniverse/onebot-11/blob/master/api/public.md#get_login_info-获取登录号信息
func (bot *CQBot) GetLoginInfo(ctx context.Context) (userID int64, nickname string, err error) {
	ret, err := bot.caller.Call(ctx, onebot.ActionGetLoginInfo, nil)
	if err != nil {
		return 0, "", errors.Wrap(err, "get login info")
	}
	return ret.Get("user_id").Int(), ret.Get("nickname").String(), nil
}
