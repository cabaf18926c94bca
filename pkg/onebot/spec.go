// Package onebot defines the OneBot v11 wire structures used to talk to a
// OneBot implementation (go-cqhttp, NapCat, Lagrange.OneBot ...).
package onebot

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// 使用到的 OneBot v11 动作
//
// https://github.com/botuniverse/onebot-11/blob/master/api/public.md
const (
	ActionSendGroupMsg       = "send_group_msg"        // 发送群消息
	ActionSendPrivateMsg     = "send_private_msg"      // 发送私聊消息
	ActionSetGroupAddRequest = "set_group_add_request" // 处理加群请求／邀请
	ActionGetGroupMemberInfo = "get_group_member_info" // 获取群成员信息
	ActionGetMsg             = "get_msg"               // 获取消息
	ActionGetLoginInfo       = "get_login_info"        // 获取登录号信息
)

// 动作响应状态
const (
	StatusOK     = "ok"
	StatusAsync  = "async"
	StatusFailed = "failed"
)

// 群成员角色
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// 请求事件类型
const (
	RequestTypeGroup  = "group"
	RequestTypeFriend = "friend"

	SubTypeAdd       = "add"
	SubTypeIgnoreAdd = "ignore.add"
	SubTypeInvite    = "invite"
)

// Request 动作请求是应用端为了主动向 OneBot 实现请求服务而发送的数据
type Request struct {
	Action string `json:"action"`
	Params any    `json:"params"`
	Echo   string `json:"echo,omitempty"`
}

// Response 动作响应是 OneBot 实现收到应用端的动作请求并处理完毕后，发回应用端的数据
type Response struct {
	Status  string
	RetCode int64
	Data    gjson.Result
	Message string
	Wording string
	Echo    string
}

// ParseResponse 从上报帧中解析动作响应
func ParseResponse(j gjson.Result) *Response {
	return &Response{
		Status:  j.Get("status").String(),
		RetCode: j.Get("retcode").Int(),
		Data:    j.Get("data"),
		Message: j.Get("message").String(),
		Wording: j.Get("wording").String(),
		Echo:    j.Get("echo").String(),
	}
}

// Err 将失败的响应转换为 *ActionError, 成功时返回 nil
func (r *Response) Err(action string) error {
	if r.Status == StatusOK || r.Status == StatusAsync {
		return nil
	}
	return &ActionError{Action: action, RetCode: r.RetCode, Message: r.Message, Wording: r.Wording}
}

// ActionError OneBot 实现返回的动作失败
type ActionError struct {
	Action  string
	RetCode int64
	Message string
	Wording string
}

func (e *ActionError) Error() string {
	detail := e.Wording
	if detail == "" {
		detail = e.Message
	}
	if detail == "" {
		return fmt.Sprintf("%s 调用失败 (retcode=%d)", e.Action, e.RetCode)
	}
	return fmt.Sprintf("%s 调用失败 (retcode=%d): %s", e.Action, e.RetCode, detail)
}
