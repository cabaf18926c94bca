package onebot

import (
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/qqessentials/go-qqessentials/internal/msg"
)

// Event 上报事件, 仅限本包定义的几种变体
type Event interface {
	PostType() string
	event()
}

// GroupRequestEvent 加群请求／邀请
//
// https://github.com/botuniverse/onebot-11/blob/master/event/request.md#加群请求邀请
type GroupRequestEvent struct {
	Time        int64
	SelfID      int64
	RequestType string
	SubType     string // add, ignore.add 或 invite
	GroupID     int64
	UserID      int64
	Comment     string
	Flag        string
}

// PostType impl Event
func (*GroupRequestEvent) PostType() string { return "request" }
func (*GroupRequestEvent) event()           {}

// Sender 消息发送者
type Sender struct {
	UserID   int64
	Nickname string
	Card     string
	Role     string // 仅群消息
}

// MessageEvent 私聊或群消息
type MessageEvent struct {
	Time        int64
	SelfID      int64
	MessageType string // private 或 group
	SubType     string
	MessageID   int64
	GroupID     int64
	UserID      int64
	Sender      Sender
	Message     []msg.Element
	RawMessage  string
}

// PostType impl Event
func (*MessageEvent) PostType() string { return "message" }
func (*MessageEvent) event()           {}

// IsGroup 是否为群消息
func (e *MessageEvent) IsGroup() bool {
	return e.MessageType == "group"
}

// ReplyID 返回消息引用的消息ID, 未引用消息时 ok 为 false
func (e *MessageEvent) ReplyID() (id int64, ok bool) {
	reply, found := msg.Find(e.Message, msg.TypeReply)
	if !found {
		return 0, false
	}
	id, err := strconv.ParseInt(reply.Get("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// PlainText 消息中的纯文本部分
func (e *MessageEvent) PlainText() string {
	return msg.PlainText(e.Message)
}

// MetaEvent 元事件, 心跳与生命周期
type MetaEvent struct {
	Time          int64
	SelfID        int64
	MetaEventType string
	SubType       string
}

// PostType impl Event
func (*MetaEvent) PostType() string { return "meta_event" }
func (*MetaEvent) event()           {}

// UnknownEvent 其余暂不处理的事件
type UnknownEvent struct {
	Type string
	Raw  gjson.Result
}

// PostType impl Event
func (e *UnknownEvent) PostType() string { return e.Type }
func (*UnknownEvent) event()             {}

// ParseEvent 将上报的 JSON 解析为对应的事件变体
func ParseEvent(j gjson.Result) Event {
	postType := j.Get("post_type").Str
	switch postType {
	case "message":
		return &MessageEvent{
			Time:        j.Get("time").Int(),
			SelfID:      j.Get("self_id").Int(),
			MessageType: j.Get("message_type").Str,
			SubType:     j.Get("sub_type").Str,
			MessageID:   j.Get("message_id").Int(),
			GroupID:     j.Get("group_id").Int(),
			UserID:      j.Get("user_id").Int(),
			Sender:      parseSender(j.Get("sender")),
			Message:     msg.Parse(j.Get("message")),
			RawMessage:  j.Get("raw_message").String(),
		}
	case "request":
		if j.Get("request_type").Str != RequestTypeGroup {
			break
		}
		return &GroupRequestEvent{
			Time:        j.Get("time").Int(),
			SelfID:      j.Get("self_id").Int(),
			RequestType: RequestTypeGroup,
			SubType:     j.Get("sub_type").Str,
			GroupID:     j.Get("group_id").Int(),
			UserID:      j.Get("user_id").Int(),
			Comment:     j.Get("comment").String(),
			Flag:        j.Get("flag").String(),
		}
	case "meta_event":
		return &MetaEvent{
			Time:          j.Get("time").Int(),
			SelfID:        j.Get("self_id").Int(),
			MetaEventType: j.Get("meta_event_type").Str,
			SubType:       j.Get("sub_type").Str,
		}
	}
	return &UnknownEvent{Type: postType, Raw: j}
}

func parseSender(j gjson.Result) Sender {
	return Sender{
		UserID:   j.Get("user_id").Int(),
		Nickname: j.Get("nickname").String(),
		Card:     j.Get("card").String(),
		Role:     j.Get("role").String(),
	}
}

// GroupMember get_group_member_info 的响应数据
type GroupMember struct {
	GroupID  int64
	UserID   int64
	Nickname string
	Card     string
	Role     string
}

// ParseGroupMember 解析群成员信息
func ParseGroupMember(j gjson.Result) *GroupMember {
	return &GroupMember{
		GroupID:  j.Get("group_id").Int(),
		UserID:   j.Get("user_id").Int(),
		Nickname: j.Get("nickname").String(),
		Card:     j.Get("card").String(),
		Role:     j.Get("role").String(),
	}
}

// Message get_msg 的响应数据
type Message struct {
	MessageID  int64
	Time       int64
	Sender     Sender
	Message    []msg.Element
	RawMessage string
}

// ParseMessage 解析 get_msg 获取到的消息
func ParseMessage(j gjson.Result) *Message {
	return &Message{
		MessageID:  j.Get("message_id").Int(),
		Time:       j.Get("time").Int(),
		Sender:     parseSender(j.Get("sender")),
		Message:    msg.Parse(j.Get("message")),
		RawMessage: j.Get("raw_message").String(),
	}
}

// Text 消息的纯文本内容, 无法从消息段得到文本时退回 raw_message
func (m *Message) Text() string {
	if t := msg.PlainText(m.Message); t != "" {
		return t
	}
	return msg.PlainText(msg.ParseString(m.RawMessage))
}
