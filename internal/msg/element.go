// Package msg 提供了消息中间表示, CQ码处理与纯文本提取
package msg

import (
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// @@@ CQ码转义处理 @@@

var (
	textEscaper    = strings.NewReplacer("&", "&amp;", "[", "&#91;", "]", "&#93;")
	valueEscaper   = strings.NewReplacer("&", "&amp;", "[", "&#91;", "]", "&#93;", ",", "&#44;")
	textUnescaper  = strings.NewReplacer("&#91;", "[", "&#93;", "]", "&amp;", "&")
	valueUnescaper = strings.NewReplacer("&#44;", ",", "&#91;", "[", "&#93;", "]", "&amp;", "&")
)

// EscapeText 将字符串raw中部分字符转义
//
//   - & -> &amp;
//   - [ -> &#91;
//   - ] -> &#93;
func EscapeText(s string) string {
	if !strings.ContainsAny(s, "&[]") {
		return s
	}
	return textEscaper.Replace(s)
}

// EscapeValue 将字符串value中部分字符转义, 在 EscapeText 的基础上额外转义 ,
func EscapeValue(value string) string {
	return valueEscaper.Replace(value)
}

// UnescapeText 将字符串content中部分字符反转义
func UnescapeText(content string) string {
	return textUnescaper.Replace(content)
}

// UnescapeValue 将字符串content中部分字符反转义
func UnescapeValue(content string) string {
	return valueUnescaper.Replace(content)
}

// @@@ 消息中间表示 @@@

// 常用消息段类型
const (
	TypeText  = "text"
	TypeReply = "reply"
	TypeAt    = "at"
)

// Pair key value pair
type Pair struct {
	K string
	V string
}

// Element single message
type Element struct {
	Type string
	Data []Pair
}

// Text 构造纯文本消息段
func Text(txt string) Element {
	return Element{
		Type: TypeText,
		Data: []Pair{{K: "text", V: txt}},
	}
}

// Get 获取指定值
func (e *Element) Get(k string) string {
	for _, datum := range e.Data {
		if datum.K == k {
			return datum.V
		}
	}
	return ""
}

// CQCode convert element to cqcode
func (e *Element) CQCode() string {
	buf := strings.Builder{}
	e.WriteCQCodeTo(&buf)
	return buf.String()
}

// WriteCQCodeTo write element's cqcode into sb
func (e *Element) WriteCQCodeTo(sb *strings.Builder) {
	if e.Type == TypeText {
		sb.WriteString(EscapeText(e.Get("text")))
		return
	}
	sb.WriteString("[CQ:")
	sb.WriteString(e.Type)
	for _, data := range e.Data {
		sb.WriteByte(',')
		sb.WriteString(data.K)
		sb.WriteByte('=')
		sb.WriteString(EscapeValue(data.V))
	}
	sb.WriteByte(']')
}

// MarshalJSON see encoding/json.Marshaler
func (e Element) MarshalJSON() ([]byte, error) {
	stream := jsoniter.ConfigCompatibleWithStandardLibrary.BorrowStream(nil)
	defer jsoniter.ConfigCompatibleWithStandardLibrary.ReturnStream(stream)
	stream.WriteObjectStart()
	stream.WriteObjectField("type")
	stream.WriteString(e.Type)
	stream.WriteMore()
	stream.WriteObjectField("data")
	stream.WriteObjectStart()
	for i, data := range e.Data {
		if i != 0 {
			stream.WriteMore()
		}
		stream.WriteObjectField(data.K)
		stream.WriteString(data.V)
	}
	stream.WriteObjectEnd()
	stream.WriteObjectEnd()
	if stream.Error != nil {
		return nil, stream.Error
	}
	return append([]byte(nil), stream.Buffer()...), nil
}

// ToCQCode 将消息元素数组转为CQ码字符串
func ToCQCode(elems []Element) string {
	sb := strings.Builder{}
	for i := range elems {
		elems[i].WriteCQCodeTo(&sb)
	}
	return sb.String()
}

// PlainText 拼接消息中全部文本段, 忽略其余消息段
func PlainText(elems []Element) string {
	sb := strings.Builder{}
	for i := range elems {
		if elems[i].Type == TypeText {
			sb.WriteString(elems[i].Get("text"))
		}
	}
	return sb.String()
}

// Find 返回第一个类型为 typ 的消息段
func Find(elems []Element, typ string) (*Element, bool) {
	for i := range elems {
		if elems[i].Type == typ {
			return &elems[i], true
		}
	}
	return nil, false
}
