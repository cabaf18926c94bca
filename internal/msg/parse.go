package msg

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Parse 按上报格式解析消息, 字符串按CQ码处理, 数组或对象按消息段处理
func Parse(m gjson.Result) []Element {
	if m.Type == gjson.String {
		return ParseString(m.Str)
	}
	return ParseObject(m)
}

// ParseObject 将消息JSON对象转为消息元素数组
func ParseObject(m gjson.Result) (r []Element) {
	convert := func(e gjson.Result) {
		elem := Element{Type: e.Get("type").Str}
		e.Get("data").ForEach(func(key, value gjson.Result) bool {
			elem.Data = append(elem.Data, Pair{K: key.Str, V: value.String()})
			return true
		})
		r = append(r, elem)
	}

	switch {
	case m.IsArray():
		m.ForEach(func(_, e gjson.Result) bool {
			convert(e)
			return true
		})
	case m.IsObject():
		convert(m)
	}
	return
}

// ParseString 将字符串(CQ码)转为消息元素数组
//
// 不完整的CQ码会被丢弃, 其之前的内容保持不变
func ParseString(raw string) (r []Element) {
	for raw != "" {
		i := strings.Index(raw, "[CQ:")
		if i < 0 {
			r = append(r, Text(UnescapeText(raw)))
			return
		}
		if i > 0 {
			r = append(r, Text(UnescapeText(raw[:i])))
		}
		raw = raw[i+4:] // skip "[CQ:"

		end := strings.IndexByte(raw, ']')
		if end < 0 {
			return
		}
		body := raw[:end]
		raw = raw[end+1:]

		parts := strings.Split(body, ",")
		elem := Element{Type: parts[0]}
		for _, p := range parts[1:] {
			k, v, ok := strings.Cut(p, "=")
			if !ok {
				continue
			}
			elem.Data = append(elem.Data, Pair{K: k, V: UnescapeValue(v)})
		}
		r = append(r, elem)
	}
	return
}
