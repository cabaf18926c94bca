package msg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

var (
	bench      = `asdfqwerqwerqwer[CQ:face,id=115,text=111]asdfasdfasdfasdfasdfasdfasd[CQ:face,id=217]&#93; 123 &#91;`
	benchArray = gjson.Parse(`[{"type":"text","data":{"text":"asdfqwerqwerqwer"}},{"type":"face","data":{"id":"115","text":"111"}},{"type":"text","data":{"text":"asdfasdfasdfasdfasdfasdfasd"}},{"type":"face","data":{"id":217}},{"type":"text","data":{"text":"] 123 ["}}]`)
)

func TestParseString(t *testing.T) {
	elems := ParseString(bench)
	assert.Len(t, elems, 5)
	assert.Equal(t, "face", elems[1].Type)
	assert.Equal(t, "115", elems[1].Get("id"))
	assert.Equal(t, "111", elems[1].Get("text"))
	assert.Equal(t, "] 123 [", elems[4].Get("text"))
}

func TestParseStringAndObjectAgree(t *testing.T) {
	assert.Equal(t, ParseObject(benchArray), ParseString(bench))
}

func TestParseStringIncomplete(t *testing.T) {
	elems := ParseString(`hello[CQ:reply,id=12`)
	assert.Equal(t, []Element{Text("hello")}, elems)
}

func TestParseStringValueEscape(t *testing.T) {
	elems := ParseString(`[CQ:reply,id=-42,text=a&#44;b&#91;c&#93;]`)
	if assert.Len(t, elems, 1) {
		assert.Equal(t, "-42", elems[0].Get("id"))
		assert.Equal(t, "a,b[c]", elems[0].Get("text"))
	}
}

func TestParse(t *testing.T) {
	fromString := Parse(gjson.Parse(`"[CQ:reply,id=7]/同意加群请求"`))
	fromArray := Parse(gjson.Parse(`[{"type":"reply","data":{"id":"7"}},{"type":"text","data":{"text":"/同意加群请求"}}]`))
	assert.Equal(t, fromArray, fromString)
	reply, ok := Find(fromString, TypeReply)
	if assert.True(t, ok) {
		assert.Equal(t, "7", reply.Get("id"))
	}
	assert.Equal(t, "/同意加群请求", PlainText(fromString))
}

func BenchmarkParseString(b *testing.B) {
	for i := 0; i < b.N; i++ {
		ParseString(bench)
	}
	b.SetBytes(int64(len(bench)))
}

func BenchmarkParseObject(b *testing.B) {
	for i := 0; i < b.N; i++ {
		ParseObject(benchArray)
	}
	b.SetBytes(int64(len(benchArray.Raw)))
}

func TestCQCodeEscapeText(t *testing.T) {
	cases := []string{"", "plain", "[]&", "a&#91;b", strings.Repeat("[x]&", 50)}
	for _, rs := range cases {
		ret := rs
		ret = strings.ReplaceAll(ret, "&", "&amp;")
		ret = strings.ReplaceAll(ret, "[", "&#91;")
		ret = strings.ReplaceAll(ret, "]", "&#93;")
		assert.Equal(t, ret, EscapeText(rs))
		assert.Equal(t, rs, UnescapeText(EscapeText(rs)))
	}
}
