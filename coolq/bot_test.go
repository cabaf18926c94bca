package coolq

import (
	"context"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/qqessentials/go-qqessentials/internal/msg"
	"github.com/qqessentials/go-qqessentials/modules/filter"
	"github.com/qqessentials/go-qqessentials/pkg/onebot"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type call struct {
	action string
	params gjson.Result
}

type fakeCaller struct {
	calls []call
	ret   string
	err   error
}

func (f *fakeCaller) Call(_ context.Context, action string, params any) (gjson.Result, error) {
	b, _ := json.Marshal(params)
	f.calls = append(f.calls, call{action: action, params: gjson.ParseBytes(b)})
	return gjson.Parse(f.ret), f.err
}

func TestSendGroupMessage(t *testing.T) {
	c := &fakeCaller{ret: `{"message_id":321}`}
	bot := NewQQBot(c, nil)
	id, err := bot.SendGroupMessage(context.Background(), 999, []msg.Element{msg.Text("hello")})
	require.NoError(t, err)
	assert.Equal(t, int64(321), id)
	require.Len(t, c.calls, 1)
	assert.Equal(t, onebot.ActionSendGroupMsg, c.calls[0].action)
	assert.Equal(t, int64(999), c.calls[0].params.Get("group_id").Int())
	assert.Equal(t, "hello", c.calls[0].params.Get("message.0.data.text").String())

	_, err = bot.SendGroupMessage(context.Background(), 999, nil)
	assert.Error(t, err)
	assert.Len(t, c.calls, 1)
}

func TestSendRoutesByMessageType(t *testing.T) {
	c := &fakeCaller{ret: `{"message_id":1}`}
	bot := NewQQBot(c, nil)
	_, _ = bot.Send(context.Background(), &onebot.MessageEvent{MessageType: "group", GroupID: 5, UserID: 6}, "a")
	_, _ = bot.Send(context.Background(), &onebot.MessageEvent{MessageType: "private", UserID: 6}, "b")
	require.Len(t, c.calls, 2)
	assert.Equal(t, onebot.ActionSendGroupMsg, c.calls[0].action)
	assert.Equal(t, onebot.ActionSendPrivateMsg, c.calls[1].action)
	assert.Equal(t, int64(6), c.calls[1].params.Get("user_id").Int())
}

func TestSetGroupAddRequest(t *testing.T) {
	c := &fakeCaller{}
	bot := NewQQBot(c, nil)
	require.NoError(t, bot.SetGroupAddRequest(context.Background(), "abcXYZ123", true, "ignored"))
	require.NoError(t, bot.SetGroupAddRequest(context.Background(), "abcXYZ123", false, "资料不全"))
	require.Len(t, c.calls, 2)

	approve := c.calls[0].params
	assert.Equal(t, "abcXYZ123", approve.Get("flag").String())
	assert.True(t, approve.Get("approve").Bool())
	assert.False(t, approve.Get("reason").Exists())

	reject := c.calls[1].params
	assert.False(t, reject.Get("approve").Bool())
	assert.Equal(t, "资料不全", reject.Get("reason").String())
}

func TestGetGroupMemberInfo(t *testing.T) {
	c := &fakeCaller{ret: `{"group_id":999,"user_id":1,"role":"admin"}`}
	bot := NewQQBot(c, nil)
	m, err := bot.GetGroupMemberInfo(context.Background(), 999, 1, true)
	require.NoError(t, err)
	assert.Equal(t, onebot.RoleAdmin, m.Role)
	assert.True(t, c.calls[0].params.Get("no_cache").Bool())

	c.ret = `null`
	_, err = bot.GetGroupMemberInfo(context.Background(), 999, 1, true)
	assert.Error(t, err)
}

func TestDispatchPayload(t *testing.T) {
	f, err := filter.Generate("and", gjson.Parse(`{"post_type":"request"}`))
	require.NoError(t, err)
	bot := NewQQBot(&fakeCaller{}, f)

	got := make(chan onebot.Event, 4)
	bot.OnEvent(func(_ context.Context, e onebot.Event) {
		panic("handler failure must not stop other handlers")
	})
	bot.OnEvent(func(_ context.Context, e onebot.Event) {
		got <- e
	})

	bot.DispatchPayload(gjson.Parse(`{"post_type":"message","message_type":"group","message":"hi"}`))
	bot.DispatchPayload(gjson.Parse(`{"post_type":"request","request_type":"group","sub_type":"add","flag":"f1"}`))

	select {
	case e := <-got:
		req, ok := e.(*onebot.GroupRequestEvent)
		require.True(t, ok)
		assert.Equal(t, "f1", req.Flag)
	case <-time.After(time.Second):
		t.Fatal("event not dispatched")
	}
	select {
	case e := <-got:
		t.Fatalf("filtered event dispatched: %T", e)
	case <-time.After(50 * time.Millisecond):
	}
}
