package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type transportFunc func(ctx context.Context, action string, params any) (gjson.Result, error)

func (f transportFunc) Call(ctx context.Context, action string, params any) (gjson.Result, error) {
	return f(ctx, action, params)
}

func TestCallerMiddlewareOrder(t *testing.T) {
	var trace []string
	c := NewCaller(transportFunc(func(_ context.Context, action string, _ any) (gjson.Result, error) {
		trace = append(trace, "transport:"+action)
		return gjson.Parse(`{"ok":true}`), nil
	}))
	mark := func(name string) Handler {
		return func(next Func) Func {
			return func(ctx context.Context, action string, params any) (gjson.Result, error) {
				trace = append(trace, name)
				return next(ctx, action, params)
			}
		}
	}
	c.Use(mark("first"), mark("second"))
	ret, err := c.Call(context.Background(), "get_msg", nil)
	require.NoError(t, err)
	assert.True(t, ret.Get("ok").Bool())
	assert.Equal(t, []string{"first", "second", "transport:get_msg"}, trace)
}

func TestCallerPropagatesError(t *testing.T) {
	want := errors.New("boom")
	c := NewCaller(transportFunc(func(context.Context, string, any) (gjson.Result, error) {
		return gjson.Result{}, want
	}))
	c.Use(Logging())
	_, err := c.Call(context.Background(), "send_group_msg", nil)
	assert.ErrorIs(t, err, want)
}

func TestRateLimitHonoursContext(t *testing.T) {
	calls := 0
	c := NewCaller(transportFunc(func(context.Context, string, any) (gjson.Result, error) {
		calls++
		return gjson.Result{}, nil
	}))
	c.Use(RateLimit(0.001, 1))

	_, err := c.Call(context.Background(), "send_group_msg", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Call(ctx, "send_group_msg", nil)
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
