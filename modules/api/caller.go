// Package api implements the outbound action route towards the OneBot implementation.
package api

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// Transport 能够向 OneBot 实现发出动作请求的连接
type Transport interface {
	// Call 发出动作请求, 成功时返回响应中的 data
	Call(ctx context.Context, action string, params any) (gjson.Result, error)
}

// Func 一次动作调用
type Func func(ctx context.Context, action string, params any) (gjson.Result, error)

// Handler 中间件
type Handler func(next Func) Func

// Caller api route caller
type Caller struct {
	transport Transport
	handlers  []Handler
}

// NewCaller create a new API caller
func NewCaller(t Transport) *Caller {
	return &Caller{
		transport: t,
		handlers:  make([]Handler, 0),
	}
}

// Use add handlers to the API caller, the first added handler runs outermost
func (c *Caller) Use(middlewares ...Handler) {
	c.handlers = append(c.handlers, middlewares...)
}

// Call specific API
func (c *Caller) Call(ctx context.Context, action string, params any) (gjson.Result, error) {
	fn := c.transport.Call
	for i := len(c.handlers) - 1; i >= 0; i-- {
		fn = c.handlers[i](fn)
	}
	return fn(ctx, action, params)
}

// RateLimit 限制动作调用频率, frequency 为每秒令牌数, bucket 为令牌桶大小
func RateLimit(frequency float64, bucket int) Handler {
	limiter := rate.NewLimiter(rate.Limit(frequency), bucket)
	return func(next Func) Func {
		return func(ctx context.Context, action string, params any) (gjson.Result, error) {
			if err := limiter.Wait(ctx); err != nil {
				return gjson.Result{}, err
			}
			return next(ctx, action, params)
		}
	}
}

// Logging 以 Debug 等级记录每次动作调用及其耗时
func Logging() Handler {
	return func(next Func) Func {
		return func(ctx context.Context, action string, params any) (gjson.Result, error) {
			start := time.Now()
			ret, err := next(ctx, action, params)
			if err != nil {
				log.Debugf("API调用 %v 失败(%v): %v", action, time.Since(start), err)
			} else {
				log.Debugf("API调用 %v 完成(%v): %v", action, time.Since(start), ret.Raw)
			}
			return ret, err
		}
	}
}
