package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/qqessentials/go-qqessentials/global"
	"github.com/qqessentials/go-qqessentials/modules/api"
	"github.com/qqessentials/go-qqessentials/modules/config"
	"github.com/qqessentials/go-qqessentials/pkg/onebot"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNotConnected 尚未与 OneBot 实现建立连接
var ErrNotConnected = errors.New("未连接到 OneBot 实现")

// Sink 接收 OneBot 实现上报的事件
type Sink func(payload gjson.Result)

// Transport 与 OneBot 实现之间的一条连接
type Transport interface {
	api.Transport
	// Run 开始建立连接并将上报的事件交给 sink, 不阻塞
	Run(sink Sink)
	Close() error
}

// New 按照 gateway.mode 创建连接
func New(conf *config.Gateway) (Transport, error) {
	switch conf.Mode {
	case config.ModeWebsocket:
		return NewWebSocketClient(conf), nil
	case config.ModeWebsocketReverse:
		return NewWebSocketServer(conf), nil
	default:
		return nil, errors.Errorf("不支持的连接方式: %q", conf.Mode)
	}
}

type webSocketConn struct {
	*websocket.Conn
	sync.Mutex

	closeOnce sync.Once
	closed    chan struct{} // 连接断开后关闭, 唤醒等待中的动作调用
}

func newWebSocketConn(c *websocket.Conn) *webSocketConn {
	return &webSocketConn{Conn: c, closed: make(chan struct{})}
}

func (c *webSocketConn) shutdown() {
	c.closeOnce.Do(func() { close(c.closed) })
	_ = c.Close()
}

func (c *webSocketConn) write(payload []byte) error {
	c.Lock()
	defer c.Unlock()
	_ = c.SetWriteDeadline(time.Now().Add(time.Second * 15))
	return c.WriteMessage(websocket.TextMessage, payload)
}

// gateway 保存当前连接, 并按 echo 将动作响应交还给等待中的调用
type gateway struct {
	timeout time.Duration

	mu   sync.RWMutex
	conn *webSocketConn
	sink Sink

	seq       atomic.Uint64
	waitMu    sync.Mutex
	waiters   map[string]chan *onebot.Response
	closeOnce sync.Once
	done      chan struct{}
}

func newGateway(conf *config.Gateway) *gateway {
	return &gateway{
		timeout: time.Duration(conf.Timeout) * time.Second,
		waiters: make(map[string]chan *onebot.Response),
		done:    make(chan struct{}),
	}
}

func (g *gateway) current() *webSocketConn {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.conn
}

// attach 使用新连接替换当前连接, 旧连接会被关闭
func (g *gateway) attach(c *webSocketConn) {
	g.mu.Lock()
	old := g.conn
	g.conn = c
	g.mu.Unlock()
	if old != nil {
		log.Infof("新的连接 %v 替换了 %v", c.RemoteAddr(), old.RemoteAddr())
		old.shutdown()
	}
}

// detach 仅当 c 仍是当前连接时将其移除
func (g *gateway) detach(c *webSocketConn) {
	g.mu.Lock()
	if g.conn == c {
		g.conn = nil
	}
	g.mu.Unlock()
	c.shutdown()
}

// Call 发出动作请求, 等待带有相同 echo 的响应, 超时或 ctx 结束时返回错误
func (g *gateway) Call(ctx context.Context, action string, params any) (gjson.Result, error) {
	conn := g.current()
	if conn == nil {
		return gjson.Result{}, ErrNotConnected
	}
	echo := strconv.FormatUint(g.seq.Add(1), 10)
	waiter := make(chan *onebot.Response, 1)
	g.waitMu.Lock()
	g.waiters[echo] = waiter
	g.waitMu.Unlock()
	defer func() {
		g.waitMu.Lock()
		delete(g.waiters, echo)
		g.waitMu.Unlock()
	}()

	payload, err := json.Marshal(&onebot.Request{Action: action, Params: params, Echo: echo})
	if err != nil {
		return gjson.Result{}, errors.Wrapf(err, "encode %s request", action)
	}
	if err = conn.write(payload); err != nil {
		return gjson.Result{}, errors.Wrapf(err, "write %s request", action)
	}

	timer := time.NewTimer(g.timeout)
	defer timer.Stop()
	select {
	case resp := <-waiter:
		if err := resp.Err(action); err != nil {
			return gjson.Result{}, err
		}
		return resp.Data, nil
	case <-timer.C:
		return gjson.Result{}, errors.Errorf("%s 调用超时 (%v)", action, g.timeout)
	case <-ctx.Done():
		return gjson.Result{}, ctx.Err()
	case <-conn.closed:
		return gjson.Result{}, errors.Wrapf(ErrNotConnected, "%s 调用期间连接断开", action)
	case <-g.done:
		return gjson.Result{}, ErrNotConnected
	}
}

// listen 读取连接上的全部帧直到连接断开
func (g *gateway) listen(c *webSocketConn) {
	defer g.detach(c)
	for {
		buffer := global.NewBuffer()
		t, reader, err := c.NextReader()
		if err != nil {
			global.PutBuffer(buffer)
			log.Warnf("监听 WebSocket 连接 %v 时出现错误: %v", c.RemoteAddr(), err)
			return
		}
		_, err = buffer.ReadFrom(reader)
		if err != nil || t != websocket.TextMessage {
			global.PutBuffer(buffer)
			if err != nil {
				log.Warnf("监听 WebSocket 连接 %v 时出现错误: %v", c.RemoteAddr(), err)
				return
			}
			continue
		}
		payload := gjson.ParseBytes(buffer.Bytes())
		global.PutBuffer(buffer)
		g.handleFrame(payload)
	}
}

func (g *gateway) handleFrame(payload gjson.Result) {
	if echo := payload.Get("echo"); echo.Exists() && payload.Get("status").Exists() {
		resp := onebot.ParseResponse(payload)
		g.waitMu.Lock()
		waiter := g.waiters[resp.Echo]
		g.waitMu.Unlock()
		if waiter == nil {
			log.Debugf("收到未知 echo 的动作响应: %v", payload.Raw)
			return
		}
		select {
		case waiter <- resp:
		default:
		}
		return
	}
	g.mu.RLock()
	sink := g.sink
	g.mu.RUnlock()
	if sink == nil {
		return
	}
	log.Debugf("收到上报事件: %v", payload.Raw)
	go sink(payload)
}

func (g *gateway) setSink(sink Sink) {
	g.mu.Lock()
	g.sink = sink
	g.mu.Unlock()
}

func (g *gateway) close() {
	g.closeOnce.Do(func() {
		close(g.done)
		g.mu.Lock()
		c := g.conn
		g.conn = nil
		g.mu.Unlock()
		if c != nil {
			c.shutdown()
		}
	})
}

func (g *gateway) closed() bool {
	select {
	case <-g.done:
		return true
	default:
		return false
	}
}

// checkAuth 校验 Authorization 头或 access_token 参数
func checkAuth(req *http.Request, token string) int {
	if token == "" { // quick path
		return http.StatusOK
	}

	auth := req.Header.Get("Authorization")
	if auth == "" {
		auth = req.URL.Query().Get("access_token")
	} else {
		authN := strings.SplitN(auth, " ", 2)
		if len(authN) == 2 {
			auth = authN[1]
		}
	}

	switch auth {
	case token:
		return http.StatusOK
	case "":
		return http.StatusUnauthorized
	default:
		return http.StatusForbidden
	}
}
