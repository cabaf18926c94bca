package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/qqessentials/go-qqessentials/modules/config"
)

// WebSocketClient 正向WS: 主动连接 OneBot 实现提供的 WebSocket 服务
type WebSocketClient struct {
	*gateway
	conf *config.Gateway
}

// WebSocketServer 反向WS: 等待 OneBot 实现连接, 同一时刻只保留最新的一条连接
type WebSocketServer struct {
	*gateway
	conf   *config.Gateway
	server *http.Server
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NewWebSocketClient 创建一个正向WS客户端
func NewWebSocketClient(conf *config.Gateway) *WebSocketClient {
	return &WebSocketClient{gateway: newGateway(conf), conf: conf}
}

// Run 在后台连接 OneBot 实现, 断开后每隔 reconnect-interval 毫秒重连
func (c *WebSocketClient) Run(sink Sink) {
	c.setSink(sink)
	go c.connect()
}

// Close 关闭连接并停止重连
func (c *WebSocketClient) Close() error {
	c.close()
	return nil
}

func (c *WebSocketClient) connect() {
	for !c.closed() {
		log.Infof("开始尝试连接到 OneBot WebSocket 服务器: %v", c.conf.URL)
		header := http.Header{
			"User-Agent": []string{"go-qqessentials"},
		}
		if c.conf.AccessToken != "" {
			header["Authorization"] = []string{"Bearer " + c.conf.AccessToken}
		}
		conn, _, err := websocket.DefaultDialer.Dial(c.conf.URL, header) // nolint
		if err != nil {
			log.Warnf("连接到 OneBot WebSocket 服务器 %v 时出现错误: %v", c.conf.URL, err)
		} else {
			log.Infof("已连接到 OneBot WebSocket 服务器 %v", c.conf.URL)
			wrapped := newWebSocketConn(conn)
			c.attach(wrapped)
			c.listen(wrapped)
		}
		if c.conf.ReconnectInterval == 0 {
			log.Warn("已禁用重连, 不再尝试连接 OneBot WebSocket 服务器")
			return
		}
		select {
		case <-c.done:
			return
		case <-time.After(time.Millisecond * time.Duration(c.conf.ReconnectInterval)):
		}
	}
}

// NewWebSocketServer 创建一个反向WS服务器
func NewWebSocketServer(conf *config.Gateway) *WebSocketServer {
	s := &WebSocketServer{gateway: newGateway(conf), conf: conf}
	mux := http.NewServeMux()
	mux.Handle(conf.Path, s)
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", conf.Host, conf.Port),
		Handler:           mux,
		ReadHeaderTimeout: time.Second * 10,
	}
	return s
}

// Run 在后台监听 host:port, 等待 OneBot 实现连接到 path
func (s *WebSocketServer) Run(sink Sink) {
	s.setSink(sink)
	go func() {
		log.Infof("反向 WebSocket 服务器已启动: ws://%v%v", s.server.Addr, s.conf.Path)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("反向 WebSocket 服务器启动失败: %v", err)
		}
	}()
}

// Close 关闭服务器与当前连接
func (s *WebSocketServer) Close() error {
	s.close()
	return s.server.Close()
}

// ServeHTTP 校验 Token 后升级为 WebSocket 连接并阻塞读取
func (s *WebSocketServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := checkAuth(r, s.conf.AccessToken)
	if status != http.StatusOK {
		log.Warnf("已拒绝 %v 的 WebSocket 请求: Token鉴权失败(code:%d)", r.RemoteAddr, status)
		w.WriteHeader(status)
		return
	}
	if s.closed() {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("处理 WebSocket 请求时出现错误: %v", err)
		return
	}
	log.Infof("接受 WebSocket 连接: %v (self_id: %v)", r.RemoteAddr, r.Header.Get("X-Self-ID"))
	conn := newWebSocketConn(c)
	s.attach(conn)
	s.listen(conn)
}
