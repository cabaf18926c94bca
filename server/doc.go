// Package server 包含与 OneBot 实现建立正向/反向 WebSocket 连接的相关函数与结构体
package server
