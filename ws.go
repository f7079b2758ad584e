// File: ws.go
package main

import (
	"github.com/gorilla/websocket"
	"net/http"
	"shapeCaptcha/internal/challenge"
	"time"
)

const wsWriteWait = 5 * time.Second

var wsUpgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// handleWS 连接时和每次状态变化后推送会话状态，浏览器据此移动区域框
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.session(w, r)
	if !ok {
		return
	}
	po := s.locales.For(r)

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnf("WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	// 只保留最新状态，慢的客户端跳过旧的
	updates := make(chan challenge.Snapshot, 1)
	unsubscribe := sess.Subscribe(func(snap challenge.Snapshot) {
		for {
			select {
			case updates <- snap:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	defer unsubscribe()

	// 读协程只用来发现客户端断开
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	write := func(snap challenge.Snapshot) bool {
		rsp, err := s.state(po, sess, snap, false)
		if err != nil {
			s.log.Errorf("Challenge %s: %v", id, err)
			return false
		}
		s.store.Touch(id)
		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteJSON(rsp) == nil
	}

	if !write(sess.Snapshot()) {
		return
	}
	for {
		select {
		case <-closed:
			return
		case <-sess.Done():
			// 会话已结束，通知浏览器后断开
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "challenge closed"))
			return
		case snap := <-updates:
			if !write(snap) {
				return
			}
		}
	}
}
