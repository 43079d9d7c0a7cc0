package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hatchet-dev/console/internal/api"
	"github.com/hatchet-dev/console/pkg/router"
	"github.com/hatchet-dev/console/pkg/view"
)

// Client message types.
const (
	MsgNavigate = "navigate"
	MsgBack     = "back"
	MsgForward  = "forward"
	MsgPrefetch = "prefetch"
)

// Server message types.
const (
	MsgNavigated  = "navigated"
	MsgPrefetched = "prefetched"
	MsgError      = "error"
)

// ClientMessage is a message from the browser.
type ClientMessage struct {
	Type    string `json:"type"`
	Path    string `json:"path,omitempty"`
	Replace bool   `json:"replace,omitempty"`
}

// ServerMessage is a message to the browser.
type ServerMessage struct {
	Type       string   `json:"type"`
	Navigation string   `json:"navigation,omitempty"`
	Href       string   `json:"href,omitempty"`
	Status     string   `json:"status,omitempty"`
	Replace    bool     `json:"replace,omitempty"`
	Redirects  []string `json:"redirects,omitempty"`
	Title      string   `json:"title,omitempty"`
	HTML       string   `json:"html,omitempty"`
	Path       string   `json:"path,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// wsConn is one navigation channel. Reads happen on the handler goroutine;
// every message that resolves runs on its own goroutine so a newer
// navigation can supersede it.
type wsConn struct {
	s      *Server
	ws     *websocket.Conn
	nav    *router.Navigator
	logger *slog.Logger

	writeMu sync.Mutex
	wg      sync.WaitGroup
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.metrics.WebSocketError("upgrade")
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	s.metrics.WebSocketOpened()
	defer s.metrics.WebSocketClosed()

	c := &wsConn{
		s:      s,
		ws:     ws,
		nav:    router.NewNavigator(s.resolver),
		logger: s.logger.With("remote", r.RemoteAddr),
	}

	ctx, cancel := context.WithCancel(api.WithCookie(r.Context(), r.Header.Get("Cookie")))
	defer func() {
		cancel()
		c.wg.Wait()
		ws.Close()
	}()

	go c.heartbeat(ctx)
	c.readLoop(ctx)
}

func (c *wsConn) readLoop(ctx context.Context) {
	cfg := c.s.config
	c.ws.SetReadLimit(cfg.MaxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.s.metrics.WebSocketError("read")
				c.logger.Warn("websocket read error", "error", err)
			}
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.s.metrics.WebSocketError("decode")
			c.send(ServerMessage{Type: MsgError, Error: "invalid message"})
			continue
		}
		c.dispatch(ctx, msg)
	}
}

func (c *wsConn) dispatch(ctx context.Context, msg ClientMessage) {
	switch msg.Type {
	case MsgNavigate:
		var opts []router.NavigateOption
		if msg.Replace {
			opts = append(opts, router.WithReplace())
		}
		c.spawn(func() {
			res, err := c.nav.Navigate(ctx, msg.Path, opts...)
			c.reply(res, err, msg.Replace)
		})
	case MsgBack:
		c.spawn(func() {
			res, err := c.nav.Back(ctx)
			c.reply(res, err, true)
		})
	case MsgForward:
		c.spawn(func() {
			res, err := c.nav.Forward(ctx)
			c.reply(res, err, true)
		})
	case MsgPrefetch:
		c.spawn(func() {
			if err := c.s.resolver.Preload(ctx, msg.Path); err != nil {
				c.logger.Debug("prefetch failed", "path", msg.Path, "error", err)
				return
			}
			c.send(ServerMessage{Type: MsgPrefetched, Path: msg.Path})
		})
	default:
		c.s.metrics.WebSocketError("decode")
		c.send(ServerMessage{Type: MsgError, Error: "unknown message type " + msg.Type})
	}
}

func (c *wsConn) spawn(fn func()) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn()
	}()
}

// reply reports a finished navigation. Superseded and cancelled
// navigations report nothing.
func (c *wsConn) reply(res *router.Resolution, err error, replace bool) {
	if errors.Is(err, router.ErrSuperseded) || errors.Is(err, context.Canceled) {
		return
	}
	if res == nil {
		msg := "navigation failed"
		if err != nil {
			msg = err.Error()
		}
		c.send(ServerMessage{Type: MsgError, Error: msg})
		return
	}

	body := res.View
	if err != nil {
		body = c.s.errorView(res, err)
	}
	html, rerr := view.RenderString(body)
	if rerr != nil {
		c.logger.Error("render failed", "navigation", res.ID, "error", rerr)
		c.send(ServerMessage{Type: MsgError, Navigation: res.ID, Error: "render failed"})
		return
	}

	out := ServerMessage{
		Type:       MsgNavigated,
		Navigation: res.ID,
		Href:       res.Href,
		Status:     res.Status.String(),
		Replace:    replace || res.Replace || res.Location.Changed,
		Redirects:  res.Redirects,
		Title:      c.s.title(res),
		HTML:       html,
	}
	if err != nil {
		out.Error = err.Error()
	}
	c.send(out)
}

func (c *wsConn) send(msg ServerMessage) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(c.s.writeTimeout())
	if err := c.ws.WriteJSON(msg); err != nil {
		c.s.metrics.WebSocketError("write")
		c.logger.Debug("websocket write failed", "error", err)
	}
}

func (c *wsConn) heartbeat(ctx context.Context) {
	ticker := time.NewTicker(c.s.config.HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, c.s.writeTimeout()); err != nil {
				c.s.metrics.WebSocketError("ping")
				return
			}
		}
	}
}
