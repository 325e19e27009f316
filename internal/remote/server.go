// Package remote serves a session over HTTP and websockets.
//
// GET /frame.png returns the current frame. A websocket on /ws receives
// the current frame on connect; every text message is a command name
// ("+", "left", "zoom-out", ...) answered with the re-rendered frame as a
// binary PNG message, or with a text error for unknown names. "quit" ends
// the connection, not the shared session.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/san-kum/fractsim/internal/export"
	"github.com/san-kum/fractsim/internal/session"
)

// Server shares one session between all clients; requests are serialized.
type Server struct {
	mu   sync.Mutex
	sess *session.Session
	log  *slog.Logger
	mux  *http.ServeMux
}

func New(s *session.Session, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &Server{sess: s, log: logger, mux: http.NewServeMux()}
	srv.mux.HandleFunc("/ws", srv.handleWS)
	srv.mux.HandleFunc("/frame.png", srv.handleFrame)
	srv.mux.HandleFunc("/state", srv.handleState)
	srv.mux.HandleFunc("/", srv.handleIndex)
	return srv
}

func (s *Server) Handler() http.Handler { return s.mux }

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- httpSrv.ListenAndServe() }()
	s.log.Info("serving", "url", fmt.Sprintf("http://%s", addr))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// frame renders if needed and encodes the current grid.
func (s *Server) frame(cmd session.Command) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sess.Apply(cmd)
	s.sess.RenderIfDirty()

	var buf bytes.Buffer
	if err := export.WritePNG(&buf, s.sess.Snapshot()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	data, err := s.frame(session.None)
	if err != nil {
		s.log.Error("encode frame", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(data)
}

type state struct {
	Fractal string  `json:"fractal"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Frames  int     `json:"frames"`
	Bounded int     `json:"bounded"`
	Escaped int     `json:"escaped"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	stats := s.sess.LastStats()
	st := state{
		Fractal: s.sess.Params.String(),
		X:       s.sess.View.X,
		Y:       s.sess.View.Y,
		Width:   s.sess.View.W,
		Height:  s.sess.View.H,
		Frames:  s.sess.Frames(),
		Bounded: stats.Bounded,
		Escaped: stats.Escaped,
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(st)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.log.Warn("websocket accept", "err", err)
		return
	}
	defer c.CloseNow()

	ctx := r.Context()
	s.log.Info("client connected", "remote", r.RemoteAddr)

	if err := s.sendFrame(ctx, c, session.None); err != nil {
		s.log.Warn("send frame", "err", err)
		return
	}

	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				s.log.Info("client disconnected", "remote", r.RemoteAddr)
			} else {
				s.log.Debug("websocket read", "err", err)
			}
			return
		}
		if typ != websocket.MessageText {
			if err := c.Write(ctx, websocket.MessageText, []byte("error: commands must be text messages")); err != nil {
				return
			}
			continue
		}

		name := string(data)
		cmd, ok := session.ParseCommand(name)
		if !ok {
			s.log.Debug("unknown command", "name", name)
			if err := c.Write(ctx, websocket.MessageText, []byte(fmt.Sprintf("error: unknown command %q", name))); err != nil {
				return
			}
			continue
		}
		if cmd == session.Quit {
			c.Close(websocket.StatusNormalClosure, "bye")
			return
		}
		if err := s.sendFrame(ctx, c, cmd); err != nil {
			s.log.Warn("send frame", "err", err)
			return
		}
	}
}

func (s *Server) sendFrame(ctx context.Context, c *websocket.Conn, cmd session.Command) error {
	data, err := s.frame(cmd)
	if err != nil {
		return err
	}
	return c.Write(ctx, websocket.MessageBinary, data)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

const indexHTML = `<!doctype html>
<html>
<head><title>fractsim</title>
<style>body{margin:0;background:#0a0a0a;color:#888;font:12px monospace}img{display:block;max-width:100%}</style>
</head>
<body>
<img id="frame" alt="frame">
<p id="status">+/- zoom, arrows pan</p>
<script>
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
ws.binaryType = "blob";
const img = document.getElementById("frame");
const status = document.getElementById("status");
ws.onmessage = (ev) => {
  if (typeof ev.data === "string") { status.textContent = ev.data; return; }
  const old = img.src;
  img.src = URL.createObjectURL(ev.data);
  if (old) URL.revokeObjectURL(old);
};
ws.onclose = () => { status.textContent = "disconnected"; };
const keys = {"+": "+", "=": "+", "-": "-", "ArrowLeft": "left", "ArrowRight": "right", "ArrowUp": "up", "ArrowDown": "down"};
document.addEventListener("keydown", (ev) => {
  const cmd = keys[ev.key];
  if (cmd && ws.readyState === WebSocket.OPEN) { ws.send(cmd); ev.preventDefault(); }
});
</script>
</body>
</html>
`
