package stream

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/angeloszaimis/ping-monitor/internal/status"
)

// DefaultPushInterval is how often each connected client receives a fresh
// snapshot.
const DefaultPushInterval = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		host := strings.ToLower(strings.TrimSpace(r.Host))
		originHost := strings.ToLower(strings.TrimSpace(u.Host))
		return host == originHost
	},
}

type payload struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Hosts       status.Snapshot `json:"hosts"`
}

// Handler upgrades requests to websocket connections and pushes the current
// status snapshot immediately and then on a fixed interval.
type Handler struct {
	cache    *status.Cache
	interval time.Duration
	logger   *slog.Logger
}

// New creates a stream handler reading from the given cache.
func New(cache *status.Cache, logger *slog.Logger) *Handler {
	return &Handler{
		cache:    cache,
		interval: DefaultPushInterval,
		logger:   logger,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	h.logger.Debug("status stream client connected",
		slog.String("remote", r.RemoteAddr))
	h.serve(conn)
}

func (h *Handler) serve(conn *websocket.Conn) {
	defer conn.Close()

	if err := h.push(conn); err != nil {
		return
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	// Reader goroutine: its exit signals the peer closed the connection.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ticker.C:
			if err := h.push(conn); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (h *Handler) push(conn *websocket.Conn) error {
	return conn.WriteJSON(payload{
		GeneratedAt: time.Now().UTC(),
		Hosts:       h.cache.All(),
	})
}
