// Package monitor mirrors transmitted frames to websocket clients and serves
// health and metrics for a running strip.
package monitor

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coreman2200/funtimes-dots/model"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type Server struct {
	mu        sync.RWMutex
	pixels    int
	driver    string
	frameID   uint64
	startTime time.Time
	clients   map[*websocket.Conn]bool

	stats func() model.Stats
	reg   *prometheus.Registry
	log   zerolog.Logger
}

// New returns a monitor for a strip of pixels. stats may be nil.
func New(pixels int, driver string, stats func() model.Stats, log zerolog.Logger) *Server {
	s := &Server{
		pixels:    pixels,
		driver:    driver,
		startTime: time.Now(),
		clients:   map[*websocket.Conn]bool{},
		stats:     stats,
		reg:       prometheus.NewRegistry(),
		log:       log,
	}
	if stats != nil {
		s.reg.MustRegister(NewCollector(stats))
	}
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleFramesWS)
	mux.HandleFunc("/health", s.HandleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	return mux
}

func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.sendTopology(conn)
	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	resp := map[string]any{
		"frame_id": s.frameID,
		"uptime_s": time.Since(s.startTime).Seconds(),
		"pixels":   s.pixels,
		"driver":   s.driver,
	}
	s.mu.RUnlock()
	if s.stats != nil {
		st := s.stats()
		resp["patterns"] = st.Patterns
		resp["actions"] = st.Actions
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

type topology struct {
	Type   string `json:"type"`
	Pixels int    `json:"pixels"`
	Driver string `json:"driver"`
}

type Frame struct {
	Type    string `json:"type"`
	T       int64  `json:"t"`
	FrameID uint64 `json:"frame_id"`
	RGB     []byte `json:"rgb"`
}

func (s *Server) sendTopology(conn *websocket.Conn) {
	b, _ := json.Marshal(topology{Type: "topology", Pixels: s.pixels, Driver: s.driver})
	conn.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		s.log.Debug().Err(err).Msg("write topology")
	}
}

// publish sends the decoded pixels of one transmission to every client.
func (s *Server) publish(pix []model.RGB) {
	rgb := make([]byte, 0, len(pix)*3)
	for _, c := range pix {
		rgb = append(rgb, c.R, c.G, c.B)
	}

	s.mu.Lock()
	s.frameID++
	id := s.frameID
	s.mu.Unlock()

	b, _ := json.Marshal(Frame{Type: "frame", T: time.Now().UnixNano(), FrameID: id, RGB: rgb})

	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			s.log.Debug().Err(err).Msg("write frame")
		}
	}
}
