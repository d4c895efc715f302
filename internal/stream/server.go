package stream

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/physics"
	"github.com/san-kum/verletsim/internal/spawn"
)

const (
	MessageFrame = "frame"
	MessageSpawn = "spawn"

	// MaxSpawnCount caps the particles one spawn message may add.
	MaxSpawnCount = 1000

	maxMessageSize = 4096
	spawnQueue     = 64
)

// ClientMessage is what clients send. A zero radius is drawn from the click
// range, a zero mass uses the default mass and a zero count means one.
type ClientMessage struct {
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Mass   float64 `json:"mass"`
	Color  string  `json:"color"`
	Count  int     `json:"count"`
}

// FrameMessage is pushed to clients on every broadcast tick.
type FrameMessage struct {
	Type string `json:"type"`
	physics.Frame
}

type Options struct {
	Dt             float64
	BroadcastEvery int
	Spawn          config.SpawnConfig
	Emitter        *spawn.Emitter
	Logger         dynamo.Logger
}

// Server steps a System on its own goroutine. Clients never touch the
// System: spawn requests go through a channel and frames come back through
// the hub.
type Server struct {
	sys      *physics.System
	boundary physics.Boundary
	spawner  *spawn.Spawner
	emitter  *spawn.Emitter
	hub      *Hub
	spawns   chan spawn.Request
	upgrader websocket.Upgrader
	log      dynamo.Logger

	dt             float64
	broadcastEvery int
	defaults       config.SpawnConfig
}

func NewServer(sys *physics.System, sp *spawn.Spawner, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = dynamo.NoOpLogger{}
	}
	if opts.Dt <= 0 {
		opts.Dt = config.DefaultDt
	}
	if opts.BroadcastEvery <= 0 {
		opts.BroadcastEvery = 1
	}
	return &Server{
		sys:      sys,
		boundary: sys.Boundary(),
		spawner:  sp,
		emitter:  opts.Emitter,
		hub:      NewHub(opts.Logger),
		spawns:   make(chan spawn.Request, spawnQueue),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log:            opts.Logger,
		dt:             opts.Dt,
		broadcastEvery: opts.BroadcastEvery,
		defaults:       opts.Spawn,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

func (s *Server) Hub() *Hub { return s.hub }

// Run steps the system every dt of wall time until ctx is done, then closes
// the hub.
func (s *Server) Run(ctx context.Context) error {
	defer s.hub.Close()

	ticker := time.NewTicker(time.Duration(s.dt * float64(time.Second)))
	defer ticker.Stop()

	step := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case req := <-s.spawns:
			if req.Radius == 0 {
				req.Radius = s.spawner.Radius(s.defaults.Click)
			}
			if ids, err := s.spawner.Spawn(s.sys, req); err != nil {
				s.log.Warnf("spawn request rejected: %v", err)
			} else {
				s.log.Debugf("spawned %d particle(s) at %v", len(ids), req.Position)
			}

		case <-ticker.C:
			if s.emitter != nil {
				if _, err := s.emitter.Emit(s.sys, step); err != nil {
					s.log.Warnf("emitter: %v", err)
				}
			}
			s.sys.Step(s.dt)
			step++
			if step%s.broadcastEvery != 0 || s.hub.Clients() == 0 {
				continue
			}
			data, err := json.Marshal(FrameMessage{Type: MessageFrame, Frame: s.sys.Snapshot()})
			if err != nil {
				s.log.Errorf("encode frame: %v", err)
				continue
			}
			if err := s.hub.Broadcast(ctx, data); err != nil && !errors.Is(err, context.Canceled) {
				s.log.Warnf("broadcast: %v", err)
			}
		}
	}
}

// Submit queues a spawn request for the tick loop.
func (s *Server) Submit(ctx context.Context, req spawn.Request) error {
	select {
	case s.spawns <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnf("upgrade: %v", err)
		return
	}
	conn.SetReadLimit(maxMessageSize)
	s.hub.Register(conn)
	defer s.hub.Unregister(conn)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warnf("read from %s: %v", conn.RemoteAddr(), err)
			}
			return
		}

		req, ok := s.parse(data)
		if !ok {
			continue
		}
		if err := s.Submit(r.Context(), req); err != nil {
			return
		}
	}
}

// parse turns a client message into a spawn request. Unknown or malformed
// messages are logged and dropped.
func (s *Server) parse(data []byte) (spawn.Request, bool) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.log.Warnf("malformed message: %v", err)
		return spawn.Request{}, false
	}
	if msg.Type != MessageSpawn {
		s.log.Warnf("unknown message type %q", msg.Type)
		return spawn.Request{}, false
	}
	if msg.Count < 0 || msg.Radius < 0 || msg.Mass < 0 {
		s.log.Warnf("spawn request with negative field: %+v", msg)
		return spawn.Request{}, false
	}
	if msg.Count > MaxSpawnCount {
		s.log.Warnf("spawn request for %d particles exceeds %d", msg.Count, MaxSpawnCount)
		return spawn.Request{}, false
	}
	if msg.Radius >= s.boundary.Radius() {
		s.log.Warnf("spawn radius %g does not fit boundary radius %g", msg.Radius, s.boundary.Radius())
		return spawn.Request{}, false
	}
	if math.IsInf(msg.Mass, 0) || math.IsNaN(msg.Mass) {
		s.log.Warnf("spawn request with non-finite mass %g", msg.Mass)
		return spawn.Request{}, false
	}
	pos := dynamo.Vec2{X: msg.X, Y: msg.Y}
	if !pos.IsValid() || pos.Sub(s.boundary.Center()).Length() > s.boundary.Radius() {
		s.log.Warnf("spawn position %v outside boundary", pos)
		return spawn.Request{}, false
	}

	req := spawn.Request{
		Position: pos,
		Radius:   msg.Radius,
		Mass:     msg.Mass,
		Color:    msg.Color,
		Count:    msg.Count,
	}
	if req.Mass == 0 {
		req.Mass = s.defaults.Mass
	}
	return req, true
}
