package distributed

import "context"
import "net"
import "net/http"
import "strconv"
import "sync"

import "github.com/gorilla/websocket"
import "github.com/pkg/errors"
import "go.uber.org/zap"
import "golang.org/x/sync/errgroup"

const gatherPath = "/gather"

type request struct {
	Seq     uint64 `json:"seq"`
	Rank    int    `json:"rank"`
	Payload []byte `json:"payload"`
}

type response struct {
	Seq      uint64   `json:"seq"`
	Payloads [][]byte `json:"payloads,omitempty"`
	Workers  []Worker `json:"workers,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// peer serializes the writes to one rank, a websocket takes one writer at a time
type peer struct {
	conn *websocket.Conn
	wmu  sync.Mutex
}

func (p *peer) send(v any) error {
	p.wmu.Lock()
	defer p.wmu.Unlock()
	return p.conn.WriteJSON(v)
}

type round struct {
	payloads [][]byte
	count    int
}

// Hub collects one payload per rank for every round and sends the complete
// round back to all ranks
type Hub struct {
	size  int
	jobID string
	log   *zap.Logger

	upgrader websocket.Upgrader
	listener net.Listener
	server   *http.Server

	mu      sync.Mutex
	conns   map[int]*peer
	workers []Worker
	rounds  map[uint64]*round
	joined  int
	left    int
	done    chan struct{}
}

// NewHub creates a hub for a job of size ranks. An empty jobID accepts any job.
func NewHub(size int, jobID string, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		size:    size,
		jobID:   jobID,
		log:     log.With(zap.String("job_id", jobID)),
		conns:   make(map[int]*peer),
		workers: make([]Worker, size),
		rounds:  make(map[uint64]*round),
		done:    make(chan struct{}),
	}
}

// Listen creates a hub and serves it on addr
func Listen(addr string, size int, jobID string, log *zap.Logger) (*Hub, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen on %s", addr)
	}
	h := NewHub(size, jobID, log)
	h.Serve(l)
	return h, nil
}

// Serve serves the hub on l in the background
func (h *Hub) Serve(l net.Listener) {
	mux := http.NewServeMux()
	mux.Handle(gatherPath, h)
	h.listener = l
	h.server = &http.Server{Handler: mux}
	go func() {
		if err := h.server.Serve(l); err != nil && err != http.ErrServerClosed {
			h.log.Error("hub stopped", zap.Error(err))
		}
	}()
	h.log.Info("hub listening", zap.String("addr", l.Addr().String()), zap.Int("size", h.size))
}

// Addr returns the address the hub listens on
func (h *Hub) Addr() string {
	if h.listener == nil {
		return ""
	}
	return h.listener.Addr().String()
}

// Done is closed once every rank joined and left again
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Close stops serving
func (h *Hub) Close() error {
	if h.server == nil {
		return nil
	}
	return h.server.Close()
}

// Shutdown waits for every rank to leave, then stops serving
func (h *Hub) Shutdown(ctx context.Context) error {
	select {
	case <-h.done:
	case <-ctx.Done():
	}
	if h.server == nil {
		return nil
	}
	return h.server.Shutdown(ctx)
}

// ServeHTTP upgrades one rank and relays its gather requests
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rank, err := strconv.Atoi(r.URL.Query().Get("rank"))
	if err != nil || rank < 0 || rank >= h.size {
		http.Error(w, "bad rank", http.StatusBadRequest)
		return
	}
	if job := r.URL.Query().Get("job"); h.jobID != "" && job != "" && job != h.jobID {
		http.Error(w, "wrong job", http.StatusConflict)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade failed", zap.Int("rank", rank), zap.Error(err))
		return
	}
	if err := h.join(rank, conn, r.URL.Query().Get("host")); err != nil {
		conn.WriteJSON(response{Error: err.Error()})
		conn.Close()
		return
	}
	defer h.leave(rank)

	for {
		var req request
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				h.log.Warn("rank disconnected", zap.Int("rank", rank), zap.Error(err))
				h.abort(rank)
			}
			return
		}
		if err := h.put(rank, req); err != nil {
			h.log.Error("gather failed", zap.Int("rank", rank), zap.Error(err))
			return
		}
	}
}

func (h *Hub) join(rank int, conn *websocket.Conn, host string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, dup := h.conns[rank]; dup {
		return errors.Errorf("rank %d already joined", rank)
	}
	h.conns[rank] = &peer{conn: conn}
	h.workers[rank] = Worker{GlobalRank: rank, Hostname: host}
	h.joined++
	h.log.Debug("rank joined", zap.Int("rank", rank), zap.Int("joined", h.joined))
	return nil
}

func (h *Hub) leave(rank int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if p, ok := h.conns[rank]; ok {
		p.conn.Close()
		delete(h.conns, rank)
		h.left++
	}
	if h.left == h.size {
		close(h.done)
	}
}

// peers copies the connected ranks except skip, to write to them unlocked
func (h *Hub) peers(skip int) (out []*peer) {
	for r, p := range h.conns {
		if r != skip {
			out = append(out, p)
		}
	}
	return
}

// abort fails every pending round of the ranks still connected
func (h *Hub) abort(rank int) {
	h.mu.Lock()
	h.rounds = make(map[uint64]*round)
	peers := h.peers(rank)
	h.mu.Unlock()

	resp := response{Error: "rank " + strconv.Itoa(rank) + " left the job"}
	for _, p := range peers {
		p.send(resp)
	}
}

// put stores the payload of rank and completes the round when it is the last one
func (h *Hub) put(rank int, req request) error {
	h.mu.Lock()
	r := h.rounds[req.Seq]
	if r == nil {
		r = &round{payloads: make([][]byte, h.size)}
		h.rounds[req.Seq] = r
	}
	if r.payloads[rank] != nil {
		h.mu.Unlock()
		return errors.Errorf("rank %d sent round %d twice", rank, req.Seq)
	}
	if req.Payload == nil {
		req.Payload = []byte{}
	}
	r.payloads[rank] = req.Payload
	r.count++
	if r.count < h.size {
		h.mu.Unlock()
		return nil
	}
	delete(h.rounds, req.Seq)
	resp := response{Seq: req.Seq, Payloads: r.payloads, Workers: append([]Worker(nil), h.workers...)}
	peers := h.peers(-1)
	h.mu.Unlock()

	var g errgroup.Group
	for _, p := range peers {
		p := p
		g.Go(func() error {
			return p.send(resp)
		})
	}
	return g.Wait()
}
