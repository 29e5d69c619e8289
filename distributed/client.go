package distributed

import "context"
import "net/http"
import "net/url"
import "strconv"
import "time"

import "github.com/gorilla/websocket"
import "github.com/pkg/errors"
import "go.uber.org/zap"

// Client is the communicator of one rank of a multi process job
type Client struct {
	collectives
	conn      *websocket.Conn
	worker    Worker
	workers   []Worker
	size      int
	seq       uint64
	hub       *Hub
	log       *zap.Logger
	finalized bool
}

// Dial connects rank cfg.Rank to the hub at cfg.Coordinator, retrying until
// the hub is up or the dial timeout passes
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 30 * time.Second
	}
	q := url.Values{}
	q.Set("rank", strconv.Itoa(cfg.Rank))
	q.Set("job", cfg.JobID)
	q.Set("host", hostname())
	u := url.URL{Scheme: "ws", Host: cfg.Coordinator, Path: gatherPath, RawQuery: q.Encode()}

	dctx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	var conn *websocket.Conn
	var resp *http.Response
	var err error
	for {
		conn, resp, err = websocket.DefaultDialer.DialContext(dctx, u.String(), nil)
		if err == nil {
			break
		}
		// the hub answered and refused this rank, retrying cannot help
		if resp != nil && (resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusConflict) {
			return nil, errors.Wrapf(err, "dial hub %s: %s", cfg.Coordinator, resp.Status)
		}
		select {
		case <-dctx.Done():
			return nil, errors.Wrapf(err, "dial hub %s", cfg.Coordinator)
		case <-time.After(100 * time.Millisecond):
		}
	}
	c := &Client{
		conn:   conn,
		worker: Worker{GlobalRank: cfg.Rank, Hostname: hostname()},
		size:   cfg.Size,
		log:    cfg.Log.With(zap.Int("rank", cfg.Rank)),
	}
	c.collectives = collectives{c}
	c.log.Debug("connected to hub", zap.String("coordinator", cfg.Coordinator))
	return c, nil
}

// CurrentWorker returns the worker of this process
func (c *Client) CurrentWorker() Worker {
	return c.worker
}

// Workers returns every worker as reported by the hub with the last round.
// Before the first round only the ranks are known.
func (c *Client) Workers() []Worker {
	if c.workers != nil {
		return c.workers
	}
	workers := make([]Worker, max(c.size, c.worker.GlobalRank+1))
	for i := range workers {
		workers[i].GlobalRank = i
	}
	workers[c.worker.GlobalRank] = c.worker
	return workers
}

// AllGather sends payload to the hub and waits for the payloads of all ranks
func (c *Client) AllGather(ctx context.Context, payload []byte) ([][]byte, error) {
	if c.finalized {
		return nil, ErrFinalized
	}
	if deadline, ok := ctx.Deadline(); ok {
		c.conn.SetReadDeadline(deadline)
		c.conn.SetWriteDeadline(deadline)
	} else {
		c.conn.SetReadDeadline(time.Time{})
		c.conn.SetWriteDeadline(time.Time{})
	}
	c.seq++
	if err := c.conn.WriteJSON(request{Seq: c.seq, Rank: c.worker.GlobalRank, Payload: payload}); err != nil {
		return nil, errors.Wrap(err, "all gather")
	}
	var resp response
	if err := c.conn.ReadJSON(&resp); err != nil {
		return nil, errors.Wrap(err, "all gather")
	}
	if resp.Error != "" {
		return nil, errors.Errorf("all gather: hub: %s", resp.Error)
	}
	if resp.Seq != c.seq {
		return nil, errors.Errorf("all gather: got round %d, want %d", resp.Seq, c.seq)
	}
	c.workers = resp.Workers
	return resp.Payloads, nil
}

// Finalize waits for all ranks, disconnects and, on the hub rank, waits for
// the others to disconnect before the hub stops
func (c *Client) Finalize(ctx context.Context) error {
	if c.finalized {
		return ErrFinalized
	}
	err := c.Barrier(ctx)
	c.finalized = true
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	c.conn.Close()
	if c.hub != nil {
		if serr := c.hub.Shutdown(ctx); err == nil {
			err = serr
		}
	}
	return err
}
