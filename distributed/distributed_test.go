package distributed

import "context"
import "fmt"
import "net"
import "testing"
import "time"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"
import "golang.org/x/sync/errgroup"

func startHub(t *testing.T, size int, job string) *Hub {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	h := NewHub(size, job, nil)
	h.Serve(l)
	t.Cleanup(func() { h.Close() })
	return h
}

func TestLocal(t *testing.T) {
	ctx := context.Background()
	l := NewLocal()
	assert.Equal(t, 0, l.CurrentWorker().GlobalRank)
	assert.Len(t, l.Workers(), 1)

	all, err := l.AllGather(ctx, []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("x")}, all)

	sum, err := l.AllReduce(ctx, []float64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, sum)

	b, err := l.Broadcast(ctx, 0, []byte("root"))
	require.NoError(t, err)
	assert.Equal(t, []byte("root"), b)
	_, err = l.Broadcast(ctx, 1, nil)
	assert.Error(t, err)

	require.NoError(t, l.Barrier(ctx))
	require.NoError(t, l.Finalize(ctx))
	_, err = l.AllGather(ctx, nil)
	assert.ErrorIs(t, err, ErrFinalized)
}

func TestHubCollectives(t *testing.T) {
	const size = 3
	h := startHub(t, size, "job")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var g errgroup.Group
	for rank := 0; rank < size; rank++ {
		rank := rank
		g.Go(func() error {
			c, err := Dial(ctx, Config{Rank: rank, Size: size, Coordinator: h.Addr(), JobID: "job"})
			if err != nil {
				return err
			}
			if len(c.Workers()) != size || c.Workers()[rank] != c.CurrentWorker() {
				return fmt.Errorf("rank %d knows workers %v before the first round", rank, c.Workers())
			}
			all, err := c.AllGather(ctx, []byte(fmt.Sprint(rank)))
			if err != nil {
				return err
			}
			for r := range all {
				if string(all[r]) != fmt.Sprint(r) {
					return fmt.Errorf("rank %d got %q from %d", rank, all[r], r)
				}
			}
			if len(c.Workers()) != size {
				return fmt.Errorf("rank %d sees %d workers", rank, len(c.Workers()))
			}
			sum, err := c.AllReduce(ctx, []float64{1, float64(rank)})
			if err != nil {
				return err
			}
			if sum[0] != size || sum[1] != 3 {
				return fmt.Errorf("rank %d reduced %v", rank, sum)
			}
			var payload []byte
			if rank == 1 {
				payload = []byte("model")
			}
			b, err := c.Broadcast(ctx, 1, payload)
			if err != nil {
				return err
			}
			if string(b) != "model" {
				return fmt.Errorf("rank %d got broadcast %q", rank, b)
			}
			return c.Finalize(ctx)
		})
	}
	require.NoError(t, g.Wait())
	select {
	case <-h.Done():
	case <-ctx.Done():
		t.Fatal("hub did not see every rank leave")
	}
}

func TestNewHostsHub(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	var g errgroup.Group
	for rank := 0; rank < 2; rank++ {
		rank := rank
		g.Go(func() error {
			c, err := New(ctx, Config{Rank: rank, Size: 2, Coordinator: addr})
			if err != nil {
				return err
			}
			if err := c.Barrier(ctx); err != nil {
				return err
			}
			return c.Finalize(ctx)
		})
	}
	require.NoError(t, g.Wait())
}

func TestHubManyRounds(t *testing.T) {
	const size, rounds = 3, 50
	h := startHub(t, size, "job")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	var g errgroup.Group
	for rank := 0; rank < size; rank++ {
		rank := rank
		g.Go(func() error {
			c, err := Dial(ctx, Config{Rank: rank, Size: size, Coordinator: h.Addr(), JobID: "job"})
			if err != nil {
				return err
			}
			for i := 0; i < rounds; i++ {
				all, err := c.AllGather(ctx, []byte(fmt.Sprint(i)))
				if err != nil {
					return err
				}
				for r := range all {
					if string(all[r]) != fmt.Sprint(i) {
						return fmt.Errorf("rank %d round %d got %q from %d", rank, i, all[r], r)
					}
				}
			}
			return c.Finalize(ctx)
		})
	}
	require.NoError(t, g.Wait())
}

func TestDialRefusedFailsFast(t *testing.T) {
	h := startHub(t, 2, "job")
	for _, cfg := range []Config{
		{Rank: 0, Size: 2, JobID: "other"},
		{Rank: 5, Size: 2, JobID: "job"},
	} {
		cfg.Coordinator = h.Addr()
		cfg.DialTimeout = 30 * time.Second
		start := time.Now()
		_, err := Dial(context.Background(), cfg)
		assert.Error(t, err)
		assert.Less(t, time.Since(start), 5*time.Second, "rank %d job %s", cfg.Rank, cfg.JobID)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("E2E_RANK", "")
	t.Setenv("E2E_WORLD_SIZE", "")
	t.Setenv("OMPI_COMM_WORLD_RANK", "2")
	t.Setenv("OMPI_COMM_WORLD_SIZE", "4")
	t.Setenv("E2E_COORDINATOR", "")
	cfg, err := ConfigFromEnv(Config{})
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Rank)
	assert.Equal(t, 4, cfg.Size)
	assert.Equal(t, DefaultCoordinator, cfg.Coordinator)

	cfg, err = ConfigFromEnv(Config{Rank: 1, Size: 2, Coordinator: "x:1"})
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Rank)
	assert.Equal(t, "x:1", cfg.Coordinator)

	_, err = ConfigFromEnv(Config{Rank: 3, Size: 2})
	assert.Error(t, err)

	t.Setenv("E2E_WORLD_SIZE", "two")
	_, err = ConfigFromEnv(Config{})
	assert.Error(t, err)
}

func TestNewLocalForSingleWorker(t *testing.T) {
	c, err := New(context.Background(), Config{Size: 1})
	require.NoError(t, err)
	_, ok := c.(*Local)
	assert.True(t, ok)
	_, err = New(context.Background(), Config{Size: 0})
	assert.Error(t, err)
}
