package persist

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/verte-zerg/tuifit/internal/kv"
	"github.com/verte-zerg/tuifit/internal/kv/kvmock"
	"github.com/verte-zerg/tuifit/internal/metrics"
)

// TestMain will run goleak after all tests have been run in the package
// to detect any goroutine leaks.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// gatedBackend blocks every Set until the gate is opened and counts writes per key.
type gatedBackend struct {
	*kv.Memory
	gate    chan struct{}
	entered chan struct{}

	mu     sync.Mutex
	writes map[string]int
}

func newGatedBackend() *gatedBackend {
	return &gatedBackend{
		Memory:  kv.NewMemory(0),
		gate:    make(chan struct{}),
		entered: make(chan struct{}, 16),
		writes:  map[string]int{},
	}
}

func (g *gatedBackend) Set(ctx context.Context, key string, value []byte) error {
	g.entered <- struct{}{}
	<-g.gate
	g.mu.Lock()
	g.writes[key]++
	g.mu.Unlock()
	return g.Memory.Set(ctx, key, value)
}

func (g *gatedBackend) count(key string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.writes[key]
}

func TestFlushObservesLatestValue(t *testing.T) {
	backend := kv.NewMemory(0)
	p := New(backend)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		p.ScheduleJSON(kv.KeyWorkoutLogs, []int{i})
	}
	require.NoError(t, p.Flush(ctx))

	var got []int
	require.True(t, p.Load(ctx, kv.KeyWorkoutLogs, &got))
	assert.Equal(t, []int{9}, got)

	require.NoError(t, p.Close(ctx))
}

func TestScheduleCoalescesWhileWriting(t *testing.T) {
	backend := newGatedBackend()
	p := New(backend)
	ctx := context.Background()

	p.Schedule(kv.KeyCustomRoutines, []byte(`"first"`))
	<-backend.entered

	// The worker is stuck writing "first"; these collapse into one write.
	p.Schedule(kv.KeyCustomRoutines, []byte(`"second"`))
	p.Schedule(kv.KeyCustomRoutines, []byte(`"third"`))

	close(backend.gate)
	require.NoError(t, p.Flush(ctx))

	assert.Equal(t, 2, backend.count(kv.KeyCustomRoutines))
	value, ok, err := backend.Get(ctx, kv.KeyCustomRoutines)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `"third"`, string(value))

	require.NoError(t, p.Close(ctx))
}

func TestFlushHonoursContext(t *testing.T) {
	backend := newGatedBackend()
	p := New(backend)

	p.Schedule(kv.KeyWorkoutLogs, []byte(`[]`))
	<-backend.entered

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, p.Flush(ctx), context.DeadlineExceeded)

	close(backend.gate)
	require.NoError(t, p.Close(context.Background()))
}

func TestWriteFailureIsLoggedAndSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := kvmock.NewMockBackend(ctrl)
	backend.EXPECT().
		Set(gomock.Any(), kv.KeyCustomExercises, []byte(`[]`)).
		Return(errors.New("disk full"))

	logger, hook := logtest.NewNullLogger()
	m := metrics.NewManager()
	p := New(backend, WithLogger(logger), WithMetrics(m))
	ctx := context.Background()

	p.Schedule(kv.KeyCustomExercises, []byte(`[]`))
	require.NoError(t, p.Flush(ctx))
	require.NoError(t, p.Close(ctx))

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "disk full")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterWriteFailures.WithLabelValues(kv.KeyCustomExercises)))
}

func TestLoadFallsBackOnReadAndDecodeErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := kvmock.NewMockBackend(ctrl)
	backend.EXPECT().Get(gomock.Any(), kv.KeyWorkoutLogs).Return(nil, false, errors.New("io error"))
	backend.EXPECT().Get(gomock.Any(), kv.KeyCustomRoutines).Return([]byte(`{not json`), true, nil)
	backend.EXPECT().Get(gomock.Any(), kv.KeyCustomExercises).Return(nil, false, nil)

	logger, hook := logtest.NewNullLogger()
	p := New(backend, WithLogger(logger))
	ctx := context.Background()
	t.Cleanup(func() {
		_ = p.Close(ctx)
	})

	var dst []string
	assert.False(t, p.Load(ctx, kv.KeyWorkoutLogs, &dst))
	assert.False(t, p.Load(ctx, kv.KeyCustomRoutines, &dst))
	assert.False(t, p.Load(ctx, kv.KeyCustomExercises, &dst))
	assert.Len(t, hook.AllEntries(), 2)
}

func TestScheduleAfterCloseIsDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := kvmock.NewMockBackend(ctrl)
	logger, hook := logtest.NewNullLogger()
	p := New(backend, WithLogger(logger))
	ctx := context.Background()

	require.NoError(t, p.Close(ctx))
	p.Schedule(kv.KeyWorkoutLogs, []byte(`[]`))
	require.NoError(t, p.Flush(ctx))
	require.NotNil(t, hook.LastEntry())
	assert.Contains(t, hook.LastEntry().Message, "after close")
}
