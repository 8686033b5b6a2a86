package schedules

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingExpirer struct {
	calls  atomic.Int32
	result int
	err    error
}

func (e *countingExpirer) ExpireStaleInvitations() (int, error) {
	e.calls.Add(1)
	return e.result, e.err
}

func TestInvitationExpiryPool_Sweep(t *testing.T) {
	expirer := &countingExpirer{result: 3}
	pool := CreateInvitationExpiryPool(expirer, "@hourly")

	assert.Equal(t, 3, pool.Sweep())
	assert.Equal(t, int32(1), expirer.calls.Load())
}

func TestInvitationExpiryPool_SweepError(t *testing.T) {
	expirer := &countingExpirer{result: 3, err: errors.New("db is down")}
	pool := CreateInvitationExpiryPool(expirer, "@hourly")

	assert.Zero(t, pool.Sweep())
}

func TestInvitationExpiryPool_StartStop(t *testing.T) {
	expirer := &countingExpirer{}
	pool := CreateInvitationExpiryPool(expirer, "@every 1s")

	require.NoError(t, pool.Start())
	assert.True(t, pool.IsRunning())

	assert.Eventually(t, func() bool {
		return expirer.calls.Load() > 0
	}, 5*time.Second, 20*time.Millisecond)

	pool.Stop()
	assert.False(t, pool.IsRunning())
	pool.Stop()
}

func TestInvitationExpiryPool_DisabledSchedule(t *testing.T) {
	pool := CreateInvitationExpiryPool(&countingExpirer{}, "")

	require.NoError(t, pool.Start())
	assert.False(t, pool.IsRunning())
}

func TestInvitationExpiryPool_InvalidSchedule(t *testing.T) {
	pool := CreateInvitationExpiryPool(&countingExpirer{}, "every tuesday")

	assert.Error(t, pool.Start())
	assert.False(t, pool.IsRunning())
}
