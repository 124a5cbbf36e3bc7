package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"pantrify/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerReturnsValue(t *testing.T) {
	r := NewRunner[string]("test", time.Second)
	v, err := r.Do(context.Background(), "k", func(ctx context.Context) (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)

	st := r.Status()
	assert.Equal(t, 0, st.Running)
	assert.Equal(t, int64(1), st.Submitted)
	assert.Equal(t, int64(1), st.Completed)
}

func TestRunnerPropagatesError(t *testing.T) {
	r := NewRunner[int]("test", time.Second)
	boom := errors.New("boom")
	_, err := r.Do(context.Background(), "k", func(ctx context.Context) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestRunnerSupersedesSameKey(t *testing.T) {
	r := NewRunner[string]("search", time.Second)
	started := make(chan struct{})

	first := r.Submit(context.Background(), "user-1", func(ctx context.Context) (string, error) {
		close(started)
		<-ctx.Done()
		return "stale", ctx.Err()
	})
	<-started

	second, err := r.Do(context.Background(), "user-1", func(ctx context.Context) (string, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", second)

	res := <-first
	assert.ErrorIs(t, res.Error, ErrSuperseded)
	assert.ErrorIs(t, res.Error, common.ErrSuperseded)
	assert.Empty(t, res.Value)
	assert.Equal(t, int64(1), r.Status().Superseded)
}

func TestRunnerDropsStaleResultEvenWhenIgnoringCancel(t *testing.T) {
	r := NewRunner[string]("search", time.Second)
	release := make(chan struct{})
	started := make(chan struct{})

	first := r.Submit(context.Background(), "k", func(ctx context.Context) (string, error) {
		close(started)
		<-release
		return "stale", nil
	})
	<-started
	second := r.Submit(context.Background(), "k", func(ctx context.Context) (string, error) {
		<-release
		return "fresh", nil
	})
	close(release)

	assert.ErrorIs(t, (<-first).Error, ErrSuperseded)
	res := <-second
	require.NoError(t, res.Error)
	assert.Equal(t, "fresh", res.Value)
}

func TestRunnerKeysAreIndependent(t *testing.T) {
	r := NewRunner[string]("classify", time.Second)
	release := make(chan struct{})

	a := r.Submit(context.Background(), "a", func(ctx context.Context) (string, error) {
		<-release
		return "a", nil
	})
	b := r.Submit(context.Background(), "b", func(ctx context.Context) (string, error) {
		<-release
		return "b", nil
	})
	close(release)

	ra, rb := <-a, <-b
	require.NoError(t, ra.Error)
	require.NoError(t, rb.Error)
	assert.Equal(t, "a", ra.Value)
	assert.Equal(t, "b", rb.Value)
}

func TestRunnerTimeout(t *testing.T) {
	r := NewRunner[string]("slow", 10*time.Millisecond)
	_, err := r.Do(context.Background(), "k", func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	assert.ErrorIs(t, err, common.ErrGatewayTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
