package holdings

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestRegistry_CreateAndGet(t *testing.T) {
	r := NewRegistry(time.Hour, quietLogger())

	id, st := r.Create()
	st.Add("AAPL", dec("1"), dec("1"))

	got, err := r.Get(id)
	require.NoError(t, err)
	assert.Same(t, st, got)
	assert.Equal(t, 1, got.Len())
}

func TestRegistry_SessionsAreIsolated(t *testing.T) {
	r := NewRegistry(time.Hour, quietLogger())
	_, a := r.Create()
	_, b := r.Create()

	a.Add("AAPL", dec("1"), dec("1"))

	assert.Equal(t, 1, a.Len())
	assert.True(t, b.Empty())
}

func TestRegistry_UnknownSession(t *testing.T) {
	r := NewRegistry(time.Hour, quietLogger())

	_, err := r.Get("not-a-uuid")
	assert.ErrorIs(t, err, ErrUnknownSession)
	_, err = r.Get("6b1c6f1e-3f43-4a63-9b37-6c1c0e0f7c11")
	assert.ErrorIs(t, err, ErrUnknownSession)
}

func TestRegistry_Sweep(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(time.Hour, quietLogger())
	r.now = func() time.Time { return now }

	stale, _ := r.Create()
	now = now.Add(45 * time.Minute)
	fresh, _ := r.Create()
	now = now.Add(30 * time.Minute)

	assert.Equal(t, 1, r.Sweep())
	_, err := r.Get(stale)
	assert.ErrorIs(t, err, ErrUnknownSession)
	_, err = r.Get(fresh)
	assert.NoError(t, err)
	assert.Equal(t, 1, r.Len())
}
