package startup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStartup(attempts int) *Startup {
	s := New(ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}), attempts)
	s.unit = time.Millisecond
	return s
}

func TestStartOrder(t *testing.T) {
	var events []string
	record := func(name string) Func {
		return Func{
			Name:    name,
			OnStart: func(context.Context) error { events = append(events, "start "+name); return nil },
			OnStop:  func(context.Context) error { events = append(events, "stop "+name); return nil },
		}
	}

	s := newTestStartup(1)
	api := record("api")
	api.Requires = []string{"db", "redis"}
	s.Add(api)
	s.Add(record("db"))
	s.Add(record("redis"))

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Stop(context.Background()))

	assert.Equal(t, []string{
		"start db", "start redis", "start api",
		"stop api", "stop redis", "stop db",
	}, events)
}

func TestStartRetries(t *testing.T) {
	attempts := 0
	s := newTestStartup(3)
	s.Add(Func{Name: "flaky", OnStart: func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("not yet")
		}
		return nil
	}})

	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, 3, attempts)
}

func TestStartFailures(t *testing.T) {
	t.Run("GivesUp", func(t *testing.T) {
		s := newTestStartup(2)
		s.Add(Func{Name: "down", OnStart: func(context.Context) error { return errors.New("refused") }})

		err := s.Start(context.Background())
		assert.ErrorContains(t, err, "startup failed after 2 attempts")
		assert.ErrorContains(t, err, "refused")
	})

	t.Run("UnknownDependency", func(t *testing.T) {
		s := newTestStartup(1)
		s.Add(Func{Name: "api", Requires: []string{"ghost"}})
		assert.ErrorContains(t, s.Start(context.Background()), `unknown startup dependency "ghost"`)
	})

	t.Run("Cycle", func(t *testing.T) {
		s := newTestStartup(1)
		s.Add(Func{Name: "a", Requires: []string{"b"}})
		s.Add(Func{Name: "b", Requires: []string{"a"}})
		assert.ErrorContains(t, s.Start(context.Background()), "cycle")
	})
}
