package runner

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreframe/trnx/pluginapi"
	"github.com/coreframe/trnx/port"
)

type goodPlugin struct {
	pluginapi.Base
	calls atomic.Int64
}

func (p *goodPlugin) DeclareInputs() map[string]port.Descriptor  { return nil }
func (p *goodPlugin) DeclareOutputs() map[string]port.Descriptor { return nil }
func (p *goodPlugin) Process() error {
	p.calls.Add(1)
	return nil
}

type failingPlugin struct {
	pluginapi.Base
	calls atomic.Int64
}

func (p *failingPlugin) DeclareInputs() map[string]port.Descriptor  { return nil }
func (p *failingPlugin) DeclareOutputs() map[string]port.Descriptor { return nil }
func (p *failingPlugin) Process() error {
	p.calls.Add(1)
	return errors.New("always fails")
}

func TestRunnerTicksEveryPluginAndIsolatesFailures(t *testing.T) {
	good := &goodPlugin{}
	bad := &failingPlugin{}

	order := []string{"Good", "Bad"}
	lookup := map[string]pluginapi.Plugin{"Good": good, "Bad": bad}

	r := New(order, func(c string) pluginapi.Plugin { return lookup[c] }, nil, NewMetrics(nil), 0)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()
	r.Run(ctx)

	goodCalls, badCalls := good.calls.Load(), bad.calls.Load()
	require.Greater(t, goodCalls, int64(0))
	require.Greater(t, badCalls, int64(0))
	// Cancellation is observed after every plugin, so the last sweep may
	// stop after Good and before Bad; otherwise both run once per tick.
	assert.Contains(t, []int64{0, 1}, goodCalls-badCalls, "every tick sweeps both plugins regardless of prior failures")
}

func TestRunnerStopsAfterCurrentPlugin(t *testing.T) {
	good := &goodPlugin{}
	order := []string{"Good"}
	lookup := map[string]pluginapi.Plugin{"Good": good}

	r := New(order, func(c string) pluginapi.Plugin { return lookup[c] }, nil, NewMetrics(nil), 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r.Run(ctx)

	assert.Equal(t, int64(1), good.calls.Load())
}
