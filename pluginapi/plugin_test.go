package pluginapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreframe/trnx/port"
	"github.com/coreframe/trnx/region"
)

type fakePlugin struct {
	Base
}

func newFakePlugin() *fakePlugin {
	p := &fakePlugin{}
	d, _ := port.New([]int{2}, port.F64)
	p.Init("Fake", map[string]port.Descriptor{"in": d}, map[string]port.Descriptor{"out": d})
	return p
}

func (p *fakePlugin) DeclareInputs() map[string]port.Descriptor  { return p.inputs }
func (p *fakePlugin) DeclareOutputs() map[string]port.Descriptor { return p.outputs }
func (p *fakePlugin) Process() error                             { return nil }

func TestBindUnknownPort(t *testing.T) {
	p := newFakePlugin()
	d, _ := port.New([]int{2}, port.F64)
	r, err := region.Create("fake_bind_test", d)
	require.NoError(t, err)
	defer r.Unlink()

	err = p.BindInput("nope", r)
	require.Error(t, err)
	var up *UnknownPort
	assert.ErrorAs(t, err, &up)
	assert.ErrorIs(t, err, errUnknownPort)
}

func TestVerifyUnboundInput(t *testing.T) {
	p := newFakePlugin()
	err := p.Verify()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnboundInput)
}

func TestVerifySucceedsOnceBound(t *testing.T) {
	p := newFakePlugin()
	d, _ := port.New([]int{2}, port.F64)
	r, err := region.Create("fake_verify_test", d)
	require.NoError(t, err)
	defer r.Unlink()

	require.NoError(t, p.BindInput("in", r))
	assert.NoError(t, p.Verify())
}

func TestOutputUnboundIsLegal(t *testing.T) {
	p := newFakePlugin()
	assert.Nil(t, p.Output("out"))
}
