package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotFrameRoundTrip(t *testing.T) {
	f := NewSnapshot("Alpha_ticker", []int{2, 3}, "f64", []byte{1, 2, 3, 4, 5, 6, 7, 8})

	buf, err := EncodeFrame(f)
	require.NoError(t, err)

	got, err := DecodeFrame(buf)
	require.NoError(t, err)
	assert.Equal(t, f, got)
}

func TestErrFrameRoundTrip(t *testing.T) {
	f := NewErr("attach_failed", `attach region "X": not found`)

	buf, err := EncodeFrame(f)
	require.NoError(t, err)

	got, err := DecodeFrame(buf)
	require.NoError(t, err)
	assert.True(t, got.IsErr())
	assert.Equal(t, "attach_failed", got.Code)
	assert.Equal(t, f.Message, got.Message)
}

func TestHeartbeatFrameRoundTrip(t *testing.T) {
	buf, err := EncodeFrame(NewHeartbeat())
	require.NoError(t, err)

	got, err := DecodeFrame(buf)
	require.NoError(t, err)
	assert.Equal(t, FrameTypeHeartbeat, got.FrameType)
}

func TestFrameReaderWriterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	fw := NewFrameWriter(&buf)

	require.NoError(t, fw.WriteFrame(NewSnapshot("Alpha_ticker", []int{4}, "f32", []byte{0, 1, 2, 3})))
	require.NoError(t, fw.WriteFrame(NewHeartbeat()))

	fr := NewFrameReader(&buf)

	f1, err := fr.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, FrameTypeSnapshot, f1.FrameType)
	assert.Equal(t, "Alpha_ticker", f1.Region)

	f2, err := fr.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, FrameTypeHeartbeat, f2.FrameType)
}

func TestFrameReaderRejectsOversizedFrame(t *testing.T) {
	var buf bytes.Buffer
	fw := NewFrameWriter(&buf)
	require.NoError(t, fw.WriteFrame(NewSnapshot("Big", []int{1024}, "f64", make([]byte, 8192))))

	fr := NewFrameReader(&buf)
	fr.SetMaxFrame(16)
	_, err := fr.ReadFrame()
	assert.Error(t, err)
}

func TestFrameTypeString(t *testing.T) {
	assert.Equal(t, "SNAPSHOT", FrameTypeSnapshot.String())
	assert.Equal(t, "ERR", FrameTypeErr.String())
	assert.Equal(t, "HEARTBEAT", FrameTypeHeartbeat.String())
	assert.Contains(t, FrameType(99).String(), "UNKNOWN")
}
