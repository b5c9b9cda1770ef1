package wire

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// EncodeFrame encodes a Frame to CBOR bytes, using a plain string-keyed
// map so the wire layout stays legible to any external consumer rather
// than tied to Go's struct tag encoding.
func EncodeFrame(f Frame) ([]byte, error) {
	m := map[string]interface{}{
		"version":    f.Version,
		"frame_type": uint8(f.FrameType),
	}

	switch f.FrameType {
	case FrameTypeSnapshot:
		m["region"] = f.Region
		m["shape"] = f.Shape
		m["elem"] = f.Elem
		m["data"] = f.Data
	case FrameTypeErr:
		m["code"] = f.Code
		m["message"] = f.Message
	case FrameTypeHeartbeat:
		// no additional fields
	default:
		return nil, fmt.Errorf("wire: unknown frame type %d", f.FrameType)
	}

	return cbor.Marshal(m)
}

// DecodeFrame decodes CBOR bytes produced by EncodeFrame back into a
// Frame.
func DecodeFrame(data []byte) (Frame, error) {
	var m map[string]interface{}
	if err := cbor.Unmarshal(data, &m); err != nil {
		return Frame{}, fmt.Errorf("wire: decode frame: %w", err)
	}

	ftRaw, ok := m["frame_type"]
	if !ok {
		return Frame{}, errors.New("wire: frame missing frame_type")
	}
	ft, err := asUint8(ftRaw)
	if err != nil {
		return Frame{}, fmt.Errorf("wire: frame_type: %w", err)
	}

	f := Frame{FrameType: FrameType(ft)}
	if v, ok := m["version"]; ok {
		if ver, err := asUint8(v); err == nil {
			f.Version = ver
		}
	}

	switch f.FrameType {
	case FrameTypeSnapshot:
		f.Region, _ = m["region"].(string)
		f.Elem, _ = m["elem"].(string)
		if data, ok := m["data"].([]byte); ok {
			f.Data = data
		}
		if shape, ok := m["shape"].([]interface{}); ok {
			f.Shape = make([]int, len(shape))
			for i, d := range shape {
				n, err := asInt(d)
				if err != nil {
					return Frame{}, fmt.Errorf("wire: shape[%d]: %w", i, err)
				}
				f.Shape[i] = n
			}
		}
	case FrameTypeErr:
		f.Code, _ = m["code"].(string)
		f.Message, _ = m["message"].(string)
	case FrameTypeHeartbeat:
		// no additional fields
	default:
		return Frame{}, fmt.Errorf("wire: unknown frame type %d", ft)
	}

	return f, nil
}

func asUint8(v interface{}) (uint8, error) {
	n, err := asInt(v)
	if err != nil {
		return 0, err
	}
	return uint8(n), nil
}

func asInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case uint8:
		return int(n), nil
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}
