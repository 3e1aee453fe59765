package protocol

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

var bufferPool = sync.Pool{
	New: func() any {
		return &bytes.Buffer{}
	},
}

// Marshal serializes a message to msgpack.
func Marshal(v any) ([]byte, error) {
	switch v.(type) {
	case *Connect, *GetState, *PlayerAction, *Connected, *State, *Error:
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownMessageType, v)
	}

	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufferPool.Put(buf)

	enc := msgpack.NewEncoder(buf)
	enc.UseCompactInts(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	// the pooled buffer is reused, so hand back a copy
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// Unmarshal deserializes msgpack data into a message.
func Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return ErrEmptyMessage
	}
	switch v.(type) {
	case *Envelope, *Connect, *GetState, *PlayerAction, *Connected, *State, *Error:
	default:
		return fmt.Errorf("%w: %T", ErrUnknownMessageType, v)
	}
	return msgpack.NewDecoder(bytes.NewReader(data)).Decode(v)
}

// PeekType returns the type field of an encoded message.
func PeekType(data []byte) (string, error) {
	var env Envelope
	if err := Unmarshal(data, &env); err != nil {
		return "", err
	}
	if env.Type == "" {
		return "", ErrUnknownMessageType
	}
	return env.Type, nil
}

// Decode reads a frame into the client message it carries.
func Decode(data []byte) (any, error) {
	typ, err := PeekType(data)
	if err != nil {
		return nil, err
	}
	var msg any
	switch typ {
	case TypeConnect:
		msg = &Connect{}
	case TypeGetState:
		msg = &GetState{}
	case TypePlayerAction:
		msg = &PlayerAction{}
	case TypeConnected:
		msg = &Connected{}
	case TypeState:
		msg = &State{}
	case TypeError:
		msg = &Error{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, typ)
	}
	if err := Unmarshal(data, msg); err != nil {
		return nil, err
	}
	return msg, nil
}
