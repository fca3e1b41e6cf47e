package sway

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Magic prefixes every i3-ipc frame.
var Magic = [6]byte{'i', '3', '-', 'i', 'p', 'c'}

// headerLen is magic + u32 payload length + u32 packet type.
const headerLen = len(Magic) + 4 + 4

var (
	// ErrMagicIncorrect is returned when a frame does not start with
	// the i3-ipc magic. The decode buffer is cleared.
	ErrMagicIncorrect = errors.New("magic incorrect")
	// ErrPayloadLenIncorrect is returned when the payload length is
	// negative as a signed 32-bit value. The decode buffer is cleared.
	ErrPayloadLenIncorrect = errors.New("invalid payload len")
	// ErrInvalidPacketType is returned when a packet type cannot be
	// classified as a known command or event.
	ErrInvalidPacketType = errors.New("invalid packet type")
)

// Frame is one atomic message on the IPC wire.
type Frame struct {
	PacketType uint32
	Payload    []byte
}

// The integer fields of a frame are in the byte order of the compositor,
// which shares the host's architecture, so the codec speaks host byte
// order on both ends.

// DecodeFrame consumes a single frame from the front of buf. It returns
// (nil, nil) when buf does not yet hold a complete frame; in that case no
// bytes are consumed, so the call can be repeated after more bytes arrive,
// regardless of how the reads were interleaved or abandoned.
func DecodeFrame(buf *bytes.Buffer) (*Frame, error) {
	src := buf.Bytes()
	if len(src) < headerLen {
		return nil, nil
	}

	if !bytes.Equal(src[:len(Magic)], Magic[:]) {
		buf.Reset()
		return nil, ErrMagicIncorrect
	}

	payloadLen := int32(binary.NativeEndian.Uint32(src[len(Magic):]))
	if payloadLen < 0 {
		buf.Reset()
		return nil, ErrPayloadLenIncorrect
	}

	packetType := binary.NativeEndian.Uint32(src[len(Magic)+4:])

	if len(src)-headerLen < int(payloadLen) {
		return nil, nil
	}

	buf.Next(headerLen)
	payload := make([]byte, payloadLen)
	copy(payload, buf.Next(int(payloadLen)))

	return &Frame{PacketType: packetType, Payload: payload}, nil
}

// EncodeFrame appends the wire encoding of f to buf.
func EncodeFrame(buf *bytes.Buffer, f *Frame) {
	buf.Grow(headerLen + len(f.Payload))
	buf.Write(Magic[:])

	var field [4]byte
	binary.NativeEndian.PutUint32(field[:], uint32(len(f.Payload)))
	buf.Write(field[:])
	binary.NativeEndian.PutUint32(field[:], f.PacketType)
	buf.Write(field[:])

	buf.Write(f.Payload)
}

// frameScanner turns a byte stream into a frame stream.
type frameScanner struct {
	r   io.Reader
	buf bytes.Buffer
}

func newFrameScanner(r io.Reader) *frameScanner {
	return &frameScanner{r: r}
}

// next blocks until a whole frame is available. It returns io.EOF on a
// clean stream end between frames and io.ErrUnexpectedEOF when the stream
// ends mid-frame.
func (s *frameScanner) next() (*Frame, error) {
	var chunk [4096]byte
	for {
		frame, err := DecodeFrame(&s.buf)
		if err != nil {
			return nil, err
		}
		if frame != nil {
			return frame, nil
		}

		n, err := s.r.Read(chunk[:])
		if n > 0 {
			s.buf.Write(chunk[:n])
			continue
		}
		if err == nil {
			continue
		}
		if err == io.EOF && s.buf.Len() > 0 {
			return nil, fmt.Errorf("%d bytes remaining on stream: %w",
				s.buf.Len(), io.ErrUnexpectedEOF)
		}
		return nil, err
	}
}
