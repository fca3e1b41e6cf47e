package sway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/nodech/sway-matiane/internal/json"
	"github.com/nodech/sway-matiane/internal/logging"
)

var (
	// ErrIncorrectResponseType is returned when a frame's type does not
	// match what the handshake or the subscription expects.
	ErrIncorrectResponseType = errors.New("incorrect response type")
	// ErrNotAnEvent is returned when a frame without the event flag
	// arrives on a subscribed stream.
	ErrNotAnEvent = errors.New("not an event")
	// ErrUnsupportedEvent is returned for event types the client does
	// not map.
	ErrUnsupportedEvent = errors.New("unsupported event")
	// ErrClosed is returned when the stream ends during the handshake.
	ErrClosed = errors.New("stream closed")
	// ErrBadPayload is returned when a payload does not parse as the
	// expected shape.
	ErrBadPayload = errors.New("bad payload")
)

// SubscribeFailedError reports a subscribe command the compositor
// rejected.
type SubscribeFailedError struct {
	Reason string
}

func (e *SubscribeFailedError) Error() string {
	return fmt.Sprintf("subscribe command failed: %s", e.Reason)
}

// EventStream is a subscribed IPC connection yielding compositor events.
type EventStream struct {
	conn  net.Conn
	sc    *frameScanner
	event EventType
}

// Subscribe connects to the compositor socket at path and subscribes to a
// single event type. The returned stream yields events until the socket
// closes; Close unblocks a pending Next.
func Subscribe(ctx context.Context, path string, event EventType) (*EventStream, error) {
	logging.Debugf("connecting to %s", path)

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sway socket: %w", err)
	}

	s := &EventStream{conn: conn, sc: newFrameScanner(conn), event: event}
	if err := s.handshake(event); err != nil {
		conn.Close()
		return nil, err
	}

	logging.Debugf("subscribed to %s events", event.Name())
	return s, nil
}

func subscribePacket(event EventType) (*Frame, error) {
	payload, err := json.Marshal([]string{event.Name()})
	if err != nil {
		return nil, err
	}
	return &Frame{PacketType: uint32(SubscribeCommand), Payload: payload}, nil
}

func (s *EventStream) handshake(event EventType) error {
	packet, err := subscribePacket(event)
	if err != nil {
		return err
	}
	if err := s.send(packet); err != nil {
		return err
	}

	// Subscribe acknowledgements echo the command code, not the event
	// code.
	response, err := s.sc.next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ErrClosed
		}
		return err
	}
	if response.PacketType != uint32(SubscribeCommand) {
		return ErrIncorrectResponseType
	}

	if !json.ValidBytes(response.Payload) {
		return fmt.Errorf("%w: subscribe ack is not json", ErrBadPayload)
	}
	success := json.GetBytes(response.Payload, "success")
	if success.Type != json.True && success.Type != json.False {
		return fmt.Errorf("%w: subscribe ack without success field", ErrBadPayload)
	}
	if !success.Bool() {
		return &SubscribeFailedError{
			Reason: json.GetBytes(response.Payload, "error").String(),
		}
	}
	return nil
}

func (s *EventStream) send(f *Frame) error {
	var buf bytes.Buffer
	EncodeFrame(&buf, f)
	if _, err := s.conn.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to send frame: %w", err)
	}
	return nil
}

// Next blocks until the next event frame arrives and decodes it. It
// returns io.EOF when the compositor closes the socket between frames.
func (s *EventStream) Next() (*Event, error) {
	frame, err := s.sc.next()
	if err != nil {
		return nil, err
	}

	if frame.PacketType&EventFlag != EventFlag {
		return nil, fmt.Errorf("%w: packet type %d", ErrNotAnEvent, frame.PacketType)
	}

	eventType, err := EventTypeFromU32(frame.PacketType ^ EventFlag)
	if err != nil {
		return nil, err
	}
	if eventType != s.event {
		return nil, fmt.Errorf("%w: event %d", ErrIncorrectResponseType, uint32(eventType))
	}

	switch eventType {
	case EventWindow:
		var window WindowEvent
		if err := json.Unmarshal(frame.Payload, &window); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrBadPayload, err)
		}
		return &Event{Type: EventWindow, Window: &window}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEvent, eventType.Name())
	}
}

// Close shuts the connection down.
func (s *EventStream) Close() error {
	return s.conn.Close()
}
