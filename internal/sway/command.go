// Package sway implements the i3/sway IPC protocol: the binary frame
// codec and a subscription client for compositor events.
//
// Message and reply types follow sway-ipc(7):
// https://man.archlinux.org/man/sway-ipc.7
package sway

import (
	"fmt"
)

// EventFlag marks a packet type as an unsolicited event rather than a
// command response. The event type is the packet type with the flag
// cleared.
const EventFlag uint32 = 0x80000000

// CommandType identifies an IPC command.
type CommandType uint32

const (
	// RunCommand runs the payload as sway commands.
	RunCommand CommandType = 0
	// GetWorkspaces gets the list of current workspaces.
	GetWorkspaces CommandType = 1
	// SubscribeCommand subscribes the IPC connection to the events
	// listed in the payload.
	SubscribeCommand CommandType = 2
	// GetOutputs gets the list of current outputs.
	GetOutputs CommandType = 3
	// GetTree gets the node layout tree.
	GetTree CommandType = 4
	// GetMarks gets the names of all the marks currently set.
	GetMarks CommandType = 5
	// GetBarConfig gets the specified bar config or a list of bar config
	// names.
	GetBarConfig CommandType = 6
	// GetVersion gets the version of sway that owns the IPC socket.
	GetVersion CommandType = 7
	// GetBindingModes gets the list of binding mode names.
	GetBindingModes CommandType = 8
	// GetConfig returns the config that was last loaded.
	GetConfig CommandType = 9
	// SendTick sends a tick event with the specified payload.
	SendTick CommandType = 10
	// Sync replies a failure object for i3 compatibility.
	Sync CommandType = 11
	// GetBindingState requests the current binding state.
	GetBindingState CommandType = 12
	// GetInputs gets the list of input devices.
	GetInputs CommandType = 100
	// GetSeats gets the list of seats.
	GetSeats CommandType = 101
)

// CommandTypeFromU32 validates a raw packet type as a command.
func CommandTypeFromU32(n uint32) (CommandType, error) {
	switch CommandType(n) {
	case RunCommand, GetWorkspaces, SubscribeCommand, GetOutputs, GetTree,
		GetMarks, GetBarConfig, GetVersion, GetBindingModes, GetConfig,
		SendTick, Sync, GetBindingState, GetInputs, GetSeats:
		return CommandType(n), nil
	}
	return 0, fmt.Errorf("%w: command %d", ErrInvalidPacketType, n)
}

// EventType identifies an IPC event.
type EventType uint32

const (
	// EventWorkspace is sent whenever an event involving a workspace
	// occurs such as initialization of a new workspace or a different
	// workspace gains focus.
	EventWorkspace EventType = 0
	// EventOutput is sent when outputs are updated.
	EventOutput EventType = 1
	// EventMode is sent whenever the binding mode changes.
	EventMode EventType = 2
	// EventWindow is sent whenever an event involving a window occurs
	// such as being reparented, focused, or closed.
	EventWindow EventType = 3
	// EventBarConfigUpdate is sent whenever a bar config changes.
	EventBarConfigUpdate EventType = 4
	// EventBinding is sent when a configured binding is executed.
	EventBinding EventType = 5
	// EventShutdown is sent when the ipc shuts down because sway is
	// exiting.
	EventShutdown EventType = 6
	// EventTick is sent when an ipc client sends a SEND_TICK message.
	EventTick EventType = 7
	// EventBarStateUpdate is sent when the visibility of a bar should
	// change due to a modifier.
	EventBarStateUpdate EventType = 20
	// EventInput is sent when something related to input devices
	// changes.
	EventInput EventType = 21
)

// EventTypeFromU32 validates a masked packet type as an event.
func EventTypeFromU32(n uint32) (EventType, error) {
	switch EventType(n) {
	case EventWorkspace, EventOutput, EventMode, EventWindow,
		EventBarConfigUpdate, EventBinding, EventShutdown, EventTick,
		EventBarStateUpdate, EventInput:
		return EventType(n), nil
	}
	return 0, fmt.Errorf("%w: event %d", ErrInvalidPacketType, n)
}

// Name returns the snake_case event name used in subscribe payloads.
func (e EventType) Name() string {
	switch e {
	case EventWorkspace:
		return "workspace"
	case EventOutput:
		return "output"
	case EventMode:
		return "mode"
	case EventWindow:
		return "window"
	case EventBarConfigUpdate:
		return "barconfig_update"
	case EventBinding:
		return "binding"
	case EventShutdown:
		return "shutdown"
	case EventTick:
		return "tick"
	case EventBarStateUpdate:
		return "bar_state_update"
	case EventInput:
		return "input"
	}
	return fmt.Sprintf("unknown(%d)", uint32(e))
}
