// Package tray registers a StatusNotifierItem on the session bus so
// desktop shells can show that the logger is running.
package tray

import (
	"context"
	"fmt"
	"os"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"

	"github.com/nodech/sway-matiane/internal/buildinfo"
	"github.com/nodech/sway-matiane/internal/logging"
)

const (
	itemInterface = "org.kde.StatusNotifierItem"
	itemPath      = "/StatusNotifierItem"

	watcherName     = "org.kde.StatusNotifierWatcher"
	watcherPath     = "/StatusNotifierWatcher"
	watcherRegister = "org.kde.StatusNotifierWatcher.RegisterStatusNotifierItem"
)

// item carries the methods the StatusNotifierItem interface requires;
// activation is a no-op, the item is purely informational.
type item struct{}

func (item) Activate(x, y int32) *dbus.Error          { return nil }
func (item) SecondaryActivate(x, y int32) *dbus.Error { return nil }
func (item) Scroll(delta int32, orient string) *dbus.Error {
	return nil
}

// Run registers the item and holds it until ctx is cancelled. Errors are
// returned to the caller, which treats them as non-fatal: the pipeline
// does not depend on the tray.
func Run(ctx context.Context) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	defer conn.Close()

	busName := fmt.Sprintf("org.kde.StatusNotifierItem-%d-1", os.Getpid())
	reply, err := conn.RequestName(busName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", busName)
	}

	if err := export(conn); err != nil {
		return err
	}

	watcher := conn.Object(watcherName, watcherPath)
	call := watcher.CallWithContext(ctx, watcherRegister, 0, busName)
	if call.Err != nil {
		return fmt.Errorf("failed to register with status notifier watcher: %w", call.Err)
	}

	logging.Debugf("tray item registered as %s", busName)
	<-ctx.Done()
	return nil
}

func export(conn *dbus.Conn) error {
	properties := prop.Map{
		itemInterface: {
			"Category":      constProp("SystemServices"),
			"Id":            constProp(buildinfo.Name),
			"Title":         constProp(""),
			"Status":        constProp("Active"),
			"WindowId":      constProp(int32(0)),
			"IconName":      constProp(""),
			"IconThemePath": constProp(""),
			"ItemIsMenu":    constProp(false),
		},
	}

	props, err := prop.Export(conn, itemPath, properties)
	if err != nil {
		return fmt.Errorf("failed to export tray properties: %w", err)
	}

	if err := conn.Export(item{}, itemPath, itemInterface); err != nil {
		return fmt.Errorf("failed to export tray item: %w", err)
	}

	node := &introspect.Node{
		Name: itemPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{
				Name:       itemInterface,
				Methods:    introspect.Methods(item{}),
				Properties: props.Introspection(itemInterface),
			},
		},
	}
	err = conn.Export(introspect.NewIntrospectable(node), itemPath,
		"org.freedesktop.DBus.Introspectable")
	if err != nil {
		return fmt.Errorf("failed to export introspection: %w", err)
	}

	return nil
}

func constProp(value any) *prop.Prop {
	return &prop.Prop{
		Value:    value,
		Writable: false,
		Emit:     prop.EmitFalse,
	}
}
