// Package systemd provides a structured API for querying systemd unit
// state. It builds on top of the go-systemd package's D-Bus API,
// abstracting away some of the quirks that exist due to the D-Bus
// bindings.
package systemd

import (
	"context"
	"fmt"

	systemd "github.com/coreos/go-systemd/v22/dbus"
	"github.com/godbus/dbus/v5"
)

type ConnectionType int

const (
	ConnectionTypeSystem ConnectionType = iota
	ConnectionTypeUser
)

type Conn struct {
	ctx  context.Context
	conn *systemd.Conn
}

// NewConnectionContext creates a new connection to the given systemd
// service.
func NewConnectionContext(ctx context.Context, connectionType ConnectionType) (*Conn, error) {
	var conn *systemd.Conn
	var err error
	if connectionType == ConnectionTypeSystem {
		conn, err = systemd.NewSystemConnectionContext(ctx)
	} else {
		conn, err = systemd.NewUserConnectionContext(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot establish connection to systemd: %v", err)
	}

	return &Conn{
		ctx:  ctx,
		conn: conn,
	}, nil
}

func (c *Conn) Close() {
	c.conn.Close()
}

// UnitActiveState returns the ActiveState property of the named unit, e.g.
// "active", "inactive" or "failed".
func (c *Conn) UnitActiveState(name string) (string, error) {
	property, err := c.conn.GetUnitPropertyContext(c.ctx, name, "ActiveState")
	if err != nil {
		return "", fmt.Errorf("cannot get ActiveState of unit %v: %v", name, err)
	}
	return variantString(property.Value)
}

// UnitActive reports whether the named unit is currently active.
func (c *Conn) UnitActive(name string) (bool, error) {
	state, err := c.UnitActiveState(name)
	if err != nil {
		return false, err
	}
	return state == "active", nil
}

// variantString unpacks a D-Bus variant holding a string value.
func variantString(variant dbus.Variant) (string, error) {
	value, ok := variant.Value().(string)
	if !ok {
		return "", fmt.Errorf("unexpected D-Bus variant type %v", variant.Signature())
	}
	return value, nil
}
