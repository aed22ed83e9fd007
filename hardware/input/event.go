// Package input is the event channel between input producers (device
// capture backends, test injection) and the single host reader that
// forwards events into the guest.
package input

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/juju/errors"
)

// DeviceType values match the plugin ABI enum, stored as int32 on the wire.
type DeviceType int32

const (
	DevicePointer DeviceType = iota
	DeviceKeyboard
	DeviceTouchpanel
	DeviceGamepad
)

func (dt DeviceType) String() string {
	switch dt {
	case DevicePointer:
		return "pointer"
	case DeviceKeyboard:
		return "keyboard"
	case DeviceTouchpanel:
		return "touchpanel"
	case DeviceGamepad:
		return "gamepad"
	}
	return fmt.Sprintf("DeviceType(%d)", int32(dt))
}

func ParseDeviceType(s string) (DeviceType, error) {
	switch strings.ToLower(s) {
	case "pointer", "mouse":
		return DevicePointer, nil
	case "keyboard":
		return DeviceKeyboard, nil
	case "touchpanel", "touch":
		return DeviceTouchpanel, nil
	case "gamepad":
		return DeviceGamepad, nil
	}
	return 0, errors.NotValidf("device type=%s", s)
}

// InputEvent is a plain copyable value, no identity beyond field values.
// Type/Code/Value carry the same meaning as the kernel input_event fields,
// see /usr/include/linux/input-event-codes.h.
type InputEvent struct {
	DeviceType DeviceType
	DeviceID   int32
	Type       uint16
	Code       uint16
	Value      int32
}

// EventSizeof is the fixed wire size of one event record crossing the
// host/plugin boundary: int32 device_type, int32 device_id, uint16 type,
// uint16 code, int32 value.
const EventSizeof = 16

// Host ABI is little-endian on every platform the plugin interface targets.
var wireOrder = binary.LittleEndian

func (e InputEvent) MarshalBinary() ([]byte, error) {
	b := make([]byte, EventSizeof)
	wireOrder.PutUint32(b[0:], uint32(e.DeviceType))
	wireOrder.PutUint32(b[4:], uint32(e.DeviceID))
	wireOrder.PutUint16(b[8:], e.Type)
	wireOrder.PutUint16(b[10:], e.Code)
	wireOrder.PutUint32(b[12:], uint32(e.Value))
	return b, nil
}

func (e *InputEvent) UnmarshalBinary(b []byte) error {
	if len(b) < EventSizeof {
		return errors.NotValidf("event record len=%d expected=%d", len(b), EventSizeof)
	}
	e.DeviceType = DeviceType(wireOrder.Uint32(b[0:]))
	e.DeviceID = int32(wireOrder.Uint32(b[4:]))
	e.Type = wireOrder.Uint16(b[8:])
	e.Code = wireOrder.Uint16(b[10:])
	e.Value = int32(wireOrder.Uint32(b[12:]))
	return nil
}

func (e InputEvent) String() string {
	return fmt.Sprintf("InputEvent(%s/%d type=%d code=%d value=%d)",
		e.DeviceType.String(), e.DeviceID, e.Type, e.Code, e.Value)
}
