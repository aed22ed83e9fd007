package input

// Subset of linux input-event-codes.h the relay and its tests refer to.
// The guest interprets the full namespace; the relay only passes values
// through, so only codes named in code live here.

const (
	EV_SYN uint16 = 0x00
	EV_KEY uint16 = 0x01
	EV_REL uint16 = 0x02
	EV_ABS uint16 = 0x03
)

const (
	SYN_REPORT uint16 = 0
)

const (
	KEY_ESC   uint16 = 1
	KEY_ENTER uint16 = 28
	KEY_A     uint16 = 30
)

const (
	BTN_LEFT  uint16 = 0x110
	BTN_RIGHT uint16 = 0x111
	BTN_SOUTH uint16 = 0x130
)

const (
	REL_X uint16 = 0x00
	REL_Y uint16 = 0x01
)

const (
	ABS_X uint16 = 0x00
	ABS_Y uint16 = 0x01
)
