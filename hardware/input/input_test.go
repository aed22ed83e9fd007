package input

import (
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virtshell/inputrelay/log2"
)

func TestSourceInjectReadRoundTrip(t *testing.T) {
	t.Parallel()

	s := NewQueueSource(log2.NewTest(t, log2.LDebug), "test", 8)
	defer s.Close()

	expect := InputEvent{
		DeviceType: DeviceKeyboard,
		DeviceID:   0,
		Type:       EV_KEY,
		Code:       KEY_ENTER,
		Value:      1,
	}
	require.NoError(t, s.InjectEvent(expect))

	e, err := s.ReadEvent(NonBlocking())
	require.NoError(t, err)
	assert.Equal(t, expect, e)
}

func TestSourceTimeoutPolicy(t *testing.T) {
	t.Parallel()

	s := NewQueueSource(log2.NewTest(t, log2.LDebug), "test", 8)
	defer s.Close()

	_, err := s.ReadEvent(WaitMillis(0))
	assert.Equal(t, ErrWouldBlock, err)

	begin := time.Now()
	_, err = s.ReadEvent(WaitMillis(30))
	assert.Equal(t, ErrTimeout, err)
	assert.True(t, time.Since(begin) >= 30*time.Millisecond)
}

func TestSourceClosedTerminal(t *testing.T) {
	t.Parallel()

	s := NewQueueSource(log2.NewTest(t, log2.LDebug), "test", 8)

	blocked := make(chan error)
	go func() {
		_, err := s.ReadEvent(Indefinite())
		blocked <- err
	}()
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, s.Close())

	select {
	case err := <-blocked:
		assert.Equal(t, ErrClosed, err)
	case <-time.After(time.Second):
		t.Fatal("blocked ReadEvent did not unblock on Close")
	}

	err := s.InjectEvent(InputEvent{})
	require.Error(t, err)
	_, err = s.ReadEvent(NonBlocking())
	assert.Equal(t, ErrClosed, err)
}

func TestEventWire(t *testing.T) {
	t.Parallel()

	e := InputEvent{
		DeviceType: DeviceTouchpanel,
		DeviceID:   -2,
		Type:       EV_ABS,
		Code:       ABS_Y,
		Value:      -480,
	}
	b, err := e.MarshalBinary()
	require.NoError(t, err)
	require.Equal(t, EventSizeof, len(b))
	// fixed layout, little-endian: device_type, device_id, type, code, value
	assert.Equal(t, []byte{2, 0, 0, 0}, b[0:4])
	assert.Equal(t, []byte{0xfe, 0xff, 0xff, 0xff}, b[4:8])

	back := InputEvent{}
	require.NoError(t, back.UnmarshalBinary(b))
	assert.Equal(t, e, back)

	assert.Error(t, back.UnmarshalBinary(b[:EventSizeof-1]))
}

func TestErrno(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, Errno(nil))
	assert.Equal(t, -5, Errno(ErrWouldBlock))    // EIO
	assert.Equal(t, -110, Errno(ErrTimeout))     // ETIMEDOUT
	assert.Equal(t, -108, Errno(ErrClosed))      // ESHUTDOWN
	assert.Equal(t, -22, Errno(ErrInvalid))      // EINVAL
	assert.Equal(t, -22, Errno(ErrQueueFull))    // rejected injection is the EINVAL class
	assert.Equal(t, -22, Errno(errors.New("x"))) // unknown fault
}

func TestParseDeviceType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input  string
		expect DeviceType
		ok     bool
	}{
		{"pointer", DevicePointer, true},
		{"mouse", DevicePointer, true},
		{"Keyboard", DeviceKeyboard, true},
		{"touchpanel", DeviceTouchpanel, true},
		{"touch", DeviceTouchpanel, true},
		{"gamepad", DeviceGamepad, true},
		{"joystick", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		dt, err := ParseDeviceType(c.input)
		if c.ok {
			require.NoError(t, err, "input=%s", c.input)
			assert.Equal(t, c.expect, dt, "input=%s", c.input)
		} else {
			assert.Error(t, err, "input=%s", c.input)
		}
	}
}
