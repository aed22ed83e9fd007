package state

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virtshell/inputrelay/hardware/input"
	"github.com/virtshell/inputrelay/log2"
)

func TestReadConfig(t *testing.T) {
	t.Parallel()

	type Case struct {
		name      string
		input     string
		check     func(testing.TB, *Config)
		expectErr string
	}
	cases := []Case{
		{"empty", "", func(t testing.TB, c *Config) {
			assert.Equal(t, 0, c.Input.QueueSize)
			assert.Len(t, c.Input.Devices, 0)
		}, ""},

		{"devices", `
input {
	queue_size = 256
	device "/dev/input/event3" { type = "keyboard" id = 0 grab = true }
	device "/dev/input/event5" { type = "pointer" id = 1 }
}
relay { poll_timeout_ms = 250 sink = "/run/guest/input" }`,
			func(t testing.TB, c *Config) {
				require.Len(t, c.Input.Devices, 2)
				assert.Equal(t, "/dev/input/event3", c.Input.Devices[0].Device)
				assert.Equal(t, true, c.Input.Devices[0].Grab)
				assert.Equal(t, 250*time.Millisecond, c.PollTimeout())
				assert.Equal(t, "/run/guest/input", c.Relay.Sink)

				opts, err := c.DeviceOptions()
				require.NoError(t, err)
				require.Len(t, opts, 2)
				assert.Equal(t, input.DeviceKeyboard, opts[0].DeviceType)
				assert.Equal(t, int32(1), opts[1].DeviceID)
				assert.Equal(t, 256, opts[0].QueueSize)
			},
			"",
		},

		{"bad-device-type", `input { device "/dev/input/event0" { type = "telepathy" } }`,
			func(t testing.TB, c *Config) {
				_, err := c.DeviceOptions()
				require.Error(t, err)
				assert.Contains(t, err.Error(), "telepathy")
			},
			"",
		},

		{"malformed", `input { queue_size = `, nil, "config unmarshal"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			log := log2.NewTest(t, log2.LDebug)
			fs := NewMockFullReader(map[string]string{"test-inline": c.input})
			cfg, err := ReadConfig(log, fs, "test-inline")
			if c.expectErr == "" {
				require.NoError(t, err)
				if c.check != nil {
					c.check(t, cfg)
				}
			} else {
				require.Error(t, err)
				assert.True(t, strings.Contains(err.Error(), c.expectErr),
					"err=%v expected substring=%s", err, c.expectErr)
			}
		})
	}
}

func TestReadConfigInclude(t *testing.T) {
	t.Parallel()

	log := log2.NewTest(t, log2.LDebug)
	fs := NewMockFullReader(map[string]string{
		"main": `
include "devices" {}
relay { poll_timeout_ms = 100 }`,
		"devices": `input { device "/dev/input/event2" { type = "gamepad" id = 7 } }`,
	})
	cfg, err := ReadConfig(log, fs, "main")
	require.NoError(t, err)
	require.Len(t, cfg.Input.Devices, 1)
	assert.Equal(t, "gamepad", cfg.Input.Devices[0].Type)
	assert.Equal(t, 100*time.Millisecond, cfg.PollTimeout())
}

func TestReadConfigIncludeMissingOptional(t *testing.T) {
	t.Parallel()

	log := log2.NewTest(t, log2.LDebug)
	fs := NewMockFullReader(map[string]string{
		"main": `include "absent" { optional = true }`,
	})
	_, err := ReadConfig(log, fs, "main")
	require.NoError(t, err)

	fs = NewMockFullReader(map[string]string{
		"main": `include "absent" {}`,
	})
	_, err = ReadConfig(log, fs, "main")
	require.Error(t, err)
}
