// Package state holds the relay daemon configuration: which evdev
// nodes to capture, queue sizing and where forwarded events go.
package state

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/hashicorp/hcl"
	"github.com/juju/errors"

	"github.com/virtshell/inputrelay/hardware/input"
	"github.com/virtshell/inputrelay/helpers"
	"github.com/virtshell/inputrelay/log2"
)

type Config struct {
	// includeSeen contains absolute paths to prevent include loops
	includeSeen map[string]struct{}
	// only used for Unmarshal, do not access
	XXX_Include []ConfigSource `hcl:"include"`

	Input struct {
		QueueSize int            `hcl:"queue_size"`
		Devices   []DeviceConfig `hcl:"device"`
	} `hcl:"input"`

	Relay struct {
		PollTimeoutMs int    `hcl:"poll_timeout_ms"`
		Sink          string `hcl:"sink"`
	} `hcl:"relay"`

	_copy_guard sync.Mutex //nolint:unused
}

type ConfigSource struct {
	Name     string `hcl:"name,key"`
	Optional bool   `hcl:"optional"`
}

type DeviceConfig struct {
	Device string `hcl:"device,key"`
	Type   string `hcl:"type"`
	ID     int    `hcl:"id"`
	Grab   bool   `hcl:"grab"`
}

func (c *Config) PollTimeout() time.Duration {
	if c.Relay.PollTimeoutMs <= 0 {
		return 0
	}
	return time.Duration(c.Relay.PollTimeoutMs) * time.Millisecond
}

// DeviceOptions resolves the config device list into capture options.
func (c *Config) DeviceOptions() ([]input.DevInputEventOptions, error) {
	opts := make([]input.DevInputEventOptions, 0, len(c.Input.Devices))
	errs := make([]error, 0)
	for _, d := range c.Input.Devices {
		dt, err := input.ParseDeviceType(d.Type)
		if err != nil {
			errs = append(errs, errors.Annotatef(err, "config device=%s", d.Device))
			continue
		}
		opts = append(opts, input.DevInputEventOptions{
			Device:     d.Device,
			DeviceType: dt,
			DeviceID:   int32(d.ID),
			Grab:       d.Grab,
			QueueSize:  c.Input.QueueSize,
		})
	}
	return opts, helpers.FoldErrors(errs)
}

func (c *Config) read(log *log2.Log, fs FullReader, source ConfigSource, errs *[]error) {
	norm := fs.Normalize(source.Name)
	if _, ok := c.includeSeen[norm]; ok {
		log.Fatalf("config duplicate source=%s", source.Name)
	} else {
		log.Debugf("config reading source='%s' path=%s", source.Name, norm)
	}
	c.includeSeen[source.Name] = struct{}{}
	c.includeSeen[norm] = struct{}{}

	bs, err := fs.ReadAll(norm)
	if bs == nil && err == nil {
		if !source.Optional {
			err = errors.NotFoundf("config required name=%s path=%s", source.Name, norm)
			*errs = append(*errs, err)
			return
		}
	}
	if err != nil {
		*errs = append(*errs, errors.Annotatef(err, "config source=%s", source.Name))
		return
	}

	err = hcl.Unmarshal(bs, c)
	if err != nil {
		err = errors.Annotatef(err, "config unmarshal source=%s content='%s'", source.Name, string(bs))
		*errs = append(*errs, err)
		return
	}

	var includes []ConfigSource
	includes, c.XXX_Include = c.XXX_Include, nil
	for _, include := range includes {
		includeNorm := fs.Normalize(include.Name)
		if _, ok := c.includeSeen[includeNorm]; ok {
			err = errors.Errorf("config include loop: from=%s include=%s", source.Name, include.Name)
			*errs = append(*errs, err)
			continue
		}
		c.read(log, fs, include, errs)
	}
}

func ReadConfig(log *log2.Log, fs FullReader, names ...string) (*Config, error) {
	if len(names) == 0 {
		log.Fatal("code error [Must]ReadConfig() without names")
	}

	if osfs, ok := fs.(*OsFullReader); ok {
		dir, name := filepath.Split(names[0])
		osfs.SetBase(dir)
		names[0] = name
	}
	c := &Config{
		includeSeen: make(map[string]struct{}),
	}
	errs := make([]error, 0, 8)
	for _, name := range names {
		c.read(log, fs, ConfigSource{Name: name}, &errs)
	}
	return c, helpers.FoldErrors(errs)
}

func MustReadConfig(log *log2.Log, fs FullReader, names ...string) *Config {
	c, err := ReadConfig(log, fs, names...)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	return c
}
