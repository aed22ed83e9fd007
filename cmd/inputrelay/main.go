// inputrelay captures input events from configured evdev devices and
// forwards them into the guest input pipe.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/mattn/go-isatty"

	"github.com/virtshell/inputrelay/hardware/input"
	"github.com/virtshell/inputrelay/internal/relay"
	"github.com/virtshell/inputrelay/internal/state"
	"github.com/virtshell/inputrelay/log2"
)

var BuildVersion string = "unknown" // set by ldflags -X

func main() {
	flagConfig := flag.String("config", "inputrelay.hcl", "")
	flagVersion := flag.Bool("version", false, "print build version and exit")
	flag.Parse()
	if *flagVersion {
		fmt.Printf("inputrelay %s\n", BuildVersion)
		return
	}

	var logLevel log2.Level = log2.LInfo
	if os.Getenv("inputrelay_log_debug") != "" {
		logLevel = log2.LDebug
	}
	logger := log2.NewStderr(logLevel)
	if sdnotify("start") {
		// under systemd assume journal logging, remove timestamp
		logger.SetFlags(log2.LServiceFlags)
	} else if isatty.IsTerminal(os.Stderr.Fd()) {
		logger.SetFlags(log2.LInteractiveFlags)
	} else {
		logger.SetFlags(log2.LStdFlags)
	}
	logger.Infof("inputrelay version=%s", BuildVersion)

	config := state.MustReadConfig(logger, state.NewOsFullReader(), *flagConfig)
	deviceOptions, err := config.DeviceOptions()
	if err != nil {
		logger.Fatal(errors.ErrorStack(err))
	}
	if len(deviceOptions) == 0 {
		logger.Fatal("config: no input devices")
	}

	sources := make([]input.Source, 0, len(deviceOptions))
	for _, opt := range deviceOptions {
		src, err := input.NewDevInputEventSource(logger, opt)
		if err != nil {
			logger.Fatal(errors.ErrorStack(err))
		}
		logger.Infof("capture device=%s type=%s id=%d grab=%t",
			opt.Device, opt.DeviceType.String(), opt.DeviceID, opt.Grab)
		sources = append(sources, src)
	}
	var source input.Source = sources[0]
	if len(sources) > 1 {
		source = input.Merge(logger, config.Input.QueueSize, sources...)
	}

	sink, err := openSink(config.Relay.Sink)
	if err != nil {
		logger.Fatal(errors.ErrorStack(err))
	}

	r := relay.NewRelay(logger, source, sink, config.PollTimeout())

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigch
		logger.Infof("signal=%v stopping", sig)
		sdnotify("STOPPING=1\n")
		r.Stop()
	}()

	sdnotify(daemon.SdNotifyReady)
	r.Run()
	r.Alive.Wait()
	logger.Infof("goodbye")
}

func openSink(path string) (relay.Sink, error) {
	switch path {
	case "", "-":
		return relay.NewWriterSink("stdout", os.Stdout), nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return nil, errors.Annotatef(err, "open sink=%s", path)
	}
	return relay.NewWriterSink(path, f), nil
}

func sdnotify(s string) bool {
	ok, err := daemon.SdNotify(false, s)
	if err != nil {
		log.Fatal("sdnotify: ", errors.ErrorStack(err))
	}
	return ok
}
