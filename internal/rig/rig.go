// Package rig drives a physical structured-light rig over a serial link.
// The rig controller (projector plus camera behind a microcontroller)
// speaks a line protocol: the host sends a pattern frame, the controller
// projects it, captures one camera frame and sends it back.
//
// Wire protocol, one command per line, frames base64-encoded:
//
//	-> PROJECT <width> <height> <base64 pixels>
//	<- CAPTURE <width> <height> <base64 pixels>
//	<- ERR <message>
//	-> PING
//	<- PONG
package rig

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.bug.st/serial"

	"github.com/banshee-data/slbench/internal/slbench"
)

// Porter defines the minimal interface needed for a serial port.
type Porter interface {
	io.ReadWriter
	io.Closer
}

// Controller speaks the rig wire protocol over a Porter.
type Controller struct {
	port   Porter
	reader *bufio.Reader
}

// NewController wraps an open port.
func NewController(port Porter) *Controller {
	return &Controller{port: port, reader: bufio.NewReader(port)}
}

// OpenController opens a real serial port at the given path and baud rate.
func OpenController(path string, baudRate int) (*Controller, error) {
	port, err := serial.Open(path, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", path, err)
	}
	return NewController(port), nil
}

// Close closes the underlying port.
func (c *Controller) Close() error {
	return c.port.Close()
}

func (c *Controller) readReply() ([]string, error) {
	line, err := c.reader.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read rig reply: %w", err)
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty rig reply")
	}
	if fields[0] == "ERR" {
		return nil, fmt.Errorf("rig error: %s", strings.TrimSpace(strings.TrimPrefix(line, "ERR")))
	}
	return fields, nil
}

// Ping verifies the controller is responsive.
func (c *Controller) Ping() error {
	if _, err := io.WriteString(c.port, "PING\n"); err != nil {
		return fmt.Errorf("write ping: %w", err)
	}
	fields, err := c.readReply()
	if err != nil {
		return err
	}
	if fields[0] != "PONG" {
		return fmt.Errorf("unexpected ping reply %q", fields[0])
	}
	return nil
}

// ProjectAndCapture sends a pattern and reads back the captured frame.
func (c *Controller) ProjectAndCapture(pattern *slbench.Frame) (*slbench.Frame, error) {
	cmd := fmt.Sprintf("PROJECT %d %d %s\n", pattern.Width, pattern.Height,
		base64.StdEncoding.EncodeToString(pattern.Pix))
	if _, err := io.WriteString(c.port, cmd); err != nil {
		return nil, fmt.Errorf("write project command: %w", err)
	}

	fields, err := c.readReply()
	if err != nil {
		return nil, err
	}
	if fields[0] != "CAPTURE" || len(fields) != 4 {
		return nil, fmt.Errorf("unexpected rig reply %q", fields[0])
	}

	width, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("parse capture width: %w", err)
	}
	height, err := strconv.Atoi(fields[2])
	if err != nil {
		return nil, fmt.Errorf("parse capture height: %w", err)
	}

	pix, err := base64.StdEncoding.DecodeString(fields[3])
	if err != nil {
		return nil, fmt.Errorf("decode capture pixels: %w", err)
	}
	if len(pix) != width*height {
		return nil, fmt.Errorf("capture payload %d bytes, want %d", len(pix), width*height)
	}

	return &slbench.Frame{Width: width, Height: height, Pix: pix}, nil
}

// Infrastructure adapts a rig controller to the benchmark's infrastructure
// capability. Physical lenses distort, so a calibration for this setup must
// exist in the cache; a missing calibration is fatal at Init.
type Infrastructure struct {
	name   string
	setup  slbench.InfrastructureSetup
	ctrl   *Controller
	calDir string
	cal    *slbench.Calibration
}

// NewInfrastructure builds a physical infrastructure over an open
// controller. calDir is the calibration cache directory.
func NewInfrastructure(setup slbench.InfrastructureSetup, ctrl *Controller, calDir string) *Infrastructure {
	return &Infrastructure{name: "Physical", setup: setup, ctrl: ctrl, calDir: calDir}
}

func (r *Infrastructure) Name() string { return r.name }

func (r *Infrastructure) Setup() slbench.InfrastructureSetup { return r.setup }

func (r *Infrastructure) Init(rc *slbench.RunContext) error {
	if err := r.ctrl.Ping(); err != nil {
		return fmt.Errorf("infrastructure %s: %w", r.name, err)
	}
	cal, err := slbench.LoadCalibration(r.calDir, slbench.SetupID(r.name, r.setup))
	if err != nil {
		return fmt.Errorf("infrastructure %s: %w", r.name, err)
	}
	r.cal = cal
	return nil
}

func (r *Infrastructure) Calibration() *slbench.Calibration { return r.cal }

// Close releases the underlying controller port.
func (r *Infrastructure) Close() error { return r.ctrl.Close() }

func (r *Infrastructure) ProjectAndCapture(rc *slbench.RunContext, pattern *slbench.Frame) (*slbench.Frame, error) {
	capture, err := r.ctrl.ProjectAndCapture(pattern)
	if err != nil {
		return nil, err
	}
	cam := r.setup.Camera.Resolution
	if capture.Width != cam.Width || capture.Height != cam.Height {
		return nil, fmt.Errorf("rig captured %dx%d, camera setup says %dx%d",
			capture.Width, capture.Height, cam.Width, cam.Height)
	}
	return capture, nil
}
