package midi

import (
	"errors"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// ErrPortScanTimeout is returned when the MIDI system does not answer.
var ErrPortScanTimeout = errors.New("midi port scan timed out")

// portScanTimeout bounds a port listing (CoreMIDI can hang)
const portScanTimeout = 3 * time.Second

type portsResult struct {
	inPorts  []drivers.In
	outPorts []drivers.Out
}

// scanPorts lists ports with a timeout
func scanPorts() (portsResult, error) {
	ch := make(chan portsResult, 1)
	go func() {
		ch <- portsResult{inPorts: gomidi.GetInPorts(), outPorts: gomidi.GetOutPorts()}
	}()

	select {
	case result := <-ch:
		return result, nil
	case <-time.After(portScanTimeout):
		return portsResult{}, ErrPortScanTimeout
	}
}

// Ports is a listing of port names
type Ports struct {
	Inputs  []string
	Outputs []string
}

// ListPorts returns the names of all MIDI ports
func ListPorts() (Ports, error) {
	res, err := scanPorts()
	if err != nil {
		return Ports{}, err
	}
	var p Ports
	for _, in := range res.inPorts {
		p.Inputs = append(p.Inputs, in.String())
	}
	for _, out := range res.outPorts {
		p.Outputs = append(p.Outputs, out.String())
	}
	return p, nil
}

// Close releases the MIDI driver
func Close() {
	gomidi.CloseDriver()
}

// matchesAny reports whether name contains any of the patterns (case-insensitive)
func matchesAny(name string, patterns []string) bool {
	name = strings.ToLower(name)
	for _, p := range patterns {
		if p != "" && strings.Contains(name, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
