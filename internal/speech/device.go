package speech

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// DefaultDeviceCommand returns the local synthesizer invocation for the
// current platform. The text to speak is appended as the last argument.
func DefaultDeviceCommand() []string {
	if runtime.GOOS == "darwin" {
		return []string{"say", "-v", "Meijia"}
	}
	return []string{"espeak-ng", "-v", "cmn"}
}

// Device speaks through a local synthesizer process.
type Device struct {
	command []string
}

// NewDevice creates a Device running command. An empty command selects
// DefaultDeviceCommand.
func NewDevice(command []string) *Device {
	if len(command) == 0 {
		command = DefaultDeviceCommand()
	}
	return &Device{command: command}
}

func (d *Device) Speak(ctx context.Context, text string) error {
	args := append(append([]string{}, d.command[1:]...), text)
	cmd := exec.CommandContext(ctx, d.command[0], args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s: %w: %s", d.command[0], err, out)
	}
	return nil
}
