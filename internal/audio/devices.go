package audio

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gordonklaus/portaudio"
	"github.com/ncruces/zenity"
)

// Device describes an input-capable capture device.
type Device struct {
	Name       string
	Channels   int
	SampleRate float64
	Default    bool

	info *portaudio.DeviceInfo
}

func (d Device) String() string {
	s := fmt.Sprintf("%s (%d ch, %.0f Hz)", d.Name, d.Channels, d.SampleRate)
	if d.Default {
		s += " [default]"
	}
	return s
}

// InputDevices lists every device with at least one input channel.
func InputDevices() ([]Device, error) {
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, captureErr("list devices", err)
	}
	def, _ := portaudio.DefaultInputDevice()

	var out []Device
	for _, info := range infos {
		if info.MaxInputChannels < 1 {
			continue
		}
		out = append(out, Device{
			Name:       info.Name,
			Channels:   info.MaxInputChannels,
			SampleRate: info.DefaultSampleRate,
			Default:    def != nil && info.Name == def.Name && info.HostApi == def.HostApi,
			info:       info,
		})
	}
	return out, nil
}

// FindDevice picks a device by name: an exact match wins, otherwise a unique
// case-insensitive substring match. An empty name selects the default input.
func FindDevice(devs []Device, name string) (Device, error) {
	if len(devs) == 0 {
		return Device{}, ErrNoInputDevice
	}
	if name == "" {
		for _, d := range devs {
			if d.Default {
				return d, nil
			}
		}
		return devs[0], nil
	}

	for _, d := range devs {
		if d.Name == name {
			return d, nil
		}
	}

	needle := strings.ToLower(name)
	var matches []Device
	for _, d := range devs {
		if strings.Contains(strings.ToLower(d.Name), needle) {
			matches = append(matches, d)
		}
	}
	switch len(matches) {
	case 0:
		return Device{}, fmt.Errorf("%w: %q", ErrDeviceNotFound, name)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		return Device{}, fmt.Errorf("%w: %q is ambiguous (%s)", ErrDeviceNotFound, name, strings.Join(names, ", "))
	}
}

// PickDevice asks the user to choose an input device in a native list dialog.
// Cancelling the dialog returns zenity.ErrCanceled.
func PickDevice(devs []Device) (Device, error) {
	if len(devs) == 0 {
		return Device{}, ErrNoInputDevice
	}
	items := make([]string, len(devs))
	var preselect []string
	for i, d := range devs {
		items[i] = d.Name
		if d.Default {
			preselect = append(preselect, d.Name)
		}
	}

	choice, err := zenity.List("Input device:", items,
		zenity.Title("Audio Phase Space Visualizer"),
		zenity.DefaultItems(preselect...),
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return Device{}, err
		}
		return Device{}, fmt.Errorf("device dialog: %w", err)
	}
	return FindDevice(devs, choice)
}
