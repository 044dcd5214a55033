package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// evdev ioctl requests (from <linux/input.h>): EVIOCGNAME fetches the device
// name, EVIOCGBIT(0, ...) the bitmask of supported event types.
const iocDirRead = 2

func iocRead(typ, nr, size uintptr) uintptr {
	// dir(2) | size(14) | type(8) | nr(8), per <asm-generic/ioctl.h>
	return iocDirRead<<30 | size<<16 | typ<<8 | nr
}

// inputDeviceInfo describes one /dev/input/event* node.
type inputDeviceInfo struct {
	Path     string
	Name     string
	Relative bool // device reports EV_REL events (pointer-like)
}

// deviceName returns the human-readable device name via EVIOCGNAME.
func deviceName(fd int) (string, error) {
	buf := make([]byte, 256)
	req := iocRead('E', 0x06, uintptr(len(buf)))
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return "", errno
	}
	return cString(buf), nil
}

// deviceEventTypes returns the supported event-type bitmask via EVIOCGBIT.
// EV_MAX is 0x1f, so 32 bits cover every type.
func deviceEventTypes(fd int) (uint32, error) {
	var mask uint32
	req := iocRead('E', 0x20, unsafe.Sizeof(mask))
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(unsafe.Pointer(&mask)))
	if errno != 0 {
		return 0, errno
	}
	return mask, nil
}

// cString cuts a kernel-filled byte buffer at its first NUL.
func cString(buf []byte) string {
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}

func isEventDevice(name string) bool {
	return strings.HasPrefix(name, eventPrefix)
}

// probeInputDevice opens one event node and queries its name and
// capabilities. Nodes we cannot open (usually permissions) still get listed,
// just without details.
func probeInputDevice(path string) inputDeviceInfo {
	info := inputDeviceInfo{Path: path, Name: "Unknown Device"}

	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return info
	}
	defer unix.Close(fd)

	if name, err := deviceName(fd); err == nil && name != "" {
		info.Name = name
	}
	if mask, err := deviceEventTypes(fd); err == nil {
		info.Relative = mask&(1<<EV_REL) != 0
	}
	return info
}

// listInputDevices scans /dev/input for event nodes.
func listInputDevices() ([]inputDeviceInfo, error) {
	entries, err := os.ReadDir(devInputPath)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", devInputPath)
	}

	var devices []inputDeviceInfo
	for _, entry := range entries {
		if !isEventDevice(entry.Name()) {
			continue
		}
		devices = append(devices, probeInputDevice(filepath.Join(devInputPath, entry.Name())))
	}

	sort.Slice(devices, func(i, j int) bool {
		return devices[i].Path < devices[j].Path
	})
	return devices, nil
}

// printInputDevices writes the device listing for --list-devices. Devices
// that emit relative motion are the ones worth pointing supermoan at.
func printInputDevices(w io.Writer) error {
	devices, err := listInputDevices()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Available input devices:")
	fmt.Fprintln(w, "------------------------")
	for _, d := range devices {
		marker := ""
		if d.Relative {
			marker = " [relative motion]"
		}
		fmt.Fprintf(w, "Device: %-30s | Path: %s%s\n", d.Name, d.Path, marker)
	}
	return nil
}
