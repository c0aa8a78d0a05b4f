package adb

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Bridge runs commands on a connected Android device through the adb binary.
// Every call is a blocking external-process invocation; no call is retried
// and no timeout is imposed.
type Bridge struct {
	Path   string // adb binary; empty means auto-detect
	Serial string // target device; empty lets adb pick the only device
}

func New(path, serial string) *Bridge {
	if path == "" {
		path = AutoDetect()
	}
	return &Bridge{Path: path, Serial: serial}
}

func (b *Bridge) bin() string {
	if b.Path != "" {
		return b.Path
	}
	return "adb"
}

// Available reports whether an adb binary can be found.
func (b *Bridge) Available() bool {
	if b.Path != "" {
		if _, err := os.Stat(b.Path); err == nil {
			return true
		}
	}
	_, err := exec.LookPath("adb")
	return err == nil
}

func (b *Bridge) args(rest ...string) []string {
	if strings.TrimSpace(b.Serial) != "" {
		return append([]string{"-s", b.Serial}, rest...)
	}
	return rest
}

// Run executes adb with the given argument vector and returns stdout.
// A non-zero exit surfaces as an error carrying stderr.
func (b *Bridge) Run(args ...string) (string, error) {
	cmd := exec.Command(b.bin(), b.args(args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stdout.String(), fmt.Errorf("adb %s: %w: %s",
			strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// Shell runs a remote shell command string on the device.
func (b *Bridge) Shell(command string) (string, error) {
	return b.Run("shell", command)
}

// ExecOutTo runs "adb exec-out <args...>" and streams the raw stdout bytes
// to w. exec-out carries binary output unmangled, unlike "adb shell".
func (b *Bridge) ExecOutTo(w io.Writer, args ...string) error {
	full := b.args(append([]string{"exec-out"}, args...)...)
	cmd := exec.Command(b.bin(), full...)
	var stderr bytes.Buffer
	cmd.Stdout = w
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("adb exec-out %s: %w: %s",
			strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// Device is one row of "adb devices -l".
type Device struct {
	Serial  string
	State   string
	Product string
	Model   string
	Device  string
}

// Devices lists devices known to the adb server.
func (b *Bridge) Devices() ([]Device, error) {
	out, err := b.Run("devices", "-l")
	if err != nil {
		return nil, err
	}
	return parseDevices(out), nil
}

func parseDevices(out string) []Device {
	var devices []Device
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" ||
			strings.HasPrefix(line, "List of devices") ||
			strings.HasPrefix(line, "*") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		d := Device{Serial: fields[0], State: fields[1]}
		for _, tok := range fields[2:] {
			kv := strings.SplitN(tok, ":", 2)
			if len(kv) != 2 {
				continue
			}
			switch kv[0] {
			case "product":
				d.Product = kv[1]
			case "model":
				d.Model = kv[1]
			case "device":
				d.Device = kv[1]
			}
		}
		devices = append(devices, d)
	}
	return devices
}

// AutoDetect finds adb in PATH or common SDK install locations.
func AutoDetect() string {
	exe := "adb"
	if runtime.GOOS == "windows" {
		exe = "adb.exe"
	}
	if p, err := exec.LookPath(exe); err == nil {
		return p
	}

	roots := []string{
		os.Getenv("ANDROID_SDK_ROOT"),
		os.Getenv("ANDROID_HOME"),
	}
	if home, err := os.UserHomeDir(); err == nil {
		switch runtime.GOOS {
		case "darwin":
			roots = append(roots, filepath.Join(home, "Library", "Android", "sdk"))
		case "windows":
			roots = append(roots, filepath.Join(home, "AppData", "Local", "Android", "Sdk"))
		default:
			roots = append(roots, filepath.Join(home, "Android", "Sdk"))
		}
	}
	for _, root := range roots {
		if root == "" {
			continue
		}
		cand := filepath.Join(root, "platform-tools", exe)
		if st, err := os.Stat(cand); err == nil && !st.IsDir() {
			return cand
		}
	}
	return ""
}
