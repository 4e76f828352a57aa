package fpgakit

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
)

// systemTool runs the bundled hardware inspection utilities (lsusb,
// lsftdi) from the tools-system package and parses their output.
type systemTool struct {
	ext string
}

func newSystemTool() *systemTool {
	ext := ""
	if osName == "windows" {
		ext = ".exe"
	}
	return &systemTool{ext: ext}
}

// run executes one utility from the system package's bin directory.
// The composed toolchain environment must already be applied so the
// utility can find its own shared libraries.
func (s *systemTool) run(cfg *Config, command string) (string, error) {
	base := packageDir(cfg, packageTable[PkgSystem].Folder)
	bin := filepath.Join(base, binFolder)
	if base == "" || !isDir(bin) {
		showInstallHint(cfg, PkgSystem)
		return "", fmt.Errorf("package '%s' is not installed", PkgSystem)
	}

	out, err := exec.Command(filepath.Join(bin, command+s.ext)).CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("%s failed: %w", command, err)
	}
	return string(out), nil
}

type usbDevice struct {
	HWID string
}

type ftdiDevice struct {
	Index        string
	Manufacturer string
	Description  string
}

var (
	usbHWIDRe      = regexp.MustCompile(`([a-f0-9]{4}:[a-f0-9]{4})\s`)
	ftdiCountRe    = regexp.MustCompile(`Number\sof\sFTDI\sdevices\sfound:\s(\d+)`)
	ftdiIndexRe    = regexp.MustCompile(`.*Checking\sdevice:\s(.*?)\n`)
	ftdiVendorRe   = regexp.MustCompile(`.*Manufacturer:\s(.*?),`)
	ftdiDescribeRe = regexp.MustCompile(`.*Description:\s(.*?)\n`)
)

// parseUSBDevices extracts vendor:product IDs from lsusb output.
func parseUSBDevices(text string) []usbDevice {
	var devices []usbDevice
	for _, match := range usbHWIDRe.FindAllStringSubmatch(text, -1) {
		devices = append(devices, usbDevice{HWID: match[1]})
	}
	return devices
}

// parseFTDIDevices extracts the device table from lsftdi output.
func parseFTDIDevices(text string) []ftdiDevice {
	count := 0
	if match := ftdiCountRe.FindStringSubmatch(text); match != nil {
		count, _ = strconv.Atoi(match[1])
	}

	indexes := ftdiIndexRe.FindAllStringSubmatch(text, -1)
	vendors := ftdiVendorRe.FindAllStringSubmatch(text, -1)
	descriptions := ftdiDescribeRe.FindAllStringSubmatch(text, -1)

	var devices []ftdiDevice
	for i := 0; i < count && i < len(indexes) && i < len(vendors) && i < len(descriptions); i++ {
		devices = append(devices, ftdiDevice{
			Index:        indexes[i][1],
			Manufacturer: vendors[i][1],
			Description:  descriptions[i][1],
		})
	}
	return devices
}

// lsusb lists connected USB devices.
func (s *systemTool) lsusb(cfg *Config) error {
	out, err := s.run(cfg, "lsusb")
	if err != nil {
		return err
	}

	devices := parseUSBDevices(out)
	colSuccess.Printf("Number of USB devices found: %d\n", len(devices))
	for _, dev := range devices {
		colNote.Printf("  %s\n", dev.HWID)
	}
	return nil
}

// lsftdi lists connected FTDI devices.
func (s *systemTool) lsftdi(cfg *Config) error {
	out, err := s.run(cfg, "lsftdi")
	if err != nil {
		return err
	}

	devices := parseFTDIDevices(out)
	colSuccess.Printf("Number of FTDI devices found: %d\n", len(devices))
	for _, dev := range devices {
		colNote.Printf("  Index: %s\n", dev.Index)
		fmt.Printf("  Manufacturer: %s\n", dev.Manufacturer)
		fmt.Printf("  Description: %s\n\n", dev.Description)
	}
	return nil
}
