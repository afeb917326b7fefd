// Package loader reads the images a console boots from: the BIOS ROM and
// PS-X EXE executables.
package loader

import (
	"fmt"
	"os"

	"github.com/sarchlab/psxcore/devices"
)

// LoadBIOS reads a BIOS ROM image. The file must be exactly 512 KiB.
func LoadBIOS(path string) (*devices.BIOS, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read BIOS file: %w", err)
	}

	bios, err := devices.NewBIOS(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load BIOS %s: %w", path, err)
	}

	return bios, nil
}
