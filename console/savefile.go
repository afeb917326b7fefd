package console

import (
	"bufio"
	"encoding"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Masterminds/semver/v3"

	"github.com/sarchlab/psxcore/diag"
)

// SaveFormatVersion is the version written into new save files.
const SaveFormatVersion = "1.0.0"

// saveCompat accepts files from any 1.x writer no newer than this one.
const saveCompat = ">= 1.0.0, <= " + SaveFormatVersion

var saveMagic = [8]byte{'P', 'S', 'X', 'C', 'O', 'R', 'E', 0}

// Save file errors.
var (
	ErrBadMagic            = errors.New("not a save file")
	ErrIncompatibleVersion = errors.New("incompatible save file version")
)

// cpuState adapts the CPU's save-state methods to the binary marshaler
// interfaces used for the devices.
type cpuState struct{ c *Console }

func (s cpuState) MarshalBinary() ([]byte, error) {
	return s.c.cpu.SaveState(), nil
}

func (s cpuState) UnmarshalBinary(p []byte) error {
	return s.c.cpu.LoadState(p)
}

type section struct {
	name string
	m    interface {
		encoding.BinaryMarshaler
		encoding.BinaryUnmarshaler
	}
}

// sections lists the state saved, in file order.
func (c *Console) sections() []section {
	return []section{
		{"cpu", cpuState{c}},
		{"ram", c.ram},
		{"scratchpad", c.scratchpad},
		{"gpu", c.gpu},
		{"dma", c.dma},
	}
}

// WriteState writes a save file: magic, format version, then each
// section as a little-endian length followed by its bytes. Only call it
// between ticks.
func (c *Console) WriteState(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.Write(saveMagic[:]); err != nil {
		return err
	}
	if err := writeChunk(bw, []byte(SaveFormatVersion)); err != nil {
		return err
	}

	for _, s := range c.sections() {
		data, err := s.m.MarshalBinary()
		if err != nil {
			return fmt.Errorf("failed to serialize %s: %w", s.name, err)
		}
		if err := writeChunk(bw, data); err != nil {
			return fmt.Errorf("failed to write %s: %w", s.name, err)
		}
	}

	return bw.Flush()
}

// ReadState restores a save file written by WriteState. The run state of
// the CPU is not part of the file and is left alone.
func (c *Console) ReadState(r io.Reader) error {
	br := bufio.NewReader(r)

	var magic [8]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return fmt.Errorf("%w: %v", ErrBadMagic, err)
	}
	if magic != saveMagic {
		return ErrBadMagic
	}

	raw, err := readChunk(br)
	if err != nil {
		return fmt.Errorf("failed to read version: %w", err)
	}
	if err := checkVersion(string(raw)); err != nil {
		return err
	}

	// Every section is read and size-checked before anything is restored.
	chunks := make([][]byte, 0, len(c.sections()))
	for _, s := range c.sections() {
		data, err := readChunk(br)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", s.name, err)
		}
		cur, err := s.m.MarshalBinary()
		if err != nil {
			return err
		}
		if len(data) != len(cur) {
			return fmt.Errorf("%s section is %d bytes, want %d", s.name, len(data), len(cur))
		}
		chunks = append(chunks, data)
	}

	for i, s := range c.sections() {
		if err := s.m.UnmarshalBinary(chunks[i]); err != nil {
			return fmt.Errorf("failed to restore %s: %w", s.name, err)
		}
	}

	return nil
}

func checkVersion(s string) error {
	v, err := semver.NewVersion(s)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrIncompatibleVersion, s, err)
	}

	compat, err := semver.NewConstraint(saveCompat)
	if err != nil {
		return err
	}
	if !compat.Check(v) {
		return fmt.Errorf("%w: %s, this build reads %s", ErrIncompatibleVersion, v, saveCompat)
	}

	return nil
}

// SaveState writes a save file to path, or to the configured state path
// when path is empty.
func (c *Console) SaveState(path string) error {
	path, err := c.statePath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create save file: %w", err)
	}

	if err := c.WriteState(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close save file: %w", err)
	}

	c.sink.Push("state saved to "+path, diag.Info, diag.ChannelConsole)
	return nil
}

// LoadState restores a save file from path, or from the configured state
// path when path is empty.
func (c *Console) LoadState(path string) error {
	path, err := c.statePath(path)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open save file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := c.ReadState(f); err != nil {
		return err
	}

	c.sink.Push("state loaded from "+path, diag.Info, diag.ChannelConsole)
	return nil
}

func (c *Console) statePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	if c.cfg.StatePath == "" {
		return "", errors.New("no save file path given")
	}
	return c.cfg.StatePath, nil
}

func writeChunk(w io.Writer, data []byte) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(data))); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

// maxChunk bounds a section so a corrupt length cannot exhaust memory.
const maxChunk = 16 << 20

func readChunk(r io.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	if n > maxChunk {
		return nil, fmt.Errorf("section of %d bytes is too large", n)
	}

	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, err
	}
	return data, nil
}
