// Package diag carries emulator diagnostics from the CPU and devices to
// whoever is watching: an in-memory log for debuggers, a logr.Logger for
// command-line tools, or nothing at all.
package diag

// Severity grades a diagnostic message.
type Severity uint8

// Severities, least to most severe.
const (
	Message Severity = iota
	Info
	Warning
	Error
)

var severityNames = [...]string{"message", "info", "warning", "error"}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "unknown"
}

// Channel names used by the emulator's components.
const (
	ChannelAll      = "all"
	ChannelCPU      = "cpu"
	ChannelBus      = "bus"
	ChannelDMA      = "dma"
	ChannelGPU      = "gpu"
	ChannelHardReg  = "hardreg"
	ChannelNoDevice = "nodevice"
	ChannelConsole  = "console"
)

// Sink receives diagnostics. Components are handed a Sink explicitly; there
// is no package-level logger.
type Sink interface {
	Push(msg string, sev Severity, channel string)
}

// Spammer is implemented by sinks that keep high-frequency trace lines,
// such as per-instruction disassembly, apart from regular messages.
type Spammer interface {
	Spam(msg string)
}

// Nop discards everything.
type Nop struct{}

// Push does nothing.
func (Nop) Push(string, Severity, string) {}

// Tee fans a message out to several sinks.
type Tee []Sink

// Push forwards to every sink in order.
func (t Tee) Push(msg string, sev Severity, channel string) {
	for _, s := range t {
		s.Push(msg, sev, channel)
	}
}

// OrNop returns s, or Nop if s is nil.
func OrNop(s Sink) Sink {
	if s == nil {
		return Nop{}
	}
	return s
}
