// Package mode implements the operational mode layer. A mode scales a
// notional energy budget and analysis depth for a scan; no detector reads
// these values today, and depth is reserved as a future traversal bound.
package mode

import (
	"fmt"

	"go.uber.org/zap"
)

// Mode is an operational profile for a scan.
type Mode int

const (
	// Strength runs deep forensic scans.
	Strength Mode = iota
	// Speed favors real-time turnaround.
	Speed
	// Armor focuses on cryptographic hardening.
	Armor
	// Stealth runs low-power covert monitoring.
	Stealth
)

// EnergyCost returns the energy multiplier of the mode.
func (m Mode) EnergyCost() float64 {
	switch m {
	case Strength:
		return 2.5
	case Armor:
		return 3.0
	case Stealth:
		return 0.5
	default:
		return 1.0
	}
}

// AnalysisDepth returns the recommended traversal depth for the mode.
func (m Mode) AnalysisDepth() int {
	switch m {
	case Strength:
		return 10
	case Armor:
		return 7
	case Stealth:
		return 5
	default:
		return 3
	}
}

// QuantumAware reports whether the mode covers quantum-era threat checks.
func (m Mode) QuantumAware() bool {
	return m == Armor || m == Strength
}

func (m Mode) String() string {
	switch m {
	case Strength:
		return "STRENGTH [Deep Forensics]"
	case Armor:
		return "ARMOR [Quantum Shield]"
	case Stealth:
		return "STEALTH [Covert Monitor]"
	default:
		return "SPEED [Fast Scan]"
	}
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "strength":
		return Strength, nil
	case "speed", "":
		return Speed, nil
	case "armor":
		return Armor, nil
	case "stealth":
		return Stealth, nil
	default:
		return Speed, fmt.Errorf("unknown mode %q", s)
	}
}

// Controller tracks the active mode and the remaining energy budget. Mode
// switches are logged through the injected logger; there is no process-wide
// logging state here.
type Controller struct {
	logger  *zap.Logger
	current Mode
	energy  float64
}

func NewController(logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{logger: logger, current: Speed, energy: 100.0}
}

// Switch changes the active mode.
func (c *Controller) Switch(m Mode) {
	c.logger.Info("switching mode",
		zap.Stringer("from", c.current),
		zap.Stringer("to", m),
	)
	c.current = m
}

// ConsumeEnergy drains the budget for an operation of the given duration.
func (c *Controller) ConsumeEnergy(seconds float64) {
	c.energy -= c.current.EnergyCost() * seconds
	if c.energy < 0 {
		c.energy = 0
	}
}

// HasEnergy reports whether enough budget remains for another operation.
func (c *Controller) HasEnergy() bool { return c.energy > 10.0 }

func (c *Controller) Mode() Mode      { return c.current }
func (c *Controller) Energy() float64 { return c.energy }
