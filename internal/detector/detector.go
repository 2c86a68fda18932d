// Package detector holds the vulnerability detectors and their registry.
// A detector is a stateless scan over one parsed source file; detectors never
// fail and never mutate the tree they are given.
package detector

import (
	"github.com/audityzer-org/audityzer/internal/model"
	"github.com/audityzer-org/audityzer/internal/syntax"
)

// Detector scans a syntax tree for one class of vulnerability.
//
// Name returns a short stable identifier used to attribute findings. Detect
// is a pure read-only pass over the tree and source: it returns zero or more
// findings and cannot fail. A detector that cannot interpret part of a tree
// contributes no finding for that part instead of aborting the analysis.
type Detector interface {
	Name() string
	Detect(tree *syntax.Tree, source string) []model.Vulnerability
}

// Registry is an ordered collection of detectors, fixed once registration is
// done. There is no runtime add or remove.
type Registry struct {
	detectors []Detector
}

func NewRegistry() *Registry { return &Registry{} }

func (r *Registry) Register(d Detector) { r.detectors = append(r.detectors, d) }

// RegisterBuiltin installs the standard detector set in its canonical order.
func (r *Registry) RegisterBuiltin() {
	r.Register(&ReentrancyDetector{})
	r.Register(&OverflowDetector{})
	r.Register(&AccessControlDetector{})
}

func (r *Registry) Detectors() []Detector { return r.detectors }

func (r *Registry) Len() int { return len(r.detectors) }

// Extras returns the optional detectors that are not part of the standard
// set. They follow the same contract and are appended at construction time
// when a caller opts in.
func Extras() []Detector {
	return []Detector{
		&TxOriginDetector{},
		&FloatingPragmaDetector{},
		&DelegatecallDetector{},
		&TransferSendDetector{},
	}
}
