package detector

import (
	"github.com/audityzer-org/audityzer/internal/model"
	"github.com/audityzer-org/audityzer/internal/syntax"
)

// OverflowDetector is reserved for integer overflow/underflow analysis. It
// runs on every analysis but produces no findings yet.
type OverflowDetector struct{}

func (d *OverflowDetector) Name() string { return "overflow-detector" }

func (d *OverflowDetector) Detect(tree *syntax.Tree, source string) []model.Vulnerability {
	return nil
}

// AccessControlDetector is reserved for missing access control analysis. It
// runs on every analysis but produces no findings yet.
type AccessControlDetector struct{}

func (d *AccessControlDetector) Name() string { return "access-control-detector" }

func (d *AccessControlDetector) Detect(tree *syntax.Tree, source string) []model.Vulnerability {
	return nil
}
