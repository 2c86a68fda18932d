package detector

import (
	"strings"

	"github.com/audityzer-org/audityzer/internal/model"
	"github.com/audityzer-org/audityzer/internal/syntax"
)

// ReentrancyDetector flags functions where code that triggers an external
// call is followed, among the same function's top-level statements, by a
// state-changing assignment: the classic checks-effects-interactions
// violation.
type ReentrancyDetector struct{}

func (d *ReentrancyDetector) Name() string { return "reentrancy-detector" }

func (d *ReentrancyDetector) Detect(tree *syntax.Tree, source string) []model.Vulnerability {
	var vulns []model.Vulnerability
	src := []byte(source)
	syntax.Walk(tree.RootNode(), func(n *syntax.Node) bool {
		if n.Type() == "function_definition" && d.stateChangeAfterCall(n, src) {
			pos := n.StartPoint()
			vulns = append(vulns, model.Vulnerability{
				Severity:    model.SeverityCritical,
				Title:       "Reentrancy Vulnerability",
				Description: "State change after external call detected",
				Line:        int(pos.Row) + 1,
				Column:      int(pos.Column) + 1,
				Suggestion:  "Use checks-effects-interactions pattern",
				Detector:    d.Name(),
			})
		}
		// nested function definitions are each tested independently
		return true
	})
	return vulns
}

// stateChangeAfterCall scans only the direct children of a function node in
// source order. It does not descend into nested blocks, so a call followed by
// an assignment inside an if or for body is missed. At most one violation is
// reported per function; the first qualifying assignment wins.
func (d *ReentrancyDetector) stateChangeAfterCall(fn *syntax.Node, source []byte) bool {
	foundCall := false
	for i := 0; i < fn.ChildCount(); i++ {
		child := fn.Child(i)
		if containsExternalCall(child.Content(source)) {
			foundCall = true
		} else if foundCall && child.Type() == "assignment_expression" {
			return true
		}
	}
	return false
}

// containsExternalCall is the textual heuristic for "this statement performs
// an external call". It is plain substring containment, so it can misfire on
// comments or string literals and misses calls written without these exact
// tokens. A future AST-aware replacement only needs to change this predicate;
// the surrounding traversal stays untouched.
func containsExternalCall(text string) bool {
	return strings.Contains(text, ".call{") ||
		strings.Contains(text, ".transfer(") ||
		strings.Contains(text, ".send(")
}
