package detector

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/audityzer-org/audityzer/internal/model"
	"github.com/audityzer-org/audityzer/internal/syntax"
)

// Optional detectors. They share the core contract but are only registered
// when a caller opts in, so the standard set keeps its fixed behavior.

// lineOf returns the 1-based line of a byte offset.
func lineOf(source []byte, off int) int {
	if off > len(source) {
		off = len(source)
	}
	return bytes.Count(source[:off], []byte("\n")) + 1
}

// TxOriginDetector flags tx.origin used inside authorization-style checks
// (SWC-115).
type TxOriginDetector struct{}

func (d *TxOriginDetector) Name() string { return "tx-origin-detector" }

func (d *TxOriginDetector) Detect(tree *syntax.Tree, source string) []model.Vulnerability {
	var vulns []model.Vulnerability
	src := []byte(source)
	syntax.Walk(tree.RootNode(), func(n *syntax.Node) bool {
		if n.Type() != "function_definition" {
			return true
		}
		body := n.Content(src)
		if !strings.Contains(body, "tx.origin") {
			return true
		}
		for _, l := range strings.Split(body, "\n") {
			low := strings.ToLower(l)
			if strings.Contains(low, "tx.origin") &&
				(strings.Contains(low, "require(") || strings.Contains(low, "assert(") || strings.Contains(low, "if (")) {
				pos := n.StartPoint()
				vulns = append(vulns, model.Vulnerability{
					Severity:    model.SeverityHigh,
					Title:       "tx.origin used for authorization",
					Description: "tx.origin is susceptible to phishing through intermediate contract calls",
					Line:        int(pos.Row) + 1,
					Column:      int(pos.Column) + 1,
					Suggestion:  "Replace tx.origin with msg.sender and implement proper access control",
					Detector:    d.Name(),
				})
				break
			}
		}
		return true
	})
	return vulns
}

// FloatingPragmaDetector flags caret or open compiler version ranges
// (SWC-103).
type FloatingPragmaDetector struct{}

func (d *FloatingPragmaDetector) Name() string { return "floating-pragma-detector" }

var (
	rePragmaVersion = regexp.MustCompile(`pragma\s+solidity\s+([^;]+);`)
	reExactVersion  = regexp.MustCompile(`^=?\s*\d+\.\d+\.\d+$`)
)

func (d *FloatingPragmaDetector) Detect(tree *syntax.Tree, source string) []model.Vulnerability {
	var vulns []model.Vulnerability
	src := []byte(source)
	root := tree.RootNode()
	for i := 0; i < root.ChildCount(); i++ {
		n := root.Child(i)
		if n.Type() != "pragma_directive" {
			continue
		}
		m := rePragmaVersion.FindStringSubmatch(n.Content(src))
		if len(m) < 2 {
			continue
		}
		ver := strings.TrimSpace(m[1])
		floating := strings.Contains(ver, "^") || strings.Contains(ver, ">=") || strings.Contains(ver, "<")
		if floating && !reExactVersion.MatchString(ver) {
			pos := n.StartPoint()
			vulns = append(vulns, model.Vulnerability{
				Severity:    model.SeverityMedium,
				Title:       "Floating pragma solidity version",
				Description: "Version ranges can yield different compiler behavior across builds",
				Line:        int(pos.Row) + 1,
				Column:      int(pos.Column) + 1,
				Suggestion:  "Pin to an exact compiler version, e.g. pragma solidity 0.8.20",
				Detector:    d.Name(),
			})
		}
	}
	return vulns
}

// DelegatecallDetector flags delegatecall whose target is plausibly
// user-controlled (SWC-112).
type DelegatecallDetector struct{}

func (d *DelegatecallDetector) Name() string { return "delegatecall-detector" }

var (
	reDelegatecall = regexp.MustCompile(`\.delegatecall\s*\(([^)]*)\)`)
	reParams       = regexp.MustCompile(`\(([^)]*)\)`)
)

func (d *DelegatecallDetector) Detect(tree *syntax.Tree, source string) []model.Vulnerability {
	var vulns []model.Vulnerability
	src := []byte(source)
	syntax.Walk(tree.RootNode(), func(n *syntax.Node) bool {
		if n.Type() != "function_definition" {
			return true
		}
		body := n.Content(src)
		if !strings.Contains(body, ".delegatecall(") {
			return true
		}
		params := paramNames(body)
		for _, loc := range reDelegatecall.FindAllStringSubmatchIndex(body, -1) {
			arg := strings.TrimSpace(body[loc[2]:loc[3]])
			tainted := strings.Contains(arg, "msg.sender") || strings.Contains(arg, "msg.data")
			for _, pn := range params {
				if tainted {
					break
				}
				tainted = strings.Contains(arg, pn)
			}
			if !tainted {
				continue
			}
			line := lineOf(src, int(n.StartByte())+loc[0])
			vulns = append(vulns, model.Vulnerability{
				Severity:    model.SeverityCritical,
				Title:       "delegatecall to potentially untrusted target",
				Description: "delegatecall executes in caller context; untrusted targets can corrupt storage",
				Line:        line,
				Column:      1,
				Suggestion:  "Restrict and validate delegatecall targets; prefer audited proxy patterns",
				Detector:    d.Name(),
			})
		}
		return true
	})
	return vulns
}

// paramNames extracts the parameter identifiers from a function header.
func paramNames(body string) []string {
	m := reParams.FindStringSubmatch(body)
	if len(m) < 2 {
		return nil
	}
	var names []string
	for _, p := range strings.Split(m[1], ",") {
		toks := strings.Fields(strings.TrimSpace(p))
		if len(toks) > 1 {
			names = append(names, toks[len(toks)-1])
		}
	}
	return names
}

// TransferSendDetector flags transfer/send, whose fixed 2300 gas stipend can
// break with gas repricing (EIP-1884).
type TransferSendDetector struct{}

func (d *TransferSendDetector) Name() string { return "transfer-send-detector" }

var leafStatementKinds = map[string]bool{
	"expression_statement":            true,
	"assignment_expression":           true,
	"augmented_assignment_expression": true,
	"variable_declaration_statement":  true,
	"return_statement":                true,
	"emit_statement":                  true,
}

func (d *TransferSendDetector) Detect(tree *syntax.Tree, source string) []model.Vulnerability {
	var vulns []model.Vulnerability
	src := []byte(source)
	syntax.Walk(tree.RootNode(), func(n *syntax.Node) bool {
		if !leafStatementKinds[n.Type()] {
			return true
		}
		text := n.Content(src)
		if !strings.Contains(text, ".transfer(") && !strings.Contains(text, ".send(") {
			return true
		}
		pos := n.StartPoint()
		vulns = append(vulns, model.Vulnerability{
			Severity:    model.SeverityMedium,
			Title:       "Use of transfer/send (gas stipend)",
			Description: "transfer and send forward a fixed 2300 gas and may revert after gas repricing",
			Line:        int(pos.Row) + 1,
			Column:      int(pos.Column) + 1,
			Suggestion:  "Use call{value: amount}(\"\") and handle the success boolean, or a pull payment pattern",
			Detector:    d.Name(),
		})
		return true
	})
	return vulns
}
