package syntax

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, source string) *Tree {
	t.Helper()
	p, err := NewParser()
	require.NoError(t, err)
	tree, err := p.Parse(source)
	require.NoError(t, err)
	return tree
}

func findFirst(n *Node, kind string) *Node {
	var found *Node
	Walk(n, func(c *Node) bool {
		if found == nil && c.Type() == kind {
			found = c
		}
		return found == nil
	})
	return found
}

func TestParseContractStructure(t *testing.T) {
	source := `pragma solidity ^0.8.0;

contract Vault {
    uint256 balance;

    function withdraw() public {
        msg.sender.call{value: 1}("");
        balance = 0;
    }
}
`
	tree := mustParse(t, source)
	root := tree.RootNode()
	require.Equal(t, "source_file", root.Type())
	require.Equal(t, 2, root.ChildCount())
	require.Equal(t, "pragma_directive", root.Child(0).Type())
	require.Equal(t, "contract_declaration", root.Child(1).Type())

	fn := findFirst(root, "function_definition")
	require.NotNil(t, fn)
	require.Equal(t, uint32(5), fn.StartPoint().Row)
	require.Equal(t, uint32(4), fn.StartPoint().Column)

	require.Equal(t, 2, fn.ChildCount())
	require.Equal(t, "expression_statement", fn.Child(0).Type())
	require.Equal(t, "assignment_expression", fn.Child(1).Type())
	require.Contains(t, fn.Child(0).Content([]byte(source)), ".call{")
}

func TestStatementClassification(t *testing.T) {
	tests := []struct {
		name string
		stmt string
		kind string
	}{
		{"simple assignment", "balance = 0;", "assignment_expression"},
		{"member assignment", "balances[msg.sender] = 0;", "assignment_expression"},
		{"augmented assignment", "total += amount;", "augmented_assignment_expression"},
		{"typed declaration", "uint256 amount = balance;", "variable_declaration_statement"},
		{"user type declaration", "Position memory pos = positions[id];", "variable_declaration_statement"},
		{"tuple declaration", `(bool ok, ) = target.call{value: amount}("");`, "variable_declaration_statement"},
		{"call statement", "require(amount > 0);", "expression_statement"},
		{"equality is not assignment", "check(a == b);", "expression_statement"},
		{"return", "return balance;", "return_statement"},
		{"emit", "emit Withdrawal(msg.sender);", "emit_statement"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := "contract C {\n    function f() public {\n        " + tt.stmt + "\n    }\n}\n"
			fn := findFirst(mustParse(t, source).RootNode(), "function_definition")
			require.NotNil(t, fn)
			require.Equal(t, 1, fn.ChildCount())
			require.Equal(t, tt.kind, fn.Child(0).Type())
		})
	}
}

func TestNestedBlocksAreNotDirectChildren(t *testing.T) {
	source := `contract C {
    function f() public {
        target.call{value: 1}("");
        if (ok) {
            balance = 0;
        }
    }
}
`
	fn := findFirst(mustParse(t, source).RootNode(), "function_definition")
	require.NotNil(t, fn)
	require.Equal(t, 2, fn.ChildCount())
	require.Equal(t, "if_statement", fn.Child(1).Type())
	require.Equal(t, 1, fn.Child(1).ChildCount())
	require.Equal(t, "assignment_expression", fn.Child(1).Child(0).Type())
}

func TestElseBranches(t *testing.T) {
	source := `contract C {
    function f() public {
        if (a) {
            x = 1;
        } else if (b) {
            y = 2;
        } else {
            z = 3;
        }
    }
}
`
	fn := findFirst(mustParse(t, source).RootNode(), "function_definition")
	require.NotNil(t, fn)
	require.Equal(t, 1, fn.ChildCount())
	ifNode := fn.Child(0)
	require.Equal(t, "if_statement", ifNode.Type())
	// then-branch statement plus the nested else-if chain
	require.Equal(t, 2, ifNode.ChildCount())
	require.Equal(t, "assignment_expression", ifNode.Child(0).Type())
	require.Equal(t, "if_statement", ifNode.Child(1).Type())
}

func TestBodylessAndSpecialFunctions(t *testing.T) {
	source := `interface IVault {
    function deposit() external;
}

contract Vault {
    constructor() {
        owner = msg.sender;
    }

    receive() external payable {}
}
`
	root := mustParse(t, source).RootNode()
	decl := findFirst(root, "function_definition")
	require.NotNil(t, decl)
	require.Equal(t, 0, decl.ChildCount())
	ctor := findFirst(root, "constructor_definition")
	require.NotNil(t, ctor)
	require.Equal(t, 1, ctor.ChildCount())
	require.NotNil(t, findFirst(root, "fallback_receive_definition"))
}

func TestBracesInCommentsAndStrings(t *testing.T) {
	source := `contract C {
    // unmatched } in a comment {
    string constant note = "also } unbalanced {";

    function f() public {
        /* { */
        x = 1;
    }
}
`
	fn := findFirst(mustParse(t, source).RootNode(), "function_definition")
	require.NotNil(t, fn)
	require.Equal(t, 1, fn.ChildCount())
	require.Equal(t, "assignment_expression", fn.Child(0).Type())
}

func TestParseErrors(t *testing.T) {
	p, err := NewParser()
	require.NoError(t, err)

	tests := []struct {
		name   string
		source string
	}{
		{"unterminated contract", "contract C {"},
		{"unterminated function", "contract C { function f() public { x = 1;"},
		{"stray closing brace", "}"},
		{"missing semicolon", "contract C { uint x = 1 }"},
		{"invalid utf8", "contract C {}\xff"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse(tt.source)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestMaxSourceBytes(t *testing.T) {
	p, err := NewParser()
	require.NoError(t, err)
	p.MaxSourceBytes = 16
	_, err = p.Parse("contract C { uint x; }")
	require.ErrorIs(t, err, ErrParse)
}

func TestEmptySourceParses(t *testing.T) {
	tree := mustParse(t, "")
	require.Equal(t, 0, tree.RootNode().ChildCount())
}

func TestNodeContentMatchesByteRange(t *testing.T) {
	source := "contract C { uint256 balance; }\n"
	root := mustParse(t, source).RootNode()
	decl := findFirst(root, "state_variable_declaration")
	require.NotNil(t, decl)
	require.Equal(t, "uint256 balance;", strings.TrimSpace(decl.Content([]byte(source))))
}
