package syntax

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrParse is wrapped by every error returned from Parse.
var ErrParse = errors.New("failed to parse source")

// DefaultMaxSourceBytes bounds the size of a single input. Parsing is
// synchronous with no cancellation, so oversized inputs are rejected at the
// boundary instead of being allowed to block a scan.
const DefaultMaxSourceBytes = 2 << 20

// Parser builds syntax trees for Solidity source. A Parser is not safe for
// concurrent use; callers must serialize Parse calls.
type Parser struct {
	MaxSourceBytes int

	reElementary *regexp.Regexp
	reTypedName  *regexp.Regexp
}

// NewParser constructs a parser bound to the Solidity grammar. It fails if
// the statement classifier patterns cannot be compiled.
func NewParser() (*Parser, error) {
	reElementary, err := regexp.Compile(`^(uint\d*|int\d*|address(\s+payable)?|bool|bytes\d*|string|mapping\s*\(|var)\b`)
	if err != nil {
		return nil, fmt.Errorf("load grammar: %w", err)
	}
	reTypedName, err := regexp.Compile(`^[A-Za-z_$][\w$]*(\.[A-Za-z_$][\w$]*)*(\s*\[[^\]]*\])*\s+((memory|storage|calldata)\s+)?[A-Za-z_$][\w$]*$`)
	if err != nil {
		return nil, fmt.Errorf("load grammar: %w", err)
	}
	return &Parser{
		MaxSourceBytes: DefaultMaxSourceBytes,
		reElementary:   reElementary,
		reTypedName:    reTypedName,
	}, nil
}

// Parse turns source into a tree. It returns an error wrapping ErrParse when
// the text does not conform to the grammar (unbalanced brackets, truncated
// statements), is not valid UTF-8, or exceeds MaxSourceBytes.
func (p *Parser) Parse(source string) (*Tree, error) {
	if p.MaxSourceBytes > 0 && len(source) > p.MaxSourceBytes {
		return nil, fmt.Errorf("%w: input exceeds %d bytes", ErrParse, p.MaxSourceBytes)
	}
	if !utf8.ValidString(source) {
		return nil, fmt.Errorf("%w: input is not valid UTF-8", ErrParse)
	}
	s := &scanner{src: source}
	root, err := p.parseSourceFile(s)
	if err != nil {
		return nil, err
	}
	return &Tree{root: root}, nil
}

// scanner tracks a byte offset plus the 0-based row/column of that offset.
type scanner struct {
	src      string
	off      int
	row, col uint32
}

func (s *scanner) eof() bool      { return s.off >= len(s.src) }
func (s *scanner) peek() byte     { return s.src[s.off] }
func (s *scanner) point() Point   { return Point{Row: s.row, Column: s.col} }
func (s *scanner) mark() (uint32, Point) { return uint32(s.off), s.point() }

func (s *scanner) next() byte {
	b := s.src[s.off]
	s.off++
	if b == '\n' {
		s.row++
		s.col = 0
	} else {
		s.col++
	}
	return b
}

func (s *scanner) peekAt(i int) byte {
	if s.off+i >= len(s.src) {
		return 0
	}
	return s.src[s.off+i]
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '$' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func (s *scanner) peekWord() string {
	i := s.off
	for i < len(s.src) && isIdentByte(s.src[i]) {
		i++
	}
	return s.src[s.off:i]
}

func (s *scanner) consumeWord(w string) {
	for range w {
		s.next()
	}
}

// skipNonCode consumes a string literal or comment starting at the current
// offset, reporting whether anything was consumed.
func (s *scanner) skipNonCode() bool {
	switch b := s.peek(); {
	case b == '"' || b == '\'':
		q := s.next()
		for !s.eof() {
			c := s.next()
			if c == '\\' && !s.eof() {
				s.next()
				continue
			}
			if c == q {
				break
			}
		}
		return true
	case b == '/' && s.peekAt(1) == '/':
		for !s.eof() && s.peek() != '\n' {
			s.next()
		}
		return true
	case b == '/' && s.peekAt(1) == '*':
		s.next()
		s.next()
		for !s.eof() {
			if s.peek() == '*' && s.peekAt(1) == '/' {
				s.next()
				s.next()
				break
			}
			s.next()
		}
		return true
	}
	return false
}

func (s *scanner) skipTrivia() {
	for !s.eof() {
		b := s.peek()
		if b == ' ' || b == '\t' || b == '\r' || b == '\n' {
			s.next()
			continue
		}
		if b == '/' && (s.peekAt(1) == '/' || s.peekAt(1) == '*') {
			s.skipNonCode()
			continue
		}
		return
	}
}

// consumeSimple consumes through the terminating semicolon at bracket depth
// zero. Semicolons inside parentheses or braces (for headers, call options)
// do not terminate the statement.
func (s *scanner) consumeSimple() error {
	depth := 0
	for !s.eof() {
		if s.skipNonCode() {
			continue
		}
		switch b := s.peek(); b {
		case '(', '[', '{':
			depth++
			s.next()
		case ')', ']', '}':
			depth--
			s.next()
			if depth < 0 {
				return fmt.Errorf("%w: unexpected %q", ErrParse, b)
			}
		case ';':
			s.next()
			if depth == 0 {
				return nil
			}
		default:
			s.next()
		}
	}
	return fmt.Errorf("%w: unexpected end of input", ErrParse)
}

// consumeBalanced consumes a bracket group starting at the current opener.
func (s *scanner) consumeBalanced() error {
	open := s.next()
	var closer byte
	switch open {
	case '(':
		closer = ')'
	case '[':
		closer = ']'
	default:
		closer = '}'
	}
	depth := 1
	for !s.eof() {
		if s.skipNonCode() {
			continue
		}
		switch s.peek() {
		case open:
			depth++
			s.next()
		case closer:
			depth--
			s.next()
			if depth == 0 {
				return nil
			}
		default:
			s.next()
		}
	}
	return fmt.Errorf("%w: unbalanced %q", ErrParse, open)
}

// seekBody advances through a declaration header until a body opener or a
// terminating semicolon at parenthesis depth zero. The brace is left
// unconsumed; the semicolon is consumed.
func (s *scanner) seekBody() (byte, error) {
	depth := 0
	for !s.eof() {
		if s.skipNonCode() {
			continue
		}
		switch b := s.peek(); b {
		case '(', '[':
			depth++
			s.next()
		case ')', ']':
			depth--
			s.next()
		case '{':
			if depth == 0 {
				return '{', nil
			}
			s.next()
		case ';':
			s.next()
			if depth == 0 {
				return ';', nil
			}
		default:
			s.next()
		}
	}
	return 0, fmt.Errorf("%w: unexpected end of input in declaration", ErrParse)
}

func node(kind string, sb uint32, sp Point, s *scanner, children []*Node) *Node {
	return &Node{
		kind:       kind,
		startByte:  sb,
		endByte:    uint32(s.off),
		startPoint: sp,
		endPoint:   s.point(),
		children:   children,
	}
}

func (p *Parser) parseSourceFile(s *scanner) (*Node, error) {
	sb, sp := s.mark()
	var kids []*Node
	for {
		s.skipTrivia()
		if s.eof() {
			break
		}
		n, err := p.parseTopLevel(s)
		if err != nil {
			return nil, err
		}
		kids = append(kids, n)
	}
	return node("source_file", sb, sp, s, kids), nil
}

func (p *Parser) parseTopLevel(s *scanner) (*Node, error) {
	switch s.peekWord() {
	case "pragma":
		return p.simpleDecl(s, "pragma_directive")
	case "import":
		return p.simpleDecl(s, "import_directive")
	case "abstract", "contract", "interface", "library":
		return p.parseContract(s)
	case "function":
		return p.parseFunction(s)
	case "struct", "enum":
		return p.parseTypeDecl(s)
	default:
		return p.simpleDecl(s, "declaration")
	}
}

func (p *Parser) simpleDecl(s *scanner, kind string) (*Node, error) {
	sb, sp := s.mark()
	if err := s.consumeSimple(); err != nil {
		return nil, err
	}
	return node(kind, sb, sp, s, nil), nil
}

func (p *Parser) parseContract(s *scanner) (*Node, error) {
	sb, sp := s.mark()
	stop, err := s.seekBody()
	if err != nil {
		return nil, err
	}
	if stop == ';' {
		return node("contract_declaration", sb, sp, s, nil), nil
	}
	s.next() // '{'
	var kids []*Node
	for {
		s.skipTrivia()
		if s.eof() {
			return nil, fmt.Errorf("%w: unterminated contract body", ErrParse)
		}
		if s.peek() == '}' {
			s.next()
			break
		}
		m, err := p.parseMember(s)
		if err != nil {
			return nil, err
		}
		kids = append(kids, m)
	}
	return node("contract_declaration", sb, sp, s, kids), nil
}

func (p *Parser) parseMember(s *scanner) (*Node, error) {
	switch s.peekWord() {
	case "function", "constructor", "receive", "fallback", "modifier":
		return p.parseFunction(s)
	case "struct", "enum":
		return p.parseTypeDecl(s)
	case "event":
		return p.simpleDecl(s, "event_definition")
	case "error":
		return p.simpleDecl(s, "error_declaration")
	case "using":
		return p.simpleDecl(s, "using_directive")
	default:
		return p.simpleDecl(s, "state_variable_declaration")
	}
}

// parseTypeDecl handles struct and enum bodies, which close with a brace and
// carry no trailing semicolon.
func (p *Parser) parseTypeDecl(s *scanner) (*Node, error) {
	sb, sp := s.mark()
	kind := s.peekWord() + "_declaration"
	if _, err := s.seekBody(); err != nil {
		return nil, err
	}
	if err := s.consumeBalanced(); err != nil {
		return nil, err
	}
	return node(kind, sb, sp, s, nil), nil
}

func functionKind(keyword string) string {
	switch keyword {
	case "constructor":
		return "constructor_definition"
	case "receive", "fallback":
		return "fallback_receive_definition"
	case "modifier":
		return "modifier_definition"
	default:
		return "function_definition"
	}
}

// parseFunction builds a function node whose direct children are the
// top-level statements of its body. Statements inside nested blocks hang off
// the enclosing control-flow node one level further down.
func (p *Parser) parseFunction(s *scanner) (*Node, error) {
	sb, sp := s.mark()
	kind := functionKind(s.peekWord())
	stop, err := s.seekBody()
	if err != nil {
		return nil, err
	}
	if stop == ';' { // body-less declaration (interface, abstract)
		return node(kind, sb, sp, s, nil), nil
	}
	s.next() // '{'
	kids, err := p.parseStatements(s)
	if err != nil {
		return nil, err
	}
	return node(kind, sb, sp, s, kids), nil
}

// parseStatements parses statements up to and including the closing brace of
// the current block.
func (p *Parser) parseStatements(s *scanner) ([]*Node, error) {
	var kids []*Node
	for {
		s.skipTrivia()
		if s.eof() {
			return nil, fmt.Errorf("%w: unterminated block", ErrParse)
		}
		if s.peek() == '}' {
			s.next()
			return kids, nil
		}
		st, err := p.parseStatement(s)
		if err != nil {
			return nil, err
		}
		kids = append(kids, st)
	}
}

func (p *Parser) parseStatement(s *scanner) (*Node, error) {
	sb, sp := s.mark()
	if s.peek() == '{' {
		s.next()
		kids, err := p.parseStatements(s)
		if err != nil {
			return nil, err
		}
		return node("block", sb, sp, s, kids), nil
	}
	switch w := s.peekWord(); w {
	case "if":
		return p.parseIf(s, sb, sp)
	case "for", "while":
		return p.parseLoop(s, w+"_statement", sb, sp)
	case "unchecked":
		s.consumeWord(w)
		s.skipTrivia()
		if s.eof() || s.peek() != '{' {
			return nil, fmt.Errorf("%w: expected block after unchecked", ErrParse)
		}
		s.next()
		kids, err := p.parseStatements(s)
		if err != nil {
			return nil, err
		}
		return node("unchecked_block", sb, sp, s, kids), nil
	case "assembly":
		return p.parseAssembly(s, sb, sp)
	case "return":
		return p.terminatedStatement(s, "return_statement", sb, sp)
	case "emit":
		return p.terminatedStatement(s, "emit_statement", sb, sp)
	case "revert":
		return p.terminatedStatement(s, "revert_statement", sb, sp)
	case "break", "continue":
		return p.terminatedStatement(s, w+"_statement", sb, sp)
	default:
		return p.parseSimpleStatement(s, sb, sp)
	}
}

func (p *Parser) terminatedStatement(s *scanner, kind string, sb uint32, sp Point) (*Node, error) {
	if err := s.consumeSimple(); err != nil {
		return nil, err
	}
	return node(kind, sb, sp, s, nil), nil
}

// parseBody parses either a braced block or a single statement and returns
// the contained statements.
func (p *Parser) parseBody(s *scanner) ([]*Node, error) {
	s.skipTrivia()
	if s.eof() {
		return nil, fmt.Errorf("%w: unexpected end of input", ErrParse)
	}
	if s.peek() == '{' {
		s.next()
		return p.parseStatements(s)
	}
	st, err := p.parseStatement(s)
	if err != nil {
		return nil, err
	}
	return []*Node{st}, nil
}

func (p *Parser) parseIf(s *scanner, sb uint32, sp Point) (*Node, error) {
	s.consumeWord("if")
	s.skipTrivia()
	if !s.eof() && s.peek() == '(' {
		if err := s.consumeBalanced(); err != nil {
			return nil, err
		}
	}
	kids, err := p.parseBody(s)
	if err != nil {
		return nil, err
	}
	for {
		save := *s
		s.skipTrivia()
		if s.eof() || s.peekWord() != "else" {
			*s = save
			break
		}
		s.consumeWord("else")
		s.skipTrivia()
		if !s.eof() && s.peekWord() == "if" {
			esb, esp := s.mark()
			nested, err := p.parseIf(s, esb, esp)
			if err != nil {
				return nil, err
			}
			kids = append(kids, nested)
			break
		}
		body, err := p.parseBody(s)
		if err != nil {
			return nil, err
		}
		kids = append(kids, body...)
	}
	return node("if_statement", sb, sp, s, kids), nil
}

func (p *Parser) parseLoop(s *scanner, kind string, sb uint32, sp Point) (*Node, error) {
	s.consumeWord(s.peekWord())
	s.skipTrivia()
	if !s.eof() && s.peek() == '(' {
		if err := s.consumeBalanced(); err != nil {
			return nil, err
		}
	}
	kids, err := p.parseBody(s)
	if err != nil {
		return nil, err
	}
	return node(kind, sb, sp, s, kids), nil
}

// parseAssembly consumes an assembly block opaquely; Yul is not modeled.
func (p *Parser) parseAssembly(s *scanner, sb uint32, sp Point) (*Node, error) {
	s.consumeWord("assembly")
	for {
		s.skipTrivia()
		if s.eof() {
			return nil, fmt.Errorf("%w: unterminated assembly block", ErrParse)
		}
		b := s.peek()
		if b == '{' {
			break
		}
		if b == '"' || b == '(' { // "memory-safe" flag forms
			if b == '"' {
				s.skipNonCode()
			} else if err := s.consumeBalanced(); err != nil {
				return nil, err
			}
			continue
		}
		return nil, fmt.Errorf("%w: expected block after assembly", ErrParse)
	}
	if err := s.consumeBalanced(); err != nil {
		return nil, err
	}
	return node("assembly_statement", sb, sp, s, nil), nil
}

func (p *Parser) parseSimpleStatement(s *scanner, sb uint32, sp Point) (*Node, error) {
	if err := s.consumeSimple(); err != nil {
		return nil, err
	}
	text := s.src[sb:s.off]
	return node(p.classifyStatement(text), sb, sp, s, nil), nil
}

// classifyStatement assigns a grammar kind to a semicolon-terminated
// statement based on its top-level assignment operator, if any.
func (p *Parser) classifyStatement(text string) string {
	op, lhs := topLevelAssign(text)
	switch op {
	case "":
		return "expression_statement"
	case "=":
		if p.isDeclaration(lhs) {
			return "variable_declaration_statement"
		}
		return "assignment_expression"
	default:
		return "augmented_assignment_expression"
	}
}

// topLevelAssign finds the first assignment operator at bracket depth zero,
// returning the operator and the text preceding it.
func topLevelAssign(text string) (op, lhs string) {
	depth := 0
	for i := 0; i < len(text); i++ {
		switch b := text[i]; b {
		case '"', '\'':
			for i++; i < len(text); i++ {
				if text[i] == '\\' {
					i++
					continue
				}
				if text[i] == b {
					break
				}
			}
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '!', '<', '>':
			if i+1 < len(text) && text[i+1] == '=' {
				i++
			}
		case '=':
			if i+1 < len(text) && (text[i+1] == '=' || text[i+1] == '>') {
				i++
				continue
			}
			if depth != 0 {
				continue
			}
			if i > 0 && strings.IndexByte("+-*/%&|^", text[i-1]) >= 0 {
				return string(text[i-1]) + "=", text[:i-1]
			}
			return "=", text[:i]
		}
	}
	return "", ""
}

// isDeclaration reports whether the left-hand side of an assignment reads as
// a typed variable declaration rather than a store to an existing location.
func (p *Parser) isDeclaration(lhs string) bool {
	lhs = strings.TrimSpace(lhs)
	if lhs == "" {
		return false
	}
	if lhs[0] == '(' {
		// tuple form: a declaration when any component carries a type
		inner := strings.Trim(lhs, "() \t\n")
		for _, part := range strings.Split(inner, ",") {
			if p.reElementary.MatchString(strings.TrimSpace(part)) {
				return true
			}
		}
		return false
	}
	if p.reElementary.MatchString(lhs) {
		return true
	}
	return p.reTypedName.MatchString(lhs)
}
