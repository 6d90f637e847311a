// Package parser - tokenizer and recursive-descent parser for C++ declarations
package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenType represents the type of a token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenNewline
	TokenWhitespace
	TokenLineComment  // //
	TokenBlockComment // /* */

	// Preprocessor lines that survive lexing
	TokenPragma      // #pragma ...
	TokenInclude     // #include ...
	TokenPPDirective // any other directive, never emitted

	TokenIdentifier

	// Literals
	TokenIntConstHex
	TokenIntConstBin
	TokenIntConstOct
	TokenIntConstDec
	TokenIntConstChar // 'ab'
	TokenFloatConst
	TokenHexFloatConst
	TokenCharConst
	TokenWCharConst
	TokenU8CharConst
	TokenU16CharConst
	TokenU32CharConst
	TokenStringLiteral
	TokenWStringLiteral
	TokenU8StringLiteral
	TokenU16StringLiteral
	TokenU32StringLiteral

	// Operators and punctuation
	TokenLeftParen      // (
	TokenRightParen     // )
	TokenLeftBrace      // {
	TokenRightBrace     // }
	TokenLeftBracket    // [
	TokenRightBracket   // ]
	TokenDoubleLBracket // [[
	TokenDoubleRBracket // ]]
	TokenSemicolon      // ;
	TokenColon          // :
	TokenDoubleColon    // ::
	TokenComma          // ,
	TokenDot            // .
	TokenEllipsis       // ...
	TokenArrow          // ->
	TokenEquals         // =
	TokenLess           // <
	TokenGreater        // >
	TokenAmpersand      // &
	TokenDoubleAmp      // &&
	TokenPipe           // |
	TokenDoublePipe     // ||
	TokenLeftShift      // <<
	TokenCaret          // ^
	TokenTilde          // ~
	TokenExclamation    // !
	TokenQuestion       // ?
	TokenPlus           // +
	TokenMinus          // -
	TokenStar           // *
	TokenSlash          // /
	TokenPercent        // %
	TokenHash           // #

	// Keywords
	TokenKeywordStart // Marker for start of keywords
	TokenAlignas
	TokenAlignof
	TokenAsm
	TokenAuto
	TokenBool
	TokenBreak
	TokenCase
	TokenCatch
	TokenChar
	TokenChar8T
	TokenChar16T
	TokenChar32T
	TokenClass
	TokenConcept
	TokenConst
	TokenConsteval
	TokenConstexpr
	TokenConstinit
	TokenConstCast
	TokenContinue
	TokenDecltype
	TokenDefault
	TokenDelete
	TokenDo
	TokenDouble
	TokenDynamicCast
	TokenElse
	TokenEnum
	TokenExplicit
	TokenExport
	TokenExtern
	TokenFalse
	TokenFinal
	TokenFloat
	TokenFor
	TokenFriend
	TokenGoto
	TokenIf
	TokenInline
	TokenInt
	TokenLong
	TokenMutable
	TokenNamespace
	TokenNew
	TokenNoexcept
	TokenNullptr
	TokenOperator
	TokenOverride
	TokenPrivate
	TokenProtected
	TokenPublic
	TokenRegister
	TokenReinterpretCast
	TokenRequires
	TokenReturn
	TokenShort
	TokenSigned
	TokenSizeof
	TokenStatic
	TokenStaticAssert
	TokenStaticCast
	TokenStruct
	TokenSwitch
	TokenTemplate
	TokenThis
	TokenThreadLocal
	TokenThrow
	TokenTrue
	TokenTry
	TokenTypedef
	TokenTypeid
	TokenTypename
	TokenUnion
	TokenUnsigned
	TokenUsing
	TokenVirtual
	TokenVoid
	TokenVolatile
	TokenWcharT
	TokenWhile
	TokenGCCAttribute // __attribute__
	TokenDeclspec     // __declspec
	TokenMSInline     // __inline
	TokenForceInline  // __forceinline
	TokenInt8         // __int8
	TokenInt16        // __int16
	TokenInt32        // __int32
	TokenInt64        // __int64
	TokenCdecl        // __cdecl
	TokenClrcall      // __clrcall
	TokenStdcall      // __stdcall
	TokenFastcall     // __fastcall
	TokenThiscall     // __thiscall
	TokenVectorcall   // __vectorcall
	TokenKeywordEnd   // Marker for end of keywords
)

// TokenUserDefined is or'ed into a literal type when the literal carries a
// user-defined suffix, as in 12_km or "abc"_s.
const TokenUserDefined TokenType = 1 << 12

// keywords maps C++ keywords to their token types
var keywords = map[string]TokenType{
	"alignas":          TokenAlignas,
	"alignof":          TokenAlignof,
	"asm":              TokenAsm,
	"auto":             TokenAuto,
	"bool":             TokenBool,
	"break":            TokenBreak,
	"case":             TokenCase,
	"catch":            TokenCatch,
	"char":             TokenChar,
	"char8_t":          TokenChar8T,
	"char16_t":         TokenChar16T,
	"char32_t":         TokenChar32T,
	"class":            TokenClass,
	"concept":          TokenConcept,
	"const":            TokenConst,
	"consteval":        TokenConsteval,
	"constexpr":        TokenConstexpr,
	"constinit":        TokenConstinit,
	"const_cast":       TokenConstCast,
	"continue":         TokenContinue,
	"decltype":         TokenDecltype,
	"default":          TokenDefault,
	"delete":           TokenDelete,
	"do":               TokenDo,
	"double":           TokenDouble,
	"dynamic_cast":     TokenDynamicCast,
	"else":             TokenElse,
	"enum":             TokenEnum,
	"explicit":         TokenExplicit,
	"export":           TokenExport,
	"extern":           TokenExtern,
	"false":            TokenFalse,
	"final":            TokenFinal,
	"float":            TokenFloat,
	"for":              TokenFor,
	"friend":           TokenFriend,
	"goto":             TokenGoto,
	"if":               TokenIf,
	"inline":           TokenInline,
	"int":              TokenInt,
	"long":             TokenLong,
	"mutable":          TokenMutable,
	"namespace":        TokenNamespace,
	"new":              TokenNew,
	"noexcept":         TokenNoexcept,
	"nullptr":          TokenNullptr,
	"operator":         TokenOperator,
	"override":         TokenOverride,
	"private":          TokenPrivate,
	"protected":        TokenProtected,
	"public":           TokenPublic,
	"register":         TokenRegister,
	"reinterpret_cast": TokenReinterpretCast,
	"requires":         TokenRequires,
	"return":           TokenReturn,
	"short":            TokenShort,
	"signed":           TokenSigned,
	"sizeof":           TokenSizeof,
	"static":           TokenStatic,
	"static_assert":    TokenStaticAssert,
	"static_cast":      TokenStaticCast,
	"struct":           TokenStruct,
	"switch":           TokenSwitch,
	"template":         TokenTemplate,
	"this":             TokenThis,
	"thread_local":     TokenThreadLocal,
	"throw":            TokenThrow,
	"true":             TokenTrue,
	"try":              TokenTry,
	"typedef":          TokenTypedef,
	"typeid":           TokenTypeid,
	"typename":         TokenTypename,
	"union":            TokenUnion,
	"unsigned":         TokenUnsigned,
	"using":            TokenUsing,
	"virtual":          TokenVirtual,
	"void":             TokenVoid,
	"volatile":         TokenVolatile,
	"wchar_t":          TokenWcharT,
	"while":            TokenWhile,
	"__attribute__":    TokenGCCAttribute,
	"__declspec":       TokenDeclspec,
	"__inline":         TokenMSInline,
	"__forceinline":    TokenForceInline,
	"__int8":           TokenInt8,
	"__int16":          TokenInt16,
	"__int32":          TokenInt32,
	"__int64":          TokenInt64,
	"__cdecl":          TokenCdecl,
	"__clrcall":        TokenClrcall,
	"__stdcall":        TokenStdcall,
	"__fastcall":       TokenFastcall,
	"__thiscall":       TokenThiscall,
	"__vectorcall":     TokenVectorcall,
}

var punctuators = map[string]TokenType{
	"(":   TokenLeftParen,
	")":   TokenRightParen,
	"{":   TokenLeftBrace,
	"}":   TokenRightBrace,
	"[":   TokenLeftBracket,
	"]":   TokenRightBracket,
	"[[":  TokenDoubleLBracket,
	"]]":  TokenDoubleRBracket,
	";":   TokenSemicolon,
	":":   TokenColon,
	"::":  TokenDoubleColon,
	",":   TokenComma,
	".":   TokenDot,
	"...": TokenEllipsis,
	"->":  TokenArrow,
	"=":   TokenEquals,
	"<":   TokenLess,
	">":   TokenGreater,
	"&":   TokenAmpersand,
	"&&":  TokenDoubleAmp,
	"|":   TokenPipe,
	"||":  TokenDoublePipe,
	"<<":  TokenLeftShift,
	"^":   TokenCaret,
	"~":   TokenTilde,
	"!":   TokenExclamation,
	"?":   TokenQuestion,
	"+":   TokenPlus,
	"-":   TokenMinus,
	"*":   TokenStar,
	"/":   TokenSlash,
	"%":   TokenPercent,
	"#":   TokenHash,
}

var tokenNames = map[TokenType]string{
	TokenEOF:              "EOF",
	TokenNewline:          "NEWLINE",
	TokenWhitespace:       "WHITESPACE",
	TokenLineComment:      "COMMENT_SINGLELINE",
	TokenBlockComment:     "COMMENT_MULTILINE",
	TokenPragma:           "PRAGMA_DIRECTIVE",
	TokenInclude:          "INCLUDE_DIRECTIVE",
	TokenPPDirective:      "PP_DIRECTIVE",
	TokenIdentifier:       "NAME",
	TokenIntConstHex:      "INT_CONST_HEX",
	TokenIntConstBin:      "INT_CONST_BIN",
	TokenIntConstOct:      "INT_CONST_OCT",
	TokenIntConstDec:      "INT_CONST_DEC",
	TokenIntConstChar:     "INT_CONST_CHAR",
	TokenFloatConst:       "FLOAT_CONST",
	TokenHexFloatConst:    "HEX_FLOAT_CONST",
	TokenCharConst:        "CHAR_CONST",
	TokenWCharConst:       "WCHAR_CONST",
	TokenU8CharConst:      "U8CHAR_CONST",
	TokenU16CharConst:     "U16CHAR_CONST",
	TokenU32CharConst:     "U32CHAR_CONST",
	TokenStringLiteral:    "STRING_LITERAL",
	TokenWStringLiteral:   "WSTRING_LITERAL",
	TokenU8StringLiteral:  "U8STRING_LITERAL",
	TokenU16StringLiteral: "U16STRING_LITERAL",
	TokenU32StringLiteral: "U32STRING_LITERAL",
}

func init() {
	for k, v := range keywords {
		tokenNames[v] = k
	}
	for k, v := range punctuators {
		tokenNames[v] = k
	}
}

// String returns the tag name of the token type
func (t TokenType) String() string {
	if t&TokenUserDefined != 0 {
		return "UD_" + (t &^ TokenUserDefined).String()
	}
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// IsKeyword reports whether the type is a reserved word
func (t TokenType) IsKeyword() bool {
	return t > TokenKeywordStart && t < TokenKeywordEnd
}

// IsLiteral reports whether the type is a numeric, character or string literal
func (t TokenType) IsLiteral() bool {
	base := t &^ TokenUserDefined
	return base >= TokenIntConstHex && base <= TokenU32StringLiteral
}

// IsStringLiteral reports whether the type is any string literal
func (t TokenType) IsStringLiteral() bool {
	base := t &^ TokenUserDefined
	return base >= TokenStringLiteral && base <= TokenU32StringLiteral
}

// Discardable reports whether the parser skips tokens of this type
func (t TokenType) Discardable() bool {
	switch t {
	case TokenNewline, TokenWhitespace, TokenLineComment, TokenBlockComment:
		return true
	}
	return false
}

// Location is the logical position of a token, as adjusted by #line
type Location struct {
	Filename string
	Line     int
}

func (l Location) String() string {
	return l.Filename + ":" + strconv.Itoa(l.Line)
}

// Token represents a single token
type Token struct {
	Type     TokenType
	Value    string
	Line     int // physical line, 1-based
	Column   int
	Offset   int
	Location Location
}

// String returns a string representation of the token
func (t Token) String() string {
	if t.Type == TokenEOF {
		return "EOF"
	}
	return fmt.Sprintf("%s(%q) at %d:%d", t.Type, t.Value, t.Line, t.Column)
}

// Tokenizer turns C++ source text into tokens on demand. Whitespace,
// newlines and comments are returned as tokens so the stream can recover
// documentation comments; #line and #warning are consumed silently.
type Tokenizer struct {
	input     string
	filename  string
	pos       int
	line      int // current physical line
	column    int
	width     int // width of last rune read
	start     int // start position of current token
	startLine int
	startCol  int
	lineDelta int // logical line minus physical line
}

// NewTokenizer creates a new tokenizer
func NewTokenizer(filename, input string) *Tokenizer {
	return &Tokenizer{
		input:    input,
		filename: filename,
		line:     1,
		column:   1,
	}
}

// Tokenize lexes the whole input, including discardable tokens
func Tokenize(filename, input string) ([]Token, error) {
	t := NewTokenizer(filename, input)
	var tokens []Token
	for {
		tok, err := t.Next()
		if err != nil {
			return tokens, err
		}
		if tok.Type == TokenEOF {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// Location returns the logical location of the read position
func (t *Tokenizer) Location() Location {
	return Location{Filename: t.filename, Line: t.line + t.lineDelta}
}

// next reads the next rune and advances position
func (t *Tokenizer) next() rune {
	if t.pos >= len(t.input) {
		t.width = 0
		return 0
	}

	r, w := utf8.DecodeRuneInString(t.input[t.pos:])
	t.width = w
	t.pos += w

	if r == '\n' {
		t.line++
		t.column = 1
	} else {
		t.column++
	}

	return r
}

// peek returns the next rune without consuming it
func (t *Tokenizer) peek() rune {
	return t.peekN(0)
}

// peekN returns the byte n positions ahead as a rune
func (t *Tokenizer) peekN(n int) rune {
	if t.pos+n >= len(t.input) {
		return 0
	}
	return rune(t.input[t.pos+n])
}

// emit builds a token of the given type from the pending input
func (t *Tokenizer) emit(tokenType TokenType) Token {
	return Token{
		Type:     tokenType,
		Value:    t.input[t.start:t.pos],
		Line:     t.startLine,
		Column:   t.startCol,
		Offset:   t.start,
		Location: Location{Filename: t.filename, Line: t.startLine + t.lineDelta},
	}
}

// errorf builds a LexError at the start of the pending token
func (t *Tokenizer) errorf(format string, args ...any) error {
	return &LexError{
		Location: Location{Filename: t.filename, Line: t.startLine + t.lineDelta},
		Offset:   t.start,
		Msg:      fmt.Sprintf(format, args...),
	}
}

// acceptRun consumes a run of runes from the valid set
func (t *Tokenizer) acceptRun(valid string) {
	for t.pos < len(t.input) && strings.IndexByte(valid, t.input[t.pos]) >= 0 {
		t.next()
	}
}

// acceptDigits consumes digits from the valid set, allowing ' separators
// between them
func (t *Tokenizer) acceptDigits(valid string) int {
	n := 0
	for t.pos < len(t.input) {
		c := t.input[t.pos]
		if strings.IndexByte(valid, c) >= 0 {
			t.next()
			n++
			continue
		}
		if c == '\'' && n > 0 && strings.IndexByte(valid, byte(t.peekN(1))) >= 0 && t.peekN(1) != 0 {
			t.next()
			continue
		}
		break
	}
	return n
}

// Next returns the next token, or a TokenEOF token at the end of input
func (t *Tokenizer) Next() (Token, error) {
	for {
		t.start, t.startLine, t.startCol = t.pos, t.line, t.column
		if t.pos >= len(t.input) {
			return t.emit(TokenEOF), nil
		}
		tok, ok, err := t.scan()
		if err != nil {
			return Token{}, err
		}
		if ok {
			return tok, nil
		}
	}
}

// scan lexes one token; ok is false when the input was consumed without
// producing a token
func (t *Tokenizer) scan() (tok Token, ok bool, err error) {
	r := t.next()

	switch {
	case r == '\n':
		return t.emit(TokenNewline), true, nil

	case r == '\\':
		if t.peek() == '\r' && t.peekN(1) == '\n' {
			t.next()
		}
		if t.peek() != '\n' {
			return Token{}, false, t.errorf("stray '\\' in program")
		}
		t.next()
		return t.emit(TokenWhitespace), true, nil

	case r == ' ' || r == '\t' || r == '\r' || r == '\f' || r == '\v':
		t.acceptRun(" \t\r\f\v")
		return t.emit(TokenWhitespace), true, nil

	case r == '/' && t.peek() == '/':
		return t.scanLineComment(), true, nil

	case r == '/' && t.peek() == '*':
		tok, err := t.scanBlockComment()
		return tok, err == nil, err

	case r == '#':
		return t.scanDirective()

	case r == '"':
		tok, err := t.scanQuoted('"', "")
		return tok, err == nil, err

	case r == '\'':
		tok, err := t.scanQuoted('\'', "")
		return tok, err == nil, err

	case isDigit(r) || (r == '.' && isDigit(t.peek())):
		tok, err := t.scanNumber(r)
		return tok, err == nil, err

	case isIdentStart(r):
		tok, err := t.scanIdentifier()
		return tok, err == nil, err
	}

	tok, err = t.scanOperator(r)
	return tok, err == nil, err
}

// scanLineComment scans a // comment up to, not including, the newline
func (t *Tokenizer) scanLineComment() Token {
	for t.pos < len(t.input) {
		c := t.input[t.pos]
		if c == '\\' && t.peekN(1) == '\n' {
			t.next()
			t.next()
			continue
		}
		if c == '\n' {
			break
		}
		t.next()
	}
	return t.emit(TokenLineComment)
}

// scanBlockComment scans a /* */ comment
func (t *Tokenizer) scanBlockComment() (Token, error) {
	t.next() // consume '*'
	end := strings.Index(t.input[t.pos:], "*/")
	if end < 0 {
		return Token{}, t.errorf("unterminated comment")
	}
	for stop := t.pos + end + 2; t.pos < stop; {
		t.next()
	}
	return t.emit(TokenBlockComment), nil
}

// scanDirective handles a preprocessor line. #line and #warning are
// consumed, #pragma and #include become tokens and anything else is an error.
func (t *Tokenizer) scanDirective() (Token, bool, error) {
	for t.pos < len(t.input) {
		c := t.input[t.pos]
		if c == '\\' && t.peekN(1) == '\n' {
			t.next()
			t.next()
			continue
		}
		if c == '\n' {
			break
		}
		t.next()
	}

	text := strings.TrimSpace(t.input[t.start+1 : t.pos])
	name := text
	if i := strings.IndexFunc(text, func(r rune) bool { return !isIdentChar(r) }); i >= 0 {
		name = text[:i]
	}

	switch {
	case name == "pragma":
		return t.emit(TokenPragma), true, nil
	case name == "include":
		return t.emit(TokenInclude), true, nil
	case name == "warning":
		return Token{}, false, nil
	case name == "line":
		return Token{}, false, t.applyLineMarker(strings.TrimSpace(text[len(name):]))
	case name != "" && isDigit(rune(name[0])):
		return Token{}, false, t.applyLineMarker(text)
	}
	return Token{}, false, t.errorf("unsupported preprocessor directive: #%s", name)
}

// applyLineMarker handles the `N "file"` tail of #line and GCC line markers
func (t *Tokenizer) applyLineMarker(rest string) error {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return t.errorf("#line requires a line number")
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return t.errorf("invalid #line number %q", fields[0])
	}
	// the line after the directive gets number n
	t.lineDelta = n - (t.line + 1)
	if len(fields) > 1 {
		name := fields[1]
		if unq, err := strconv.Unquote(name); err == nil {
			name = unq
		}
		t.filename = name
	}
	return nil
}

var (
	charPrefixes = map[string]TokenType{
		"":   TokenCharConst,
		"L":  TokenWCharConst,
		"u8": TokenU8CharConst,
		"u":  TokenU16CharConst,
		"U":  TokenU32CharConst,
	}
	stringPrefixes = map[string]TokenType{
		"":   TokenStringLiteral,
		"L":  TokenWStringLiteral,
		"u8": TokenU8StringLiteral,
		"u":  TokenU16StringLiteral,
		"U":  TokenU32StringLiteral,
	}
)

// scanIdentifier scans an identifier, keyword or prefixed literal
func (t *Tokenizer) scanIdentifier() (Token, error) {
	for isIdentChar(t.peekRune()) {
		t.next()
	}
	word := t.input[t.start:t.pos]

	switch q := t.peek(); {
	case q == '"' || q == '\'':
		if _, ok := stringPrefixes[word]; ok {
			t.next()
			return t.scanQuoted(q, word)
		}
		if q == '"' && strings.HasSuffix(word, "R") {
			if _, ok := stringPrefixes[strings.TrimSuffix(word, "R")]; ok {
				t.next()
				return t.scanRawString(strings.TrimSuffix(word, "R"))
			}
		}
	}

	if kw, ok := keywords[word]; ok {
		return t.emit(kw), nil
	}
	return t.emit(TokenIdentifier), nil
}

// peekRune decodes the next rune without consuming it
func (t *Tokenizer) peekRune() rune {
	if t.pos >= len(t.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(t.input[t.pos:])
	return r
}

// scanQuoted scans a character or string literal whose opening quote has
// been consumed
func (t *Tokenizer) scanQuoted(quote rune, prefix string) (Token, error) {
	kind := "string literal"
	if quote == '\'' {
		kind = "character constant"
	}

	chars := 0
	for {
		r := t.next()
		switch r {
		case 0, '\n':
			return Token{}, t.errorf("unterminated %s", kind)
		case '\\':
			if err := t.scanEscape(); err != nil {
				return Token{}, err
			}
		case quote:
			if quote == '"' {
				return t.emitLiteral(stringPrefixes[prefix]), nil
			}
			switch {
			case chars == 0:
				return Token{}, t.errorf("empty character constant")
			case chars > 1 && prefix == "":
				return t.emitLiteral(TokenIntConstChar), nil
			}
			return t.emitLiteral(charPrefixes[prefix]), nil
		}
		chars++
	}
}

// scanEscape validates the escape sequence after a backslash
func (t *Tokenizer) scanEscape() error {
	r := t.next()
	switch {
	case strings.ContainsRune(`'"?\abfnrtv`, r), r == '\n':
		return nil
	case r >= '0' && r <= '7':
		for i := 0; i < 2 && t.peek() >= '0' && t.peek() <= '7'; i++ {
			t.next()
		}
		return nil
	case r == 'x':
		if t.acceptDigits(hexDigits) == 0 {
			return t.errorf("\\x used with no following hex digits")
		}
		return nil
	case r == 'u' || r == 'U':
		want := 4
		if r == 'U' {
			want = 8
		}
		for i := 0; i < want; i++ {
			if !strings.ContainsRune(hexDigits, t.peek()) || t.peek() == 0 {
				return t.errorf("incomplete universal character name")
			}
			t.next()
		}
		return nil
	}
	return t.errorf("invalid escape sequence '\\%c'", r)
}

// scanRawString scans R"delim( ... )delim"; the opening quote has been consumed
func (t *Tokenizer) scanRawString(prefix string) (Token, error) {
	open := strings.IndexByte(t.input[t.pos:], '(')
	if open < 0 || open > 16 {
		return Token{}, t.errorf("invalid raw string delimiter")
	}
	delim := t.input[t.pos : t.pos+open]
	if strings.ContainsAny(delim, " \\)\t\n") {
		return Token{}, t.errorf("invalid raw string delimiter %q", delim)
	}
	terminator := ")" + delim + `"`
	end := strings.Index(t.input[t.pos+open+1:], terminator)
	if end < 0 {
		return Token{}, t.errorf("unterminated raw string")
	}
	for stop := t.pos + open + 1 + end + len(terminator); t.pos < stop; {
		t.next()
	}
	return t.emitLiteral(stringPrefixes[prefix]), nil
}

const (
	decDigits = "0123456789"
	octDigits = "01234567"
	hexDigits = "0123456789abcdefABCDEF"
)

// scanNumber scans integer and floating constants
func (t *Tokenizer) scanNumber(first rune) (Token, error) {
	if first == '0' && (t.peek() == 'x' || t.peek() == 'X') {
		t.next()
		t.acceptDigits(hexDigits)
		float := false
		if t.peek() == '.' {
			t.next()
			t.acceptDigits(hexDigits)
			float = true
		}
		if p := t.peek(); p == 'p' || p == 'P' {
			t.next()
			t.acceptRun("+-")
			if t.acceptDigits(decDigits) == 0 {
				return Token{}, t.errorf("exponent has no digits")
			}
			float = true
		}
		if float {
			t.acceptRun("fFlL")
			return t.emitLiteral(TokenHexFloatConst), nil
		}
		t.acceptRun("uUlLzZ")
		return t.emitLiteral(TokenIntConstHex), nil
	}

	if first == '0' && (t.peek() == 'b' || t.peek() == 'B') {
		t.next()
		if t.acceptDigits("01") == 0 {
			return Token{}, t.errorf("invalid binary constant")
		}
		t.acceptRun("uUlLzZ")
		return t.emitLiteral(TokenIntConstBin), nil
	}

	float := first == '.'
	if first != '.' {
		t.acceptDigits(decDigits)
		if t.peek() == '.' {
			t.next()
			float = true
		}
	}
	if float {
		t.acceptDigits(decDigits)
	}
	if e := t.peek(); e == 'e' || e == 'E' {
		n := 1
		if s := t.peekN(1); s == '+' || s == '-' {
			n = 2
		}
		if isDigit(t.peekN(n)) {
			for i := 0; i < n; i++ {
				t.next()
			}
			t.acceptDigits(decDigits)
			float = true
		}
	}
	if float {
		t.acceptRun("fFlL")
		return t.emitLiteral(TokenFloatConst), nil
	}

	digits := strings.ReplaceAll(t.input[t.start:t.pos], "'", "")
	if first == '0' && len(digits) > 1 {
		if strings.Trim(digits, octDigits) != "" {
			return Token{}, t.errorf("invalid octal constant %q", digits)
		}
		t.acceptRun("uUlLzZ")
		return t.emitLiteral(TokenIntConstOct), nil
	}
	t.acceptRun("uUlLzZ")
	return t.emitLiteral(TokenIntConstDec), nil
}

// emitLiteral folds a trailing user-defined suffix into the literal
func (t *Tokenizer) emitLiteral(tokenType TokenType) Token {
	if t.peek() == '_' {
		for isIdentChar(t.peekRune()) {
			t.next()
		}
		tokenType |= TokenUserDefined
	}
	return t.emit(tokenType)
}

// scanOperator scans punctuation, preferring the longest match
func (t *Tokenizer) scanOperator(r rune) (Token, error) {
	two := string(r) + string(t.peek())
	switch {
	case two == ".." && t.peekN(1) == '.':
		t.next()
		t.next()
		return t.emit(TokenEllipsis), nil
	case two != ".." && len(two) == 2:
		if tt, ok := punctuators[two]; ok {
			t.next()
			return t.emit(tt), nil
		}
	}
	if tt, ok := punctuators[string(r)]; ok {
		return t.emit(tt), nil
	}
	return Token{}, t.errorf("unexpected character %q", r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentChar(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
