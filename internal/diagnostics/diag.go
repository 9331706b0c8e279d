package diagnostics

import (
	"fmt"

	"github.com/mas6y6/REDLINE/internal/lexer/token"
)

type Kind int

const (
	LEX_ERROR Kind = iota
	PARSE_ERROR
	IMPORT_ERROR
	VISIBILITY_ERROR
	TYPE_ERROR
	UNRESOLVED_CALL_ERROR
	AMBIGUOUS_CALL_ERROR
	MUTABILITY_ERROR
	UNKNOWN_MEMBER_ERROR
	SCOPE_ERROR
)

func (k Kind) String() string {
	switch k {
	case LEX_ERROR:
		return "LexError"
	case PARSE_ERROR:
		return "ParseError"
	case IMPORT_ERROR:
		return "ImportError"
	case VISIBILITY_ERROR:
		return "VisibilityError"
	case TYPE_ERROR:
		return "TypeError"
	case UNRESOLVED_CALL_ERROR:
		return "UnresolvedCallError"
	case AMBIGUOUS_CALL_ERROR:
		return "AmbiguousCallError"
	case MUTABILITY_ERROR:
		return "MutabilityError"
	case UNKNOWN_MEMBER_ERROR:
		return "UnknownMemberError"
	case SCOPE_ERROR:
		return "ScopeError"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type Diag struct {
	Kind    Kind
	Pos     token.Pos
	Message string
}

func NewDiag(kind Kind, pos token.Pos, format string, args ...any) Diag {
	return Diag{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func (d Diag) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Kind, d.Message)
}
