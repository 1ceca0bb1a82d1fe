package program

import (
	"errors"
	"fmt"
)

// Kind classifies compilation errors.
type Kind int

// Error kinds.
const (
	Unknown Kind = iota
	ProcedureNotDefined
	RegisterNotDefined
	InvalidLoadArg
	InvalidPushArg
	InvalidStoreArg
	InvalidReferArg
	InvalidFreeArg
	InvalidAllocArg
	InvalidIdentifier
	InvalidProcedure
	NoProcedureName
	InvalidSize
	NoProcedureFound
	UnmatchedLoop
	RegisterRedefined
	ProcedureRedefined
	RecursiveProcedure
)

var kindText = map[Kind]string{
	Unknown:             "unknown error",
	ProcedureNotDefined: "procedure not defined",
	RegisterNotDefined:  "register not defined",
	InvalidLoadArg:      "invalid argument supplied to ld",
	InvalidPushArg:      "invalid argument supplied to push",
	InvalidStoreArg:     "invalid argument supplied to st",
	InvalidReferArg:     "invalid argument supplied to refer",
	InvalidFreeArg:      "invalid argument supplied to free",
	InvalidAllocArg:     "invalid argument supplied to alloc",
	InvalidIdentifier:   "not an identifier",
	InvalidProcedure:    "invalid procedure",
	NoProcedureName:     "procedure requires name",
	InvalidSize:         "invalid size value",
	NoProcedureFound:    "no procedure found",
	UnmatchedLoop:       "unmatched loop",
	RegisterRedefined:   "register already defined",
	ProcedureRedefined:  "procedure already defined",
	RecursiveProcedure:  "recursive procedure call",
}

func (k Kind) String() string {
	if s, ok := kindText[k]; ok {
		return s
	}

	return fmt.Sprintf("kind(%d)", int(k))
}

// Sentinel errors for use with errors.Is.
var (
	ErrUnknown             = &Error{Kind: Unknown}
	ErrProcedureNotDefined = &Error{Kind: ProcedureNotDefined}
	ErrRegisterNotDefined  = &Error{Kind: RegisterNotDefined}
	ErrInvalidLoadArg      = &Error{Kind: InvalidLoadArg}
	ErrInvalidPushArg      = &Error{Kind: InvalidPushArg}
	ErrInvalidStoreArg     = &Error{Kind: InvalidStoreArg}
	ErrInvalidReferArg     = &Error{Kind: InvalidReferArg}
	ErrInvalidFreeArg      = &Error{Kind: InvalidFreeArg}
	ErrInvalidAllocArg     = &Error{Kind: InvalidAllocArg}
	ErrInvalidIdentifier   = &Error{Kind: InvalidIdentifier}
	ErrInvalidProcedure    = &Error{Kind: InvalidProcedure}
	ErrNoProcedureName     = &Error{Kind: NoProcedureName}
	ErrInvalidSize         = &Error{Kind: InvalidSize}
	ErrNoProcedureFound    = &Error{Kind: NoProcedureFound}
	ErrUnmatchedLoop       = &Error{Kind: UnmatchedLoop}
	ErrRegisterRedefined   = &Error{Kind: RegisterRedefined}
	ErrProcedureRedefined  = &Error{Kind: ProcedureRedefined}
	ErrRecursiveProcedure  = &Error{Kind: RecursiveProcedure}
)

// Error is a compilation failure. Token holds the offending source token, or
// the procedure or register name the error is about. Err, when set, is the
// more specific cause inside this context.
type Error struct {
	Kind  Kind
	Token string
	Err   error
}

// NewError creates an error of the given kind about token.
func NewError(kind Kind, token string) *Error {
	return &Error{Kind: kind, Token: token}
}

// Wrap creates an error of the given kind whose cause is err.
func Wrap(kind Kind, token string, err error) *Error {
	return &Error{Kind: kind, Token: token, Err: err}
}

func (e *Error) Error() string {
	var msg string

	switch e.Kind {
	case NoProcedureFound, UnmatchedLoop:
		msg = e.Kind.String()
	case Unknown:
		msg = e.Kind.String()
		if e.Token != "" {
			msg += ": " + e.Token
		}
	default:
		msg = fmt.Sprintf("%s: '%s'", e.Kind, e.Token)
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors of the same kind. A target with a token only matches
// errors about the same token.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Kind == e.Kind && (t.Token == "" || t.Token == e.Token)
}

// KindOf returns the kind of the innermost compilation error in err's chain,
// which is the most specific cause. Errors that are not compilation errors
// are Unknown.
func KindOf(err error) Kind {
	kind := Unknown

	var e *Error
	for errors.As(err, &e) {
		kind = e.Kind
		if e.Err == nil {
			break
		}
		err = e.Err
	}

	return kind
}
