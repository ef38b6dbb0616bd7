package common

import (
	stderrors "errors"
	"slices"
	"unicode/utf8"

	"github.com/jmgilman/go/errors"
)

// Error types shared by the parser and the session
var (
	ErrUnrecognizedToken = stderrors.New("unrecognized command")
	ErrMissingArgument   = stderrors.New("missing argument")
	ErrReservedName      = stderrors.New("argument is a reserved keyword")
	ErrNameTooLong       = stderrors.New("argument exceeds maximum name length")
)

// ReservedKeywords may never be used as a directory or file name argument.
var ReservedKeywords = []string{"touch", "mkdir", "cd", "quit", "pwd", "ls", "-r"}

// IsReserved reports whether token is one of ReservedKeywords.
func IsReserved(token string) bool {
	return slices.Contains(ReservedKeywords, token)
}

// ValidationUtils provides argument validation used by the command parser
type ValidationUtils struct {
	maxNameLength int
}

// NewValidationUtils creates a new ValidationUtils instance. A non-positive limit
// disables the length check.
func NewValidationUtils(maxNameLength int) *ValidationUtils {
	return &ValidationUtils{maxNameLength: maxNameLength}
}

// ValidateArgument checks that an argument slot exists and is not a reserved keyword.
// The returned error is coded INVALID_INPUT and carries the offending token.
func (vu *ValidationUtils) ValidateArgument(command string, args []string, pos int) (string, error) {
	if pos >= len(args) {
		return "", invalidInput(ErrMissingArgument, command, "", pos)
	}

	arg := args[pos]
	if IsReserved(arg) {
		return "", invalidInput(ErrReservedName, command, arg, pos)
	}
	return arg, nil
}

// ValidateName runs ValidateArgument and additionally enforces the name length limit.
func (vu *ValidationUtils) ValidateName(command string, args []string, pos int) (string, error) {
	name, err := vu.ValidateArgument(command, args, pos)
	if err != nil {
		return "", err
	}

	if vu.maxNameLength > 0 && utf8.RuneCountInString(name) > vu.maxNameLength {
		return "", invalidInput(ErrNameTooLong, command, name, pos)
	}
	return name, nil
}

// UnrecognizedToken builds the error for a token that names no command.
func UnrecognizedToken(token string, pos int) error {
	return invalidInput(ErrUnrecognizedToken, "", token, pos)
}

// IsFatal reports whether err is one of the parse failures that halt a run.
func IsFatal(err error) bool {
	return errors.Is(err, ErrUnrecognizedToken) ||
		errors.Is(err, ErrMissingArgument) ||
		errors.Is(err, ErrReservedName) ||
		errors.Is(err, ErrNameTooLong)
}

func invalidInput(cause error, command, token string, pos int) error {
	err := errors.Wrap(cause, errors.CodeInvalidInput, "invalid input")
	if command != "" {
		err = errors.WithContext(err, "command", command)
	}
	err = errors.WithContext(err, "token", token)
	return errors.WithContext(err, "position", pos)
}
