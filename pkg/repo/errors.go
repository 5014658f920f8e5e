package repo

import (
	"errors"
	"fmt"

	"github.com/odvcencio/gitlet/pkg/object"
)

// Error kinds. Every failure returned by this package matches exactly one
// of these with errors.Is.
var (
	ErrNotFound             = object.ErrNotFound
	ErrAmbiguousReference   = object.ErrAmbiguousReference
	ErrInvalidState         = errors.New("invalid state")
	ErrConflict             = errors.New("merge conflict")
	ErrUntrackedObstruction = errors.New("untracked file obstruction")
	ErrUsage                = errors.New("usage error")
)

// Error is a typed repository failure. Msg is the single line shown to a
// user; Kind is the category it unwraps to.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Kind
}

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

var (
	ErrRepoExists          = newError(ErrInvalidState, "A Gitlet version-control system already exists in the current directory.")
	ErrNotARepository      = newError(ErrNotFound, "Not in an initialized Gitlet directory.")
	ErrFileNotFound        = newError(ErrNotFound, "File does not exist.")
	ErrEmptyCommit         = newError(ErrInvalidState, "No changes added to the commit.")
	ErrEmptyMessage        = newError(ErrInvalidState, "Please enter a commit message.")
	ErrNothingToRemove     = newError(ErrNotFound, "No reason to remove the file.")
	ErrUnknownBranch       = newError(ErrNotFound, "A branch with that name does not exist.")
	ErrBranchExists        = newError(ErrInvalidState, "A branch with that name already exists.")
	ErrCannotDeleteCurrent = newError(ErrInvalidState, "Cannot remove the current branch.")
	ErrAlreadyOnBranch     = newError(ErrInvalidState, "No need to checkout the current branch.")
	ErrUnknownCommit       = newError(ErrNotFound, "No commit with that id exists.")
	ErrAmbiguousCommit     = newError(ErrAmbiguousReference, "Commit id is ambiguous; use more characters.")
	ErrFileNotInCommit     = newError(ErrNotFound, "File does not exist in that commit.")
	ErrNoCommitWithMessage = newError(ErrNotFound, "Found no commit with that message.")
	ErrSelfMerge           = newError(ErrInvalidState, "Cannot merge a branch with itself.")
	ErrDirtyStage          = newError(ErrInvalidState, "You have uncommitted changes.")
	ErrIncorrectOperands   = newError(ErrUsage, "Incorrect operands.")
	ErrOutsideRepository   = newError(ErrUsage, "File is outside the repository.")
	ErrUntrackedFile       = newError(ErrUntrackedObstruction, "There is an untracked file in the way; delete it, or add and commit it first.")
)

// UntrackedFileError reports a working file that an operation would
// silently overwrite.
type UntrackedFileError struct {
	Path string
}

func (e *UntrackedFileError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return ErrUntrackedFile.Msg
}

func (e *UntrackedFileError) Unwrap() error { return ErrUntrackedObstruction }

func (e *UntrackedFileError) Is(target error) bool {
	return target == ErrUntrackedFile
}

// Message returns the user-facing line for err when it carries one.
func Message(err error) (string, bool) {
	var re *Error
	if errors.As(err, &re) {
		return re.Msg, true
	}
	var ue *UntrackedFileError
	if errors.As(err, &ue) {
		return ue.Error(), true
	}
	return "", false
}

// resolveError maps object store lookup failures onto the repository's
// commit errors.
func resolveError(ref string, err error) error {
	switch {
	case errors.Is(err, object.ErrAmbiguousReference):
		return ErrAmbiguousCommit
	case errors.Is(err, object.ErrNotFound):
		return ErrUnknownCommit
	default:
		return fmt.Errorf("resolve %q: %w", ref, err)
	}
}
