package repo

import (
	"errors"
	"fmt"
	"testing"

	"github.com/odvcencio/gitlet/pkg/object"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		err  error
		kind error
	}{
		{ErrUnknownBranch, ErrNotFound},
		{ErrUnknownCommit, ErrNotFound},
		{ErrNothingToRemove, ErrNotFound},
		{ErrAmbiguousCommit, ErrAmbiguousReference},
		{ErrEmptyCommit, ErrInvalidState},
		{ErrDirtyStage, ErrInvalidState},
		{ErrIncorrectOperands, ErrUsage},
		{ErrOutsideRepository, ErrUsage},
		{&UntrackedFileError{Path: "x"}, ErrUntrackedObstruction},
	}
	for _, tc := range tests {
		wrapped := fmt.Errorf("op: %w", tc.err)
		if !errors.Is(wrapped, tc.kind) {
			t.Errorf("%v does not match kind %v", tc.err, tc.kind)
		}
		if _, ok := Message(wrapped); !ok {
			t.Errorf("Message(%v) found no user message", tc.err)
		}
	}
	if errors.Is(ErrUnknownBranch, ErrUnknownCommit) {
		t.Error("distinct errors of one kind must not match each other")
	}
	if !errors.Is(ErrUnknownCommit, object.ErrNotFound) {
		t.Error("repository NotFound must be the object store's NotFound")
	}
}

func TestResolveErrorMapping(t *testing.T) {
	if err := resolveError("ab", fmt.Errorf("x: %w", object.ErrAmbiguousReference)); err != ErrAmbiguousCommit {
		t.Errorf("ambiguous maps to %v", err)
	}
	if err := resolveError("ab", fmt.Errorf("x: %w", object.ErrNotFound)); err != ErrUnknownCommit {
		t.Errorf("not found maps to %v", err)
	}
	io := errors.New("disk on fire")
	if err := resolveError("ab", io); !errors.Is(err, io) {
		t.Errorf("storage error lost: %v", err)
	}
}
