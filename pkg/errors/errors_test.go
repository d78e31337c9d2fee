package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(cause, CodeInternal, "persist failed")
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to survive errors.Is")
	}
	if got := CodeOf(err); got != CodeInternal {
		t.Fatalf("expected code %q, got %q", CodeInternal, got)
	}
}

func TestIsCodeThroughWrapping(t *testing.T) {
	inner := New(CodeConflict, "provider with name 'foo' already exists")
	outer := fmt.Errorf("create provider: %w", inner)
	if !IsCode(outer, CodeConflict) {
		t.Fatalf("expected conflict code through fmt wrapping")
	}
	if IsCode(outer, CodeNotFound) {
		t.Fatalf("did not expect not_found code")
	}
}

func TestCodeOfForeignError(t *testing.T) {
	if got := CodeOf(errors.New("plain")); got != CodeUnknown {
		t.Fatalf("expected unknown code, got %q", got)
	}
}
