package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", conflictError(msgInventoryExists))
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"validation", validationError("bad"), KindValidation},
		{"wrapped conflict", wrapped, KindConflict},
		{"store", storeError(msgDatabase, errors.New("io")), KindStore},
		{"plain error", errors.New("boom"), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestError_Message(t *testing.T) {
	cause := errors.New("connection refused")
	err := storeError(msgDatabase, cause)
	if err.Error() != "Database error: connection refused" {
		t.Errorf("unexpected Error(): %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected Unwrap to expose the cause")
	}
	if notFoundError(msgCompanyNotFound).Error() != "Company not found" {
		t.Error("expected a bare message without a cause")
	}
	if KindNotFound.String() != "NOT_FOUND" || ErrorKind(42).String() != "INTERNAL_ERROR" {
		t.Error("unexpected ErrorKind codes")
	}
}
