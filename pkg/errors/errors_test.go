package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrAppNotFound, "app 'gmail' not found")

	if err.Code != ErrAppNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrAppNotFound)
	}
	if err.Error() != "[APP_NOT_FOUND] app 'gmail' not found" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := Wrap(cause, ErrFileWrite, "failed to write wrapper script")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match errors.Is on its cause")
	}
	if err.Error() != "[FILE_WRITE] failed to write wrapper script: permission denied" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, ErrFileWrite, "x") != nil {
		t.Error("Wrap(nil, ...) should return nil")
	}
	if Wrapf(nil, ErrFileWrite, "x %d", 1) != nil {
		t.Error("Wrapf(nil, ...) should return nil")
	}
}

func TestIsErrorCode(t *testing.T) {
	err := Newf(ErrManifestInvalid, "field %q: %s", "url", "scheme must be http or https")

	if !IsErrorCode(err, ErrManifestInvalid) {
		t.Error("IsErrorCode should match the error's own code")
	}
	if IsErrorCode(err, ErrManifestMalformed) {
		t.Error("IsErrorCode should not match a different code")
	}

	wrapped := fmt.Errorf("outer: %w", err)
	if !IsErrorCode(wrapped, ErrManifestInvalid) {
		t.Error("IsErrorCode should see through fmt.Errorf wrapping")
	}
}

func TestGetErrorCode(t *testing.T) {
	if GetErrorCode(fmt.Errorf("plain")) != ErrUnknown {
		t.Error("plain errors should report ErrUnknown")
	}
	if GetErrorCode(New(ErrRegistryBusy, "locked")) != ErrRegistryBusy {
		t.Error("GetErrorCode should return the error's code")
	}
}

func TestIsUserError(t *testing.T) {
	userCodes := []ErrorCode{ErrInvalidInput, ErrAppExists, ErrManifestInvalid, ErrManifestMalformed}
	for _, code := range userCodes {
		if !IsUserError(New(code, "x")) {
			t.Errorf("%s should be a user error", code)
		}
	}

	systemCodes := []ErrorCode{ErrRegistryBusy, ErrRegistryCorrupt, ErrBrowserNotFound, ErrFileWrite}
	for _, code := range systemCodes {
		if IsUserError(New(code, "x")) {
			t.Errorf("%s should not be a user error", code)
		}
	}
}

func TestWithDetail(t *testing.T) {
	err := New(ErrManifestInvalid, "validation failed").
		WithDetail("field", "wm_class").
		WithDetail("rule", "identifier grammar")

	if err.Details["field"] != "wm_class" {
		t.Errorf("Details[field] = %v", err.Details["field"])
	}
	if err.Details["rule"] != "identifier grammar" {
		t.Errorf("Details[rule] = %v", err.Details["rule"])
	}
}
