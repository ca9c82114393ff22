package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New("test error message")

	if err.Error() != "test error message" {
		t.Errorf("Error() = %q, want %q", err.Error(), "test error message")
	}
	if err.Code() != CodeUnknown {
		t.Errorf("Code() = %v, want %v", err.Code(), CodeUnknown)
	}
	if err.Severity() != SeverityMedium {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityMedium)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantNil  bool
		wantMsg  string
		wantCode Code
	}{
		{name: "wrap nil error", err: nil, wantNil: true},
		{
			name:     "wrap standard error",
			err:      errors.New("original error"),
			wantMsg:  "wrapper: original error",
			wantCode: CodeUnknown,
		},
		{
			name:     "wrap coded error keeps code",
			err:      New("disk full").WithCode(CodeStore),
			wantMsg:  "wrapper: disk full",
			wantCode: CodeStore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.err, "wrapper")
			if tt.wantNil {
				if got != nil {
					t.Fatalf("Wrap(nil) = %v, want nil", got)
				}
				return
			}
			if got.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got.Error(), tt.wantMsg)
			}
			if got.Code() != tt.wantCode {
				t.Errorf("Code() = %v, want %v", got.Code(), tt.wantCode)
			}
			if !errors.Is(got, tt.err) {
				t.Error("errors.Is should find the wrapped cause")
			}
		})
	}
}

func TestWithCode_SetsDefaultSeverity(t *testing.T) {
	tests := []struct {
		code Code
		want Severity
	}{
		{CodeSyntax, SeverityLow},
		{CodeValue, SeverityLow},
		{CodeIO, SeverityMedium},
		{CodeStore, SeverityHigh},
	}

	for _, tt := range tests {
		err := New("x").WithCode(tt.code)
		if err.Severity() != tt.want {
			t.Errorf("WithCode(%s).Severity() = %v, want %v", tt.code, err.Severity(), tt.want)
		}
	}

	err := New("x").WithCode(CodeSyntax).WithSeverity(SeverityCritical)
	if err.Severity() != SeverityCritical {
		t.Errorf("explicit severity lost: %v", err.Severity())
	}
}

func TestHasCodeAndGetCode(t *testing.T) {
	inner := New("bad literal").WithCode(CodeValue)
	outer := fmt.Errorf("loading: %w", inner)

	if !HasCode(outer, CodeValue) {
		t.Error("HasCode() should see through fmt wrapping")
	}
	if HasCode(outer, CodeStore) {
		t.Error("HasCode() reported a code that is not in the chain")
	}
	if GetCode(outer) != CodeValue {
		t.Errorf("GetCode() = %v, want %v", GetCode(outer), CodeValue)
	}
	if GetCode(errors.New("plain")) != CodeUnknown {
		t.Error("GetCode() of a plain error should be CodeUnknown")
	}
	if GetSeverity(outer) != SeverityLow {
		t.Errorf("GetSeverity() = %v, want %v", GetSeverity(outer), SeverityLow)
	}
}

func TestDetailsAndString(t *testing.T) {
	err := New("cannot open").
		WithCode(CodeIO).
		WithOperation("fdl.Load").
		WithDetail("path", "a.fdl")

	details := err.Details()
	if details["path"] != "a.fdl" {
		t.Errorf("Details()[path] = %v", details["path"])
	}
	details["path"] = "changed"
	if err.Details()["path"] != "a.fdl" {
		t.Error("Details() must return a copy")
	}

	s := err.String()
	if !strings.Contains(s, "[IO]") || !strings.Contains(s, "fdl.Load") {
		t.Errorf("String() = %q, missing code or operation", s)
	}
}

func TestMarshalJSON(t *testing.T) {
	err := Wrap(errors.New("eof"), "read failed").WithCode(CodeIO).WithDetail("path", "x.fdl")

	data, mErr := json.Marshal(err)
	if mErr != nil {
		t.Fatalf("Marshal() error = %v", mErr)
	}

	var decoded map[string]interface{}
	if uErr := json.Unmarshal(data, &decoded); uErr != nil {
		t.Fatalf("Unmarshal() error = %v", uErr)
	}
	if decoded["code"] != "IO" {
		t.Errorf("code = %v, want IO", decoded["code"])
	}
	if decoded["cause"] != "eof" {
		t.Errorf("cause = %v, want eof", decoded["cause"])
	}
}
