// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"os"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "operation only",
			err:  &ActionableError{Kind: KindConfiguration, Operation: "launch game"},
			want: "failed to launch game",
		},
		{
			name: "operation and resource",
			err: &ActionableError{
				Kind:      KindConfiguration,
				Operation: "create prefix",
				Resource:  "/tmp/prefix",
			},
			want: "failed to create prefix: /tmp/prefix",
		},
		{
			name: "operation, resource and cause",
			err: &ActionableError{
				Kind:      KindSpawn,
				Operation: "run installer",
				Resource:  "/tmp/setup.exe",
				Cause:     errors.New("permission denied"),
			},
			want: "failed to run installer: /tmp/setup.exe: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_SentinelMatching(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		kind     Kind
		sentinel error
	}{
		{"configuration", KindConfiguration, ErrConfiguration},
		{"spawn", KindSpawn, ErrSpawn},
		{"exit", KindExit, ErrExit},
		{"validation", KindValidation, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := NewErrorContext(tt.kind).
				WithOperation("do something").
				BuildError()

			if !errors.Is(err, tt.sentinel) {
				t.Errorf("errors.Is(%v kind, sentinel) = false, want true", tt.kind)
			}

			// A kind must match only its own sentinel.
			for _, other := range tests {
				if other.kind == tt.kind {
					continue
				}
				if errors.Is(err, other.sentinel) {
					t.Errorf("%v kind matched %v sentinel", tt.kind, other.kind)
				}
			}
		})
	}
}

func TestActionableError_UnwrapExposesCause(t *testing.T) {
	t.Parallel()

	err := NewErrorContext(KindConfiguration).
		WithOperation("resolve runner").
		Wrap(os.ErrNotExist).
		BuildError()

	if !errors.Is(err, os.ErrNotExist) {
		t.Error("wrapped cause not reachable via errors.Is")
	}
	if !errors.Is(err, ErrConfiguration) {
		t.Error("sentinel not reachable via errors.Is when cause is set")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	err := NewErrorContext(KindSpawn).
		WithOperation("run installer").
		WithResource("/tmp/setup.exe").
		WithSuggestion("Check that umu-run is on PATH").
		Wrap(errors.New("exec: not found")).
		Build()

	short := err.Format(false)
	if !strings.Contains(short, "failed to run installer") {
		t.Errorf("Format(false) missing operation: %q", short)
	}
	if !strings.Contains(short, "Check that umu-run is on PATH") {
		t.Errorf("Format(false) missing suggestion: %q", short)
	}
	if strings.Contains(short, "Error chain") {
		t.Error("Format(false) should not include the error chain")
	}

	long := err.Format(true)
	if !strings.Contains(long, "Error chain") {
		t.Errorf("Format(true) missing error chain: %q", long)
	}
}

func TestErrorContext_BuildRequiresOperation(t *testing.T) {
	t.Parallel()

	if got := NewErrorContext(KindValidation).Build(); got != nil {
		t.Errorf("Build() without operation = %v, want nil", got)
	}
	if got := NewErrorContext(KindValidation).BuildError(); got != nil {
		t.Errorf("BuildError() without operation = %v, want nil", got)
	}
}

func TestWrapWithOperation_NilErr(t *testing.T) {
	t.Parallel()

	if got := WrapWithOperation(nil, KindExit, "wait"); got != nil {
		t.Errorf("WrapWithOperation(nil) = %v, want nil", got)
	}
}

func TestCatalogue(t *testing.T) {
	t.Parallel()

	values := Values()
	if len(values) == 0 {
		t.Fatal("catalogue is empty")
	}

	for _, i := range values {
		if i.MarkdownMsg() == "" {
			t.Errorf("issue %d has no remediation text", i.Id())
		}
		if Get(i.Id()) != i {
			t.Errorf("Get(%d) did not return the catalogue entry", i.Id())
		}
	}

	if Get(Id(9999)) != nil {
		t.Error("Get(unknown) should return nil")
	}
}
