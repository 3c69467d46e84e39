package triple_test

import (
	"testing"

	"github.com/dgiagio/warp/internal/triple"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    triple.Triple
		wantErr bool
	}{
		{name: "linux", input: "linux-x64", want: triple.LinuxX64},
		{name: "macos", input: "macos-x64", want: triple.MacosX64},
		{name: "windows", input: "windows-x64", want: triple.WindowsX64},
		{name: "unknown", input: "freebsd-x64", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := triple.Parse(tt.input)
			if tt.wantErr {
				if err != triple.ErrUnsupportedArch {
					t.Fatalf("expected ErrUnsupportedArch, got %v", err)
				}

				return
			}

			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.input, err)
			}

			if got != tt.want {
				t.Fatalf("Parse(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStubFileName(t *testing.T) {
	t.Parallel()

	if triple.LinuxX64.StubFileName() != "linux-x64" {
		t.Fatalf("unexpected linux stub name: %s", triple.LinuxX64.StubFileName())
	}

	if triple.WindowsX64.StubFileName() != "windows-x64.exe" {
		t.Fatalf("unexpected windows stub name: %s", triple.WindowsX64.StubFileName())
	}
}

func TestPathSeparator(t *testing.T) {
	t.Parallel()

	if triple.LinuxX64.PathSeparator() != ':' {
		t.Fatal("expected ':' for linux")
	}

	if triple.WindowsX64.PathSeparator() != ';' {
		t.Fatal("expected ';' for windows")
	}
}

func TestCurrentMatchesASupportedTriple(t *testing.T) {
	t.Parallel()

	got, err := triple.Current()
	if err != nil {
		// Only amd64 Linux/macOS/Windows are supported targets; a build
		// running on anything else is expected to fail here.
		return
	}

	found := false

	for _, tr := range triple.All() {
		if tr == got {
			found = true
		}
	}

	if !found {
		t.Fatalf("Current() returned %q, not a member of All()", got)
	}
}
