package archive

import "testing"

func TestValidateHeaderNameRejectsTraversal(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"../escape", "/abs/path", "a\\b", "a\x00b"} {
		if err := validateHeaderName(name); err == nil {
			t.Fatalf("expected rejection for %q", name)
		}
	}
}

func TestValidateHeaderNameAcceptsNormal(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"bin/app", "readme.txt", "a/b/c"} {
		if err := validateHeaderName(name); err != nil {
			t.Fatalf("unexpected rejection for %q: %v", name, err)
		}
	}
}

func TestConstructTargetPathStaysWithinDest(t *testing.T) {
	t.Parallel()

	_, err := constructTargetPath("../escape.txt", "/dest")
	if err == nil {
		t.Fatal("expected traversal rejection")
	}

	path, err := constructTargetPath("bin/app", "/dest")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if path != "/dest/bin/app" {
		t.Fatalf("unexpected target path: %s", path)
	}
}
