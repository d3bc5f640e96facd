package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestExpandPath(t *testing.T) {
	t.Setenv("TAGSNAP_TEST_DIR", "/data")

	if got := ExpandPath("$TAGSNAP_TEST_DIR/db"); got != "/data/db" {
		t.Errorf("env expansion = %q", got)
	}
	if got := ExpandPath(""); got != "" {
		t.Errorf("empty path = %q", got)
	}
	if got := ExpandPath("~/tagsnap"); strings.HasPrefix(got, "~") {
		t.Errorf("tilde not expanded: %q", got)
	}
}

func TestDefaultDataDirOverride(t *testing.T) {
	t.Setenv("TAGSNAP_DATA_DIR", "/tmp/tagsnap-test")

	if got := DefaultDataDir(); got != "/tmp/tagsnap-test" {
		t.Errorf("DefaultDataDir = %q", got)
	}
	if got := DefaultDatabasePath(); got != filepath.Join("/tmp/tagsnap-test", "tagsnap.db") {
		t.Errorf("DefaultDatabasePath = %q", got)
	}
}
