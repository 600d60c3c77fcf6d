package main

import (
	"testing"

	"github.com/willibrandon/gotctools/cmd/gotctools/version"
)

// TestVersionDefaults ensures version variables are initialized
func TestVersionDefaults(t *testing.T) {
	if version.Version == "" {
		t.Error("version.Version should have default value")
	}
	if buildVersion == "" {
		t.Error("buildVersion should have default value")
	}
}
