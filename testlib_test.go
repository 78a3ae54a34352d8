package nativebridge_test

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/magicworld/nativebridge"
	"github.com/magicworld/nativebridge/dylib"
)

// buildTestLibrary compiles the magicworld test library for the host
// platform with zig cc, skipping the test when zig is unavailable.
func buildTestLibrary(t *testing.T, sources ...string) string {
	t.Helper()

	if _, err := exec.LookPath("zig"); err != nil {
		t.Skip("zig not found in PATH")
	}

	if len(sources) == 0 {
		sources = []string{filepath.Join("testdata", "c", "magicworld.c")}
	}

	target, err := zigTargetFor(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		t.Skipf("no test library target: %v", err)
	}

	output := filepath.Join(t.TempDir(), dylib.FileName("magicworld"))
	args := []string{"cc",
		"-target", target,
		"-shared", "-fPIC",
		"-O2", "-g0",
		"-o", output,
	}
	args = append(args, sources...)

	cmd := exec.Command("zig", args...)
	cmd.Env = append(
		os.Environ(),
		"ZIG_GLOBAL_CACHE_DIR="+filepath.Join(os.TempDir(), "magicworld-zig-global-cache"),
		"ZIG_LOCAL_CACHE_DIR="+filepath.Join(os.TempDir(), "magicworld-zig-local-cache"),
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("build test library: %v\n%s", err, out)
	}
	return output
}

func zigTargetFor(goos, goarch string) (string, error) {
	targets := map[string]string{
		"linux/386":     "x86-linux-gnu",
		"linux/amd64":   "x86_64-linux-gnu",
		"linux/arm64":   "aarch64-linux-gnu",
		"darwin/amd64":  "x86_64-macos",
		"darwin/arm64":  "aarch64-macos",
		"windows/amd64": "x86_64-windows-gnu",
		"windows/arm64": "aarch64-windows-gnu",
	}
	key := goos + "/" + goarch
	target, ok := targets[key]
	if !ok {
		return "", fmt.Errorf("no zig target for %s", key)
	}
	return target, nil
}

// newTestBridge builds the test library and constructs a bridge over it.
func newTestBridge(t *testing.T) *nativebridge.Bridge {
	t.Helper()

	path := buildTestLibrary(t)
	bridge, err := nativebridge.New(nativebridge.Config{LibraryPath: path})
	if err != nil {
		t.Fatalf("New(%s): %v", path, err)
	}
	t.Cleanup(func() {
		if err := bridge.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return bridge
}
