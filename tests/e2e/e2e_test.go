package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var testcases = []struct {
	name   string
	config string
}{
	{"standard", "buffers.yaml"},
	{"hybrid", "buffers.yaml"},
	{"flat", "buffers.json"},
	{"mixed", "buffers.yaml"},
}

func TestConfigsGenerateVerilog(t *testing.T) {
	repoRoot := filepath.Clean(filepath.Join("..", ".."))
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			config := filepath.Join("tests", "e2e", tc.name, tc.config)
			output := t.TempDir()
			cmd := exec.Command("go", "run", "./cmd/bufgen", "--env-file=", "generate", "-o", output, config)
			cmd.Dir = repoRoot
			cmd.Env = os.Environ()
			if out, err := cmd.CombinedOutput(); err != nil {
				t.Fatalf("bufgen generate %s failed: %v\n%s", tc.name, err, string(out))
			}
			verifyFiles(t, tc.name, output)
			for _, name := range listFiles(t, output) {
				data, err := os.ReadFile(filepath.Join(output, name))
				if err != nil {
					t.Fatalf("read %s: %v", name, err)
				}
				text := string(data)
				if !strings.HasPrefix(text, "`default_nettype none\n") || !strings.HasSuffix(text, "`default_nettype wire\n") {
					t.Fatalf("%s is not wrapped in nettype directives", name)
				}
				keep := strings.Contains(text, `(* keep = "true" *)`)
				if keep != strings.HasPrefix(name, "relay_memcores_") {
					t.Fatalf("%s: keep attributes present=%v", name, keep)
				}
			}
		})
	}
}

func TestGeneratedPortsParse(t *testing.T) {
	repoRoot := filepath.Clean(filepath.Join("..", ".."))
	output := t.TempDir()
	config := filepath.Join("tests", "e2e", "hybrid", "buffers.yaml")
	gen := exec.Command("go", "run", "./cmd/bufgen", "--env-file=", "generate", "-o", output, config)
	gen.Dir = repoRoot
	if out, err := gen.CombinedOutput(); err != nil {
		t.Fatalf("generate failed: %v\n%s", err, out)
	}

	ports := exec.Command("go", "run", "./cmd/bufgen", "--env-file=", "ports", filepath.Join(output, "buffer_shared.v"))
	ports.Dir = repoRoot
	out, err := ports.CombinedOutput()
	if err != nil {
		t.Fatalf("ports failed: %v\n%s", err, out)
	}
	for _, want := range []string{"module buffer_shared", "buffer_core0_0_producer_address1", "buffer_core1_2_consumer_q1"} {
		if !strings.Contains(string(out), want) {
			t.Fatalf("expected %q in ports output:\n%s", want, out)
		}
	}
}

func verifyFiles(t *testing.T, name, output string) {
	t.Helper()
	expected, err := os.ReadFile(filepath.Join(name, "expected.files"))
	if err != nil {
		t.Fatalf("read expected files for %s: %v", name, err)
	}
	want := strings.Fields(string(expected))
	if diff := cmp.Diff(want, listFiles(t, output)); diff != "" {
		t.Fatalf("file set mismatch for %s (-want +got):\n%s", name, diff)
	}
}

func listFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}
