package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/funvibe/clasp/internal/config"
)

// TestFunctional runs every testdata script that has a .want file and
// compares stdout followed by stderr with it.
func TestFunctional(t *testing.T) {
	dir, err := filepath.Abs("testdata")
	if err != nil {
		t.Fatal(err)
	}
	scripts, err := filepath.Glob(filepath.Join(dir, "*"+config.SourceFileExt))
	if err != nil {
		t.Fatal(err)
	}
	if len(scripts) == 0 {
		t.Skip("no scripts in testdata")
	}

	for _, script := range scripts {
		wantFile := strings.TrimSuffix(script, config.SourceFileExt) + ".want"
		wantBytes, err := os.ReadFile(wantFile)
		if err != nil {
			continue
		}
		name := strings.TrimSuffix(filepath.Base(script), config.SourceFileExt)

		t.Run(name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			Main(context.Background(), []string{"run", "-C", dir, script}, strings.NewReader(""), &stdout, &stderr)

			var parts []string
			for _, s := range []string{stdout.String(), stderr.String()} {
				if s = strings.TrimSpace(s); s != "" {
					parts = append(parts, s)
				}
			}
			got := strings.Join(parts, "\n")
			want := strings.TrimSpace(strings.ReplaceAll(string(wantBytes), "\r\n", "\n"))
			if got != want {
				t.Errorf("output mismatch:\n--- want ---\n%s\n--- got ---\n%s", want, got)
			}
		})
	}
}
