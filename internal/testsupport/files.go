package testsupport

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// WriteFramesCSV writes a frame×coefficient matrix as CSV, creating parent
// directories as needed.
func WriteFramesCSV(t testing.TB, path string, frames [][]float64) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	var b strings.Builder
	for _, frame := range frames {
		for i, v := range frame {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// Frames returns n deterministic frames of width dim centered on center.
// Consecutive frames vary per coefficient so the covariance is full rank.
func Frames(n, dim int, center float64) [][]float64 {
	frames := make([][]float64, n)
	for i := range n {
		frame := make([]float64, dim)
		for j := range dim {
			frame[j] = center + float64((i*(j+2)+j*j)%(7+j))*0.25
		}
		frames[i] = frame
	}
	return frames
}
