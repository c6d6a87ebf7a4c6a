package utils_test

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/KaramelBytes/dataexplorer/internal/utils"
)

func TestCountTokens(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", 0},
		{"short", "hai", 1},
		{"prompt", strings.Repeat("data", 100), 100},
		{"multibyte", strings.Repeat("é", 8), 2},
	}
	for _, c := range cases {
		if got := utils.CountTokens(c.in); got != c.want {
			t.Errorf("%s: got %d, want %d", c.name, got, c.want)
		}
	}
}

func TestTokenBreakdown(t *testing.T) {
	got := utils.TokenBreakdown(map[string]string{"template": strings.Repeat("a", 40), "data": ""})
	want := []utils.TokenCount{{Label: "data", Tokens: 0}, {Label: "template", Tokens: 10}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("breakdown = %+v, want %+v", got, want)
	}
}

func TestSafeWriteFileCreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "hasil.txt")
	if err := utils.SafeWriteFile(path, []byte("Skor: 90/100\n")); err != nil {
		t.Fatalf("SafeWriteFile: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil || string(b) != "Skor: 90/100\n" {
		t.Fatalf("read back %q, %v", b, err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := utils.PrettyJSON(map[string]int{"a": 1})
	if err != nil || string(b) != "{\n  \"a\": 1\n}" {
		t.Fatalf("PrettyJSON = %q, %v", b, err)
	}
}
