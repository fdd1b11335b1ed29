package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"hello-world", "hello-world"},
		{"  Already -- hyphenated  ", "already-hyphenated"},
		{"Nähdään taas", "nahdaan-taas"},
		{"C'est déjà l'été!", "c-est-deja-l-ete"},
		{"100% Done?", "100-done"},
		{"___", ""},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Make(tc.in), "input %q", tc.in)
	}
}
