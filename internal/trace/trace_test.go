package trace

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBasicScript(t *testing.T) {
	in := `
# a comment
a 0 512
a 1 128
r 0 1024
f 0
f 1
`
	ops, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, ops, 5)

	assert.Equal(t, Op{Kind: OpAlloc, ID: 0, Size: 512}, ops[0])
	assert.Equal(t, Op{Kind: OpAlloc, ID: 1, Size: 128}, ops[1])
	assert.Equal(t, Op{Kind: OpRealloc, ID: 0, Size: 1024}, ops[2])
	assert.Equal(t, Op{Kind: OpFree, ID: 0}, ops[3])
	assert.Equal(t, Op{Kind: OpFree, ID: 1}, ops[4])
}

func TestParseSkipsNumericHeaders(t *testing.T) {
	// Some trace generators prefix the script with count lines.
	in := "20000\n2\n4\n1\na 0 16\nf 0\n"
	ops, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, ops, 2)
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"unknown op", "x 0 16\n"},
		{"alloc missing size", "a 0\n"},
		{"free with size", "f 0 16\n"},
		{"bad id", "a banana 16\n"},
		{"negative id", "a -1 16\n"},
		{"bad size", "a 0 lots\n"},
		{"size overflow", "a 0 99999999999\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.in))
			assert.Error(t, err)
			if err != nil {
				assert.Contains(t, err.Error(), "line 1")
			}
		})
	}
}
