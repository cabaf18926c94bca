package param

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestEnsureBool(t *testing.T) {
	tests := []struct {
		p        any
		def      bool
		expected bool
	}{
		{true, false, true},
		{"YES", false, true},
		{" 0 ", true, false},
		{"maybe", true, true},
		{gjson.Parse(`true`), false, true},
		{gjson.Parse(`"no"`), true, false},
		{gjson.Parse(`1`), false, false},
		{gjson.Get(`{}`, "missing"), true, true},
		{nil, true, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, EnsureBool(tt.p, tt.def), "%v", tt.p)
	}
}

func TestSplitInt64(t *testing.T) {
	assert.Equal(t, []int64{1, 22, 333}, SplitInt64("1, 22\t333,x"))
	assert.Empty(t, SplitInt64(""))
}

func TestSetExcludeDefault(t *testing.T) {
	token := "from-file"
	SetExcludeDefault(&token, "", "")
	assert.Equal(t, "from-file", token)
	SetExcludeDefault(&token, "from-env", "")
	assert.Equal(t, "from-env", token)

	debug := false
	SetExcludeDefault(&debug, true, false)
	assert.True(t, debug)
}
