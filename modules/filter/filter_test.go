package filter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const joinRequest = `{"post_type":"request","request_type":"group","sub_type":"add","group_id":111,"user_id":222,"flag":"abc","comment":"来自贴吧"}`

func TestGenerate(t *testing.T) {
	tests := []struct {
		rule     string
		expected bool
	}{
		{`{"post_type":"request"}`, true},
		{`{"post_type":"message"}`, false},
		{`{".or":[{"sub_type":"invite"},{"sub_type":"add"}]}`, true},
		{`{".not":{"request_type":"group"}}`, false},
		{`{"group_id":{".in":[111,333]}}`, true},
		{`{"group_id":{".in":[333]}}`, false},
		{`{"group_id":{".neq":111}}`, false},
		{`{"comment":{".contains":"贴吧"}}`, true},
		{`{"flag":{".regex":"^[a-z]+$"}}`, true},
		{`{"sub_type":{".in":"add ignore.add"}}`, true},
	}
	payload := gjson.Parse(joinRequest)
	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			f, err := Generate("and", gjson.Parse(tt.rule))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f.Eval(payload))
		})
	}
}

func TestGenerateInvalid(t *testing.T) {
	for _, rule := range []string{
		`{".or":{"a":1}}`,
		`{".not":[1]}`,
		`{"a":{".regex":"("}}`,
		`{"a":{".unknown":1}}`,
		`{"a":{".in":{"b":1}}}`,
	} {
		_, err := Generate("and", gjson.Parse(rule))
		assert.Error(t, err, rule)
	}
}

func TestLoad(t *testing.T) {
	f, err := Load("")
	assert.NoError(t, err)
	assert.Nil(t, f)

	file := filepath.Join(t.TempDir(), "filter.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"post_type":{".neq":"meta_event"}}`), 0o644))
	f, err = Load(file)
	require.NoError(t, err)
	assert.True(t, f.Eval(gjson.Parse(joinRequest)))
	assert.False(t, f.Eval(gjson.Parse(`{"post_type":"meta_event"}`)))

	require.NoError(t, os.WriteFile(file, []byte(`{`), 0o644))
	_, err = Load(file)
	assert.Error(t, err)
}
