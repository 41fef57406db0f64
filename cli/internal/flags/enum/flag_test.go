package enum

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	assert.Panics(t, func() { New() })

	flag := New("tree", "json", "yaml")
	assert.Equal(t, "tree", flag.String())
	assert.Equal(t, Type, flag.Type())
}

func TestFlagSet(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		wantErr  bool
		expected string
	}{
		{name: "known option", value: "yaml", expected: "yaml"},
		{name: "unknown option keeps default", value: "xml", wantErr: true, expected: "tree"},
		{name: "options are case sensitive", value: "JSON", wantErr: true, expected: "tree"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := New("tree", "json", "yaml")
			err := flag.Set(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, flag.String())
		})
	}
}

func TestFlagsDoNotShareDefaults(t *testing.T) {
	options := []string{"a", "b"}
	first, second := New(options...), New(options...)
	require.NoError(t, first.Set("b"))
	assert.Equal(t, "a", second.String())
	assert.Equal(t, []string{"a", "b"}, options)
}

func TestGet(t *testing.T) {
	r := require.New(t)
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	VarP(fs, "output", "o", []string{"table", "json"}, "output format")
	fs.String("plain", "", "")

	value, err := Get(fs, "output")
	r.NoError(err)
	r.Equal("table", value)

	r.NoError(fs.Parse([]string{"-o", "json"}))
	value, err = Get(fs, "output")
	r.NoError(err)
	r.Equal("json", value)

	_, err = Get(fs, "missing")
	r.Error(err)
	_, err = Get(fs, "plain")
	r.Error(err)

	r.Error(fs.Parse([]string{"--output", "xml"}))
	r.Contains(fs.Lookup("output").Usage, "must be one of [json table]")
}
