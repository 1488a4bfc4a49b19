package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTags_Value(t *testing.T) {
	v, err := Tags(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = Tags{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = Tags{"work", "idea"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["work","idea"]`, v)
}

func TestTags_Scan(t *testing.T) {
	tests := []struct {
		name    string
		src     interface{}
		want    Tags
		wantErr bool
	}{
		{name: "null", src: nil, want: nil},
		{name: "string", src: `["a","b"]`, want: Tags{"a", "b"}},
		{name: "bytes", src: []byte(`["a"]`), want: Tags{"a"}},
		{name: "empty", src: "", want: nil},
		{name: "blank", src: "  ", want: nil},
		{name: "not json", src: "a,b", want: Tags{"a,b"}},
		{name: "json string", src: `"solo"`, want: Tags{"solo"}},
		{name: "wrong type", src: 42, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tags{"stale"}
			err := got.Scan(tt.src)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMigrations_Ordered(t *testing.T) {
	list := Migrations()
	require.NotEmpty(t, list)
	for i, m := range list {
		assert.EqualValues(t, i+1, m.Version)
	}
}
