package ids

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Formats(t *testing.T) {
	set, err := Generate()
	require.NoError(t, err)
	require.NoError(t, set.Validate())

	assert.Len(t, set.MachineID, 64)
	assert.Len(t, set.MacMachineID, 128)
	assert.Len(t, set.DevDeviceID, 36)
	assert.Len(t, set.SQMID, 38)
}

func TestGenerate_ServiceMachineIDMirrorsDevDeviceID(t *testing.T) {
	set, err := Generate()
	require.NoError(t, err)

	m := set.Map()
	assert.Equal(t, m[KeyDevDeviceID], m[KeyServiceMachineID])
	assert.Len(t, m, len(Keys))
	for _, k := range Keys {
		assert.NotEmpty(t, m[k], "key %s", k)
	}
}

func TestGenerate_FreshValuesEachCall(t *testing.T) {
	a, err := Generate()
	require.NoError(t, err)
	b, err := Generate()
	require.NoError(t, err)

	seen := make(map[string]string)
	for k, v := range a.Map() {
		seen[v] = k
	}
	for k, v := range b.Map() {
		_, dup := seen[v]
		assert.False(t, dup, "value for %s repeated across sets", k)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

func TestGenerator_FailingSource(t *testing.T) {
	_, err := NewGenerator(failingReader{}).Generate()
	assert.Error(t, err)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	good, err := Generate()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Set)
	}{
		{"upper-case dev id", func(s *Set) { s.DevDeviceID = "ABCDEF00-0000-4000-8000-000000000000" }},
		{"short machine id", func(s *Set) { s.MachineID = s.MachineID[:63] }},
		{"upper-case mac machine id", func(s *Set) { s.MacMachineID = "F" + s.MacMachineID[1:] }},
		{"unbraced sqm id", func(s *Set) { s.SQMID = s.SQMID[1 : len(s.SQMID)-1] }},
		{"lower-case sqm id", func(s *Set) { s.SQMID = "{abcdef00-0000-4000-8000-000000000000}" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := good
			tt.mutate(&s)
			assert.Error(t, s.Validate())
		})
	}
}
