package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus_KnownTokens(t *testing.T) {
	for _, s := range Statuses {
		got, err := ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}

func TestParseStatus_RejectsUnknownAndWrongCase(t *testing.T) {
	for _, token := range []string{"", "PASS", "debug", "crash"} {
		_, err := ParseStatus(token)
		assert.ErrorIs(t, err, ErrUnknownStatus, "token %q", token)
	}
}

func TestNewDocument_AssignsPositionalIDs(t *testing.T) {
	doc := NewDocument("r", []Library{
		{Name: "a", Suites: []Suite{{Name: "s", Cases: []TestCase{{Name: "x"}, {Name: "y"}}}}},
		{Name: "b", Suites: []Suite{{Name: "s"}, {Name: "t", Cases: []TestCase{{Name: "z"}}}}},
	}, true)

	assert.Equal(t, NodeID("l0"), doc.Libraries[0].ID)
	assert.Equal(t, NodeID("l0/s0/t1"), doc.Libraries[0].Suites[0].Cases[1].ID)
	assert.Equal(t, NodeID("l1/s1"), doc.Libraries[1].Suites[1].ID)
	assert.Equal(t, NodeID("l1/s1/t0"), doc.Libraries[1].Suites[1].Cases[0].ID)

	c, ok := doc.Case("l1/s1/t0")
	require.True(t, ok)
	assert.Equal(t, "z", c.Name)
	_, ok = doc.Case("l9/s0/t0")
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		libs []Library
		want error
	}{
		{name: "empty", libs: nil, want: ErrEmptyDocument},
		{name: "unnamed", libs: []Library{{}}, want: ErrEmptyLibraryName},
		{name: "duplicate", libs: []Library{{Name: "a"}, {Name: "a"}}, want: ErrDuplicateLibrary},
		{
			name: "bad status",
			libs: []Library{{Name: "a", Suites: []Suite{{Name: "s", Cases: []TestCase{{Name: "x", Status: "boom"}}}}}},
			want: ErrUnknownStatus,
		},
		{name: "case sensitive names are distinct", libs: []Library{{Name: "a"}, {Name: "A"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDocument("", tt.libs, false).Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestMultiLibrary(t *testing.T) {
	single := NewDocument("", []Library{{Name: "a"}}, false)
	assert.False(t, single.MultiLibrary())
	sectioned := NewDocument("", []Library{{Name: "a"}}, true)
	assert.True(t, sectioned.MultiLibrary())
	two := NewDocument("", []Library{{Name: "a"}, {Name: "b"}}, false)
	assert.True(t, two.MultiLibrary())
	assert.Equal(t, 1, two.LibraryIndex("b"))
	assert.Equal(t, -1, two.LibraryIndex("B"))
}

func TestLocationString(t *testing.T) {
	assert.Equal(t, "", Location{}.String())
	assert.Equal(t, "a.c", Location{File: "a.c"}.String())
	assert.Equal(t, "a.c:12", Location{File: "a.c", Line: 12}.String())
}
