package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		maxLen  int
		want    string
		wantErr error
	}{
		{name: "valid path", input: "site/front-page", want: "site/front-page"},
		{name: "normalised leading slash", input: "/site/front-page", want: "site/front-page"},
		{name: "empty", input: "", wantErr: ErrInvalidPath},
		{name: "null byte", input: "site/\x00bad", wantErr: ErrInvalidPath},
		{name: "too long", input: strings.Repeat("a", 20), maxLen: 10, wantErr: ErrPathTooLong},
		{name: "within limit", input: "abc", maxLen: 10, want: "abc"},
		{name: "traversal", input: "../escape", wantErr: ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Path(tt.input, tt.maxLen)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestName(t *testing.T) {
	assert.NoError(t, Name("Document"))
	assert.NoError(t, Name("referenceable"))
	assert.ErrorIs(t, Name(""), ErrInvalidName)
	assert.ErrorIs(t, Name("bad\x00name"), ErrInvalidName)
}

func TestNames(t *testing.T) {
	assert.NoError(t, Names(nil))
	assert.NoError(t, Names([]string{"Document", "Image"}))
	assert.ErrorIs(t, Names([]string{"Document", ""}), ErrInvalidName)
}

func TestReference(t *testing.T) {
	assert.NoError(t, Reference("site/a", "site/b"))
	assert.ErrorIs(t, Reference("", "site/b"), ErrInvalidReference)
	assert.ErrorIs(t, Reference("site/a", ""), ErrInvalidReference)
	assert.ErrorIs(t, Reference("site/a", "site/a"), ErrInvalidReference)
}
