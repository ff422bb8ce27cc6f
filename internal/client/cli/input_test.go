package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("user@example.com\n"))

	got, err := GetSimpleText(reader, "Enter email", &out)
	require.NoError(t, err)

	assert.Equal(t, "user@example.com", got)
	assert.Equal(t, "Enter email\n> ", out.String())
}

func TestGetSimpleText_TrimsWhitespace(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("  padded  \n"))

	got, err := GetSimpleText(reader, "p", &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, "padded", got)
}

func TestGetSimpleText_PartialLineAtEOF(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("no-newline"))

	got, err := GetSimpleText(reader, "p", &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, "no-newline", got)
}

func TestGetSimpleText_EmptyEOF(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader(""))

	_, err := GetSimpleText(reader, "p", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestGetPassword(t *testing.T) {
	orig := readPassword
	readPassword = func(fd int) ([]byte, error) { return []byte("s3cret"), nil }
	defer func() { readPassword = orig }()

	var out bytes.Buffer
	pw, err := GetPassword(&out)
	require.NoError(t, err)

	assert.Equal(t, []byte("s3cret"), pw)
	assert.Contains(t, out.String(), "Enter password: ")
}

func TestFormatItem(t *testing.T) {
	tests := []struct {
		name string
		item map[string]any
		want string
	}{
		{
			name: "uuid with name",
			item: map[string]any{"uuid": "v-1", "name": "Corolla"},
			want: fmt.Sprintf("%-36s  %s", "v-1", "Corolla"),
		},
		{
			name: "numeric id only",
			item: map[string]any{"id": float64(7)},
			want: "7",
		},
		{
			name: "label preference order",
			item: map[string]any{"uuid": "n-1", "message": "Sold", "status": "read"},
			want: fmt.Sprintf("%-36s  %s", "n-1", "Sold"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, formatItem(tc.item))
		})
	}
}
