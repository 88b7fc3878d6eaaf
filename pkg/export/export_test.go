package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV(t *testing.T) {
	payload, err := CSV(Dataset{
		Headers: []string{"Name", "Code"},
		Rows:    [][]string{{"Physics", "PHY"}, {"Chemistry"}},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Name,Code", lines[0])
	assert.Equal(t, "Physics,PHY", lines[1])
	// Short rows are padded to the header width.
	assert.Equal(t, "Chemistry,", lines[2])
}

func TestCSVRequiresHeaders(t *testing.T) {
	_, err := CSV(Dataset{})
	assert.Error(t, err)
}

func TestPDF(t *testing.T) {
	payload, err := PDF(Dataset{
		Title:   "Departments",
		Headers: []string{"Name", "Code"},
		Rows:    [][]string{{"Physics", "PHY"}},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestPDFRequiresHeaders(t *testing.T) {
	_, err := PDF(Dataset{})
	assert.Error(t, err)
}
