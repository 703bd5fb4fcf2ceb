package netimport

import (
	"strings"
	"testing"

	"mreg-cli/core/tags"
	"mreg-cli/core/vlans"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParser() *Parser {
	return &Parser{
		Tags:       tags.NewResolver([]string{"ifi", "usit"}, []string{"stud", "ans", "fast"}),
		VLANs:      vlans.Mapping{"129.240.12.0/23": 12},
		TagFileRef: "/etc/mreg/tags.txt",
	}
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestParse_FullLine(t *testing.T) {
	p := testParser()

	inventory, diagnostics, err := p.Parse(strings.NewReader(
		"129.240.12.0/23   :ifi:stud:|Informatics student network\n"))
	require.NoError(t, err)
	assert.Empty(t, diagnostics)

	record, ok := inventory["129.240.12.0/23"]
	require.True(t, ok)
	assert.Equal(t, "129.240.12.0/23", record.Range)
	assert.Equal(t, "Informatics student network", record.Description)
	assert.Equal(t, strPtr("ifi"), record.Location)
	assert.Equal(t, strPtr("stud"), record.Category)
	assert.Equal(t, intPtr(12), record.VLAN)
}

func TestParse_CategoriesAccumulate(t *testing.T) {
	p := testParser()

	inventory, diagnostics, err := p.Parse(strings.NewReader(
		"10.0.0.0/24  :stud:ans:|Mixed use\n"))
	require.NoError(t, err)
	assert.Empty(t, diagnostics)
	assert.Equal(t, strPtr("stud ans"), inventory["10.0.0.0/24"].Category)
}

func TestParse_NoVLANMapping(t *testing.T) {
	p := testParser()

	inventory, _, err := p.Parse(strings.NewReader(
		"10.0.0.0/24  :stud:|No VLAN on record\n"))
	require.NoError(t, err)
	assert.Nil(t, inventory["10.0.0.0/24"].VLAN)
}

func TestParse_Diagnostics(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		message string
	}{
		{
			name:    "unmatched line",
			line:    "this is not an import line",
			message: "Line did not match the import format, skipped",
		},
		{
			name:    "missing description separator",
			line:    "10.0.0.0/24  :stud: Informatics",
			message: "Line did not match the import format, skipped",
		},
		{
			name:    "host bits set",
			line:    "10.0.0.1/24  :stud:|desc",
			message: "Invalid range 10.0.0.1/24, skipped",
		},
		{
			name:    "prefix length out of range",
			line:    "10.0.0.0/33  :stud:|desc",
			message: "Invalid range 10.0.0.0/33, skipped",
		},
		{
			name:    "unknown tag",
			line:    "10.0.0.0/24  :bogus:|desc",
			message: "Invalid tag bogus. Valid tags can be found in /etc/mreg/tags.txt",
		},
		{
			name:    "empty tag segment",
			line:    "10.0.0.0/24  ::stud:|desc",
			message: "Invalid tag . Valid tags can be found in /etc/mreg/tags.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diagnostics, err := testParser().Parse(strings.NewReader(tt.line + "\n"))
			require.NoError(t, err)
			require.Len(t, diagnostics, 1)
			assert.Equal(t, 1, diagnostics[0].Line)
			assert.Equal(t, tt.message, diagnostics[0].Message)
		})
	}
}

func TestParse_UnknownTagKeepsLine(t *testing.T) {
	p := testParser()

	inventory, diagnostics, err := p.Parse(strings.NewReader(
		"10.0.0.0/24  :bogus:stud:|Partly tagged\n"))
	require.NoError(t, err)
	require.Len(t, diagnostics, 1)

	// The bad tag is reported but the line still produces a record.
	record, ok := inventory["10.0.0.0/24"]
	require.True(t, ok)
	assert.Equal(t, strPtr("stud"), record.Category)
	assert.Nil(t, record.Location)
}

func TestParse_DuplicateRangeLastWins(t *testing.T) {
	p := testParser()

	input := "10.0.0.0/24  :stud:|First definition\n" +
		"10.0.0.0/24  :ans:|Second definition\n"
	inventory, diagnostics, err := p.Parse(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, diagnostics, 1)
	assert.Equal(t, 2, diagnostics[0].Line)
	assert.Equal(t, "Duplicate range 10.0.0.0/24, last definition wins", diagnostics[0].Message)

	require.Len(t, inventory, 1)
	assert.Equal(t, "Second definition", inventory["10.0.0.0/24"].Description)
	assert.Equal(t, strPtr("ans"), inventory["10.0.0.0/24"].Category)
}

func TestParse_BlankLinesSkipped(t *testing.T) {
	p := testParser()

	input := "\n   \n10.0.0.0/24  :stud:|desc\n\n"
	inventory, diagnostics, err := p.Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, diagnostics)
	assert.Len(t, inventory, 1)
}

func TestParse_LineNumbersCountAllLines(t *testing.T) {
	p := testParser()

	// Diagnostics must point at file line numbers, not record numbers.
	input := "10.0.0.0/24  :stud:|ok\n\ngarbage\n"
	_, diagnostics, err := p.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, diagnostics, 1)
	assert.Equal(t, 3, diagnostics[0].Line)
}

func TestParseFile_MissingFile(t *testing.T) {
	p := testParser()

	_, _, err := p.ParseFile("/nonexistent/import.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening import file")
}
