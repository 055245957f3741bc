package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadCommaSeparated(t *testing.T) {
	path := writeFile(t, "tasks.csv",
		"Number,Daily Work Description,Hr,Min,Complete,Follow up,Supervisor Comments,Date\n"+
			"1,Prepare audit,2,30,Yes,none,good,2024-03-01\n"+
			"2,Team sync,0,45,No,reschedule,,2024-03-02\n")

	set, err := Load([]string{path})
	require.NoError(t, err)

	assert.True(t, set.HasDate)
	require.Len(t, set.Rows, 2)

	first := set.Rows[0]
	assert.Equal(t, "1", first.Number)
	assert.Equal(t, "Prepare audit", first.Description)
	assert.Equal(t, "2", first.Hours)
	assert.Equal(t, "30", first.Minutes)
	assert.Equal(t, "Yes", first.Complete)
	assert.Equal(t, "none", first.FollowUp)
	assert.Equal(t, "good", first.Comments)
	require.NotNil(t, first.Date)
	assert.Equal(t, "2024-03-01", first.Date.Format("2006-01-02"))

	second := set.Rows[1]
	assert.Empty(t, second.Comments)
	require.NotNil(t, second.Date)
	assert.Equal(t, "2024-03-02", second.Date.Format("2006-01-02"))
}

func TestLoadTabSeparatedForTxtExtension(t *testing.T) {
	path := writeFile(t, "tasks.txt",
		"Number\tDaily Work Description\tHr\tMin\tComplete\tFollow up\tSupervisor Comments\n"+
			"1\tDaily standup\t0\t30\tYes\t\t\n")

	set, err := Load([]string{path})
	require.NoError(t, err)

	assert.False(t, set.HasDate)
	require.Len(t, set.Rows, 1)
	assert.Equal(t, "Daily standup", set.Rows[0].Description)
	assert.Equal(t, "30", set.Rows[0].Minutes)
}

func TestLoadConcatenatesFilesInOrder(t *testing.T) {
	first := writeFile(t, "a.csv",
		"Number,Daily Work Description\n1,from first\n2,also first\n")
	second := writeFile(t, "b.csv",
		"Number,Daily Work Description,Date\n3,from second,2024-03-01\n")

	set, err := Load([]string{first, second})
	require.NoError(t, err)

	// Per-file order then file order; duplicate rows are never deduplicated.
	require.Len(t, set.Rows, 3)
	assert.Equal(t, "from first", set.Rows[0].Description)
	assert.Equal(t, "also first", set.Rows[1].Description)
	assert.Equal(t, "from second", set.Rows[2].Description)

	// Any file carrying a Date column marks the whole set.
	assert.True(t, set.HasDate)
}

func TestLoadMissingFileIsFatal(t *testing.T) {
	_, err := Load([]string{filepath.Join(t.TempDir(), "missing.csv")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.csv")
}

func TestLoadUnparseableDateExcludedNotFatal(t *testing.T) {
	path := writeFile(t, "tasks.csv",
		"Daily Work Description,Date\nvalid,2024-03-01\nbroken,someday soon\n")

	set, err := Load([]string{path})
	require.NoError(t, err)

	require.Len(t, set.Rows, 2)
	assert.NotNil(t, set.Rows[0].Date)
	assert.Nil(t, set.Rows[1].Date)
	assert.Equal(t, "someday soon", set.Rows[1].DateRaw)
}

func TestLoadLenientDateLayouts(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"dashes", "2024-03-01"},
		{"slashes", "2024/03/01"},
		{"us style", "03/01/2024"},
		{"short us style", "3/1/2024"},
		{"long form", "Mar 1, 2024"},
		{"day first", "1 Mar 2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "tasks.csv", "Daily Work Description,Date\nrow,"+tt.value+"\n")

			set, err := Load([]string{path})
			require.NoError(t, err)
			require.Len(t, set.Rows, 1)
			require.NotNil(t, set.Rows[0].Date)
			assert.Equal(t, "2024-03-01", set.Rows[0].Date.Format("2006-01-02"))
		})
	}
}

func TestLoadSkipsBlankRowsAndIgnoresUnknownColumns(t *testing.T) {
	path := writeFile(t, "tasks.csv",
		"Number,Daily Work Description,Project Code\n1,real work,ZX-9\n,,\n2,more work,ZX-9\n")

	set, err := Load([]string{path})
	require.NoError(t, err)

	require.Len(t, set.Rows, 2)
	assert.Equal(t, "real work", set.Rows[0].Description)
	assert.Equal(t, "more work", set.Rows[1].Description)
}

func TestLoadHandlesUTF8BOM(t *testing.T) {
	path := writeFile(t, "tasks.csv",
		"\uFEFFNumber,Daily Work Description\n1,bom guarded\n")

	set, err := Load([]string{path})
	require.NoError(t, err)
	require.Len(t, set.Rows, 1)
	assert.Equal(t, "1", set.Rows[0].Number)
}
