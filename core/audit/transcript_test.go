package audit

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }
func (failingWriter) Close() error              { return nil }

func TestTranscriptFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subnets_import.log")

	tr, err := Open(path)
	require.NoError(t, err)

	tr.BeginRead("subnets.txt")
	tr.Diagnostic(3, "Invalid tag frankrike. Valid tags can be found in tags.txt")
	tr.EndRead("subnets.txt")
	tr.Blocker("WARNING: The import will change over 20% of the subnets. Requires force")
	tr.BeginRequests()
	tr.Delete("http://mreg:8000/subnets/10.0.16.0/24")
	tr.Post("http://mreg:8000/subnets/", "10.0.32.0/24")
	tr.Patch("http://mreg:8000/subnets/10.0.0.0/24")
	tr.EndRequests()
	require.NoError(t, tr.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want := `------ READ FROM subnets.txt START ------
3: Invalid tag frankrike. Valid tags can be found in tags.txt
------ READ FROM subnets.txt END ------
WARNING: The import will change over 20% of the subnets. Requires force
------ API REQUESTS START ------
DELETE http://mreg:8000/subnets/10.0.16.0/24
POST http://mreg:8000/subnets/ - 10.0.32.0/24
PATCH http://mreg:8000/subnets/10.0.0.0/24
------ API REQUESTS END ------
`
	assert.Equal(t, want, string(data))
}

func TestOpenTruncatesPreviousRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subnets_import.log")

	tr, err := Open(path)
	require.NoError(t, err)
	tr.BeginRead("first.txt")
	tr.EndRead("first.txt")
	tr.BeginRequests()
	tr.Delete("http://mreg:8000/subnets/10.0.16.0/24")
	tr.EndRequests()
	require.NoError(t, tr.Close())

	tr, err = Open(path)
	require.NoError(t, err)
	tr.BeginRead("second.txt")
	tr.EndRead("second.txt")
	require.NoError(t, tr.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "------ READ FROM second.txt START ------\n------ READ FROM second.txt END ------\n", string(data))
}

func TestWriteErrorSurfacesOnClose(t *testing.T) {
	tr := NewWriter(failingWriter{})

	tr.BeginRead("subnets.txt")
	tr.Diagnostic(1, "never written")
	tr.EndRead("subnets.txt")

	err := tr.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing transcript")
	assert.Contains(t, err.Error(), "disk full")
}

func TestPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subnets_import.log")

	tr, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, tr.Path())
	require.NoError(t, tr.Close())

	assert.Empty(t, NewWriter(failingWriter{}).Path())
}
