package portfolio

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImport(t *testing.T) {
	doc := withResources(Preset())

	for _, name := range []string{"portfolio.json", "portfolio.yaml", "nested/dir/portfolio.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Export(path, doc))

			got, err := Import(path)
			require.NoError(t, err)
			if diff := cmp.Diff(doc, got); diff != "" {
				t.Errorf("import mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncode_JSONKeys(t *testing.T) {
	data, err := Encode(withResources(Preset()), FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"profileImage"`)
	assert.Contains(t, string(data), `"fileUrl"`)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode([]byte(`{"profile":{"nickname":"x"}}`), FormatJSON)
	assert.Error(t, err, "unknown JSON fields are rejected")

	_, err = Decode([]byte("profile: [unclosed"), FormatYAML)
	assert.Error(t, err)

	_, err = Decode([]byte(`{"projects":[{"id":"a"},{"id":"a"}]}`), FormatJSON)
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestImport_Missing(t *testing.T) {
	_, err := Import(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatForPath("a.YML"))
	assert.Equal(t, FormatYAML, FormatForPath("a.yaml"))
	assert.Equal(t, FormatJSON, FormatForPath("a.json"))
	assert.Equal(t, FormatJSON, FormatForPath("a"))
}
