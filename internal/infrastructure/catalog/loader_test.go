package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/HSCode-Intelligence/pkg/errors"
)

func TestParseCSV(t *testing.T) {
	t.Parallel()

	data := `code,description,heading_description
3301.29,沈香油及びその抽出物,精油
3303.00,香水及びオーデコロン,調製香料
,コード欠落の行,
9503.00,玩具,
`
	entries, err := ParseCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "3301.29", entries[0].Code)
	assert.Equal(t, "沈香油及びその抽出物", entries[0].Description)
	assert.Equal(t, "精油", entries[0].HeadingDescription)
	assert.Equal(t, "", entries[2].HeadingDescription)
}

func TestParseCSVHeaderCaseInsensitive(t *testing.T) {
	t.Parallel()

	data := "Code,Description\n3303.00,香水\n"
	entries, err := ParseCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "3303.00", entries[0].Code)
}

func TestParseCSVMissingColumns(t *testing.T) {
	t.Parallel()

	_, err := ParseCSV(strings.NewReader("name,value\na,b\n"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeCatalogLoadFailed))
}

func TestParseCSVEmpty(t *testing.T) {
	t.Parallel()

	_, err := ParseCSV(strings.NewReader(""))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeCatalogEmpty))

	_, err = ParseCSV(strings.NewReader("code,description\n"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeCatalogEmpty))
}

func TestFileLoader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path,
		[]byte("code,description\n3301.29,沈香油及びその抽出物\n"), 0o600))

	entries, err := FileLoader(path)(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "3301.29", entries[0].Code)

	_, err = FileLoader(filepath.Join(t.TempDir(), "missing.csv"))(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeCatalogLoadFailed))
}

//Personal.AI order the ending
