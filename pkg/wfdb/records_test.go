package wfdb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListRecordsFromIndex(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "RECORDS"), []byte("1\n2\n10\n\n"), 0o644))

	recs, err := ListRecords(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "10"}, recs)
}

func TestListRecordsFromHeaderScan(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"2.hea", "1.hea", "1.dat", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	recs, err := ListRecords(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, recs)
}

func TestListRecordsMissingDir(t *testing.T) {
	_, err := ListRecords(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ErrCodeRecordList, fe.Code)
}
