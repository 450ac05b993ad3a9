package wfdb

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListRecords returns the record names of a WFDB database directory. The
// RECORDS index file is used when present; otherwise the directory is scanned
// for .hea files.
func ListRecords(dir string) ([]string, error) {
	if recs, err := readRecordsIndex(filepath.Join(dir, "RECORDS")); err == nil {
		return recs, nil
	} else if !os.IsNotExist(err) {
		return nil, &FormatError{Code: ErrCodeRecordList, File: filepath.Join(dir, "RECORDS"), Message: "read records index", Cause: err}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &FormatError{Code: ErrCodeRecordList, File: dir, Message: "scan database directory", Cause: err}
	}
	var recs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name, ok := strings.CutSuffix(e.Name(), ".hea"); ok {
			recs = append(recs, name)
		}
	}
	sort.Strings(recs)
	return recs, nil
}

func readRecordsIndex(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var recs []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			recs = append(recs, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}
