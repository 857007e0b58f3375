package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// EnsureDir ensures the provided directory exists.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// SafeWriteFile writes data to a temp file and atomically renames it into place.
func SafeWriteFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

// PrettyJSON marshals a value as indented JSON.
func PrettyJSON(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return b, nil
}

// UniquePath returns dir/stem+suffix, or dir/stem__N+suffix (N from 2) when that path already
// exists on disk or was handed out earlier through taken.
func UniquePath(dir, stem, suffix string, taken map[string]struct{}) string {
	free := func(p string) bool {
		if _, ok := taken[p]; ok {
			return false
		}
		_, err := os.Stat(p)
		return os.IsNotExist(err)
	}
	path := filepath.Join(dir, stem+suffix)
	for idx := 2; !free(path); idx++ {
		path = filepath.Join(dir, stem+"__"+strconv.Itoa(idx)+suffix)
	}
	taken[path] = struct{}{}
	return path
}
