package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/joho/godotenv"
)

// DotEnvFile is the name of the optional environment file read from the
// project directory.
const DotEnvFile = ".env"

// ReadDotEnv parses the .env file at path into assignments sorted by
// key. A missing file yields no assignments and no error.
func ReadDotEnv(path string) ([]Assignment, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Assignment, 0, len(keys))
	for _, k := range keys {
		out = append(out, Assignment{Name: k, Value: values[k]})
	}
	return out, nil
}
