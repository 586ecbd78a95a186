package provision

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EnvFileName is the environment description read from the working directory.
const EnvFileName = ".env"

// RequiredKeys is the fixed set of keys the environment file must define
// with non-empty values before provisioning proceeds.
var RequiredKeys = []string{
	"BASE_DIR",
	"PUID",
	"PGID",
	"TZ",
	"DOMAIN",
	"DUCKDNS_TOKEN",
	"EMAIL",
	"ADMIN_USER",
	"ADMIN_PASSWORD",
	"MYSQL_ROOT_PASSWORD",
	"MYSQL_PASSWORD",
	"REDIS_PASSWORD",
}

// Config is the validated, immutable description of one provisioning run.
// It is built once by LoadConfig and passed by value into every stage.
type Config struct {
	BaseDir string
	UID     int
	GID     int
	Vars    map[string]string
}

// ParseEnvFile reads a key=value file. Blank lines and #-comments are
// ignored, one level of matching quotes is stripped from values, and a
// duplicated key takes its last occurrence.
func ParseEnvFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	defer file.Close()

	vars := map[string]string{}
	s := bufio.NewScanner(file)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		k := strings.TrimSpace(parts[0])
		v := unquote(strings.TrimSpace(parts[1]))
		vars[k] = v
	}
	if err := s.Err(); err != nil {
		return nil, &ConfigError{Err: err}
	}
	return vars, nil
}

// unquote strips one level of matching surrounding quotes, single or double.
// Unmatched quotes are left alone.
func unquote(v string) string {
	if len(v) < 2 {
		return v
	}
	first, last := v[0], v[len(v)-1]
	if first == last && (first == '"' || first == '\'') {
		return v[1 : len(v)-1]
	}
	return v
}

// Validate checks that every required key is present and non-empty,
// reporting the full set of offenders at once.
func Validate(vars map[string]string, required []string) error {
	var missing []string
	for _, key := range required {
		if strings.TrimSpace(vars[key]) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	return nil
}

// LoadConfig parses and validates the environment file and resolves the
// numeric ownership ids.
func LoadConfig(path string) (Config, error) {
	vars, err := ParseEnvFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := Validate(vars, RequiredKeys); err != nil {
		return Config{}, err
	}

	uid, err := strconv.Atoi(vars["PUID"])
	if err != nil {
		return Config{}, &ConfigError{Err: fmt.Errorf("PUID %q is not numeric", vars["PUID"])}
	}
	gid, err := strconv.Atoi(vars["PGID"])
	if err != nil {
		return Config{}, &ConfigError{Err: fmt.Errorf("PGID %q is not numeric", vars["PGID"])}
	}

	return Config{
		BaseDir: vars["BASE_DIR"],
		UID:     uid,
		GID:     gid,
		Vars:    vars,
	}, nil
}
