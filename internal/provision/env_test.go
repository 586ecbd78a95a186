package provision

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o640))
	return path
}

// completeEnv returns an environment file body with every required key set.
func completeEnv(t *testing.T, omit ...string) string {
	t.Helper()
	skip := map[string]bool{}
	for _, k := range omit {
		skip[k] = true
	}
	body := ""
	for _, k := range RequiredKeys {
		if skip[k] {
			continue
		}
		v := "value-" + k
		switch k {
		case "PUID":
			v = "1000"
		case "PGID":
			v = "1000"
		case "BASE_DIR":
			v = "/srv/homelab"
		}
		body += k + "=" + v + "\n"
	}
	return body
}

func TestParseEnvFile(t *testing.T) {
	path := writeEnvFile(t, `
# comment line
DOMAIN=example.duckdns.org
EMAIL="ops@example.com"
TZ='Europe/Paris'
ADMIN_USER=admin
ADMIN_USER=admin2
BROKEN LINE WITHOUT EQUALS
QUOTED_ONCE=""wrapped""
`)

	vars, err := ParseEnvFile(path)
	require.NoError(t, err)

	assert.Equal(t, "example.duckdns.org", vars["DOMAIN"])
	assert.Equal(t, "ops@example.com", vars["EMAIL"], "double quotes stripped")
	assert.Equal(t, "Europe/Paris", vars["TZ"], "single quotes stripped")
	assert.Equal(t, "admin2", vars["ADMIN_USER"], "last occurrence wins")
	assert.Equal(t, `"wrapped"`, vars["QUOTED_ONCE"], "only one quote level stripped")
	assert.NotContains(t, vars, "BROKEN")
}

func TestParseEnvFile_Missing(t *testing.T) {
	_, err := ParseEnvFile(filepath.Join(t.TempDir(), "nope.env"))

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestParseEnvFile_Deterministic(t *testing.T) {
	path := writeEnvFile(t, completeEnv(t))

	first, err := ParseEnvFile(path)
	require.NoError(t, err)
	second, err := ParseEnvFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestValidate_ReportsExactMissingSet(t *testing.T) {
	cases := []struct {
		name string
		omit []string
	}{
		{"one key", []string{"EMAIL"}},
		{"two keys", []string{"EMAIL", "REDIS_PASSWORD"}},
		{"several keys", []string{"TZ", "DUCKDNS_TOKEN", "MYSQL_PASSWORD"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			vars, err := ParseEnvFile(writeEnvFile(t, completeEnv(t, tc.omit...)))
			require.NoError(t, err)

			err = Validate(vars, RequiredKeys)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.ElementsMatch(t, tc.omit, cfgErr.Missing, "exactly the omitted keys, never more, never fewer")
		})
	}
}

func TestValidate_EmptyValueCountsAsMissing(t *testing.T) {
	vars, err := ParseEnvFile(writeEnvFile(t, completeEnv(t, "DOMAIN")+"DOMAIN=\n"))
	require.NoError(t, err)

	err = Validate(vars, RequiredKeys)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, []string{"DOMAIN"}, cfgErr.Missing)
}

func TestValidate_Complete(t *testing.T) {
	vars, err := ParseEnvFile(writeEnvFile(t, completeEnv(t)))
	require.NoError(t, err)

	assert.NoError(t, Validate(vars, RequiredKeys))
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeEnvFile(t, completeEnv(t)))
	require.NoError(t, err)

	assert.Equal(t, "/srv/homelab", cfg.BaseDir)
	assert.Equal(t, 1000, cfg.UID)
	assert.Equal(t, 1000, cfg.GID)
	assert.Equal(t, "value-DOMAIN", cfg.Vars["DOMAIN"], "vars carried through")
}

func TestLoadConfig_NonNumericIDs(t *testing.T) {
	body := completeEnv(t, "PUID") + "PUID=abc\n"
	_, err := LoadConfig(writeEnvFile(t, body))

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "PUID")
}
