package provision

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const composeValidateCmd = "docker compose -f docker-compose.yml --env-file .env config -q"
const composePsCmd = "docker compose -f docker-compose.yml --env-file .env ps --all --format {{.Service}}\t{{.State}}"

func TestDockerCompose_Validate(t *testing.T) {
	run := &fakeRunner{outputs: map[string]string{composeValidateCmd: ""}}
	orch := NewOrchestrator(run)

	assert.NoError(t, orch.Validate(ManifestName))
}

func TestDockerCompose_ValidateFailure(t *testing.T) {
	run := &fakeRunner{
		outputs: map[string]string{composeValidateCmd: "services.swag.image is required"},
		errs:    map[string]error{composeValidateCmd: errors.New("exit status 1")},
	}
	orch := NewOrchestrator(run)

	err := orch.Validate(ManifestName)

	var orchErr *OrchestrationError
	require.ErrorAs(t, err, &orchErr)
	assert.Contains(t, err.Error(), "services.swag.image", "tool output surfaced to the operator")
}

func TestDockerCompose_Services(t *testing.T) {
	run := &fakeRunner{outputs: map[string]string{
		composePsCmd: "swag\trunning\nmariadb\trunning\nnextcloud\trestarting",
	}}
	orch := NewOrchestrator(run)

	list, err := orch.Services(ManifestName)
	require.NoError(t, err)

	assert.Equal(t, []ServiceStatus{
		{Name: "swag", State: "running"},
		{Name: "mariadb", State: "running"},
		{Name: "nextcloud", State: "restarting"},
	}, list)
}

func TestDeclaredServices(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "docker-compose.yml")
	require.NoError(t, os.WriteFile(manifest, []byte(`
services:
  swag:
    image: lscr.io/linuxserver/swag
  nextcloud:
    image: lscr.io/linuxserver/nextcloud
  mariadb:
    image: mariadb:11
`), 0o640))

	names, err := DeclaredServices(manifest)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"swag", "nextcloud", "mariadb"}, names)
}

func TestDeclaredServices_MissingFile(t *testing.T) {
	_, err := DeclaredServices(filepath.Join(t.TempDir(), "absent.yml"))

	var orchErr *OrchestrationError
	require.ErrorAs(t, err, &orchErr)
}
