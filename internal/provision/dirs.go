package provision

import (
	"io/fs"
	"os"
	"path/filepath"
)

// DirEntrySpec pairs a relative path with the service or purpose it backs.
type DirEntrySpec struct {
	Rel     string
	Purpose string
}

// StackDirs is the directory tree the stack expects under BASE_DIR.
// Order matters only for readable output; creation is independent.
var StackDirs = []DirEntrySpec{
	{Rel: "config/swag", Purpose: "reverse proxy configuration and certificates"},
	{Rel: "config/nextcloud", Purpose: "nextcloud application configuration"},
	{Rel: "config/jellyfin", Purpose: "jellyfin application configuration"},
	{Rel: "config/mariadb", Purpose: "database files"},
	{Rel: "config/redis", Purpose: "cache persistence"},
	{Rel: "data/nextcloud", Purpose: "user files"},
	{Rel: "media/movies", Purpose: "movie library"},
	{Rel: "media/tv", Purpose: "tv library"},
	{Rel: "media/music", Purpose: "music library"},
}

const (
	dirMode  = 0o755
	fileMode = 0o644
)

// EnsureDirs creates every spec entry under base (existing directories are
// left untouched), then walks the whole base tree setting ownership to
// uid/gid and normalizing modes. It never removes or truncates anything;
// existing file contents are preserved.
func EnsureDirs(base string, spec []DirEntrySpec, uid, gid int) error {
	if err := os.MkdirAll(base, dirMode); err != nil {
		return &FilesystemError{Path: base, Err: err}
	}
	for _, entry := range spec {
		path := filepath.Join(base, entry.Rel)
		if err := os.MkdirAll(path, dirMode); err != nil {
			return &FilesystemError{Path: path, Err: err}
		}
	}

	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := os.Chown(path, uid, gid); err != nil {
			return err
		}
		mode := os.FileMode(fileMode)
		if d.IsDir() {
			mode = dirMode
		}
		return os.Chmod(path, mode)
	})
	if err != nil {
		return &FilesystemError{Path: base, Err: err}
	}
	return nil
}
