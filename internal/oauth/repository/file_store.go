// Package repository provides file-backed persistence for the authorization
// server: the client registry, the authorization code store and the token
// signing key. Every read hits disk so revocation and code consumption are
// immediately visible; every mutation is an atomic full-file rewrite with
// owner-only permissions.
package repository

import (
	"encoding/json"
	"os"
	"path/filepath"

	apperrors "github.com/simplemem/simplemem-mcp/internal/errors"
)

const (
	dirPerm  = 0o700
	filePerm = 0o600
)

// ensureDir creates the state directory with owner-only permissions.
// Permissions are re-applied for pre-existing directories.
func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return apperrors.Wrap(err, "failed to create state directory")
	}
	if err := os.Chmod(dir, dirPerm); err != nil {
		return apperrors.Wrap(err, "failed to restrict state directory permissions")
	}
	return nil
}

// readJSONFile unmarshals the file into out. A missing file is not an error;
// out is left untouched and false is returned.
func readJSONFile(path string, out any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, apperrors.Wrapf(err, "failed to read %s", filepath.Base(path))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, apperrors.Wrapf(err, "failed to decode %s", filepath.Base(path))
	}
	return true, nil
}

// writeJSONFile atomically replaces the file: the payload is written to a
// temp file in the same directory, restricted to owner-only permissions and
// renamed over the target.
func writeJSONFile(path string, in any) error {
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return apperrors.Wrapf(err, "failed to encode %s", filepath.Base(path))
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return apperrors.Wrap(err, "failed to create temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return apperrors.Wrap(err, "failed to write temp file")
	}
	if err := tmp.Chmod(filePerm); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return apperrors.Wrap(err, "failed to restrict file permissions")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return apperrors.Wrap(err, "failed to close temp file")
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return apperrors.Wrapf(err, "failed to replace %s", filepath.Base(path))
	}
	return nil
}
