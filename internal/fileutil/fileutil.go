// Package fileutil holds the copy helpers behind in-place subtitle
// rewrites: staging a rewritten document over the original and keeping a
// .bak sibling of the previous version.
package fileutil

import (
	"fmt"
	"io"
	"os"
)

// CopyFile duplicates src at dst, truncating any existing file. The copy
// carries the source's permission bits so a restored backup behaves like
// the original.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	return out.Close()
}

// Backup copies path to a .bak sibling and returns the backup's path.
// An existing backup is overwritten.
func Backup(path string) (string, error) {
	backupPath := path + ".bak"
	if err := CopyFile(path, backupPath); err != nil {
		return "", err
	}
	return backupPath, nil
}
