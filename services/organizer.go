package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github/itish2003/localassist/config"
)

// Organizer copies classified files into per-category folders under RootDir.
type Organizer struct {
	RootDir string // The absolute path to the papers directory
}

func NewOrganizer(rootDir string) *Organizer {
	return &Organizer{RootDir: rootDir}
}

// CategoryDir returns the folder a category maps to. The category becomes a
// single path element inside RootDir.
func (o *Organizer) CategoryDir(category string) (string, error) {
	name := strings.TrimSpace(category)
	name = strings.NewReplacer("/", "_", `\`, "_").Replace(name)
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("invalid category name %q", category)
	}
	if name == filepath.Base(config.StoreDir(o.RootDir)) {
		return "", fmt.Errorf("category name %q is reserved", category)
	}
	return filepath.Join(o.RootDir, name), nil
}

// Place copies src into the category folder, overwriting any file with the
// same name, and returns the target path. src is never modified.
func (o *Organizer) Place(src, category string) (string, error) {
	dir, err := o.CategoryDir(category)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("could not create category folder %s: %w", dir, err)
	}
	target := filepath.Join(dir, filepath.Base(src))
	if samePath(src, target) {
		return target, nil
	}
	if err := copyFile(src, target); err != nil {
		return "", fmt.Errorf("could not copy %s to %s: %w", src, target, err)
	}
	return target, nil
}

func samePath(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

// copyFile copies contents, permission bits and modification time.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
