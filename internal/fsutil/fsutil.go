// Package fsutil copies a fetched project tree into the repository.
package fsutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnsafeDestination is returned when replacing the destination would
// delete a repository's .git directory.
var ErrUnsafeDestination = errors.New("unsafe copy destination")

// CheckDestination refuses a destination that is the repository root
// itself or that holds a .git entry.
func CheckDestination(dst, repoRoot string) error {
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", dst, err)
	}
	if repoRoot != "" {
		absRoot, err := filepath.Abs(repoRoot)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", repoRoot, err)
		}
		if rel, err := filepath.Rel(absDst, absRoot); err == nil && !isOutside(rel) {
			return fmt.Errorf("%w: %s is or contains the repository root", ErrUnsafeDestination, dst)
		}
	}
	if _, err := os.Lstat(filepath.Join(absDst, ".git")); err == nil {
		return fmt.Errorf("%w: %s contains .git", ErrUnsafeDestination, dst)
	}
	return nil
}

// isOutside reports whether a relative path climbs out of its base.
func isOutside(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// ReplaceTree deletes dst, recreates it and copies src into it. The
// destination is checked against repoRoot first.
func ReplaceTree(src, dst, repoRoot string) error {
	if err := CheckDestination(dst, repoRoot); err != nil {
		return err
	}
	if err := os.RemoveAll(dst); err != nil {
		return fmt.Errorf("removing %s: %w", dst, err)
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	return CopyTree(src, dst)
}

// CopyTree copies the contents of src into dst with an explicit stack.
// Symlinks are skipped.
func CopyTree(src, dst string) error {
	type pair struct{ from, to string }
	stack := []pair{{src, dst}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(p.from)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p.from, err)
		}
		for _, e := range entries {
			from := filepath.Join(p.from, e.Name())
			to := filepath.Join(p.to, e.Name())
			switch {
			case e.Type()&fs.ModeSymlink != 0:
				continue
			case e.IsDir():
				if err := os.MkdirAll(to, 0o755); err != nil {
					return fmt.Errorf("creating %s: %w", to, err)
				}
				stack = append(stack, pair{from, to})
			case e.Type().IsRegular():
				if err := copyFile(from, to); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func copyFile(from, to string) error {
	in, err := os.Open(from)
	if err != nil {
		return fmt.Errorf("opening %s: %w", from, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", from, err)
	}
	out, err := os.OpenFile(to, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating %s: %w", to, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", from, err)
	}
	return out.Close()
}

// ListTop returns the sorted names of the entries directly under dir.
func ListTop(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
