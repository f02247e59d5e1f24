package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// rotatingFile is an append-only log file that moves itself aside once it
// grows past maxSize. It is not safe for concurrent use; Logger serializes
// writes.
type rotatingFile struct {
	path       string
	maxSize    int64
	maxBackups int

	f    *os.File
	size int64
}

func openRotatingFile(path string, maxSize int64, maxBackups int) (*rotatingFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("unable to create log directory: %w", err)
	}

	r := &rotatingFile{path: path, maxSize: maxSize, maxBackups: maxBackups}
	if err := r.open(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *rotatingFile) open() error {
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("unable to open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("unable to stat log file: %w", err)
	}

	r.f = f
	r.size = info.Size()
	return nil
}

// Write appends p, rotating first when the file is already full. A line
// is never split across files.
func (r *rotatingFile) Write(p []byte) (int, error) {
	if r.f == nil {
		return 0, os.ErrClosed
	}

	if r.size > 0 && r.size+int64(len(p)) > r.maxSize {
		if err := r.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := r.f.Write(p)
	r.size += int64(n)
	return n, err
}

func (r *rotatingFile) rotate() error {
	if err := r.f.Close(); err != nil {
		return err
	}
	r.f = nil

	if err := rotateFiles(r.path, r.maxBackups); err != nil {
		return err
	}
	return r.open()
}

func (r *rotatingFile) Close() error {
	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	return err
}

// rotateFiles shifts name.N.ext to name.N+1.ext, drops backups beyond
// maxBackups and moves the live file to name.1.ext.
func rotateFiles(basePath string, maxBackups int) error {
	dir, base := filepath.Split(basePath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)

	backupPath := func(n int) string {
		return filepath.Join(dir, name+"."+strconv.Itoa(n)+ext)
	}

	backups, err := findBackups(dir, name, ext)
	if err != nil {
		return err
	}

	// Highest first, so every rename targets a free slot.
	slices.SortFunc(backups, func(a, b int) int { return b - a })
	for _, num := range backups {
		if num >= maxBackups {
			os.Remove(backupPath(num))
			continue
		}
		if err := os.Rename(backupPath(num), backupPath(num+1)); err != nil {
			return fmt.Errorf("failed to rotate backup %d: %w", num, err)
		}
	}

	if err := os.Rename(basePath, backupPath(1)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to rotate current log: %w", err)
	}
	return nil
}

// findBackups returns the numbers N of existing name.N.ext files in dir.
func findBackups(dir, name, ext string) ([]int, error) {
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var backups []int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		rest, ok := strings.CutPrefix(entry.Name(), name+".")
		if !ok {
			continue
		}
		rest, ok = strings.CutSuffix(rest, ext)
		if !ok {
			continue
		}
		if num, err := strconv.Atoi(rest); err == nil && num > 0 {
			backups = append(backups, num)
		}
	}
	return backups, nil
}
