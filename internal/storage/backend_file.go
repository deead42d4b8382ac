package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const backupCount = 3

// FileBackend persists the settings record as a JSON file. Writes go
// through a temp file and rename so a crash never leaves a torn record,
// and a few timestamped backups are kept next to the file.
type FileBackend struct {
	path         string
	lastChecksum string
}

func NewFileBackend(path string) (*FileBackend, error) {
	if path == "" {
		return nil, fmt.Errorf("settings file path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create settings directory: %w", err)
	}
	return &FileBackend{path: path}, nil
}

func (fb *FileBackend) Load() ([]byte, bool, error) {
	data, err := os.ReadFile(fb.path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read settings file: %w", err)
	}
	fb.lastChecksum = checksum(data)
	return data, true, nil
}

func (fb *FileBackend) Save(data []byte) error {
	sum := checksum(data)
	if sum == fb.lastChecksum {
		return nil
	}

	if err := fb.createBackup(); err != nil {
		// Backups are best-effort; the write itself must still happen.
		log.Printf("[WARN] Settings backup failed: %v", err)
	}

	if err := fb.writeAtomic(data); err != nil {
		return err
	}
	fb.lastChecksum = sum
	return nil
}

func (fb *FileBackend) Close() error { return nil }

func (fb *FileBackend) writeAtomic(data []byte) error {
	tmp := fb.path + ".tmp"

	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp settings file: %w", err)
	}

	file, err := os.OpenFile(tmp, os.O_RDWR, 0644)
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to open temp settings file for sync: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to sync temp settings file: %w", err)
	}
	file.Close()

	if err := os.Rename(tmp, fb.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace settings file: %w", err)
	}
	return nil
}

func (fb *FileBackend) createBackup() error {
	if _, err := os.Stat(fb.path); os.IsNotExist(err) {
		return nil
	}

	timestamp := time.Now().Format("20060102_150405")
	backupPath := fmt.Sprintf("%s.backup.%s", fb.path, timestamp)

	src, err := os.Open(fb.path)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(backupPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}

	fb.pruneBackups()
	return nil
}

func (fb *FileBackend) pruneBackups() {
	matches, err := filepath.Glob(fb.path + ".backup.*")
	if err != nil || len(matches) <= backupCount {
		return
	}
	// Timestamped names sort oldest-first.
	sort.Strings(matches)
	for _, path := range matches[:len(matches)-backupCount] {
		os.Remove(path)
	}
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
