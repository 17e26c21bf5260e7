package excel

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"

	"gradebook/domain/student"
	apperrors "gradebook/internal/errors"

	"golang.org/x/sync/singleflight"
)

// Store owns the backing file. Every read is a full reload and every
// append is a full rewrite; the table is never cached between calls, which
// keeps external edits visible but does not scale to large files.
type Store struct {
	config ExcelConfig
	reader *DataReader
	writer *DataWriter

	// mu orders appends against reads within this process. Writers in
	// other processes are not coordinated (last write wins).
	mu    sync.RWMutex
	loads singleflight.Group
}

// NewStore creates a store for config.FilePath without touching the disk
func NewStore(config ExcelConfig) (*Store, error) {
	if config.FilePath == "" {
		return nil, apperrors.ConfigInvalid("data file path is required")
	}
	reader, err := NewDataReader(config.FilePath)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeConfigInvalid, err)
	}
	writer, err := NewDataWriter(config)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeConfigInvalid, err)
	}
	return &Store{config: config, reader: reader, writer: writer}, nil
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.config.FilePath
}

// EnsureInitialized creates a header-only file if none exists. Existing
// files are left untouched, so it is safe to call on every start.
func (s *Store) EnsureInitialized() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := os.Stat(s.config.FilePath)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return apperrors.StorageRead(s.config.FilePath, err)
	}

	if dir := filepath.Dir(s.config.FilePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.StorageWrite(s.config.FilePath, err)
		}
	}
	if err := s.writer.WriteTable(student.Table{}); err != nil {
		return err
	}
	log.Printf("[Store] Created %s with header row", s.config.FilePath)
	return nil
}

// LoadAll reads the whole file. Concurrent callers share a single read;
// each receives its own copy of the table.
func (s *Store) LoadAll(ctx context.Context) (student.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v, err, shared := s.loads.Do(s.config.FilePath, func() (interface{}, error) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.reader.ReadTable()
	})
	if err != nil {
		return nil, err
	}

	table := v.(student.Table)
	if shared {
		table = table.Clone()
	}
	return table, nil
}

// AppendAndSave reloads the file, appends rec as the last row and rewrites
// the file atomically. On error the file keeps its previous content.
func (s *Store) AppendAndSave(ctx context.Context, rec student.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.reader.ReadTable()
	if err != nil {
		return apperrors.Wrapf(err, "append of roll %q aborted", rec.RollNumber)
	}

	table = append(table, rec)
	if err := s.writer.WriteTable(table); err != nil {
		return err
	}

	log.Printf("[Store] Appended roll %q (%s) to %s, %d records", rec.RollNumber, rec.Class, s.config.FilePath, len(table))
	return nil
}
