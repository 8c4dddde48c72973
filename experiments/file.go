package experiments

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var header = []string{"match_id", "winner", "red_score", "blue_score", "timestamp"}

// FileStore keeps results in an append-only CSV file. A missing or
// unreadable file is treated as an empty history.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Append(_ context.Context, r Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open results file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat results file: %w", err)
	}

	writer := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := writer.Write(header); err != nil {
			return fmt.Errorf("failed to write results header: %w", err)
		}
	}

	row := []string{
		r.MatchID.String(),
		r.Winner,
		strconv.Itoa(r.RedScore),
		strconv.Itoa(r.BlueScore),
		r.Timestamp.UTC().Format(time.RFC3339),
	}
	if err := writer.Write(row); err != nil {
		return fmt.Errorf("failed to write result row: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush results file: %w", err)
	}
	return nil
}

func (s *FileStore) ReadAll(_ context.Context) ([]Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open results file: %w", err)
	}
	defer f.Close()

	results, err := readResults(f)
	if err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("ignoring corrupt results file")
		return nil, nil
	}
	return results, nil
}

func readResults(r io.Reader) ([]Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(header)

	var results []Result
	for line := 0; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if line == 0 {
			continue
		}
		result, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		results = append(results, result)
	}
	return results, nil
}

func parseRow(row []string) (Result, error) {
	id, err := uuid.Parse(row[0])
	if err != nil {
		return Result{}, fmt.Errorf("failed to parse match id: %w", err)
	}
	red, err := strconv.Atoi(row[2])
	if err != nil {
		return Result{}, fmt.Errorf("failed to parse red score: %w", err)
	}
	blue, err := strconv.Atoi(row[3])
	if err != nil {
		return Result{}, fmt.Errorf("failed to parse blue score: %w", err)
	}
	ts, err := time.Parse(time.RFC3339, row[4])
	if err != nil {
		return Result{}, fmt.Errorf("failed to parse timestamp: %w", err)
	}
	return Result{MatchID: id, Winner: row[1], RedScore: red, BlueScore: blue, Timestamp: ts}, nil
}
