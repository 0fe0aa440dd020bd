// Package jsonl reads job records from a JSON Lines file.
//
// Each non-blank line holds one JSON object. Lines that are not valid JSON
// objects are reported as *domain.MalformedRecordError and reading continues
// with the next line.
package jsonl

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/custodia-labs/jobmatch/internal/core/domain"
	"github.com/custodia-labs/jobmatch/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.RecordSource = (*Source)(nil)

// Source is a RecordSource over a JSON Lines stream.
type Source struct {
	path   string
	reader *bufio.Reader
	closer io.Closer
	line   int
}

// Open opens the JSON Lines file at path.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	return &Source{
		path:   path,
		reader: bufio.NewReader(f),
		closer: f,
	}, nil
}

// NewReader wraps r. Total is unknown for sources created this way.
func NewReader(r io.Reader) *Source {
	return &Source{reader: bufio.NewReader(r)}
}

// Next returns the next record, skipping blank lines.
func (s *Source) Next(ctx context.Context) (domain.JobRecord, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := s.reader.ReadBytes('\n')
		if len(raw) == 0 && err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("read line %d: %w", s.line+1, err)
		}
		s.line++

		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 {
			if err != nil {
				return nil, io.EOF
			}
			continue
		}

		rec, decodeErr := decode(raw)
		if decodeErr != nil {
			return nil, &domain.MalformedRecordError{Line: s.line, Err: decodeErr}
		}
		return rec, nil
	}
}

// decode parses a single JSON object, keeping numbers as json.Number.
func decode(raw []byte) (domain.JobRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var rec map[string]any
	if err := dec.Decode(&rec); err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.New("not a JSON object")
	}
	if dec.More() {
		return nil, errors.New("trailing data after JSON object")
	}
	return domain.JobRecord(rec), nil
}

// Total counts the non-blank lines of the file. It returns 0 for sources
// that are not backed by a file.
func (s *Source) Total(ctx context.Context) (int, error) {
	if s.path == "" {
		return 0, nil
	}

	f, err := os.Open(s.path)
	if err != nil {
		return 0, fmt.Errorf("count source lines: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	count := 0
	for scanner.Scan() {
		if count%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		if len(bytes.TrimSpace(scanner.Bytes())) > 0 {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("count source lines: %w", err)
	}
	return count, nil
}

// Close closes the underlying file.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}
