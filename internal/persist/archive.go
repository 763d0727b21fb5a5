// Package persist packs plans into compressed, digest-checked archives.
//
// An archive is a zstd stream holding one JSON header line followed by the
// JSON encoded plan. The header repeats the week, revision and slot digest so
// an archive can be identified without decoding the full plan.
package persist

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/danieljhkim/smokeplan/internal/fsops"
	"github.com/danieljhkim/smokeplan/internal/hash"
	"github.com/danieljhkim/smokeplan/internal/state"
)

// Extension is the file suffix of plan archives.
const Extension = ".json.zst"

// ErrDigestMismatch is returned when a plan's slots do not match its digest.
var ErrDigestMismatch = errors.New("plan digest mismatch")

// Header is the first line of an archive.
type Header struct {
	Version   int       `json:"version"`
	Week      string    `json:"week"`
	Revision  string    `json:"revision"`
	Digest    string    `json:"digest"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Archive is an encoded plan ready to be written or uploaded.
type Archive struct {
	Header Header
	Data   []byte
}

// Key returns the archive's object key: <week>/<revision>.json.zst.
func (a Archive) Key() string {
	return path.Join(a.Header.Week, a.Header.Revision+Extension)
}

// ArchiveManager encodes, decodes and verifies plan archives.
type ArchiveManager struct {
	fs     fsops.FS
	hasher hash.Hasher
}

// NewArchiveManager creates a new ArchiveManager.
func NewArchiveManager(fs fsops.FS, hasher hash.Hasher) *ArchiveManager {
	return &ArchiveManager{fs: fs, hasher: hasher}
}

// Digest computes the content digest of a plan's slots.
func (m *ArchiveManager) Digest(plan *state.PlanState) (string, error) {
	data, err := json.Marshal(plan.Slots)
	if err != nil {
		return "", fmt.Errorf("failed to marshal slots: %w", err)
	}
	return m.hasher.HashBytes(data), nil
}

// Seal sets plan.Digest from the current slots.
func (m *ArchiveManager) Seal(plan *state.PlanState) error {
	digest, err := m.Digest(plan)
	if err != nil {
		return err
	}
	plan.Digest = digest
	return nil
}

// Verify checks that the plan's slots still match its stored digest.
func (m *ArchiveManager) Verify(plan *state.PlanState) error {
	digest, err := m.Digest(plan)
	if err != nil {
		return err
	}
	if plan.Digest != digest {
		return fmt.Errorf("plan %s: %w", plan.Week, ErrDigestMismatch)
	}
	return nil
}

// Encode seals the plan and compresses it into an archive.
func (m *ArchiveManager) Encode(plan *state.PlanState) (Archive, error) {
	if err := m.Seal(plan); err != nil {
		return Archive{}, err
	}
	header := Header{
		Version:   1,
		Week:      plan.Week,
		Revision:  plan.Revision,
		Digest:    plan.Digest,
		UpdatedAt: plan.UpdatedAt,
	}

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return Archive{}, fmt.Errorf("failed to create encoder: %w", err)
	}
	hb, err := json.Marshal(header)
	if err != nil {
		_ = enc.Close()
		return Archive{}, fmt.Errorf("failed to marshal header: %w", err)
	}
	bw := bufio.NewWriter(enc)
	_, _ = bw.Write(hb)
	_ = bw.WriteByte('\n')
	if err := json.NewEncoder(bw).Encode(plan); err != nil {
		_ = enc.Close()
		return Archive{}, fmt.Errorf("failed to encode plan: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return Archive{}, fmt.Errorf("failed to flush archive: %w", err)
	}
	if err := enc.Close(); err != nil {
		return Archive{}, fmt.Errorf("failed to close encoder: %w", err)
	}
	return Archive{Header: header, Data: buf.Bytes()}, nil
}

// Decode decompresses an archive and verifies the plan against its header.
func (m *ArchiveManager) Decode(r io.Reader) (*state.PlanState, Header, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, Header{}, fmt.Errorf("failed to create decoder: %w", err)
	}
	defer dec.Close()

	br := bufio.NewReader(dec)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return nil, Header{}, fmt.Errorf("failed to read archive header: %w", err)
	}
	var header Header
	if err := json.Unmarshal(line, &header); err != nil {
		return nil, Header{}, fmt.Errorf("failed to parse archive header: %w", err)
	}

	var plan state.PlanState
	if err := json.NewDecoder(br).Decode(&plan); err != nil {
		return nil, header, fmt.Errorf("failed to decode plan: %w", err)
	}
	if plan.Digest != header.Digest {
		return nil, header, fmt.Errorf("archive %s: header digest differs from plan: %w", header.Week, ErrDigestMismatch)
	}
	if err := m.Verify(&plan); err != nil {
		return nil, header, err
	}
	return &plan, header, nil
}

// WriteFile writes an archive atomically under dir and returns its path.
// The file is named <week>-<revision>.json.zst.
func (m *ArchiveManager) WriteFile(dir string, a Archive) (string, error) {
	if err := m.fs.ValidateIdentifier(a.Header.Revision); err != nil {
		return "", fmt.Errorf("invalid revision: %w", err)
	}
	p := filepath.Join(dir, a.Header.Week+"-"+a.Header.Revision+Extension)
	if err := m.fs.AtomicWrite(p, a.Data, 0644); err != nil {
		return "", fmt.Errorf("failed to write archive: %w", err)
	}
	return p, nil
}

// ReadFile decodes the archive at p.
func (m *ArchiveManager) ReadFile(p string) (*state.PlanState, error) {
	data, err := m.fs.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	plan, _, err := m.Decode(bytes.NewReader(data))
	return plan, err
}
