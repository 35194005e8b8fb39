// Package artifact persists a fitted pipeline to a single file.
//
// The file is a gob-encoded envelope holding run metadata, the gob-encoded
// pipeline state and a BLAKE2b-256 checksum of that state. Save overwrites
// any existing file at the path.
package artifact

import (
	"bufio"
	"bytes"
	"crypto/subtle"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/crimson-sun/fraudtrain/internal/engine"
	"github.com/crimson-sun/fraudtrain/internal/engine/boost"
)

const defaultBufSize = 64 * 1024 // 64KB

// ErrChecksum is returned by Load when the payload does not match its
// recorded checksum.
var ErrChecksum = errors.New("artifact: checksum mismatch")

// Meta describes a saved pipeline.
type Meta struct {
	ID        string       `json:"id" yaml:"id"`
	CreatedAt time.Time    `json:"created_at" yaml:"created_at"`
	Version   string       `json:"version" yaml:"version"`
	Dataset   string       `json:"dataset,omitempty" yaml:"dataset,omitempty"`
	TrainRows int          `json:"train_rows" yaml:"train_rows"`
	TestRows  int          `json:"test_rows" yaml:"test_rows"`
	Features  []string     `json:"features" yaml:"features"`
	Params    boost.Params `json:"params" yaml:"params"`
	Accuracy  float64      `json:"accuracy" yaml:"accuracy"`
	AUC       *float64     `json:"auc,omitempty" yaml:"auc,omitempty"` // nil when undefined
	Checksum  string       `json:"checksum" yaml:"checksum"`           // hex BLAKE2b-256 of the payload
}

type envelope struct {
	Meta     Meta
	Payload  []byte
	Checksum []byte
}

// Save encodes p to path, creating parent directories as needed. ID and
// CreatedAt are filled in when empty. The completed Meta is returned.
func Save(path string, p *engine.Pipeline, meta Meta) (Meta, error) {
	var payload bytes.Buffer
	if err := gob.NewEncoder(&payload).Encode(p); err != nil {
		return meta, fmt.Errorf("artifact: encode pipeline: %w", err)
	}
	sum := blake2b.Sum256(payload.Bytes())

	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now().UTC()
	}
	meta.Checksum = hex.EncodeToString(sum[:])

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return meta, fmt.Errorf("artifact: mkdir %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return meta, fmt.Errorf("artifact: create %s: %w", path, err)
	}
	w := bufio.NewWriterSize(f, defaultBufSize)

	env := envelope{Meta: meta, Payload: payload.Bytes(), Checksum: sum[:]}
	if err := gob.NewEncoder(w).Encode(env); err != nil {
		f.Close()
		return meta, fmt.Errorf("artifact: write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return meta, fmt.Errorf("artifact: flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return meta, fmt.Errorf("artifact: close %s: %w", path, err)
	}
	return meta, nil
}

// Load reads an artifact written by Save and verifies its checksum.
func Load(path string) (*engine.Pipeline, Meta, error) {
	env, err := readEnvelope(path)
	if err != nil {
		return nil, Meta{}, err
	}
	sum := blake2b.Sum256(env.Payload)
	if subtle.ConstantTimeCompare(sum[:], env.Checksum) != 1 {
		return nil, env.Meta, fmt.Errorf("%w: %s", ErrChecksum, path)
	}

	var p engine.Pipeline
	if err := gob.NewDecoder(bytes.NewReader(env.Payload)).Decode(&p); err != nil {
		return nil, env.Meta, fmt.Errorf("artifact: decode pipeline: %w", err)
	}
	if p.Pre == nil || p.Clf == nil || !p.Clf.Fitted() {
		return nil, env.Meta, fmt.Errorf("artifact: %s holds an incomplete pipeline", path)
	}
	return &p, env.Meta, nil
}

// Inspect returns the metadata of the artifact at path without decoding
// the pipeline.
func Inspect(path string) (Meta, error) {
	env, err := readEnvelope(path)
	if err != nil {
		return Meta{}, err
	}
	return env.Meta, nil
}

func readEnvelope(path string) (envelope, error) {
	f, err := os.Open(path)
	if err != nil {
		return envelope{}, fmt.Errorf("artifact: open %s: %w", path, err)
	}
	defer f.Close()

	var env envelope
	if err := gob.NewDecoder(bufio.NewReaderSize(f, defaultBufSize)).Decode(&env); err != nil {
		return envelope{}, fmt.Errorf("artifact: read %s: %w", path, err)
	}
	return env, nil
}
