package normalize

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Efenterprise/serene-care-flow-sub003/internal/model"
)

// FileHash computes the hex-encoded SHA-256 of the file at path.
func FileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for hash: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// AssessmentHash computes a stable SHA-256 over the clinical content of an
// assessment. Sections are encoded as JSON, whose map keys are sorted, so
// equal content always yields the same digest. Identity fields are excluded:
// two events with identical sections classify identically.
func AssessmentHash(a model.Assessment) string {
	h := sha256.New()
	for _, id := range model.SectionIDs() {
		s, ok := a.Sections[id]
		if !ok {
			continue
		}
		data, err := json.Marshal(s)
		if err != nil {
			// Only unencodable values (NaN, channels) land here; fall back to
			// the printed form so the hash stays total.
			data = []byte(fmt.Sprintf("%v", s.Items))
		}
		h.Write([]byte(id))
		h.Write([]byte{0})
		h.Write(data)
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
