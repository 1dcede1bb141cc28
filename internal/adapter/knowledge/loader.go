// Package knowledge loads the immutable profile corpus and the canned
// interview-answer clusters from disk at startup.
package knowledge

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cristinamerisoiu/cv-chatbot/internal/domain"
)

// LoadCorpus reads the knowledge-base JSON and validates every chunk:
// known tag, non-empty text, non-empty embedding, unique ids. A missing
// file surfaces as domain.ErrNotFound so the caller can degrade instead
// of failing startup.
func LoadCorpus(path string) ([]domain.KnowledgeChunk, error) {
	b, err := os.ReadFile(path) // #nosec G304 -- path comes from configuration
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: corpus file %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}
	var chunks []domain.KnowledgeChunk
	if err := json.Unmarshal(b, &chunks); err != nil {
		return nil, fmt.Errorf("%w: corpus %s: %v", domain.ErrDataIntegrity, path, err)
	}
	seen := make(map[string]struct{}, len(chunks))
	for i, c := range chunks {
		if c.ID == "" {
			return nil, fmt.Errorf("%w: corpus chunk %d has no id", domain.ErrDataIntegrity, i)
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate chunk id %q", domain.ErrDataIntegrity, c.ID)
		}
		seen[c.ID] = struct{}{}
		if !c.Tag.Valid() {
			return nil, fmt.Errorf("%w: chunk %q has unknown tag %q", domain.ErrDataIntegrity, c.ID, c.Tag)
		}
		if c.Text == "" {
			return nil, fmt.Errorf("%w: chunk %q has empty text", domain.ErrDataIntegrity, c.ID)
		}
		if len(c.Embedding) == 0 {
			return nil, fmt.Errorf("%w: chunk %q has no embedding", domain.ErrDataIntegrity, c.ID)
		}
	}
	return chunks, nil
}

// clustersFile is the YAML shape of the canned-answer bank.
type clustersFile struct {
	Clusters []domain.InterviewCluster `yaml:"clusters"`
}

// LoadClusters reads the interview-cluster YAML and enforces the
// trigger/answer invariant of every cluster. A missing file surfaces as
// domain.ErrNotFound: the bank stage is then disabled, nothing else.
func LoadClusters(path string) ([]domain.InterviewCluster, error) {
	b, err := os.ReadFile(path) // #nosec G304 -- path comes from configuration
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: clusters file %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("read clusters %s: %w", path, err)
	}
	var doc clustersFile
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("%w: clusters %s: %v", domain.ErrDataIntegrity, path, err)
	}
	for _, c := range doc.Clusters {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrDataIntegrity, err)
		}
	}
	return doc.Clusters, nil
}
