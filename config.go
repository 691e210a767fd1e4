// SPDX-License-Identifier: MIT

package phrasematch

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed config.schema.json
var configSchemaJSON []byte

var (
	configSchemaOnce sync.Once
	configSchema     *jsonschema.Schema
	configSchemaErr  error
)

// BuildConfig describes one build manifest: where the vocabulary and
// phrase corpus live on disk, the fuzzy edit distance to seed, and
// where to write the resulting FuzzyMap/PhraseSet/InvertedIndex files.
type BuildConfig struct {
	VocabPath          string `yaml:"vocab_path"`
	CorpusPath         string `yaml:"corpus_path"`
	OutputStem         string `yaml:"output_stem"`
	EditDistance       int    `yaml:"edit_distance"`
	BuildInvertedIndex bool   `yaml:"build_inverted_index"`
}

// LoadBuildConfig reads and validates a build manifest from path: YAML
// unmarshaling into BuildConfig, plus independent validation of the
// same document against config.schema.json, so a manifest with an
// unexpected shape (a stray field, a wrong type) fails loudly instead
// of silently zero-valuing a Go field.
func LoadBuildConfig(path string) (*BuildConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}

	var cfg BuildConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if err := validateAgainstSchema(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return &cfg, nil
}

func validateAgainstSchema(yamlDoc []byte) error {
	schema, err := compiledConfigSchema()
	if err != nil {
		return err
	}

	var generic map[string]any
	if err := yaml.Unmarshal(yamlDoc, &generic); err != nil {
		return err
	}

	// jsonschema validates the types produced by encoding/json (e.g.
	// float64, not yaml.v3's int), so round-trip through JSON rather
	// than handing it the YAML-decoded map directly.
	asJSON, err := json.Marshal(generic)
	if err != nil {
		return err
	}

	var doc any
	if err := json.Unmarshal(asJSON, &doc); err != nil {
		return err
	}

	return schema.Validate(doc)
}

func compiledConfigSchema() (*jsonschema.Schema, error) {
	configSchemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource("config.schema.json", bytes.NewReader(configSchemaJSON)); err != nil {
			configSchemaErr = err
			return
		}
		configSchema, configSchemaErr = c.Compile("config.schema.json")
	})
	return configSchema, configSchemaErr
}
