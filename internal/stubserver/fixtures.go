package stubserver

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/raovat-dev/raovat/internal/bangtin"
)

//go:embed fixtures/dataset.json fixtures/dataset.schema.json
var fixturesFS embed.FS

const datasetSchemaName = "dataset.schema.json"

// Dataset is everything the stub serves: fixture users for the identity
// endpoints and posts for the listings collection.
type Dataset struct {
	Users []User         `json:"users"`
	Posts []bangtin.Post `json:"posts"`
}

// User is one fixture account. Plaintext passwords are fine here; the stub
// exists for local development only.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// DefaultDataset loads the embedded fixture dataset.
func DefaultDataset() (Dataset, error) {
	raw, err := fixturesFS.ReadFile("fixtures/dataset.json")
	if err != nil {
		return Dataset{}, fmt.Errorf("read embedded dataset: %w", err)
	}
	return ParseDataset(raw)
}

// LoadDatasetFile loads a dataset from disk, letting a developer point the
// stub at their own fixture file.
func LoadDatasetFile(path string) (Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("read dataset: %w", err)
	}
	ds, err := ParseDataset(raw)
	if err != nil {
		return Dataset{}, fmt.Errorf("dataset %s: %w", path, err)
	}
	return ds, nil
}

// ParseDataset validates raw JSON against the dataset schema and decodes
// it. Schema validation runs first so a malformed fixture fails with a
// pointed message instead of a half-loaded dataset.
func ParseDataset(raw []byte) (Dataset, error) {
	schema, err := compileDatasetSchema()
	if err != nil {
		return Dataset{}, err
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Dataset{}, fmt.Errorf("dataset is not valid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return Dataset{}, fmt.Errorf("dataset schema validation: %w", err)
	}

	var ds Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}
	if err := checkDataset(ds); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

func compileDatasetSchema() (*jsonschema.Schema, error) {
	raw, err := fixturesFS.ReadFile("fixtures/" + datasetSchemaName)
	if err != nil {
		return nil, fmt.Errorf("read embedded schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(datasetSchemaName, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(datasetSchemaName)
	if err != nil {
		return nil, fmt.Errorf("compile dataset schema: %w", err)
	}
	return schema, nil
}

// checkDataset enforces the uniqueness rules the schema cannot express.
func checkDataset(ds Dataset) error {
	ids := make(map[int64]struct{}, len(ds.Posts))
	for _, p := range ds.Posts {
		if _, dup := ids[p.ID]; dup {
			return fmt.Errorf("duplicate post id %d", p.ID)
		}
		ids[p.ID] = struct{}{}
	}
	// Sign-in matches emails case-insensitively, so uniqueness must too.
	emails := make(map[string]struct{}, len(ds.Users))
	for _, u := range ds.Users {
		key := strings.ToLower(u.Email)
		if _, dup := emails[key]; dup {
			return fmt.Errorf("duplicate user email %q", u.Email)
		}
		emails[key] = struct{}{}
	}
	return nil
}
