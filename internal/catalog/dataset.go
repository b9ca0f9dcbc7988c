package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vanshika/reelpath/internal/domain"
)

// Dataset is a self-contained catalog: every movie with its cast. Files are
// YAML; JSON files decode as well since JSON is a subset of YAML.
type Dataset struct {
	Movies []domain.CatalogMovie `json:"movies" yaml:"movies"`
}

// LoadDataset reads and validates a dataset file.
func LoadDataset(path string) (Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	ds, err := DecodeDataset(file)
	if err != nil {
		return Dataset{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return ds, nil
}

// DecodeDataset parses and validates a dataset.
func DecodeDataset(r io.Reader) (Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Dataset{}, err
	}
	var ds Dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return Dataset{}, err
	}
	if err := ds.Validate(); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

// WriteDataset encodes the dataset as YAML.
func WriteDataset(w io.Writer, ds Dataset) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(ds); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Validate checks that movie IDs are unique and every record is complete.
func (d Dataset) Validate() error {
	seen := make(map[string]struct{}, len(d.Movies))
	var errs []error
	for i, m := range d.Movies {
		if !m.Ref().Valid() {
			errs = append(errs, fmt.Errorf("movie #%d: id and title are required", i))
			continue
		}
		if _, dup := seen[m.ID]; dup {
			errs = append(errs, fmt.Errorf("movie %s: duplicate id", m.ID))
		}
		seen[m.ID] = struct{}{}
		for j, a := range m.Cast {
			if !a.Valid() {
				errs = append(errs, fmt.Errorf("movie %s: cast #%d: id and name are required", m.ID, j))
			}
		}
	}
	return errors.Join(errs...)
}
