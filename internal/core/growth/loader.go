package growth

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/IANDYI/care-log/internal/core/domain"
)

//go:embed data/who_0_12_months.yaml
var defaultReference []byte

// referenceFile is the YAML layout of a reference table.
// Each point is [age_days, L, M, S].
type referenceFile struct {
	Source string `yaml:"source"`
	Curves []struct {
		Metric string      `yaml:"metric"`
		Sex    string      `yaml:"sex"`
		Points [][]float64 `yaml:"points"`
	} `yaml:"curves"`
}

// Load parses a YAML reference table
func Load(r io.Reader) (*Table, error) {
	var file referenceFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode reference table: %w", err)
	}

	curves := make([]Curve, 0, len(file.Curves))
	for i, c := range file.Curves {
		curve := Curve{
			Metric: domain.Metric(c.Metric),
			Sex:    domain.Sex(c.Sex),
			Points: make([]Point, 0, len(c.Points)),
		}
		for j, row := range c.Points {
			if len(row) != 4 {
				return nil, fmt.Errorf("curve %d point %d: expected [age_days, L, M, S], got %d values", i, j, len(row))
			}
			if row[0] != math.Trunc(row[0]) {
				return nil, fmt.Errorf("curve %d point %d: age %v is not a whole number of days", i, j, row[0])
			}
			curve.Points = append(curve.Points, Point{
				AgeDays: int(row[0]),
				LMS:     LMS{L: row[1], M: row[2], S: row[3]},
			})
		}
		curves = append(curves, curve)
	}

	return NewTable(file.Source, curves)
}

// LoadFile parses the YAML reference table at path
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference table: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the embedded WHO 0-12 month reference table
func Default() (*Table, error) {
	return Load(bytes.NewReader(defaultReference))
}

// LoadOrDefault loads the table at path, or the embedded table when path is empty
func LoadOrDefault(path string) (*Table, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}
