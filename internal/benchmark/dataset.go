// Package benchmark replays a graded essay dataset through the grader and measures
// how closely the predicted bands track the reference bands.
package benchmark

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jonathan/essay-grader/internal/types"
)

// Dataset column names. Matching is case-insensitive.
const (
	ColumnEssay    = "essay"
	ColumnQuestion = "question"
	ColumnOverall  = "overall"
)

// componentColumns maps optional per-criterion reference columns to components
var componentColumns = map[string]string{
	"range_accuracy":     types.ComponentGrammar,
	"lexical_resource":   types.ComponentLexical,
	"task_response":      types.ComponentTaskAchievement,
	"coherence_cohesion": types.ComponentCoherence,
}

// Sample is one reference-graded essay
type Sample struct {
	// Row is the 1-based data row in the source file, excluding the header.
	Row      int
	Essay    string
	Question string
	Overall  float64
	// Components holds the reference band for each criterion the dataset grades.
	Components map[string]float64
}

// LoadFile reads a dataset CSV from disk.
func LoadFile(path string) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close() //nolint:errcheck

	samples, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %s: %w", path, err)
	}
	return samples, nil
}

// Load parses a dataset CSV. The header must name Essay and Overall columns;
// Question and the per-criterion columns are optional. Rows with an empty essay
// or a missing or unparsable overall band are skipped.
func Load(r io.Reader) ([]Sample, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	hdr, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("dataset is empty")
		}
		return nil, err
	}
	idx := map[string]int{}
	for i, h := range hdr {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, k := range []string{ColumnEssay, ColumnOverall} {
		if _, ok := idx[k]; !ok {
			return nil, errors.New("missing column: " + k)
		}
	}

	field := func(rec []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var samples []Sample
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		essay := field(rec, ColumnEssay)
		overall, err := strconv.ParseFloat(field(rec, ColumnOverall), 64)
		if essay == "" || err != nil {
			continue
		}

		sample := Sample{
			Row:      row,
			Essay:    essay,
			Question: field(rec, ColumnQuestion),
			Overall:  overall,
		}
		for column, component := range componentColumns {
			if band, err := strconv.ParseFloat(field(rec, column), 64); err == nil {
				if sample.Components == nil {
					sample.Components = make(map[string]float64)
				}
				sample.Components[component] = band
			}
		}
		samples = append(samples, sample)
	}
	return samples, nil
}
