package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/alvinmin/auditradar/internal/contract"
	"github.com/alvinmin/auditradar/schema"
)

// WeightsRenderModel is the static scoring configuration in display form.
type WeightsRenderModel struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Formula     string             `json:"formula"`
	Dimensions  []schema.Dimension `json:"dimensions"`
	Components  []ComponentWeights `json:"components"`
}

// ComponentWeights is one row of the weights table.
type ComponentWeights struct {
	Component schema.Component             `json:"component"`
	Label     string                       `json:"label"`
	Weight    float64                      `json:"weight"`
	Custom    bool                         `json:"custom"`
	Momentum  float64                      `json:"momentum"`
	Relevance map[schema.Dimension]float64 `json:"relevance"`
}

// PrintWeights displays the active component weights with the relevance matrix.
// This is a static display that does not require loading the dataset.
func PrintWeights(weights map[schema.Component]float64, cfg *contract.Config) error {
	model := buildWeightsRenderModel(weights, cfg.CustomWeights)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, model)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWeights(w, model)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeWeightsText(w, model)
		}, "Wrote text")
	}
}

// buildWeightsRenderModel constructs the render model, falling back to defaults for missing weights.
func buildWeightsRenderModel(weights, custom map[schema.Component]float64) *WeightsRenderModel {
	defaults := schema.GetDefaultWeights()
	rows := make([]ComponentWeights, 0, len(schema.AllComponents))
	for _, c := range schema.AllComponents {
		w, ok := weights[c]
		if !ok {
			w = defaults[c]
		}
		_, isCustom := custom[c]
		rel := make(map[schema.Dimension]float64, len(schema.AllDimensions))
		for _, d := range schema.AllDimensions {
			rel[d] = schema.Relevance[c][d]
		}
		rows = append(rows, ComponentWeights{
			Component: c,
			Label:     schema.ComponentLabel(c),
			Weight:    w,
			Custom:    isCustom,
			Momentum:  schema.MomentumCoefficients[c],
			Relevance: rel,
		})
	}

	return &WeightsRenderModel{
		Title:       "AuditRadar Scoring Weights",
		Description: "Each dimension score is the weighted sum of component scores normalized by its maximum",
		Formula:     "score[d] = 100 * sum(score[c]*w[c]*rel[c][d]) / sum(100*w[c]*rel[c][d])",
		Dimensions:  schema.AllDimensions,
		Components:  rows,
	}
}

// writeWeightsText displays weights in human-readable text format.
func writeWeightsText(w io.Writer, model *WeightsRenderModel) error {
	if _, err := fmt.Fprintf(w, "📡 %s\n%s\n\n", model.Title, strings.Repeat("=", len(model.Title)+3)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n   Formula: %s\n\n", model.Description, model.Formula); err != nil {
		return err
	}

	headers := []string{"Component", "Weight", "Momentum"}
	for _, d := range model.Dimensions {
		headers = append(headers, string(d))
	}
	var rows [][]string
	for _, c := range model.Components {
		weight := fmt.Sprintf("%.2f", c.Weight)
		if c.Custom {
			weight += "*"
		}
		row := []string{c.Label, weight, fmt.Sprintf("%.2f", c.Momentum)}
		for _, d := range model.Dimensions {
			row = append(row, fmt.Sprintf("%.2f", c.Relevance[d]))
		}
		rows = append(rows, row)
	}
	if err := writeTable(w, headers, rows, true); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "* custom weight from configuration")
	return err
}

// writeCSVWeights writes one row per component with a column per dimension.
func writeCSVWeights(w io.Writer, model *WeightsRenderModel) error {
	header := []string{"component", "weight", "custom", "momentum"}
	for _, d := range model.Dimensions {
		header = append(header, "relevance_"+strings.ReplaceAll(schema.NormalizeKey(string(d)), "/", "_"))
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		records := make([][]string, 0, len(model.Components))
		for _, c := range model.Components {
			rec := []string{string(c.Component), fmt.Sprintf("%.2f", c.Weight), fmt.Sprintf("%t", c.Custom), fmt.Sprintf("%.2f", c.Momentum)}
			for _, d := range model.Dimensions {
				rec = append(rec, fmt.Sprintf("%.2f", c.Relevance[d]))
			}
			records = append(records, rec)
		}
		return writeCSVRows(cw, records)
	})
}
