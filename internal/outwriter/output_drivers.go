package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/alvinmin/auditradar/internal/contract"
	"github.com/alvinmin/auditradar/schema"
)

// PrintDrivers outputs the explainability response of one unit.
func PrintDrivers(resp schema.DriversResponse, cfg *contract.Config) error {
	fmtFloat := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, resp)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVDrivers(w, resp, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDriversText(w, resp, cfg, fmtFloat)
		}, "Wrote text")
	}
	return nil
}

// writeDriversText prints the header, the component and dimension tables,
// the cited evidence and the recommended actions.
func writeDriversText(w io.Writer, resp schema.DriversResponse, cfg *contract.Config, fmtFloat func(float64) string) error {
	if _, err := fmt.Fprintf(w, "🔎 %s (%s)\n", resp.UnitName, resp.Category); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Average score %s [%s]. Operational source: %s\n\n",
		fmtFloat(resp.AverageAdjustedScore), severityLabel(resp.Severity, cfg.UseColors), resp.OperationalSource); err != nil {
		return err
	}

	components := make([][]string, 0, len(schema.AllComponents))
	for _, c := range schema.AllComponents {
		components = append(components, []string{schema.ComponentLabel(c), fmtFloat(resp.ComponentScores.Get(c))})
	}
	if err := writeTable(w, []string{"Component", "Score"}, components, true); err != nil {
		return err
	}

	dims := make([][]string, 0, len(resp.Dimensions))
	for _, d := range resp.Dimensions {
		c := d.Contributions
		dims = append(dims, []string{
			string(d.Dimension),
			fmtFloat(d.BaseScore),
			fmtFloat(d.AdjustedScore),
			fmtFloat(c.Baseline),
			fmtFloat(c.ControlHealth),
			fmtFloat(c.AuditIssueTrend),
			fmtFloat(c.BusinessExternal),
			fmtFloat(c.OperationalRisk),
		})
	}
	if err := writeTable(w, []string{"Dimension", "Base", "Adjusted", "Base Contrib", "Ctrl", "Audit", "Biz", "Ops"}, dims, true); err != nil {
		return err
	}

	// Evidence lists are unit-level and repeat on every dimension
	if len(resp.Dimensions) > 0 {
		if err := writeEvidence(w, resp.Dimensions[0], cfg, fmtFloat); err != nil {
			return err
		}
	}

	if len(resp.OperationalMetrics) > 0 {
		rows := make([][]string, 0, len(resp.OperationalMetrics))
		for _, m := range resp.OperationalMetrics {
			rows = append(rows, []string{m.Name, fmtFloat(m.Value)})
		}
		if err := writeSection(w, "Operational metrics", []string{"Metric", "Value"}, rows); err != nil {
			return err
		}
	}

	return writeActions(w, resp.Dimensions)
}

// writeSection prints a titled table, skipping empty sections.
func writeSection(w io.Writer, title string, headers []string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "\n%s (%d)\n", title, len(rows)); err != nil {
		return err
	}
	return writeTable(w, headers, rows, false)
}

func writeEvidence(w io.Writer, d schema.DimensionDriver, cfg *contract.Config, fmtFloat func(float64) string) error {
	width := GetMaxTableTextWidth(cfg, 60)

	var controls [][]string
	for _, c := range d.Controls {
		controls = append(controls, []string{c.ControlID, contract.TruncateText(c.Description, width), c.DesignEffectiveness, c.OperatingEffectiveness, fmtFloat(c.Score)})
	}
	var issues [][]string
	for _, i := range d.Issues {
		issues = append(issues, []string{contract.TruncateText(i.Title, width), i.Severity, i.Status, fmtFloat(i.WeightedScore)})
	}
	var incidents [][]string
	for _, i := range d.Incidents {
		incidents = append(incidents, []string{i.ID, contract.TruncateText(i.Title, width), i.Severity, i.Priority, fmtFloat(i.Impact)})
	}
	var regulations [][]string
	for _, r := range d.Regulations {
		regulations = append(regulations, []string{r.Regulator, contract.TruncateText(r.Rule, width), r.RiskDirection, fmtFloat(r.Score)})
	}
	var news [][]string
	for _, n := range d.News {
		news = append(news, []string{contract.TruncateText(n.Title, width), n.Source, string(n.Sentiment), fmtFloat(n.Score)})
	}
	var cyber [][]string
	for _, c := range d.Cyber {
		cyber = append(cyber, []string{c.CVEID, c.Vendor, contract.TruncateText(c.Name, width), strconv.FormatBool(c.RansomwareKnown), fmtFloat(c.Weight)})
	}

	sections := []struct {
		title   string
		headers []string
		rows    [][]string
	}{
		{"Controls", []string{"ID", "Description", "Design", "Operating", "Score"}, controls},
		{"Audit issues", []string{"Title", "Severity", "Status", "Weighted"}, issues},
		{"Incidents", []string{"ID", "Title", "Severity", "Priority", "Impact"}, incidents},
		{"Regulatory changes", []string{"Regulator", "Rule", "Direction", "Score"}, regulations},
		{"News", []string{"Title", "Source", "Sentiment", "Score"}, news},
		{"Cyber exposure", []string{"CVE", "Vendor", "Name", "Ransomware", "Weight"}, cyber},
	}
	for _, s := range sections {
		if err := writeSection(w, s.title, s.headers, s.rows); err != nil {
			return err
		}
	}
	return nil
}

func writeActions(w io.Writer, dims []schema.DimensionDriver) error {
	var rows [][]string
	for _, d := range dims {
		for _, a := range actionList(d.Actions) {
			rows = append(rows, []string{string(d.Dimension), a[0], a[1]})
		}
	}
	return writeSection(w, "Recommended actions", []string{"Dimension", "Area", "Action"}, rows)
}

// actionList returns the non-empty actions as (area, text) pairs in display order.
func actionList(a schema.Actions) [][2]string {
	all := [][2]string{
		{"Controls", a.Controls},
		{"Issues", a.Issues},
		{"Regulations", a.Regulations},
		{"News", a.News},
		{"Operational", a.Operational},
	}
	out := make([][2]string, 0, len(all))
	for _, pair := range all {
		if pair[1] != "" {
			out = append(out, pair)
		}
	}
	return out
}

// writeCSVDrivers writes one row per dimension.
func writeCSVDrivers(w io.Writer, resp schema.DriversResponse, fmtFloat func(float64) string) error {
	header := []string{
		"unit", "category", "dimension", "base_score", "adjusted_score",
		"baseline_contribution", "control_health_contribution", "audit_issue_trend_contribution",
		"business_external_contribution", "operational_risk_contribution",
		"controls", "issues", "incidents", "regulations", "news", "cyber",
		"control_action", "issue_action", "regulation_action", "news_action", "operational_action",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		records := make([][]string, 0, len(resp.Dimensions))
		for _, d := range resp.Dimensions {
			c := d.Contributions
			records = append(records, []string{
				resp.UnitName,
				resp.Category,
				string(d.Dimension),
				fmtFloat(d.BaseScore),
				fmtFloat(d.AdjustedScore),
				fmtFloat(c.Baseline),
				fmtFloat(c.ControlHealth),
				fmtFloat(c.AuditIssueTrend),
				fmtFloat(c.BusinessExternal),
				fmtFloat(c.OperationalRisk),
				strconv.Itoa(len(d.Controls)),
				strconv.Itoa(len(d.Issues)),
				strconv.Itoa(len(d.Incidents)),
				strconv.Itoa(len(d.Regulations)),
				strconv.Itoa(len(d.News)),
				strconv.Itoa(len(d.Cyber)),
				d.Actions.Controls,
				d.Actions.Issues,
				d.Actions.Regulations,
				d.Actions.News,
				d.Actions.Operational,
			})
		}
		return writeCSVRows(cw, records)
	})
}
