package output

import (
	"fmt"
	"strconv"

	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/bundle"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/infer"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/profile"
	"github.com/petrlinhart/spoolman-to-prusaslicer/pkg/reconciler"
)

// Item is one row of a sync or import report.
type Item struct {
	Action  string `json:"action" yaml:"action"`
	Name    string `json:"name" yaml:"name"`
	SpoolID int    `json:"spool_id,omitempty" yaml:"spool_id,omitempty"`
	Reason  string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// SyncReport is the printable view of a reconciler.Result.
type SyncReport struct {
	RunID    string           `json:"run_id" yaml:"run_id"`
	Dir      string           `json:"dir" yaml:"dir"`
	DryRun   bool             `json:"dry_run" yaml:"dry_run"`
	Stats    reconciler.Stats `json:"stats" yaml:"stats"`
	Items    []Item           `json:"items" yaml:"items"`
	Warnings []string         `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Summary  string           `json:"summary" yaml:"summary"`
}

// NewSyncReport converts a sync result. Failed writes are reported with the
// action "failed" and the attempted change type as the reason.
func NewSyncReport(r *reconciler.Result) SyncReport {
	report := SyncReport{
		RunID:    r.RunID,
		Dir:      r.Dir,
		DryRun:   r.DryRun,
		Stats:    r.Stats(),
		Items:    make([]Item, 0, len(r.Outcomes)+len(r.Failures)),
		Warnings: r.Warnings,
		Summary:  r.Summary(),
	}
	for _, o := range r.Outcomes {
		item := Item{Action: string(o.Type), Name: o.Filename, SpoolID: o.SpoolID, Reason: o.Reason}
		if o.Err != nil {
			item.Action, item.Reason, item.Error = "failed", string(o.Type), o.Err.Error()
		}
		report.Items = append(report.Items, item)
	}
	for _, f := range r.Failures {
		report.Items = append(report.Items, Item{
			Action:  "failed",
			SpoolID: f.SpoolID,
			Reason:  "render",
			Error:   f.Err.Error(),
		})
	}
	return report
}

// Table implements Tabular.
func (s SyncReport) Table(wide bool) Data {
	return itemsTable(s.Items, wide)
}

// ImportReport is the printable view of a bundle.Result.
type ImportReport struct {
	DryRun   bool     `json:"dry_run" yaml:"dry_run"`
	Created  int      `json:"created" yaml:"created"`
	Updated  int      `json:"updated" yaml:"updated"`
	Skipped  int      `json:"skipped" yaml:"skipped"`
	Failed   int      `json:"failed" yaml:"failed"`
	Items    []Item   `json:"items" yaml:"items"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Summary  string   `json:"summary" yaml:"summary"`
}

// NewImportReport converts an import result.
func NewImportReport(r *bundle.Result) ImportReport {
	created, updated, failed := r.Counts()
	report := ImportReport{
		DryRun:   r.DryRun,
		Created:  created,
		Updated:  updated,
		Skipped:  len(r.Skipped),
		Failed:   failed,
		Items:    make([]Item, 0, len(r.Outcomes)+len(r.Skipped)),
		Warnings: r.Warnings,
		Summary:  r.Summary(),
	}
	for _, s := range r.Skipped {
		report.Items = append(report.Items, Item{Action: "skipped", Name: s.Section, Reason: s.Reason})
	}
	for _, o := range r.Outcomes {
		item := Item{Action: string(o.Action), Name: o.Preset}
		if o.VendorCreated {
			item.Reason = "new vendor " + o.Vendor
		}
		if o.Err != nil {
			item.Error = o.Err.Error()
		}
		report.Items = append(report.Items, item)
	}
	return report
}

// Table implements Tabular.
func (r ImportReport) Table(wide bool) Data {
	return itemsTable(r.Items, wide)
}

func itemsTable(items []Item, wide bool) Data {
	data := Data{Headers: []string{"Action", "Name", "Detail"}}
	if wide {
		data.Headers = []string{"Action", "Name", "Spool", "Reason", "Error"}
		data.ColumnAlignment = []Align{AlignLeft, AlignLeft, AlignRight, AlignLeft, AlignLeft}
	}
	for _, it := range items {
		if wide {
			spool := ""
			if it.SpoolID > 0 {
				spool = strconv.Itoa(it.SpoolID)
			}
			data.Rows = append(data.Rows, []string{it.Action, it.Name, spool, it.Reason, it.Error})
			continue
		}
		name := it.Name
		if name == "" && it.SpoolID > 0 {
			name = fmt.Sprintf("spool %d", it.SpoolID)
		}
		detail := it.Reason
		if it.Error != "" {
			detail = it.Error
		}
		data.Rows = append(data.Rows, []string{it.Action, name, detail})
	}
	return data
}

// Materials lists resolved material table entries.
type Materials []infer.ResolvedMaterial

// Table implements Tabular.
func (m Materials) Table(wide bool) Data {
	data := Data{
		Headers:         []string{"Material", "First Layer +", "Max Vol. Speed", "Cooling", "Soluble"},
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignRight, AlignLeft, AlignLeft},
	}
	for _, r := range m {
		cooling := "off"
		if r.Cooling.Enabled != 0 {
			cooling = fmt.Sprintf("%d-%d%%", r.Cooling.MinFan, r.Cooling.MaxFan)
		}
		soluble := ""
		if r.Soluble {
			soluble = "yes"
		}
		data.Rows = append(data.Rows, []string{
			r.Material,
			strconv.Itoa(r.FirstLayerOffset),
			strconv.FormatFloat(r.MaxVolumetricSpeed, 'f', -1, 64),
			cooling,
			soluble,
		})
	}
	return data
}

// Fields lists the settings of a profile file.
type Fields []profile.Field

// Table implements Tabular.
func (f Fields) Table(bool) Data {
	data := Data{Headers: []string{"Key", "Value"}}
	for _, field := range f {
		data.Rows = append(data.Rows, []string{field.Key, field.Value})
	}
	return data
}
