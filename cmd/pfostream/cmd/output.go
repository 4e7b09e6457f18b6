/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/ssargent/pfostream/pkg/api"
	"github.com/ssargent/pfostream/pkg/codec"
	"github.com/ssargent/pfostream/pkg/storage"
)

func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// outputReports displays per-file read totals
func outputReports(w io.Writer, format string, reports []*fileReport) error {
	if format == "json" {
		return outputJSON(w, reports)
	}

	tw := newTable(w)
	defer tw.Flush()

	fmt.Fprintln(tw, "FILE\tGEOMETRIES\tSUBDETECTORS\tEVENTS\tHITS\tTRACKS\tMC\tRELATIONSHIPS\tPFOS\tENERGY")
	for _, r := range reports {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%.3f\n",
			r.Path, r.Geometries, r.SubDetectors, r.Events, r.CaloHits, r.Tracks,
			r.MCParticles, r.Relationships, r.PFOs, r.TotalEnergy)
	}
	return nil
}

// outputEvent displays an assembled event
func outputEvent(w io.Writer, format string, view api.EventView) error {
	if format == "json" {
		return outputJSON(w, view)
	}

	tw := newTable(w)
	defer tw.Flush()

	s := view.Summary
	fmt.Fprintf(tw, "Event:\t%d\n", view.Event)
	fmt.Fprintf(tw, "Calo hits:\t%d\n", s.CaloHits)
	fmt.Fprintf(tw, "Tracks:\t%d\n", s.Tracks)
	fmt.Fprintf(tw, "MC particles:\t%d\n", s.MCParticles)
	fmt.Fprintf(tw, "Relationships:\t%d\n", s.Relationships)
	fmt.Fprintf(tw, "Total energy:\t%.3f\n", s.TotalEnergy)
	fmt.Fprintf(tw, "PFOs:\t%d\n", len(view.PFOs))

	if len(view.PFOs) == 0 {
		return nil
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "PID\tCHARGE\tMASS\tENERGY\tMOMENTUM\tTRACKS\tPARENTS\tDAUGHTERS")
	for _, p := range view.PFOs {
		fmt.Fprintf(tw, "%d\t%d\t%.4f\t%.4f\t%s\t%s\t%d\t%d\n",
			p.ParticleID, p.Charge, p.Mass, p.Energy, p.Momentum,
			formatAddresses(p.TrackAddresses), p.Parents, p.Daughters)
	}
	return nil
}

// outputGeometry displays a geometry container
func outputGeometry(w io.Writer, format string, view api.GeometryView) error {
	if format == "json" {
		return outputJSON(w, view)
	}

	tw := newTable(w)
	defer tw.Flush()

	fmt.Fprintf(tw, "Geometry:\t%d\n", view.Geometry)
	fmt.Fprintf(tw, "Box gaps:\t%d\n", view.BoxGaps)
	fmt.Fprintf(tw, "Concentric gaps:\t%d\n", view.ConcentricGaps)

	if len(view.SubDetectors) == 0 {
		return nil
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "SUBDETECTOR\tTYPE\tINNER R\tOUTER R\tLAYERS\tMIRRORED")
	for _, sd := range view.SubDetectors {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\t%d\t%t\n",
			sd.Name, sd.Type, sd.InnerRCoordinate, sd.OuterRCoordinate, sd.NLayers, sd.IsMirroredInZ)
	}
	return nil
}

// outputImports displays the runs created by an import
func outputImports(w io.Writer, format string, reports []*importReport) error {
	if format == "json" {
		return outputJSON(w, reports)
	}

	tw := newTable(w)
	defer tw.Flush()

	fmt.Fprintln(tw, "FILE\tRUN\tEVENTS")
	for _, r := range reports {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", r.Path, r.RunID, r.Events)
	}
	return nil
}

// outputRuns displays stored run ids with their creation time
func outputRuns(w io.Writer, format string, runs []ksuid.KSUID) error {
	if format == "json" {
		ids := make([]string, 0, len(runs))
		for _, run := range runs {
			ids = append(ids, run.String())
		}
		return outputJSON(w, ids)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found")
		return nil
	}

	tw := newTable(w)
	defer tw.Flush()

	fmt.Fprintln(tw, "RUN\tCREATED")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\n", run, run.Time().UTC().Format(time.RFC3339))
	}
	return nil
}

// outputSnapshots displays the snapshots of a run
func outputSnapshots(w io.Writer, format string, snapshots []storage.Snapshot) error {
	if format == "json" {
		return outputJSON(w, snapshots)
	}

	if len(snapshots) == 0 {
		fmt.Fprintln(w, "No snapshots found")
		return nil
	}

	tw := newTable(w)
	defer tw.Flush()

	fmt.Fprintln(tw, "EVENT\tSOURCE\tHITS\tTRACKS\tMC\tPFOS\tENERGY")
	for _, s := range snapshots {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%.3f\n",
			s.Event, s.Source, s.Summary.CaloHits, s.Summary.Tracks, s.Summary.MCParticles, s.PFOs, s.Summary.TotalEnergy)
	}
	return nil
}

// outputSnapshot displays a single snapshot
func outputSnapshot(w io.Writer, format string, s *storage.Snapshot) error {
	if format == "json" {
		return outputJSON(w, s)
	}

	tw := newTable(w)
	defer tw.Flush()

	fmt.Fprintf(tw, "Run:\t%s\n", s.RunID)
	fmt.Fprintf(tw, "Source:\t%s\n", s.Source)
	fmt.Fprintf(tw, "Event:\t%d\n", s.Event)
	if len(s.Summary.SubDetectors) > 0 {
		fmt.Fprintf(tw, "Sub detectors:\t%s\n", strings.Join(s.Summary.SubDetectors, ", "))
	}
	fmt.Fprintf(tw, "Calo hits:\t%d\n", s.Summary.CaloHits)
	fmt.Fprintf(tw, "Tracks:\t%d\n", s.Summary.Tracks)
	fmt.Fprintf(tw, "MC particles:\t%d\n", s.Summary.MCParticles)
	fmt.Fprintf(tw, "Relationships:\t%d\n", s.Summary.Relationships)
	fmt.Fprintf(tw, "PFOs:\t%d\n", s.PFOs)
	fmt.Fprintf(tw, "Total energy:\t%.3f\n", s.Summary.TotalEnergy)
	fmt.Fprintf(tw, "Created:\t%s\n", s.CreatedAt.Format(time.RFC3339))
	return nil
}

func formatAddresses(addresses []codec.Address) string {
	parts := make([]string, len(addresses))
	for i, a := range addresses {
		parts[i] = a.String()
	}
	return strings.Join(parts, ",")
}
