package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/arloliu/rowlist"
	"github.com/arloliu/rowlist/internal/metrics"
)

type renderOptions struct {
	top      int
	sections bool
	metrics  bool
}

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the flat contacts list",
		Long: `Load the contacts file and print the merged list as the list view would
lay it out: favorites, the filter row, then all contacts with the profile row,
section headers and view types. Use --top to see the pinned header state for a
scroll position.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.top, "top", 0, "Top visible position for the pinned header")
	cmd.Flags().BoolVar(&opts.sections, "sections", true, "Print the section index")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "Print collected metrics")

	return cmd
}

func runRender(cmd *cobra.Command, opts *renderOptions) error {
	cfg := configFromContext(cmd.Context())
	logger := loggerFromContext(cmd.Context())

	reg := prometheus.NewRegistry()
	var collector rowlist.MetricsCollector = metrics.NewNop()
	if opts.metrics {
		collector = metrics.NewPrometheus(reg, "rowlist")
	}

	s, err := newSession(cfg, logger, collector)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Load(cmd.Context()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	renderList(out, s)

	if opts.sections {
		renderSections(out, s.merged)
	}

	if s.merged.Count() > 0 {
		top := min(max(opts.top, 0), s.merged.Count()-1)
		state := s.merged.PinnedHeaderState(top)
		_, _ = fmt.Fprintf(out, "\nPinned header at %d: %s", top, state.Visibility)
		if state.Visibility != rowlist.Gone {
			_, _ = fmt.Fprintf(out, " %q (alpha %d, offset %d)", state.Label, state.Alpha, state.Offset)
		}
		_, _ = fmt.Fprintln(out)
	}

	if opts.metrics {
		return renderMetrics(out, reg)
	}

	return nil
}

func childName(child int) string {
	switch child {
	case rowlist.StaticChild:
		return "-"
	case 0:
		return "favorites"
	default:
		return "contacts"
	}
}

func renderList(w io.Writer, s *session) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Pos", "List", "Slot", "Type", "ID", "Section", "Title", "Detail", "Enabled"})

	for pos := range s.merged.Count() {
		loc := s.merged.Locate(pos)
		view := s.merged.View(pos)

		id := ""
		if view.ID != rowlist.NoID {
			id = strconv.FormatInt(view.ID, 10)
		}
		title := view.Title
		if view.Starred {
			title += " ★"
		}
		if view.Checked {
			title = "[x] " + title
		}

		t.AppendRow(table.Row{
			pos,
			childName(loc.Child),
			view.Slot.String(),
			s.merged.ViewType(pos),
			id,
			view.SectionHeader,
			title,
			view.Subtitle,
			s.merged.IsEnabled(pos),
		})
	}

	t.AppendFooter(table.Row{"", "", "", "", "", "", fmt.Sprintf("%d positions", s.merged.Count())})
	t.Render()
}

func renderSections(w io.Writer, merged *rowlist.Merged) {
	sections := merged.Sections()
	if len(sections) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Section index")
	t.AppendHeader(table.Row{"#", "Section", "Position"})
	for i, label := range sections {
		t.AppendRow(table.Row{i, label, merged.PositionForSection(i)})
	}
	_, _ = fmt.Fprintln(w)
	t.Render()
}

func renderMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Metrics")
	t.AppendHeader(table.Row{"Name", "Labels", "Value"})

	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}

			var value string
			switch {
			case m.GetCounter() != nil:
				value = strconv.FormatFloat(m.GetCounter().GetValue(), 'f', -1, 64)
			case m.GetGauge() != nil:
				value = strconv.FormatFloat(m.GetGauge().GetValue(), 'f', -1, 64)
			case m.GetHistogram() != nil:
				value = fmt.Sprintf("count=%d", m.GetHistogram().GetSampleCount())
			}

			t.AppendRow(table.Row{mf.GetName(), strings.Join(labels, ","), value})
		}
	}
	_, _ = fmt.Fprintln(w)
	t.Render()

	return nil
}
