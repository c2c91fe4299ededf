package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ayusman/airtext/internal/gesture"
	"github.com/ayusman/airtext/internal/overlay"
	"github.com/ayusman/airtext/internal/render"
	"github.com/ayusman/airtext/internal/replay"
)

var (
	replayHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).Padding(0, 1)
	replayCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	replayDragStyle   = replayCellStyle.Foreground(lipgloss.Color("214"))
	replayHiddenStyle = replayCellStyle.Foreground(lipgloss.Color("241"))
)

var replayCmd = &cobra.Command{
	Use:   "replay FILE.jsonl",
	Short: "Step a recorded landmark session and print every frame",
	Long: `Replay reads a JSON Lines recording, one frame per line:

  {"timestamp": 66, "width": 800, "height": 600, "landmarks": [{"x":..,"y":..,"z":..}, ...]}

with "landmarks": null for frames without a hand, steps a fresh session
with the current overlay settings and prints the result of every frame.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	inputs, err := replay.ReadAll(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	session := overlay.NewSession(cfg.Session(), render.NewFontMeasurer(), logger)
	frames := replay.Run(session, inputs)

	fmt.Fprintln(cmd.OutOrStdout(), replayTable(frames))
	return nil
}

func replayTable(frames []overlay.Frame) string {
	rows := make([][]string, 0, len(frames))
	for _, f := range frames {
		rows = append(rows, []string{
			strconv.FormatInt(f.Timestamp, 10),
			string(f.Gesture),
			pinchCell(f.Pinch),
			f.Text,
			strconv.FormatBool(f.Visible),
			fmt.Sprintf("%.1f, %.1f", f.Anchor.X, f.Anchor.Y),
			strconv.FormatBool(f.Dragging),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("TIME", "GESTURE", "PINCH", "TEXT", "VISIBLE", "ANCHOR", "DRAG").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return replayHeaderStyle
			case frames[row].Dragging:
				return replayDragStyle
			case !frames[row].Visible:
				return replayHiddenStyle
			}
			return replayCellStyle
		}).
		String()
}

func pinchCell(p *gesture.PinchInfo) string {
	switch {
	case p == nil:
		return "-"
	case p.IsPinching:
		return fmt.Sprintf("yes (%.0fpx)", p.Distance)
	}
	return fmt.Sprintf("no (%.0fpx)", p.Distance)
}
