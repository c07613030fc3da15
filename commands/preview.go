package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"go-stems/harmony"
	"go-stems/pipeline"
	"go-stems/sequencer"
	"go-stems/widgets"
)

func newPreviewCmd(g *globals) *cobra.Command {
	var (
		sample      int
		instruments int
		strategy    string
		progression string
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the progression and note lanes of a sample without rendering",
		Long: `Preview composes and schedules a sample exactly as generate would for the
same seed and settings, then draws the progression and one lane per
instrument. Nothing is rendered or written.

Examples:
  go-stems preview
  go-stems preview --seed 7 --sample 3
  go-stems preview --progression "Cmaj Amin Fmaj Gmaj"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load(cmd)
			if err != nil {
				return err
			}
			fl := cmd.Flags()
			if fl.Changed("instruments") {
				cfg.Instruments = instruments
			}
			if fl.Changed("strategy") {
				cfg.Strategy = harmony.Strategy(strategy)
			}
			if fl.Changed("progression") {
				cfg.Progression = progression
			}
			th, err := loadTheme(cfg)
			if err != nil {
				return err
			}

			p, err := pipeline.New(cfg, nil)
			if err != nil {
				return err
			}
			if sample < 0 {
				return fmt.Errorf("sample index must not be negative, got %d", sample)
			}
			// earlier samples advance the random stream
			var (
				comp   harmony.Composition
				tracks []sequencer.NoteTrack
			)
			for i := 0; i <= sample; i++ {
				if comp, tracks, err = p.Compose(cmd.Context(), i); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "seed %d  sample %d  %gs\n\n", cfg.Seed, sample, p.Target())
			fmt.Fprintln(out, widgets.RenderProgression(th, comp))
			fmt.Fprintln(out)
			fmt.Fprintln(out, widgets.RenderLanes(th, tracks, cfg.SlotDuration, cfg.ProgressionLength))
			return nil
		},
	}
	cmd.Flags().IntVar(&sample, "sample", 0, "sample index to preview")
	cmd.Flags().IntVarP(&instruments, "instruments", "i", 8, "instruments per sample")
	cmd.Flags().StringVar(&strategy, "strategy", string(harmony.StrategyDegree), "progression strategy: degree, direct-random")
	cmd.Flags().StringVar(&progression, "progression", "", "fixed chords instead of a strategy")
	return cmd
}
