package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"go-stems/audio"
	"go-stems/config"
	"go-stems/harmony"
	"go-stems/pipeline"
	"go-stems/render"
	"go-stems/sequencer"
	"go-stems/theme"
	"go-stems/tui"
)

type generateFlags struct {
	samples     int
	instruments int
	length      int
	slot        float64
	rate        int
	out         string
	strategy    string
	selection   string
	mixStart    string
	progression string
	renderer    string
	soundFont   string
	workers     int
	keepGoing   bool
	cache       bool
	tui         bool
}

func newGenerateCmd(g *globals) *cobra.Command {
	f := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render samples to MIDI, stems, mixes and manifests",
		Long: `Generate runs the full pipeline for each sample: compose a progression,
schedule every instrument, render and normalize the stems, then mix. A sample
is written only when every file of it could be written.

Output layout:
  <out>/midi/sample<i>_inst<Name>.mid
  <out>/wav/sample<i>_inst<Name>.wav
  <out>/merged/sample<i>_merged.wav
  <out>/manifests/sample<i>.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load(cmd)
			if err != nil {
				return err
			}
			f.apply(cmd, cfg)
			return generate(cmd, cfg, f.tui)
		},
	}

	fl := cmd.Flags()
	fl.IntVarP(&f.samples, "samples", "n", 1, "number of samples")
	fl.IntVarP(&f.instruments, "instruments", "i", 8, "instruments per sample")
	fl.IntVar(&f.length, "length", 4, "chords per progression")
	fl.Float64Var(&f.slot, "slot", 2.0, "seconds per chord")
	fl.IntVar(&f.rate, "rate", 16000, "sample rate")
	fl.StringVarP(&f.out, "out", "o", "output", "output directory")
	fl.StringVar(&f.strategy, "strategy", string(harmony.StrategyDegree), "progression strategy: degree, direct-random")
	fl.StringVar(&f.selection, "selection", string(sequencer.SelectFirst), "instrument selection: first, random")
	fl.StringVar(&f.mixStart, "mix-start", string(audio.StartSilence), "mix start: silence, first-stem")
	fl.StringVar(&f.progression, "progression", "", `fixed chords instead of a strategy, e.g. "Cmaj Amin Fmaj Gmaj"`)
	fl.StringVar(&f.renderer, "renderer", string(render.KindSynth), "renderer: synth, fluidsynth")
	fl.StringVar(&f.soundFont, "soundfont", "", "soundfont for the fluidsynth renderer")
	fl.IntVar(&f.workers, "workers", 0, "concurrent renders per sample (0 = one per instrument)")
	fl.BoolVar(&f.keepGoing, "keep-going", false, "continue after a failed sample")
	fl.BoolVar(&f.cache, "cache", false, "cache rendered stems")
	fl.BoolVar(&f.tui, "tui", false, "show a progress view")
	return cmd
}

// apply copies the flags the user set over the loaded config
func (f *generateFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	fl := cmd.Flags()
	set := func(name string, fn func()) {
		if fl.Changed(name) {
			fn()
		}
	}
	set("samples", func() { cfg.Samples = f.samples })
	set("instruments", func() { cfg.Instruments = f.instruments })
	set("length", func() { cfg.ProgressionLength = f.length })
	set("slot", func() { cfg.SlotDuration = f.slot })
	set("rate", func() { cfg.SampleRate = f.rate })
	set("out", func() { cfg.Output.Dir = f.out })
	set("strategy", func() { cfg.Strategy = harmony.Strategy(f.strategy) })
	set("selection", func() { cfg.Selection = sequencer.Selection(f.selection) })
	set("mix-start", func() { cfg.MixStart = audio.StartMode(f.mixStart) })
	set("progression", func() { cfg.Progression = f.progression })
	set("renderer", func() { cfg.Renderer.Kind = f.renderer })
	set("soundfont", func() { cfg.Renderer.SoundFont = f.soundFont })
	set("workers", func() { cfg.Workers = f.workers })
	set("keep-going", func() { cfg.KeepGoing = f.keepGoing })
	set("cache", func() { cfg.Renderer.Cache = f.cache })
}

func generate(cmd *cobra.Command, cfg *config.Config, showTUI bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	th, err := loadTheme(cfg)
	if err != nil {
		return err
	}
	if showTUI && cfg.Log.File == "" {
		// the progress view owns the terminal
		cfg.Log.Level = "error"
	}
	log, err := logger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	r, closeRenderer, err := render.New(cfg.RenderOptions(), log.Named("render"))
	if err != nil {
		return err
	}
	defer closeRenderer()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var opts []pipeline.Option
	var events chan pipeline.Event
	if showTUI {
		events = make(chan pipeline.Event, 16)
		opts = append(opts, pipeline.WithEvents(events))
	}
	p, err := pipeline.New(cfg, r, append(opts, pipeline.WithLogger(log))...)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(cfg, p)
	log.Infow("run started", "run", runner.RunID, "seed", cfg.Seed, "samples", cfg.Samples,
		"instruments", len(p.Instruments()), "renderer", cfg.Renderer.Kind)

	var rep *pipeline.Report
	if showTUI {
		rep, err = runWithTUI(ctx, th, runner, p, events, cfg.Samples)
	} else {
		rep, err = runner.Run(ctx, cfg.Samples)
	}
	if c, ok := r.(*render.Cache); ok {
		hits, misses := c.Stats()
		log.Infow("render cache", "hits", hits, "misses", misses)
	}
	if rep != nil {
		printReport(cmd.OutOrStdout(), th, cfg, rep)
	}
	return err
}

func runWithTUI(ctx context.Context, th *theme.Theme, runner *pipeline.Runner, p *pipeline.Pipeline, events chan pipeline.Event, n int) (*pipeline.Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		rep *pipeline.Report
		err error
	}
	done := make(chan result, 1)
	go func() {
		rep, err := runner.Run(ctx, n)
		close(events)
		done <- result{rep, err}
	}()

	names := make([]string, len(p.Instruments()))
	for i, inst := range p.Instruments() {
		names[i] = inst.Name
	}
	m := tui.NewModel(th, events, cancel, names, n)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		cancel()
		// drain so the runner can finish
		for range events {
		}
		<-done
		return nil, err
	}
	cancel()
	for range events {
	}
	res := <-done
	return res.rep, res.err
}

func printReport(w io.Writer, th *theme.Theme, cfg *config.Config, rep *pipeline.Report) {
	fmt.Fprintln(w, th.Header().Render(fmt.Sprintf("run %s", rep.RunID)))
	fmt.Fprintf(w, "  %s %d of %d samples written to %s (%d files)\n",
		th.OK().Render(string(th.Symbols.Done)), len(rep.Committed), cfg.Samples, cfg.Output.Dir, len(rep.Files))
	for i := 0; i < cfg.Samples; i++ {
		if err, ok := rep.Failed[i]; ok {
			fmt.Fprintf(w, "  %s %s\n", th.Error().Render(string(th.Symbols.Failed)), th.Error().Render(err.Error()))
		}
	}
}
