package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"go-stems/sequencer"
)

func newCatalogCmd(g *globals) *cobra.Command {
	var kits bool
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the instrument catalog and drum kits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load(cmd)
			if err != nil {
				return err
			}
			th, err := loadTheme(cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if kits {
				fmt.Fprintln(out, th.Header().Render("Drum kits"))
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tKIT\tKICK\tSNARE\tCLOSED HAT")
				for _, name := range sequencer.KitNames() {
					k := sequencer.Kits[name]
					fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n", name, k.Name,
						k.Note(sequencer.VoiceKick), k.Note(sequencer.VoiceSnare), k.Note(sequencer.VoiceClosedHat))
				}
				return w.Flush()
			}

			ens := cfg.Ensemble()
			fmt.Fprintln(out, th.Header().Render(fmt.Sprintf("Instruments (%d)", len(ens))))
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tNAME\tPROGRAM\tCHANNEL\tIDIOM")
			for i, inst := range ens {
				prog := "-"
				if inst.Program != nil {
					prog = fmt.Sprint(*inst.Program)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", i+1, inst.Name, prog, inst.Channel+1, inst.Idiom)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&kits, "kits", false, "list drum kits instead")
	return cmd
}
