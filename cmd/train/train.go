package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/drakos74/nn-playground/internal/dataset"
	"github.com/drakos74/nn-playground/internal/emoji"
	nnmath "github.com/drakos74/nn-playground/internal/math"
	"github.com/drakos74/nn-playground/internal/math/ml"
	"github.com/drakos74/nn-playground/internal/session"
	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
)

// Options are the command line settings, zero values fall back to the pattern preset.
type Options struct {
	Pattern    string
	Epochs     int
	Hidden     int
	Rate       float64
	Activation string
	Seed       int64
	Resolution int
}

func parse(args []string) (Options, error) {
	var opts Options
	flags := flag.NewFlagSet("train", flag.ContinueOnError)
	flags.StringVar(&opts.Pattern, "pattern", string(dataset.XOR), "dataset pattern: linear, circular, xor or spiral")
	flags.IntVar(&opts.Epochs, "epochs", 500, "number of epochs to train")
	flags.IntVar(&opts.Hidden, "hidden", 0, "hidden units, preset if omitted")
	flags.Float64Var(&opts.Rate, "rate", 0, "learning rate, preset if omitted")
	flags.StringVar(&opts.Activation, "activation", "", "hidden activation: relu or sigmoid, preset if omitted")
	flags.Int64Var(&opts.Seed, "seed", 0, "random seed, time based if omitted")
	flags.IntVar(&opts.Resolution, "resolution", ml.DefaultResolution, "boundary map resolution")
	if err := flags.Parse(args); err != nil {
		return Options{}, err
	}
	if opts.Epochs < 1 {
		return Options{}, fmt.Errorf("epochs must be positive '%d': %w", opts.Epochs, ml.InvalidConfigErr)
	}
	return opts, nil
}

// Config resolves the session config from the preset of the pattern.
func (o Options) Config() (session.Config, error) {
	pattern, err := dataset.ParsePattern(o.Pattern)
	if err != nil {
		return session.Config{}, err
	}
	update := session.Config{
		HiddenUnits:  o.Hidden,
		LearningRate: o.Rate,
		Seed:         o.Seed,
	}
	if o.Activation != "" {
		activation, err := nnmath.ParseActivation(o.Activation)
		if err != nil {
			return session.Config{}, err
		}
		update.Activation = activation
	}
	return session.Preset(pattern).Merge(update), nil
}

func run(args []string, out io.Writer) error {
	opts, err := parse(args)
	if err != nil {
		return err
	}
	cfg, err := opts.Config()
	if err != nil {
		return err
	}
	if opts.Epochs > cfg.History {
		cfg.History = opts.Epochs
	}
	if cfg.History > session.MaxHistory {
		cfg.History = session.MaxHistory
	}

	s, err := session.New(cfg)
	if err != nil {
		return err
	}
	for i := 0; i < opts.Epochs; i++ {
		if _, err := s.Step(); err != nil {
			return err
		}
	}
	grid, err := s.Boundary(opts.Resolution)
	if err != nil {
		return err
	}

	state := s.State()
	fmt.Fprintf(out, "pattern=%s hidden=%d rate=%v activation=%s\n",
		cfg.Pattern, cfg.HiddenUnits, cfg.LearningRate, cfg.Activation)
	fmt.Fprintf(out, "epochs=%d loss=%s accuracy=%s\n\n",
		state.Epoch, nnmath.Format(state.Loss, 6), nnmath.Format(state.Accuracy, 3))

	fmt.Fprintln(out, asciigraph.Plot(state.History,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Caption("loss per epoch")))
	fmt.Fprintln(out)

	weights(out, state.Weights)
	fmt.Fprintln(out)

	fmt.Fprint(out, emoji.Boundary(grid))
	return nil
}

// weights renders one row per hidden unit.
func weights(out io.Writer, w ml.Weights) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"unit", "x", "y", "output", "sign"})
	for i, o := range w.HiddenOutput {
		table.Append([]string{
			strconv.Itoa(i),
			nnmath.Format(w.InputHidden[0][i], 3),
			nnmath.Format(w.InputHidden[1][i], 3),
			nnmath.Format(o, 3),
			emoji.MapToSign(o),
		})
	}
	table.Render()
}
