package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"mplcg/diag"
	"mplcg/irtext"
	"mplcg/pipeline"
	"mplcg/target"
)

type options struct {
	x86Long      bool
	x86Protected bool
	armV7        bool
	armV8        bool
	portable     bool
	outputPath   string
	verbose      bool
	quiet        bool
	trace        bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "mplcg INPUT",
		Short: "Generate x86 NASM assembler text from an MPL IR program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], opts)
		},
		SilenceUsage: true,
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.x86Long, "x86-long", false, "target x86 long mode (64-bit)")
	flags.BoolVar(&opts.x86Protected, "x86-protected", false, "target x86 protected mode (32-bit)")
	flags.BoolVar(&opts.armV7, "arm-v7", false, "target ARMv7 (not implemented)")
	flags.BoolVar(&opts.armV8, "arm-v8", false, "target ARMv8 (not implemented)")
	flags.BoolVarP(&opts.portable, "portable", "p", false, "portable-executable mode")
	flags.StringVarP(&opts.outputPath, "output", "o", "", "output assembler file path (default: stdout)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose diagnostic output")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress warnings, report only errors")
	flags.BoolVarP(&opts.trace, "trace", "d", false, "emit a companion .dbg IR trace file")

	return cmd
}

// resolveTarget picks the target mode from the mutually-exclusive flag
// set (§6 "Exactly one target flag is required unless -p is given").
func resolveTarget(opts *options) (target.Mode, error) {
	selected := 0
	for _, b := range []bool{opts.x86Long, opts.x86Protected, opts.armV7, opts.armV8} {
		if b {
			selected++
		}
	}
	if selected == 0 {
		if opts.portable {
			return target.Protected, nil
		}
		return 0, diag.Errorf(diag.InvalidMode, "cmd/mplcg", "no target flag given")
	}
	if selected > 1 {
		return 0, diag.Errorf(diag.InvalidMode, "cmd/mplcg", "more than one target flag given")
	}
	if opts.armV7 || opts.armV8 {
		return 0, diag.Errorf(diag.InvalidMode, "cmd/mplcg", "arm backends are not implemented")
	}
	if opts.x86Long {
		return target.Long, nil
	}
	return target.Protected, nil
}

func run(inputPath string, opts *options) error {
	mode, err := resolveTarget(opts)
	if err != nil {
		return err
	}

	log := diag.NewLog(opts.verbose, opts.quiet)

	in, err := os.Open(inputPath)
	if err != nil {
		return errors.Wrap(err, "open input")
	}
	defer in.Close()

	prog, err := irtext.Load(in)
	if err != nil {
		log.Error(err)
		return err
	}

	out := os.Stdout
	if opts.outputPath != "" {
		f, err := os.Create(opts.outputPath)
		if err != nil {
			return errors.Wrap(err, "create output")
		}
		defer f.Close()
		out = f
	}

	bw := newBufferedWriter(out)
	warnings, err := pipeline.Compile(prog, mode, bw, log)
	for _, w := range warnings.All() {
		log.Warn(w.Pass, w.Object, w.Msg)
	}
	if err != nil {
		log.Error(err)
		return err
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "flush output")
	}

	if opts.trace {
		if err := writeTrace(opts.outputPath, prog); err != nil {
			return errors.Wrap(err, "write trace")
		}
	}
	return nil
}
