// Package main implements the command line front end: it assembles
// one or more source modules, links them, and runs the image on the
// emulated machine.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
	"github.com/tebeka/atexit"

	"github.com/s16tools/s16/asm"
	"github.com/s16tools/s16/emu"
	"github.com/s16tools/s16/internal"
	"github.com/s16tools/s16/io"
	"github.com/s16tools/s16/isa"
	"github.com/s16tools/s16/link"
	"github.com/s16tools/s16/obj"
)

type options struct {
	assembleOnly bool
	listing      bool
	trace        bool
	memory       bool
	verbose      bool
	input        string
	output       string
}

func main() {
	var opts options

	flag.BoolVar(&opts.assembleOnly, "S", false, "Assemble only, write object text files")
	flag.BoolVar(&opts.listing, "l", false, "Print assembly listings")
	flag.BoolVar(&opts.trace, "t", false, "Trace every instruction executed")
	flag.BoolVar(&opts.memory, "m", false, "Print a memory summary after the run")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose mode")
	flag.StringVar(&opts.input, "i", "-", "Console input")
	flag.StringVar(&opts.output, "o", "-", "Console output")

	flag.Parse()

	logger := createLogger(opts.verbose)
	if flag.NArg() == 0 {
		logger.Error("no source files given")
		flag.Usage()
		atexit.Exit(1)
	}

	ctx := app.Context()

	modules := assembleAll(logger, flag.Args(), opts)
	if opts.assembleOnly {
		atexit.Exit(0)
	}

	image := linkAll(logger, modules)
	run(ctx, logger, image, opts)
	atexit.Exit(0)
}

func createLogger(verbose bool) *log.Logger {
	cfg := log.DefaultConfig()
	if verbose {
		cfg.Level = log.DebugLevel
	}

	return log.NewWithConfig(cfg)
}

// assembleAll assembles each source file into an object module.
// Files already in object text form are parsed as-is. Diagnostics in
// any module stop the pipeline.
func assembleAll(logger *log.Logger, files []string, opts options) (modules []*obj.Module) {
	failed := false

	for _, file := range files {
		inf, err := os.Open(file)
		if err != nil {
			logger.Error("open failed", log.String("file", file), log.Err(err))
			atexit.Exit(1)
		}

		if strings.HasSuffix(file, ".obj.txt") {
			module, err := obj.Parse(inf)
			inf.Close()
			if err != nil {
				logger.Error("object parse failed", log.String("file", file), log.Err(err))
				atexit.Exit(1)
			}
			if module.Name == "" {
				module.Name = strings.TrimSuffix(filepath.Base(file), ".obj.txt")
			}
			modules = append(modules, module)
			continue
		}

		as := &asm.Assembler{Name: moduleName(file)}
		result, err := as.Assemble(inf)
		inf.Close()
		if err != nil {
			logger.Error("assembly failed", log.String("file", file), log.Err(err))
			atexit.Exit(1)
		}

		if opts.listing {
			for _, line := range result.Listing {
				fmt.Println(line)
			}
		}
		for _, diag := range result.Diags {
			logger.Error(diag.String(), log.String("file", file))
			failed = true
		}

		if opts.assembleOnly && !failed {
			if err := writeObject(file, result.Module); err != nil {
				logger.Error("object write failed", log.String("file", file), log.Err(err))
				atexit.Exit(1)
			}
		}

		modules = append(modules, result.Module)
	}
	if failed {
		atexit.Exit(1)
	}

	return
}

// moduleName derives a default module name from the file name; a
// module statement in the source overrides it.
func moduleName(file string) string {
	base := filepath.Base(file)

	return strings.TrimSuffix(base, filepath.Ext(base))
}

func writeObject(file string, m *obj.Module) (err error) {
	name := strings.TrimSuffix(file, filepath.Ext(file)) + ".obj.txt"
	ouf, err := os.Create(name)
	if err != nil {
		return
	}
	defer ouf.Close()

	err = m.Emit(ouf)

	return
}

func linkAll(logger *log.Logger, modules []*obj.Module) (image *link.Image) {
	image, diags, err := link.Link(modules)
	if err != nil {
		logger.Error("link failed", log.Err(err))
		atexit.Exit(1)
	}
	for _, diag := range diags {
		logger.Error(diag.String())
	}
	if image == nil {
		atexit.Exit(1)
	}

	for _, p := range image.Placements {
		logger.Debug("module placed",
			log.String("module", p.Name),
			log.Hex("base", p.Base),
			log.Uint16("size", p.Size))
	}

	return
}

func run(ctx context.Context, logger *log.Logger, image *link.Image, opts options) {
	console := &io.Tape{}
	if opts.input == "-" {
		console.Input = os.Stdin
	} else {
		inf, err := os.Open(opts.input)
		if err != nil {
			logger.Error("open failed", log.String("file", opts.input), log.Err(err))
			atexit.Exit(1)
		}
		atexit.Register(func() { inf.Close() })
		console.Input = inf
	}
	if opts.output == "-" {
		console.Output = os.Stdout
	} else {
		ouf, err := os.Create(opts.output)
		if err != nil {
			logger.Error("create failed", log.String("file", opts.output), log.Err(err))
			atexit.Exit(1)
		}
		atexit.Register(func() { ouf.Close() })
		console.Output = ouf
	}

	m := emu.NewMachine(console, logger)
	m.Load(image)

	err := execute(ctx, m, opts)
	if err != nil {
		logger.Error("run failed", log.Err(err))
		atexit.Exit(1)
	}

	switch m.State() {
	case emu.StatePaused:
		logger.Info("run cancelled",
			log.Hex("pc", m.PC()),
			log.Uint64("steps", m.Steps()))
	default:
		logger.Debug("run finished",
			log.String("state", m.State().String()),
			log.Uint64("steps", m.Steps()),
			log.String("cc", m.ShowCC()))
	}

	if opts.memory {
		printMemory(m)
	}
}

func execute(ctx context.Context, m *emu.Machine, opts options) (err error) {
	if !opts.trace {
		return m.Run(ctx)
	}

	for m.State() != emu.StateHalted {
		if ctx.Err() != nil {
			return nil
		}
		var report *emu.StepReport
		report, err = m.Step(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil {
			return
		}
		fmt.Println(traceLine(report))
	}

	return
}

func traceLine(report *emu.StepReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  %-20v", isa.WordToHex4(report.PC), report.In)
	for _, rw := range report.Regs {
		fmt.Fprintf(&sb, " R%d=%s", rw.N, isa.WordToHex4(rw.Value))
	}
	for _, mw := range report.Mems {
		fmt.Fprintf(&sb, " m[%s]=%s", isa.WordToHex4(mw.Addr), isa.WordToHex4(mw.Value))
	}

	return sb.String()
}

// printMemory dumps the nonzero memory contents, eight words per row.
func printMemory(m *emu.Machine) {
	mem := make([]uint16, isa.MemSize)
	for n := range mem {
		mem[n] = m.Mem(uint16(n))
	}

	for start, words := range internal.Blocks(mem) {
		for n := 0; n < len(words); n += 8 {
			row := words[n:min(n+8, len(words))]
			hex := make([]string, len(row))
			for i, w := range row {
				hex[i] = isa.WordToHex4(w)
			}
			fmt.Printf("%s  %s\n", isa.WordToHex4(start+uint16(n)), strings.Join(hex, " "))
		}
	}
}
