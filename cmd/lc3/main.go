// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bytes"
	"flag"
	"io"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/atexit"
	"golang.org/x/term"

	"github.com/ezrec/lc3/asm"
	"github.com/ezrec/lc3/emulator"
	"github.com/ezrec/lc3/translate"
)

// crlfWriter expands newlines while the terminal is in raw mode.
type crlfWriter struct {
	w io.Writer
}

func (cw crlfWriter) Write(p []byte) (n int, err error) {
	_, err = cw.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n")))
	if err == nil {
		n = len(p)
	}
	return
}

func fatalf(format string, args ...any) {
	log.Printf(format, args...)
	atexit.Exit(1)
}

func main() {
	var compile string
	var object string
	var listing bool
	var run string
	var config string
	var ticks int
	var verbose bool
	var raw bool
	var lang string

	flag.StringVar(&compile, "c", "", ".asm file to assemble")
	flag.StringVar(&object, "o", "", ".obj file to write, do not execute")
	flag.BoolVar(&listing, "l", false, "Print the program listing")
	flag.StringVar(&run, "r", "", ".obj file to run")
	flag.StringVar(&config, "config", "", "YAML machine configuration")
	flag.IntVar(&ticks, "n", 0, "Tick limit (overrides configuration)")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&raw, "raw", false, "Put the terminal in raw mode")
	flag.StringVar(&lang, "lang", "", "Message language (BCP 47 tag)")

	flag.Parse()

	if flag.NArg() != 0 {
		fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(compile) != 0 && len(run) != 0 {
		fatalf("%v: -c and -r are exclusive", os.Args[0])
	}

	if len(lang) != 0 {
		err := translate.SetLanguage(lang)
		if err != nil {
			fatalf("%v: %v", lang, err)
		}
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	if len(config) != 0 {
		inf, err := os.Open(config)
		if err != nil {
			fatalf("%v: %v", config, err)
		}
		emu.Config, err = emulator.LoadConfig(inf)
		inf.Close()
		if err != nil {
			fatalf("%v: %v", config, err)
		}
	}

	// Assemble a new program.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			fatalf("%v: %v", compile, err)
		}

		as := emu.Assembler()
		as.Sink = &asm.LogrusSink{Logger: logrus.StandardLogger()}
		prog, err := as.Parse(compile, inf)
		inf.Close()
		if err != nil {
			fatalf("%v: assembly failed", compile)
		}
		emu.Program = prog
	}

	// Load an existing object file.
	if len(run) != 0 {
		inf, err := os.Open(run)
		if err != nil {
			fatalf("%v: %v", run, err)
		}
		prog, err := asm.ReadObject(inf)
		inf.Close()
		if err != nil {
			fatalf("%v: %v", run, err)
		}
		prog.Filename = run
		emu.Program = prog
	}

	if listing {
		err := emu.Program.Listing(os.Stdout)
		if err != nil {
			fatalf("%v", err)
		}
	}

	if len(object) != 0 {
		ouf, err := os.Create(object)
		if err != nil {
			fatalf("%v: %v", object, err)
		}
		err = emu.Program.WriteObject(ouf)
		if err == nil {
			err = ouf.Close()
		}
		if err != nil {
			fatalf("%v: %v", object, err)
		}
		atexit.Exit(0)
	}

	if emu.Program.Size() == 0 {
		fatalf("%v: nothing to run (use -c or -r)", os.Args[0])
	}

	emu.Console.Input = os.Stdin
	emu.Console.Output = os.Stdout

	fd := int(os.Stdin.Fd())
	if raw && term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			fatalf("raw terminal: %v", err)
		}
		atexit.Register(func() {
			_ = term.Restore(fd, state)
		})
		emu.Console.Output = crlfWriter{w: os.Stdout}
	}

	err := emu.Reset()
	if err != nil {
		fatalf("%v", err)
	}

	err = emu.Run(ticks)
	if err != nil {
		if verbose {
			log.Print(emu.Machine)
		}
		fatalf("%v", err)
	}

	atexit.Exit(0)
}
