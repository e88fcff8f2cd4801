package main

import (
	"flag"

	"github.com/aussrc/cubekit/cube"
	"github.com/aussrc/cubekit/fits"
)

func doJoin(args []string) {
	SetLogPrefix("cubekit(join): ")

	flagset := flag.NewFlagSet("join", flag.ExitOnError)
	flagset.BoolVar(&VerboseFlag, "v", false, "Verbose mode.")
	output := flagset.String("o", "", "Output path for the joined cube.")
	axis := flagset.String("axis", "FREQ", "CTYPE name of the axis to join along.")
	overwrite := flagset.Bool("overwrite", false, "Overwrite the output if it already exists.")
	catalogPath := flagset.String("catalog", "", "Catalog database to record the output in.")
	flagset.Parse(args)

	if len(*output) == 0 {
		Error.Fatal("output path not provided")
	}

	files := flagset.Args()
	if len(files) == 0 {
		Error.Fatal("no input files provided")
	}

	if err := cube.Join(files, *output, *axis, *overwrite); err != nil {
		Error.Fatal(err)
	}

	header, _, err := fits.ParseHeaderFile(*output)
	if err != nil {
		Error.Fatal(err)
	}

	channels := 0
	if axisIndex, err := header.AxisIndex(*axis); err == nil {
		channels, _ = header.AxisLen(axisIndex)
	}

	cat := openCatalog(*catalogPath)
	if cat != nil {
		defer cat.Close()
		recordOutput(cat, *output, nil, channels)
	}

	Info.Printf("joined %d files into %s (%d channels)", len(files), *output, channels)
}
