package main

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aussrc/cubekit/cube"
	"github.com/aussrc/cubekit/fits"
)

func doSplit(args []string) {
	SetLogPrefix("cubekit(split): ")

	flagset := flag.NewFlagSet("split", flag.ExitOnError)
	flagset.BoolVar(&VerboseFlag, "v", false, "Verbose mode.")
	output := flagset.String("o", ".", "Output directory for split cubes.")
	parts := flagset.Int("n", 0, "Number of splits to make along the axis.")
	axis := flagset.String("axis", "FREQ", "CTYPE name of the axis to split along.")
	catalogPath := flagset.String("catalog", "", "Catalog database to record outputs in.")
	flagset.Parse(args)

	input := flagset.Arg(0)
	if len(input) == 0 {
		Error.Fatal("input cube not provided")
	}

	header, _, err := fits.ParseHeaderFile(input)
	if err != nil {
		Error.Fatal(err)
	}

	axisIndex, err := header.AxisIndex(*axis)
	if err != nil {
		Error.Fatal(err)
	}

	total, err := header.AxisLen(axisIndex)
	if err != nil {
		Error.Fatal(err)
	}

	plan, err := cube.Plan(total, *parts)
	if err != nil {
		Error.Fatal(err)
	}

	cat := openCatalog(*catalogPath)
	if cat != nil {
		defer cat.Close()
	}

	names := make([]string, 0, len(plan))
	for i, r := range plan {
		Verbose.Printf("[%d/%d] splitting channels %s", i+1, len(plan), r)

		outputPath, err := cube.Split(input, *output, r, *axis)
		if err != nil {
			Error.Fatal(err)
		}

		recordOutput(cat, outputPath, nil, r.Size())
		names = append(names, filepath.Base(outputPath))
	}

	// Downstream pipeline stages consume the comma-joined list.
	fmt.Print(strings.Join(names, ","))
}
