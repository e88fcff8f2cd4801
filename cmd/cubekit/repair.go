package main

import (
	"flag"

	"github.com/aussrc/cubekit/cube"
)

func doRepair(args []string) {
	SetLogPrefix("cubekit(repair): ")

	flagset := flag.NewFlagSet("repair", flag.ExitOnError)
	flagset.BoolVar(&VerboseFlag, "v", false, "Verbose mode.")
	overwrite := flagset.Bool("overwrite", false, "Rewrite short cubes with NaN-padded channels.")
	flagset.Parse(args)

	root := flagset.Arg(0)
	if len(root) == 0 {
		Error.Fatal("input directory not provided")
	}

	reports, err := cube.RepairTree(root, *overwrite)
	for _, report := range reports {
		switch {
		case report.Repaired:
			Info.Printf("%s: padded %d -> %d channels", report.Path, report.Present, report.Expected)
		case !report.Complete():
			Info.Printf("%s: expected %d channels, got %d", report.Path, report.Expected, report.Present)
		default:
			Verbose.Printf("%s: complete (%d channels)", report.Path, report.Present)
		}
	}

	if err != nil {
		Error.Fatal(err)
	}
}
