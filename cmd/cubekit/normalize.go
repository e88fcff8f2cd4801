package main

import (
	"flag"

	"github.com/aussrc/cubekit/cube"
)

func doNormalize(args []string) {
	SetLogPrefix("cubekit(normalize): ")

	flagset := flag.NewFlagSet("normalize", flag.ExitOnError)
	flagset.BoolVar(&VerboseFlag, "v", false, "Verbose mode.")
	flagset.Parse(args)

	files := flagset.Args()
	if len(files) == 0 {
		Error.Fatal("no input files provided")
	}

	failed := false
	for _, path := range files {
		rewrote, err := cube.Normalize(path)
		if err != nil {
			Error.Printf("%s: %v", path, err)
			failed = true
			continue
		}

		if rewrote {
			Info.Printf("%s: swapped axes 3/4 to FREQ,STOKES", path)
		} else {
			Verbose.Printf("%s: already canonical", path)
		}
	}

	if failed {
		Error.Fatal("one or more files could not be normalized")
	}
}
