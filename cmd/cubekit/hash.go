package main

import (
	"flag"
	"fmt"

	"github.com/aussrc/cubekit/cube"
)

func doHash(args []string) {
	SetLogPrefix("cubekit(hash): ")

	flagset := flag.NewFlagSet("hash", flag.ExitOnError)
	lower := flagset.Int("lower", 0, "Lower bound channel, inclusive.")
	upper := flagset.Int("upper", 0, "Upper bound channel, inclusive.")
	axis := flagset.String("axis", "FREQ", "CTYPE name of the channel axis.")
	flagset.Parse(args)

	input := flagset.Arg(0)
	if len(input) == 0 {
		Error.Fatal("input cube not provided")
	}

	digest, err := cube.Digest(input, *lower, *upper, *axis)
	if err != nil {
		Error.Fatal(err)
	}

	fmt.Printf("%x\n", digest)
}
