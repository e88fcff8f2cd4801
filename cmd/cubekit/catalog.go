package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/aussrc/cubekit/catalog"
)

// openCatalog opens the catalog database when a path was given; a
// missing path disables recording.
func openCatalog(path string) *catalog.Catalog {
	if len(path) == 0 {
		return nil
	}

	cat, err := catalog.Open(path)
	if err != nil {
		Error.Fatal(err)
	}
	return cat
}

func recordOutput(cat *catalog.Catalog, path string, digest []byte, channels int) {
	if cat == nil {
		return
	}

	entry, err := catalog.Stamp(path, digest, channels)
	if err != nil {
		Error.Print(err)
		return
	}

	if err := cat.Record(entry); err != nil {
		Error.Print(err)
		return
	}

	Verbose.Printf("recorded %s", path)
}

type EntryTable struct {
	*tabwriter.Writer
}

func NewEntryTable() *EntryTable {
	tab := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tab, "path\tsize\tchannels\theader_crc\tdigest")
	return &EntryTable{tab}
}

func (t *EntryTable) Entry(e catalog.Entry) *EntryTable {
	fmt.Fprintf(t, "%s\t%d\t%d\t%08x\t%x\n", e.Path, e.Size, e.Channels, e.HeaderCrc, e.Digest)
	return t
}

func catalogShow(args []string) {
	flagset := flag.NewFlagSet("catalog:show", flag.ExitOnError)
	flagset.Parse(args)

	path := flagset.Arg(0)
	if len(path) == 0 {
		Error.Fatal("catalog database not provided")
	}

	cat, err := catalog.Open(path)
	if err != nil {
		Error.Fatal(err)
	}
	defer cat.Close()

	tab := NewEntryTable()
	if err := cat.ForEach(func(e catalog.Entry) bool {
		tab.Entry(e)
		return true
	}); err != nil {
		Error.Fatal(err)
	}
	tab.Flush()
}

func catalogVerify(args []string) {
	flagset := flag.NewFlagSet("catalog:verify", flag.ExitOnError)
	verbose := flagset.Bool("v", false, "Verbose mode.")
	flagset.Parse(args)

	path := flagset.Arg(0)
	if len(path) == 0 {
		Error.Fatal("catalog database not provided")
	}

	cat, err := catalog.Open(path)
	if err != nil {
		Error.Fatal(err)
	}
	defer cat.Close()

	stale := 0
	if err := cat.ForEach(func(e catalog.Entry) bool {
		err := e.Check()
		if err == nil {
			if *verbose {
				fmt.Printf("cubekit: %s: entry matches!\n", e.Path)
			}
			return true
		}

		Error.Printf("%s: %v", e.Path, err)
		if errors.Is(err, catalog.ErrStale) {
			stale++
		}
		return true
	}); err != nil {
		Error.Fatal(err)
	}

	if stale > 0 {
		Error.Fatalf("%d stale entries", stale)
	}
}

var CatalogCommands = CommandList{
	"show":   catalogShow,
	"verify": catalogVerify,
}

func doCatalog(args []string) {
	SetLogPrefix("cubekit(catalog): ")

	if len(args) < 1 {
		CatalogCommands.Usage()
	}

	command, ok := CatalogCommands[args[0]]
	if !ok {
		CatalogCommands.Usage()
	}

	command(args[1:])
}
