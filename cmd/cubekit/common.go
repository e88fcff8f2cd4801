package main

import (
	"log"
	"strings"
)

type CommandList map[string]func(args []string)

func (list *CommandList) Usage() {
	keys := []string{}
	for key := range *list {
		keys = append(keys, key)
	}

	log.Fatalf("expected subcommand: {%s}", strings.Join(keys, "|"))
}
