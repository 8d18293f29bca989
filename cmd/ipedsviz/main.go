package main

import (
	"fmt"
	"log"
	"os"
)

func main() {
	log.SetFlags(log.Flags() | log.Lshortfile)

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ipedsviz: %v\n", err)
		os.Exit(1)
	}
}
