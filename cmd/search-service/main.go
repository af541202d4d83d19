package main

import (
	"os"

	"github.com/searchrail/searchrail/searchservice"
)

func main() {
	if err := searchservice.Run(); err != nil {
		os.Exit(1)
	}
}
