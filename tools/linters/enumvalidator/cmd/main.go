package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"tablesafe.app/concierge/tools/linters/enumvalidator"
)

func main() {
	singlechecker.Main(enumvalidator.Analyzer)
}
