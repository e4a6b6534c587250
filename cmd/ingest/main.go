// Command ingest validates a spreadsheet offline: it runs the cleaning
// pipeline on a file and prints the summary and issues without starting
// the server.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/metroatlas/metroatlas-server/internal/domain"
	"github.com/metroatlas/metroatlas-server/internal/ingest"
	"github.com/metroatlas/metroatlas-server/internal/logger"
	"github.com/metroatlas/metroatlas-server/internal/pipeline"
)

func main() {
	sheet := flag.String("sheet", "", "workbook sheet to process (default: first sheet)")
	listSheets := flag.Bool("sheets", false, "list sheet names and exit")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <file.xlsx|file.csv>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	path := flag.Arg(0)
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read file: %v", err)
	}

	if *listSheets {
		wb, err := ingest.OpenWorkbook(raw)
		if err != nil {
			log.Fatalf("Failed to open workbook: %v", err)
		}
		for _, name := range wb.SheetNames() {
			fmt.Println(name)
		}
		return
	}

	table, err := readTable(raw, *sheet)
	if err != nil {
		log.Fatalf("Failed to read table: %v", err)
	}

	p := pipeline.New(logger.New(logger.Config{
		Writer: os.Stderr,
		Format: "pretty",
		Level:  logger.ParseLevel("warn"),
	}))

	result, err := p.Run(table)
	if err != nil {
		log.Fatalf("Validation failed: %v", err)
	}

	fmt.Println("=== Summary ===")
	fmt.Printf("Version:  %s\n", pipeline.Hash(raw))
	fmt.Printf("Rows:     %d\n", result.Table.NumRows())
	fmt.Printf("Columns:  %v\n", result.Table.Columns())
	fmt.Println()

	if len(result.Issues) == 0 {
		fmt.Println("No issues.")
		return
	}

	fmt.Printf("=== Issues (%d) ===\n", len(result.Issues))
	for _, issue := range result.Issues {
		if issue.Column != "" {
			fmt.Printf("[%s] %s: %s\n", issue.Severity, issue.Column, issue.Message)
		} else {
			fmt.Printf("[%s] %s\n", issue.Severity, issue.Message)
		}
	}
	if len(domain.ErrorIssues(result.Issues)) > 0 {
		os.Exit(1)
	}
}

func readTable(raw []byte, sheet string) (*domain.Table, error) {
	if bytes.HasPrefix(raw, []byte("PK")) {
		wb, err := ingest.OpenWorkbook(raw)
		if err != nil {
			return nil, err
		}
		return wb.ReadSheet(sheet)
	}
	return ingest.ReadCSV(raw)
}
