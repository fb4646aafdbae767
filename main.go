package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/tpalko/budget-badger/internal"
)

type Params struct {
	Source     string `descr:"Data source type" alts:"generic-csv,generic-xlsx" strict:"true" default:"generic-csv"`
	Rules      string `descr:"Path to the rule set definitions YAML file" default:""`
	Account    string `descr:"Account name the input belongs to (default: file name)" default:""`
	CreditCard string `descr:"Credit card name the input belongs to" default:""`
	Output     string `descr:"Output format" alts:"table,json" strict:"true" default:"table"`
	Currency   string `descr:"Currency code for amounts" default:"USD"`
	AutoGroup  bool   `descr:"Synthesize rule sets for records no rule set claims" default:"false"`
	Verbose    bool   `descr:"Enable debug logging" default:"false"`
	Path       string `descr:"Transaction file, or a directory of transaction files" positional:"true"`
}

func main() {
	boa.NewCmdT[Params]("budget-badger").
		WithShort("Classify bank records into budget categories and derive recurring-flow statistics").
		WithLong("Ingests bank/credit-card exports, deduplicates records by content hash, partitions them across prioritized rule sets, and derives per-group periodicity, amount and activity statistics for cash-flow forecasting.").
		WithRunFunc(run).
		Run()
}

func run(params *Params) {
	log := internal.NewLogger(params.Verbose)

	cache := internal.NewMemoryCache()
	store := internal.NewStore(cache, log)
	engine := internal.NewEngine(store, cache, log)

	parser, err := internal.GetParser(params.Source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	files, err := inputFiles(params.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	total := 0
	for _, file := range files {
		parsed, err := parser.Parse(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing %s: %v\n", file, err)
			os.Exit(1)
		}

		upload := store.SaveUpload(&internal.Upload{
			AccountName:      accountNameFor(params, file),
			CreditCardName:   params.CreditCard,
			OriginalFilename: filepath.Base(file),
		})

		for _, pr := range parsed {
			record := &internal.Record{
				UploadID:        upload.ID,
				TransactionDate: pr.TransactionDate,
				PostDate:        pr.PostDate,
				Description:     pr.Description,
				Amount:          pr.Amount,
				Extras:          pr.Extras,
				RawDataLine:     pr.RawLine,
			}
			if err := store.SaveRecord(record); err != nil {
				fmt.Fprintf(os.Stderr, "Error saving record from %s: %v\n", file, err)
				os.Exit(1)
			}
		}
		total += len(parsed)
	}

	fmt.Fprintf(os.Stderr, "Loaded %d records from %d file(s)\n", total, len(files))

	if params.Rules != "" {
		ruleSets, err := internal.LoadRuleSets(params.Rules)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		for _, rs := range ruleSets {
			store.SaveRuleSet(rs)
		}
	}

	engine.RefreshAll()

	if params.AutoGroup {
		created := engine.AutoGroup()
		fmt.Fprintf(os.Stderr, "Auto-grouping created %d rule set(s)\n", len(created))
	}

	curr := internal.GetCurrency(params.Currency)
	switch params.Output {
	case "json":
		internal.PrintRuleSetsJSON(os.Stdout, store.RuleSets(), curr)
	default:
		internal.PrintRuleSetsTable(os.Stdout, store.RuleSets(), internal.OutputOptions{Currency: curr})
	}
}

// inputFiles expands a path argument into the list of files to ingest. A
// directory means every regular file directly inside it, each becoming its
// own upload.
func inputFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading input path: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		files = append(files, filepath.Join(path, entry.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files in %s", path)
	}
	return files, nil
}

// accountNameFor picks the account name for one input file: the explicit
// flag when given, the file name stem otherwise (so a directory of exports
// keeps one account per file).
func accountNameFor(params *Params, file string) string {
	if params.CreditCard != "" {
		return ""
	}
	if params.Account != "" {
		return params.Account
	}
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
