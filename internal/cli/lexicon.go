package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/conceptmap/pkg/config"
	cerrors "github.com/matzehuels/conceptmap/pkg/errors"
	"github.com/matzehuels/conceptmap/pkg/lexicon"
	"github.com/matzehuels/conceptmap/pkg/lexicon/mongo"
	"github.com/matzehuels/conceptmap/pkg/lexicon/sqlite"
)

// lexiconCommand creates the lexicon command group.
func (c *CLI) lexiconCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Inspect and populate the lexicon",
	}

	cmd.AddCommand(c.lexiconLookupCommand())
	cmd.AddCommand(c.lexiconSimilarityCommand())
	cmd.AddCommand(c.lexiconImportCommand())
	cmd.AddCommand(c.lexiconExportCommand())

	return cmd
}

// lexiconLookupCommand creates the "lexicon lookup" subcommand.
func (c *CLI) lexiconLookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <term>",
		Short: "List the senses of a term and their hypernym chains",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateTerms(args...); err != nil {
				return err
			}
			ctx, _, eng, err := c.setup(cmd)
			if err != nil {
				return err
			}
			defer eng.Close()

			term := args[0]
			senses, err := eng.oracle.Senses(ctx, term)
			if err != nil {
				return err
			}
			if len(senses) == 0 {
				printWarning("%q is not in the lexicon", term)
				return nil
			}

			printSuccess("%d senses of %s", len(senses), StyleHighlight.Render(term))
			for _, s := range senses {
				syn, err := eng.store.Synset(ctx, s.ID)
				if err != nil {
					return err
				}
				fmt.Println()
				printKeyValue("synset", syn.ID)
				printKeyValue("lemmas", strings.Join(syn.Lemmas, ", "))
				if syn.Gloss != "" {
					printKeyValue("gloss", syn.Gloss)
				}
				printKeyValue("hypernyms", hypernymChain(s))
			}
			return nil
		},
	}
}

// validateTerms rejects terms the oracle would silently score as unknown.
func validateTerms(terms ...string) error {
	for _, t := range terms {
		if err := cerrors.ValidateTerm(t); err != nil {
			return err
		}
	}
	return nil
}

// hypernymChain lists the ancestors of s by distance, e.g.
// "animal.n.01 (1) → organismo.n.01 (2)".
func hypernymChain(s lexicon.Sense) string {
	type anc struct {
		id   string
		dist int
	}
	var list []anc
	for id, d := range s.Ancestors {
		if id != s.ID {
			list = append(list, anc{id, d})
		}
	}
	if len(list) == 0 {
		return "—"
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dist != list[j].dist {
			return list[i].dist < list[j].dist
		}
		return list[i].id < list[j].id
	})
	parts := make([]string, len(list))
	for i, a := range list {
		parts[i] = fmt.Sprintf("%s (%d)", a.id, a.dist)
	}
	return strings.Join(parts, " "+iconArrow+" ")
}

// lexiconSimilarityCommand creates the "lexicon similarity" subcommand.
func (c *CLI) lexiconSimilarityCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "similarity <a> <b>",
		Short:   "Score how related two terms are",
		Example: `  conceptmap lexicon similarity perro gato`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateTerms(args...); err != nil {
				return err
			}
			ctx, cfg, eng, err := c.setup(cmd)
			if err != nil {
				return err
			}
			defer eng.Close()

			score, err := eng.oracle.Similarity(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			if !score.Known {
				printWarning("%s or %s is not in the lexicon", args[0], args[1])
				return nil
			}
			related := score.Value > cfg.Graph.Threshold
			printKeyValue("score", StyleNumber.Render(fmt.Sprintf("%.4f", score.Value)))
			printKeyValue("threshold", fmt.Sprintf("%.2f", cfg.Graph.Threshold))
			if related {
				printSuccess("%s and %s would be linked", args[0], args[1])
			} else {
				printInfo("%s and %s would not be linked", args[0], args[1])
			}
			return nil
		},
	}
}

// importOpts holds the options for the "lexicon import" subcommand.
type importOpts struct {
	backend    string
	dsn        string
	uri        string
	database   string
	collection string
}

// lexiconImportCommand creates the "lexicon import" subcommand.
func (c *CLI) lexiconImportCommand() *cobra.Command {
	var opts importOpts

	cmd := &cobra.Command{
		Use:   "import <file.toml>",
		Short: "Import a TOML lexicon into a SQLite or MongoDB store",
		Long: `Import a TOML lexicon into a SQLite or MongoDB store.

Synsets that already exist are replaced, so importing the same file twice is
safe. Use "conceptmap lexicon export" to get the embedded lexicon as a
starting point.`,
		Example: `  conceptmap lexicon export -o es.toml
  conceptmap lexicon import es.toml --dsn ~/.local/share/conceptmap/lexicon.db
  conceptmap lexicon import es.toml --to mongo --uri mongodb://localhost:27017`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := c.context(cmd)
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			opts.fill(cmd, cfg.Lexicon)

			data, err := os.ReadFile(args[0])
			if err != nil {
				return cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "read lexicon")
			}
			f, err := lexicon.DecodeFile(data)
			if err != nil {
				return cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "%s", args[0])
			}

			imp, err := openImporter(ctx, opts)
			if err != nil {
				return err
			}
			defer imp.Close()

			spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Importing %d synsets...", len(f.Synsets)))
			spinner.Start()
			prog := newProgress(loggerFromContext(ctx))
			n, err := imp.Import(ctx, f)
			if err != nil {
				spinner.StopWithError("Import failed")
				return err
			}
			spinner.Stop()
			prog.done("Imported synsets", "count", n, "store", opts.backend)
			printSuccess("Imported %d synsets into %s", n, opts.backend)
			printNextStep("Use it", fmt.Sprintf("conceptmap run --lexicon %s", opts.backend))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.backend, "to", config.LexiconSQLite, "target store: sqlite or mongo")
	cmd.Flags().StringVar(&opts.dsn, "dsn", "", "SQLite database file (default from config)")
	cmd.Flags().StringVar(&opts.uri, "uri", "", "MongoDB connection string (default from config)")
	cmd.Flags().StringVar(&opts.database, "database", "", "MongoDB database (default from config)")
	cmd.Flags().StringVar(&opts.collection, "collection", "", "MongoDB collection (default from config)")

	return cmd
}

// fill takes unset values from the lexicon config.
func (o *importOpts) fill(cmd *cobra.Command, lc config.LexiconConfig) {
	if !cmd.Flags().Changed("dsn") {
		o.dsn = lc.DSN
	}
	if !cmd.Flags().Changed("uri") {
		o.uri = lc.URI
	}
	if !cmd.Flags().Changed("database") {
		o.database = lc.Database
	}
	if !cmd.Flags().Changed("collection") {
		o.collection = lc.Collection
	}
}

// importer is a store that can be populated from a lexicon file.
type importer interface {
	Import(ctx context.Context, f lexicon.File) (int, error)
	Close() error
}

// openImporter opens the target store, creating the SQLite schema or the
// MongoDB index as needed.
func openImporter(ctx context.Context, opts importOpts) (importer, error) {
	switch opts.backend {
	case config.LexiconSQLite:
		if opts.dsn == "" {
			return nil, cerrors.New(cerrors.ErrCodeInvalidInput, "sqlite import needs --dsn or lexicon.dsn in the config")
		}
		return sqlite.Open(ctx, opts.dsn)
	case config.LexiconMongo:
		if opts.uri == "" {
			return nil, cerrors.New(cerrors.ErrCodeInvalidInput, "mongo import needs --uri or lexicon.uri in the config")
		}
		return mongo.Open(ctx, mongo.Options{
			URI:        opts.uri,
			Database:   opts.database,
			Collection: opts.collection,
		})
	default:
		return nil, cerrors.New(cerrors.ErrCodeInvalidInput, "cannot import into %q (must be %q or %q)",
			opts.backend, config.LexiconSQLite, config.LexiconMongo)
	}
}

// lexiconExportCommand creates the "lexicon export" subcommand.
func (c *CLI) lexiconExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the embedded Spanish lexicon as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			data := lexicon.DefaultData()
			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			printSuccess("Exported %d synsets", lexicon.Default().Len())
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}
