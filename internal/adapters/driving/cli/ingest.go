package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/filingvec/internal/core/domain"
	"github.com/custodia-labs/filingvec/internal/core/ports/driving"
	"github.com/custodia-labs/filingvec/internal/core/services"
	"github.com/custodia-labs/filingvec/internal/postprocessors/chunker"
)

var (
	ingestCompany string
	ingestPeriod  string

	addID      string
	addCompany string
	addPeriod  string
	addSource  string

	chunkSize    int
	chunkOverlap int
	chunkShow    int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest FILE...",
	Short: "Extract, chunk and index filings",
	Long: `Extracts text from each file, splits it into overlapping chunks and
indexes the chunks with the given company and period.

Supported formats: .txt, .pdf, .docx, .html. Re-ingesting a file stores
nothing new.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

var addCmd = &cobra.Command{
	Use:   "add TEXT...",
	Short: "Index a piece of text",
	Long: `Indexes text given on the command line.

With --id the text is stored as a single chunk under that id. Without it the
text is chunked like a document, keyed by --source.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var chunkCmd = &cobra.Command{
	Use:   "chunk FILE",
	Short: "Preview how a file would be chunked",
	Long:  `Extracts and chunks a file without embedding or storing anything.`,
	Args:  cobra.ExactArgs(1),
	Annotations: map[string]string{
		annotationServices: servicesSettings,
	},
	RunE: runChunk,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestCompany, "company", "", "company the filings belong to")
	ingestCmd.Flags().StringVar(&ingestPeriod, "period", "", "reporting period, e.g. \"Q4 2025\"")

	addCmd.Flags().StringVar(&addID, "id", "", "chunk id; stores the text as one chunk")
	addCmd.Flags().StringVar(&addCompany, "company", "", "company the text belongs to")
	addCmd.Flags().StringVar(&addPeriod, "period", "", "reporting period")
	addCmd.Flags().StringVar(&addSource, "source", "", "source name recorded with the chunks")

	chunkCmd.Flags().IntVar(&chunkSize, "size", 0, "chunk size in characters (default from chunking.size)")
	chunkCmd.Flags().IntVar(&chunkOverlap, "overlap", -1, "overlap in characters (default from chunking.overlap)")
	chunkCmd.Flags().IntVar(&chunkShow, "show", 3, "number of chunks to print")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(chunkCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ingest, err := requireIngest()
	if err != nil {
		return err
	}

	meta := driving.IngestMetadata{Company: ingestCompany, Period: ingestPeriod}
	var errs []error
	for _, path := range args {
		report, err := ingest.IngestFile(cmd.Context(), path, meta)
		if err != nil {
			cmd.PrintErrf("%s: %v\n", path, err)
			errs = append(errs, err)
			continue
		}
		printReport(cmd, filepath.Base(path), report)
	}
	return errors.Join(errs...)
}

func printReport(cmd *cobra.Command, name string, report *domain.IngestReport) {
	cmd.Printf("%s: %d chunks extracted, %d indexed", name, report.ChunksExtracted, report.ChunksIndexed)
	if skipped := report.Skipped(); skipped > 0 {
		cmd.Printf(", %d already indexed", skipped)
	}
	cmd.Printf(" (%d total)\n", report.TotalChunks)
}

func runAdd(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	if addID == "" {
		ingest, err := requireIngest()
		if err != nil {
			return err
		}
		report, err := ingest.IngestText(cmd.Context(), addSource, text,
			driving.IngestMetadata{Company: addCompany, Period: addPeriod})
		if err != nil {
			return fmt.Errorf("adding text: %w", err)
		}
		printReport(cmd, report.Path, report)
		return nil
	}

	index, err := requireIndex()
	if err != nil {
		return err
	}
	added, err := index.InsertOne(cmd.Context(), domain.Chunk{
		ID:         addID,
		Text:       text,
		Company:    addCompany,
		Period:     addPeriod,
		SourceFile: addSource,
		CharEnd:    len([]rune(text)),
	})
	if err != nil {
		return fmt.Errorf("adding chunk: %w", err)
	}
	if !added {
		cmd.Printf("Chunk %s already indexed, skipped.\n", addID)
		return nil
	}
	cmd.Printf("Added chunk %s.\n", addID)
	return nil
}

func runChunk(cmd *cobra.Command, args []string) error {
	settingsService, err := requireSettings()
	if err != nil {
		return err
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	size, overlap := settings.Chunking.Size, settings.Chunking.Overlap
	if chunkSize > 0 {
		size = chunkSize
	}
	if chunkOverlap >= 0 {
		overlap = chunkOverlap
	}

	splitter, err := chunker.New(chunker.WithChunkSize(size), chunker.WithOverlap(overlap))
	if err != nil {
		return err
	}

	preview := services.NewIngestService(app.Extractors, splitter, nil)
	segments, err := preview.Preview(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	cmd.Printf("%s: %d chunks (size %d, overlap %d)\n", filepath.Base(args[0]), len(segments), size, overlap)
	for i := range segments {
		if i >= chunkShow {
			cmd.Printf("  ... %d more\n", len(segments)-chunkShow)
			break
		}
		s := &segments[i]
		cmd.Printf("  [%d] chars %d-%d: %s\n", s.Position, s.CharStart, s.CharEnd, snippet(s.Text, 120))
	}
	return nil
}
