package main

import (
	"compress/gzip"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"orderdesk/internal/token"
)

// gentokens writes gzip token batches in the format the importer reads:
// one code per line. Codes are unique across all generated files.
func main() {
	dataDir := pflag.String("dir", "data/tokens", "output directory")
	files := pflag.Int("files", 3, "number of batch files")
	perFile := pflag.Int("count", 25, "codes per file")
	pflag.Parse()

	// Create directory if it doesn't exist
	if err := os.MkdirAll(*dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	gen := token.NewGenerator(nil)
	seen := make(map[string]struct{})
	taken := func(code string) bool {
		_, ok := seen[code]
		return ok
	}

	for i := 1; i <= *files; i++ {
		codes := make([]string, 0, *perFile)
		for j := 0; j < *perFile; j++ {
			code := gen.Next(taken)
			seen[code] = struct{}{}
			codes = append(codes, code)
		}

		filePath := filepath.Join(*dataDir, fmt.Sprintf("batch%d.gz", i))
		if err := createBatchFile(filePath, codes); err != nil {
			log.Fatalf("Failed to create %s: %v", filePath, err)
		}

		fmt.Printf("Created %s with %d codes\n", filePath, len(codes))
	}

	fmt.Println("\nImport them with TOKEN_IMPORT_FILES=<comma separated paths>")
}

func createBatchFile(filePath string, codes []string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	for _, code := range codes {
		if _, err := fmt.Fprintf(gzipWriter, "%s\n", code); err != nil {
			return fmt.Errorf("failed to write code: %w", err)
		}
	}

	return nil
}
