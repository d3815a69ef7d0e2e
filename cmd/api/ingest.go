package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tenderhub/insight-api/internal/services"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <dir|file>...",
	Short: "Run PDF files through the upload pipeline without the HTTP server",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().String("buyer", "", "buyer recorded on every ingested tender")
	ingestCmd.Flags().String("province", "", "province recorded on every ingested tender")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	files, err := collectPDFs(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no PDF files found in %s", strings.Join(args, ", "))
	}

	a, err := newApplication(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	buyer, _ := cmd.Flags().GetString("buyer")
	province, _ := cmd.Flags().GetString("province")

	log.Info("🚀 Starting tender ingestion", zap.Int("files", len(files)))

	var ingested, duplicates, failed int
	for _, path := range files {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		data, err := os.ReadFile(path)
		if err != nil {
			log.Error("failed to read file", zap.String("path", path), zap.Error(err))
			failed++
			continue
		}

		res, err := a.tenders.Ingest(ctx, services.IngestRequest{
			FileName: filepath.Base(path),
			Data:     data,
			Buyer:    buyer,
			Province: province,
		})
		if err != nil {
			log.Error("failed to ingest", zap.String("path", path), zap.Error(err))
			failed++
			continue
		}

		if res.Duplicate {
			duplicates++
		} else {
			ingested++
		}
		log.Info("📄 processed",
			zap.String("path", path),
			zap.String("tender_id", res.Tender.ID.String()),
			zap.Bool("duplicate", res.Duplicate),
			zap.String("summary_method", res.Summary.Method),
		)
	}

	log.Info("📊 Ingestion summary",
		zap.Int("ingested", ingested),
		zap.Int("duplicates", duplicates),
		zap.Int("failed", failed),
	)

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to ingest", failed, len(files))
	}
	return nil
}

// collectPDFs expands directories into the .pdf files below them. Files named
// explicitly are kept whatever their extension so the pipeline can reject them.
func collectPDFs(paths []string) ([]string, error) {
	var out []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
