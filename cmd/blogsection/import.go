package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"blog_section/internal/config"
	"blog_section/internal/db"
	"blog_section/internal/logger"
	"blog_section/internal/models"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <articles.json>",
	Short: "Load articles into the database",
	Long: `Read a JSON array of articles, in the shape the blog API serves, and upsert
each one into the database by id.

The database comes from database_url in the config file or DATABASE_URL.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	config.LoadDotEnv()

	cfg, err := config.LoadConfig(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return errors.New("import needs a database: set database_url or DATABASE_URL")
	}
	logger.Init(cfg.LogLevel)

	file, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	database, err := db.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return fmt.Errorf("migrating: %w", err)
	}

	saved, err := importArticles(ctx, database, file)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d article(s).\n", saved)
	return nil
}

// articleSaver is the part of db.Database the import needs.
type articleSaver interface {
	SaveArticle(ctx context.Context, a models.Article) error
}

// importArticles saves every article read from r and returns how many were
// written. Articles without an id are skipped; for repeated ids the first
// one wins, as on the landing page.
func importArticles(ctx context.Context, store articleSaver, r io.Reader) (int, error) {
	var articles []models.Article
	if err := json.NewDecoder(r).Decode(&articles); err != nil {
		return 0, fmt.Errorf("decoding articles: %w", err)
	}

	log := logger.Component("import")
	articles, dups := models.UniqueByID(articles)
	if len(dups) > 0 {
		log.WithField("duplicate_ids", dups).Warn("Skipping duplicate article ids")
	}

	saved := 0
	for i, a := range articles {
		if a.ID == "" {
			log.WithField("index", i).Warn("Skipping article without id")
			continue
		}
		if err := store.SaveArticle(ctx, a); err != nil {
			return saved, fmt.Errorf("saving article %s: %w", a.ID, err)
		}
		saved++
	}
	return saved, nil
}
