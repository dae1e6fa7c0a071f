package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"

	"statadvisor/adapters/postgres"
	"statadvisor/domain/recommendation"
	"statadvisor/internal/migration"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate <database_url> [records_dir]")
	}

	databaseURL := os.Args[1]

	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	runner := migration.NewRunner()
	if err := runner.Run(ctx, db); err != nil {
		log.Fatalf("Schema migration failed: %v", err)
	}
	log.Printf("Schema at version %s", runner.Version())

	if len(os.Args) < 3 {
		return
	}
	recordsDir := os.Args[2]

	files, err := findRecordFiles(recordsDir)
	if err != nil {
		log.Fatalf("Failed to find record files: %v", err)
	}
	log.Printf("Found %d record files to import from %s", len(files), recordsDir)

	repo := postgres.NewRecommendationRepository(db)
	imported := 0
	skipped := 0

	for _, file := range files {
		record, err := loadRecordFromFile(file)
		if err != nil {
			log.Printf("Failed to load record from %s: %v", file, err)
			skipped++
			continue
		}

		if _, err := repo.Get(ctx, record.ID); err == nil {
			log.Printf("Record %s already stored, skipping", record.ID)
			skipped++
			continue
		}

		if err := repo.Save(ctx, record); err != nil {
			log.Printf("Failed to save record %s: %v", record.ID, err)
			skipped++
			continue
		}

		imported++
		log.Printf("Imported recommendation %s (%s) from %s", record.ID, record.Recommendation.Method.ID, filepath.Base(file))
	}

	log.Printf("Import complete: %d imported, %d skipped", imported, skipped)
}

func findRecordFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && strings.HasSuffix(path, ".json") {
			files = append(files, path)
		}

		return nil
	})

	return files, err
}

// loadRecordFromFile accepts either a bare record or the CLI's
// `recommend --json` output, which nests the record under "record".
func loadRecordFromFile(filePath string) (*recommendation.Record, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var wrapped struct {
		Record *recommendation.Record `json:"record"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Record != nil && wrapped.Record.ID != "" {
		return wrapped.Record, nil
	}

	var record recommendation.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	if record.ID == "" {
		return nil, os.ErrInvalid
	}
	return &record, nil
}
