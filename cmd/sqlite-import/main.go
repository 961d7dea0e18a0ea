// Command sqlite-import is a one-shot tool that copies books out of a SQLite
// library database (tables: books(title, author, ...)) into the JSON catalog.
// Imported books get fresh ids and start available.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"librarium/internal/catalog"
	"librarium/internal/models"
	"librarium/internal/storage/jsonfile"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using existing environment variables")
	}

	dbPath := "library.db"
	if len(os.Args) > 1 {
		dbPath = os.Args[1]
	}
	dataDir := getEnv("CATALOG_DATA_DIR", "data")
	genre := getEnv("IMPORT_GENRE", "Imported")

	if _, err := os.Stat(dbPath); err != nil {
		log.Fatalf("Cannot read database %s: %v", dbPath, err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	store, err := jsonfile.New(dataDir, logger)
	if err != nil {
		log.Fatalf("Failed to open data dir: %v", err)
	}
	defer store.Close()

	cat := catalog.New(store, logger)
	if err := cat.LoadAll(ctx); err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	imported, err := importBooks(cat, dbPath, genre)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	if err := cat.SaveAll(ctx); err != nil {
		log.Fatalf("Failed to save catalog: %v", err)
	}

	log.Printf("Imported %d books from %s into %s", imported, dbPath, dataDir)
}

// importBooks reads every row of the books table and adds it to the catalog.
func importBooks(cat *catalog.Catalog, dbPath, genre string) (int, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", dbPath))
	if err != nil {
		return 0, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT title, author FROM books ORDER BY id`)
	if err != nil {
		return 0, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var title, author string
		if err := rows.Scan(&title, &author); err != nil {
			return count, fmt.Errorf("scan book: %w", err)
		}
		cat.AddBook(models.Book{Title: title, Author: author, Genre: genre})
		count++
	}
	if err := rows.Err(); err != nil {
		return count, fmt.Errorf("iterate books: %w", err)
	}
	return count, nil
}

// getEnv retrieves environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
