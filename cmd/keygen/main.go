// Command keygen provisions API keys for the LogSift API.
// The raw key is printed exactly once; only the bcrypt hash is stored.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/nikhilsomani/logsift/internal/config"
	"github.com/nikhilsomani/logsift/internal/store"
	"github.com/nikhilsomani/logsift/pkg/models"
)

const keyPrefixLen = 8

func main() {
	name := flag.String("name", "", "human-readable name for the key (required)")
	scopes := flag.String("scopes", "analyze", "comma-separated scopes to grant")
	flag.Parse()

	if *name == "" {
		fmt.Fprintln(os.Stderr, "usage: keygen -name <name> [-scopes analyze,admin]")
		os.Exit(2)
	}

	if err := run(*name, splitScopes(*scopes)); err != nil {
		slog.Error("keygen failed", "error", err)
		os.Exit(1)
	}
}

func run(name string, scopes []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	rawKey, err := generateKey()
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(rawKey), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash key: %w", err)
	}

	now := time.Now().UTC()
	key := &models.APIKey{
		ID:        uuid.New(),
		Name:      name,
		KeyHash:   string(hash),
		KeyPrefix: rawKey[:keyPrefixLen],
		Scopes:    scopes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := store.NewPostgresStore(pool).CreateAPIKey(ctx, key); err != nil {
		return fmt.Errorf("create api key: %w", err)
	}

	fmt.Printf("API key created: %s\n", name)
	fmt.Printf("  id:     %s\n", key.ID)
	fmt.Printf("  scopes: %s\n", strings.Join(scopes, ","))
	fmt.Printf("  key:    %s\n", rawKey)
	fmt.Println("Store this key now. It cannot be recovered later.")
	return nil
}

// generateKey returns a raw key of the form ls_<hex>. The first
// keyPrefixLen characters double as the lookup prefix.
func generateKey() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "ls_" + hex.EncodeToString(buf), nil
}

func splitScopes(s string) []string {
	var out []string
	for _, scope := range strings.Split(s, ",") {
		if scope = strings.TrimSpace(scope); scope != "" {
			out = append(out, scope)
		}
	}
	return out
}
