package main

import (
	"fmt"
	"log"
	"os"

	"lab-inventory/inventory"

	"github.com/joho/godotenv"
)

// reset_inventory wipes the local database and re-seeds the default
// inventory and admin account. Meant for lab resets between semesters.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	cfg, err := inventory.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Remove the database and its WAL sidecars so the store starts clean.
	fmt.Printf("Removing %s...\n", cfg.DBPath)
	for _, path := range []string{cfg.DBPath, cfg.DBPath + "-shm", cfg.DBPath + "-wal"} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			fmt.Printf("Warning: could not remove %s: %v\n", path, err)
		}
	}

	store, err := inventory.NewStore(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	// First reads seed the defaults.
	components, err := store.GetComponents()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error seeding components: %v\n", err)
		os.Exit(1)
	}
	users, err := store.GetUsers()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error seeding users: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Seeded %d components and %d user(s).\n", len(components), len(users))
	for _, c := range components {
		fmt.Printf("  %-28s %d/%d at %s\n", c.Name, c.Available, c.Total, c.Location)
	}
	fmt.Println("Reset complete.")
}
