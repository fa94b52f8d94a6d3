package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/koopstadt/impactcheck/internal/config"
	"github.com/koopstadt/impactcheck/internal/database"
	"github.com/koopstadt/impactcheck/internal/entities"
)

// CreateMunicipalityCommand registers a new municipality tenant.
type CreateMunicipalityCommand struct {
	Name         string
	DatabasePath string
}

// NewCreateMunicipalityCommand creates a new CreateMunicipalityCommand
func NewCreateMunicipalityCommand() *CreateMunicipalityCommand {
	return &CreateMunicipalityCommand{}
}

// ParseFlags parses command line flags
func (cmd *CreateMunicipalityCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-municipality", flag.ExitOnError)

	fs.StringVar(&cmd.Name, "name", "", "Name of the municipality")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-municipality [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Register a new municipality tenant.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Name == "" {
		return fmt.Errorf("-name is required")
	}

	return nil
}

// Run executes the command
func (cmd *CreateMunicipalityCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	municipality := &entities.Municipality{Name: cmd.Name}
	if err := db.DB.Create(municipality).Error; err != nil {
		return fmt.Errorf("failed to create municipality: %w", err)
	}

	fmt.Printf("Created municipality %q with id %d\n", municipality.Name, municipality.ID)
	return nil
}
