package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/koopstadt/impactcheck/internal/config"
	"github.com/koopstadt/impactcheck/internal/database"
	"github.com/koopstadt/impactcheck/internal/database/users"
	"github.com/koopstadt/impactcheck/internal/entities"
)

// CreateUserCommand registers a new user and prints their API token.
type CreateUserCommand struct {
	Username       string
	Email          string
	Role           string
	MunicipalityID uint
	Superuser      bool
	DatabasePath   string
}

// NewCreateUserCommand creates a new CreateUserCommand
func NewCreateUserCommand() *CreateUserCommand {
	return &CreateUserCommand{}
}

// ParseFlags parses command line flags
func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)

	var municipalityID uint64
	fs.StringVar(&cmd.Username, "username", "", "Username of the new user")
	fs.StringVar(&cmd.Email, "email", "", "Email address of the new user")
	fs.StringVar(&cmd.Role, "role", string(entities.RoleAdministration), "Role: administration or politician")
	fs.Uint64Var(&municipalityID, "municipality", 0, "ID of the municipality the user belongs to")
	fs.BoolVar(&cmd.Superuser, "superuser", false, "Grant superuser privileges")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-user [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Register a new user and print their API token.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s create-user -username jdoe -email jdoe@example.org -municipality 1\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd.MunicipalityID = uint(municipalityID)

	if cmd.Username == "" || cmd.Email == "" {
		return fmt.Errorf("-username and -email are required")
	}
	if cmd.MunicipalityID == 0 && !cmd.Superuser {
		return fmt.Errorf("-municipality is required for non-superusers")
	}
	role := entities.Role(cmd.Role)
	if role != entities.RoleAdministration && role != entities.RolePolitician {
		return fmt.Errorf("unknown role %q", cmd.Role)
	}

	return nil
}

// Run executes the command
func (cmd *CreateUserCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := users.NewRepository(db.DB)
	user, err := repo.CreateUser(cmd.Username, cmd.Email, entities.Role(cmd.Role), cmd.MunicipalityID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if cmd.Superuser {
		if err := db.DB.Model(user).Update("is_superuser", true).Error; err != nil {
			return fmt.Errorf("failed to grant superuser: %w", err)
		}
	}

	fmt.Printf("Created user %q with id %d\n", user.Username, user.ID)
	fmt.Printf("API token: %s\n", user.Token)
	return nil
}
