// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages, all
// composed on the generic repository core:
//
//	database/
//	├── database.go      # Connection setup, migrations
//	├── repository/      # Generic entity access layer (CRUD, sort, filter,
//	│                    # association reconciliation, typed errors)
//	├── tags/            # Tag CRUD
//	├── objectives/      # Main/sub objective taxonomy
//	├── indicators/      # Indicators with tag associations
//	├── textblocks/      # Text blocks with tag associations
//	├── submissions/     # Mobility and climate submissions (+ copy, export)
//	└── users/           # User lookup for principal resolution
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific
// operations:
//
//	db, err := database.NewDatabase("./app.db")
//
//	tagsRepo, err := tags.NewRepository(db.DB)
//	objRepo, err := objectives.NewRepository(db.DB)
//
//	objectives, err := objRepo.GetAllForMunicipality(ctx, municipalityID)
//
// # Adding a New Domain
//
// To add a new domain entity:
//
//  1. Define the entity struct in internal/entities
//  2. Create a new sub-package: internal/database/<domain>/
//  3. Embed a *repository.Repository[entities.X] in its Repository struct
//  4. Register the entity in database.Migrate
package database
