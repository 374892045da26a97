// Command seed prepares a fresh database: it applies the schema, creates the
// starter categories and prints an admin bearer token for the console.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"luxe-backoffice/internal/config"
	"luxe-backoffice/internal/database"
	"luxe-backoffice/internal/middleware"
	"luxe-backoffice/internal/model"
	"luxe-backoffice/internal/repository"
	"luxe-backoffice/internal/service"
)

var starterCategories = []model.CategoryInput{
	category("Women", "women", "Women's fashion and accessories"),
	category("Men", "men", "Men's fashion and accessories"),
	category("Beauty", "beauty", "Beauty and cosmetic products"),
}

func category(name, slug, description string) model.CategoryInput {
	return model.CategoryInput{Name: &name, Slug: &slug, Description: &description}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	subject := flag.String("admin", "admin", "subject of the issued admin token")
	ttl := flag.Duration("ttl", 24*time.Hour, "lifetime of the issued admin token")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := config.NewLogger(cfg.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.ApplySchema(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	categories := service.NewCategoryService(repository.NewCategoryRepository(pool, logger), logger)
	for i := range starterCategories {
		in := &starterCategories[i]
		c, err := categories.Create(ctx, in)
		if err != nil {
			// get-or-create: an existing slug is not an error here
			if de, ok := model.AsDomainError(err); ok && de.Fields["slug"] != "" {
				logger.Info().Str("slug", *in.Slug).Msg("category already exists")
				continue
			}
			return fmt.Errorf("failed to create category %q: %w", *in.Name, err)
		}
		logger.Info().Int64("category_id", c.ID).Str("slug", c.Slug).Msg("category seeded")
	}

	if cfg.Auth.JWTSecret == "" {
		logger.Warn().Msg("ADMIN_JWT_SECRET is not set, no admin token issued")
		return nil
	}
	auth := middleware.NewAuthenticator(cfg.Auth.APIKey, cfg.Auth.JWTSecret, logger)
	token, err := auth.GenerateToken(*subject, middleware.RoleAdmin, *ttl)
	if err != nil {
		return fmt.Errorf("failed to issue admin token: %w", err)
	}
	fmt.Println(token)
	return nil
}
