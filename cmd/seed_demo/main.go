package main

import (
	"context"
	"log"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if config.IsProduction() {
		log.Fatal("Refusing to seed demo data in production")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	tags := repository.NewTagRepository(db)
	defaultTags := []models.Tag{
		{Name: "Breakfast", Slug: "breakfast", Color: "#E26C2D"},
		{Name: "Lunch", Slug: "lunch", Color: "#49B64E"},
		{Name: "Dinner", Slug: "dinner", Color: "#8775D2"},
	}

	log.Println("Creating default tags...")
	for i := range defaultTags {
		tag := &defaultTags[i]
		if err := tags.Create(ctx, tag); err != nil {
			if models.IsCode(err, models.CodeConflict) {
				log.Printf("Tag %s already exists, skipping...", tag.Slug)
				continue
			}
			log.Printf("Failed to create tag %s: %v", tag.Slug, err)
			continue
		}
		log.Printf("Created tag %s", tag.Slug)
	}

	// Password for all demo users
	password := "testpassword123"
	auth := service.NewAuthService(repository.NewUserRepository(db), cfg.JWTSecret)
	demoUsers := []types.RegisterRequest{
		{Email: "john.doe@example.com", Username: "johndoe", FirstName: "John", LastName: "Doe"},
		{Email: "jane.smith@example.com", Username: "janesmith", FirstName: "Jane", LastName: "Smith"},
		{Email: "bob.wilson@example.com", Username: "bobwilson", FirstName: "Bob", LastName: "Wilson"},
	}

	log.Println("Creating demo users...")
	for _, req := range demoUsers {
		req.Password = password
		if _, err := auth.Register(ctx, req); err != nil {
			if models.IsCode(err, models.CodeConflict) {
				log.Printf("User %s already exists, skipping...", req.Email)
				continue
			}
			log.Printf("Failed to create user %s: %v", req.Email, err)
			continue
		}
		log.Printf("Created user %s", req.Email)
	}

	log.Printf("Demo users can log in with password %q", password)
}
