// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"dilse/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// SeedPassword is the password every generated account gets, so developers
// can log in as any seeded user.
const SeedPassword = "password123"

var confessionOpeners = []string{
	"I never told anyone this, but",
	"Every night I think about",
	"If you are reading this,",
	"I wish I had said",
	"Part of me still believes",
	"The hardest thing I carry is",
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding database with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	gofakeit.Seed(time.Now().UnixNano())

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	users, err := seedUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("seeding users: %w", err)
	}

	posts, err := seedPosts(db, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("seeding posts: %w", err)
	}

	if err := seedReplies(db, users, posts); err != nil {
		return fmt.Errorf("seeding replies: %w", err)
	}

	log.Printf("Seeding complete: %d users, %d posts", len(users), len(posts))
	return nil
}

func clearData(db *gorm.DB) error {
	for _, table := range []string{"replies", "posts", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedUsers(db *gorm.DB, count int) ([]models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		user := models.User{
			Nickname: Nickname(i),
			Password: string(hashed),
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// Nickname generates an anonymous-looking handle. The index keeps nicknames
// unique even when the fake word generator repeats itself.
func Nickname(i int) string {
	return fmt.Sprintf("%s_%s_%d", gofakeit.AdjectiveDescriptive(), gofakeit.NounConcrete(), i)
}

func seedPosts(db *gorm.DB, users []models.User, count int) ([]models.Post, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("cannot seed posts without users")
	}

	tagIDs := models.TagIDs()
	posts := make([]models.Post, 0, count)
	now := time.Now()

	for i := 0; i < count; i++ {
		author := users[rand.Intn(len(users))]
		opener := confessionOpeners[rand.Intn(len(confessionOpeners))]

		post := models.Post{
			Title:     gofakeit.Sentence(4),
			Content:   fmt.Sprintf("%s %s", opener, gofakeit.Paragraph(1, 3, 8, " ")),
			Tag:       tagIDs[rand.Intn(len(tagIDs))],
			AuthorID:  author.ID,
			Hearts:    rand.Intn(40),
			Flowers:   rand.Intn(25),
			CreatedAt: now.Add(-time.Duration(rand.Intn(14*24)) * time.Hour),
		}
		if err := db.Create(&post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func seedReplies(db *gorm.DB, users []models.User, posts []models.Post) error {
	for _, post := range posts {
		for i, n := 0, rand.Intn(4); i < n; i++ {
			author := users[rand.Intn(len(users))]
			reply := models.Reply{
				PostID:    post.ID,
				AuthorID:  author.ID,
				Content:   gofakeit.Sentence(8),
				CreatedAt: post.CreatedAt.Add(time.Duration(i+1) * time.Hour),
			}
			if err := db.Create(&reply).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
