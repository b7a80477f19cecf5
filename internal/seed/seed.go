package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"schoolhub/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumStudents int
	NumPosts    int
	ShouldClean bool
}

var classNames = []string{
	"5A", "5B", "6A", "6B", "7A", "7B", "8A", "8B",
	"9A", "9B", "10A", "10B", "11A", "12A",
}

// Seed populates the database with demo data: a couple of admins, a body of
// students, posts of every type (announcements authored by admins only), and
// comments and likes with matching counters.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d students and %d posts...", opts.NumStudents, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	f := NewFactory(db)
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	admins, students, err := createUsers(f, opts.NumStudents)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d admins and %d students", len(admins), len(students))

	posts, err := createPosts(f, r, admins, students, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	everyone := append(append([]*models.User{}, admins...), students...)
	if err := createEngagement(f, r, everyone, posts); err != nil {
		return fmt.Errorf("failed to create comments and likes: %w", err)
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE likes, comments, posts, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(f *Factory, numStudents int) (admins, students []*models.User, err error) {
	// Fixed principal account so demos have a known admin login.
	principal, err := f.CreateUser(func(u *models.User) {
		u.Username = "principal"
		u.Email = "principal@example.edu"
		u.Name = "School Principal"
		u.ClassName = ""
		u.Role = models.RoleAdmin
	})
	if err != nil {
		return nil, nil, err
	}
	admins = append(admins, principal)

	teacher, err := f.CreateUser(func(u *models.User) {
		u.Role = models.RoleAdmin
		u.ClassName = ""
	})
	if err != nil {
		return nil, nil, err
	}
	admins = append(admins, teacher)

	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := 0; i < numStudents; i++ {
		student, err := f.CreateUser(func(u *models.User) {
			u.ClassName = classNames[r.Intn(len(classNames))]
		})
		if err != nil {
			log.Printf("failed to create student %d: %v", i, err)
			continue
		}
		students = append(students, student)
		if i > 0 && i%100 == 0 {
			log.Printf("created %d students...", i)
		}
	}
	return admins, students, nil
}

func createPosts(f *Factory, r *rand.Rand, admins, students []*models.User, count int) ([]*models.Post, error) {
	types := []string{
		models.PostTypeText, models.PostTypeText, models.PostTypeText,
		models.PostTypeImage, models.PostTypeImage,
		models.PostTypeVideo,
		models.PostTypeAnnouncement,
	}

	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		postType := types[r.Intn(len(types))]

		var author *models.User
		if postType == models.PostTypeAnnouncement {
			author = admins[r.Intn(len(admins))]
		} else {
			author = students[r.Intn(len(students))]
		}

		post, err := f.CreatePost(author, postType, func(p *models.Post) {
			// Pin a few announcements so the feed ordering is visible.
			if postType == models.PostTypeAnnouncement && r.Float32() < 0.5 {
				p.IsPinned = true
			}
		})
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// createEngagement adds comments and likes. Likes respect the one-per-user
// uniqueness by sampling users without replacement per post.
func createEngagement(f *Factory, r *rand.Rand, users []*models.User, posts []*models.Post) error {
	totalComments := 0
	totalLikes := 0

	for _, post := range posts {
		numComments := r.Intn(6)
		for i := 0; i < numComments; i++ {
			author := users[r.Intn(len(users))]
			if _, err := f.CreateComment(author, post); err != nil {
				return err
			}
			totalComments++
		}

		perm := r.Perm(len(users))
		numLikes := r.Intn(len(users)/2 + 1)
		for i := 0; i < numLikes; i++ {
			if err := f.CreateLike(users[perm[i]], post); err != nil {
				return err
			}
			totalLikes++
		}
	}

	log.Printf("created %d comments and %d likes", totalComments, totalLikes)
	return nil
}
