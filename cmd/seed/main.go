package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"

	"communityreg/config"
	"communityreg/internal/adapters/auth"
	"communityreg/internal/domain"
	"communityreg/internal/repository/postgres"
)

// Demo dataset for showcasing the platform: staff and caregiver accounts,
// linked and shadow participant profiles, a mixed catalog of past and
// upcoming events, and realistic registration patterns.

type seedUser struct {
	email    string
	password string
	name     string
	role     domain.Role
}

type seedParticipant struct {
	nric     string
	fullName string
	// index into the caregiver slice, -1 for a shadow profile
	caregiver int
}

type seedEvent struct {
	title       string
	description string
	maxCapacity int
	startOffset time.Duration
}

type seedPattern struct {
	eventIdx       int
	participantIdx []int
	onlineCount    int // first N registrations are online, rest walk-in
}

var users = []seedUser{
	{"admin@communityreg.sg", "admin123", "Admin", domain.RoleAdmin},
	{"staff@communityreg.sg", "staff123", "Staff", domain.RoleAdmin},
	{"alice.tan@gmail.com", "demo123", "Alice Tan", domain.RoleCaregiver},
	{"bob.lee@gmail.com", "demo123", "Bob Lee", domain.RoleCaregiver},
	{"clara.wong@gmail.com", "demo123", "Clara Wong", domain.RoleCaregiver},
	{"david.chen@hotmail.com", "demo123", "David Chen", domain.RoleCaregiver},
	{"emma.lim@yahoo.com", "demo123", "Emma Lim", domain.RoleCaregiver},
	{"frank.ng@gmail.com", "demo123", "Frank Ng", domain.RoleCaregiver},
	{"grace.koh@outlook.com", "demo123", "Grace Koh", domain.RoleCaregiver},
	{"henry.goh@gmail.com", "demo123", "Henry Goh", domain.RoleCaregiver},
}

var participants = []seedParticipant{
	{"S1234567A", "Tan Ah Kow", 0},
	{"S1234567B", "Tan Ah Moi", 0},
	{"S2345678A", "Lee Siew Lian", 1},
	{"S2345678B", "Lee Ah Beng", 1},
	{"S2345678C", "Lee Kim Huat", 1},
	{"S3456789A", "Wong Mei Ling", 2},
	{"S4567890A", "Chen Ah Hua", 3},
	{"S4567890B", "Chen Mei Fong", 3},
	{"S5678901A", "Lim Seng Hock", 4},
	{"S5678901B", "Lim Bee Choo", 4},
	{"S6789012A", "Ng Ah Seng", 5},
	{"S7890123A", "Koh Swee Lan", 6},
	{"S7890123B", "Koh Boon Teck", 6},
	{"S8901234A", "Goh Kim Cheng", 7},
	// Shadow profiles created at the door, no owning caregiver.
	{"S9012345A", "Ong Chee Keong", -1},
	{"S9012345B", "Teo Siew Eng", -1},
	{"S9012345C", "Yeo Ah Lian", -1},
	{"S9012345D", "Chua Beng Huat", -1},
	{"S9012345E", "Sim Mei Yee", -1},
	{"S9012345F", "Ho Ah Meng", -1},
}

var events = []seedEvent{
	{"Healthy Cooking Workshop", "Learn to prepare nutritious meals suitable for seniors. Our chef instructor will demonstrate simple yet delicious low-sodium, heart-healthy recipes. Ingredients and recipe booklets provided.", 15, -14 * 24 * time.Hour},
	{"Tai Chi for Beginners", "An introduction to the ancient art of Tai Chi. Gentle exercise for improving balance, flexibility, and mental clarity. No prior experience required.", 20, -7 * 24 * time.Hour},
	{"Morning Yoga Session", "Start your day right with gentle yoga stretches designed for seniors. Yoga mats provided. Suitable for all fitness levels.", 12, 2*24*time.Hour + 9*time.Hour},
	{"Digital Photography Basics", "Learn how to take beautiful photos using your smartphone. Covers camera settings, composition tips, and basic photo editing. Bring your own smartphone.", 10, 3*24*time.Hour + 14*time.Hour},
	{"Line Dancing Class", "Get moving with fun line dancing! No partner needed. Great for exercise and socializing. All skill levels welcome.", 25, 4*24*time.Hour + 10*time.Hour},
	{"Calligraphy Workshop", "Discover the beauty of Chinese calligraphy. Learn basic brush strokes and create your own artwork. All materials provided.", 15, 5*24*time.Hour + 14*time.Hour},
	{"Health Talk: Managing Diabetes", "An informative session on diabetes management: diet tips, medication adherence, foot care, and warning signs. Q&A included.", 50, 6*24*time.Hour + 10*time.Hour},
	{"Potluck Gathering", "Bring your favorite dish and share a meal with fellow community members. Tea and coffee provided.", 30, 7*24*time.Hour + 12*time.Hour},
	{"Garden Walk at Botanic Gardens", "A leisurely guided walk through the Singapore Botanic Gardens. Meeting point at Tanglin Gate. Wear comfortable walking shoes.", 20, 8*24*time.Hour + 8*time.Hour},
	{"Smartphone Basics Class", "Essential smartphone skills: calls, messages, WhatsApp, video calling family, and online safety. Patient step-by-step instruction.", 10, 9*24*time.Hour + 14*time.Hour},
	{"Mahjong Social", "A friendly mahjong session. Tables and tiles provided. Beginners welcome. Light refreshments included.", 16, 10*24*time.Hour + 14*time.Hour},
	{"Art Therapy Session", "Express yourself through art in a relaxing environment. No artistic experience needed. All materials provided.", 12, 12*24*time.Hour + 10*time.Hour},
	{"Singing Together: Oldies", "Sing along to beloved oldies from the 60s, 70s, and 80s. Song sheets with lyrics in English and Chinese.", 40, 14*24*time.Hour + 15*time.Hour},
	{"Chair Exercises", "Low-impact exercises performed while seated. Perfect for those with mobility limitations. Led by a certified fitness instructor.", 20, 15*24*time.Hour + 10*time.Hour},
	{"Movie Afternoon: Classic Films", "Enjoy a classic film with fellow movie lovers. Popcorn and drinks provided.", 35, 17*24*time.Hour + 14*time.Hour},
	{"CNY Craft Workshop", "Create Chinese New Year decorations including red packets, paper lanterns, and paper cutting art. All materials provided.", 20, 25*24*time.Hour + 14*time.Hour},
	{"Cooking Demo: Festive Dishes", "Watch our chef prepare traditional festive dishes. Tasting samples and recipe cards included.", 25, 28*24*time.Hour + 11*time.Hour},
	{"Bingo Night", "An evening of fun and excitement! Win attractive prizes in our friendly bingo competition. Light dinner included.", 40, 30*24*time.Hour + 18*time.Hour},
}

var patterns = []seedPattern{
	{0, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14}, 10},
	{1, []int{0, 2, 4, 6, 8, 10, 12, 14, 15, 16, 17, 18}, 8},
	{2, []int{1, 3, 5, 7, 9, 11, 13, 15, 17, 19}, 8},
	{3, []int{0, 4, 8, 12, 16}, 5},
	{4, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19}, 15},
	{5, []int{1, 3, 5, 7, 9, 11, 13}, 7},
	{7, []int{0, 1, 2, 3, 4, 5, 8, 9, 10, 11, 14, 15, 16, 17, 18, 19}, 13},
	{9, []int{0, 2, 4, 6, 8, 10, 12, 14, 16, 18}, 10},
	{10, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 14, 15, 16, 17}, 12},
	{11, []int{1, 3, 5, 7, 9, 11, 15, 17}, 8},
	{13, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 14, 15, 16, 17, 18}, 12},
	{15, []int{1, 3, 5, 7, 9}, 5},
	{16, []int{0, 2, 4}, 3},
	{17, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, 10},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	ctx := context.Background()
	if err := run(ctx, db); err != nil {
		log.Fatalf("Seed failed: %v", err)
	}
}

func run(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `TRUNCATE registrations, participants, events, users RESTART IDENTITY`); err != nil {
		return fmt.Errorf("failed to clear tables: %w", err)
	}

	userRepo := postgres.NewUserRepository(db)
	participantRepo := postgres.NewParticipantRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)
	hasher := auth.NewBcryptHasher(10)

	now := time.Now().UTC()

	caregiverIDs := make([]int64, 0, len(users))
	for _, u := range users {
		salt, err := hasher.GenerateSalt()
		if err != nil {
			return fmt.Errorf("failed to generate salt: %w", err)
		}
		hash, err := hasher.Hash(salt, u.password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user := domain.NewUser(u.email, hash, salt, u.role, u.name, now)
		if err := userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create user %s: %w", u.email, err)
		}
		if u.role == domain.RoleCaregiver {
			caregiverIDs = append(caregiverIDs, user.ID)
		}
	}

	participantIDs := make([]int64, 0, len(participants))
	linked := 0
	for _, p := range participants {
		var ownerID *int64
		if p.caregiver >= 0 {
			ownerID = &caregiverIDs[p.caregiver]
			linked++
		}
		participant := domain.NewParticipant(domain.NormalizeNRIC(p.nric), p.fullName, ownerID, now)
		if err := participantRepo.Create(ctx, participant); err != nil {
			return fmt.Errorf("failed to create participant %s: %w", p.nric, err)
		}
		participantIDs = append(participantIDs, participant.ID)
	}

	eventIDs := make([]int64, 0, len(events))
	for _, e := range events {
		desc := e.description
		event := domain.NewEvent(e.title, &desc, e.maxCapacity, now.Add(e.startOffset), now)
		if err := eventRepo.Create(ctx, event); err != nil {
			return fmt.Errorf("failed to create event %q: %w", e.title, err)
		}
		eventIDs = append(eventIDs, event.ID)
	}

	total := 0
	for _, pat := range patterns {
		for i, pIdx := range pat.participantIdx {
			source := domain.SourceOnline
			if i >= pat.onlineCount {
				source = domain.SourceWalkIn
			}
			created := now.Add(-time.Duration(i%7)*24*time.Hour - time.Duration(i*2%24)*time.Hour)
			reg := domain.NewRegistration(eventIDs[pat.eventIdx], participantIDs[pIdx], source, created)
			err := registrationRepo.Create(ctx, reg)
			if errors.Is(err, domain.ErrAlreadyRegistered) {
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to create registration: %w", err)
			}
			total++
		}
	}

	fmt.Printf("Seeded %d users (%d caregivers), %d participants (%d linked), %d events, %d registrations\n",
		len(users), len(caregiverIDs), len(participants), linked, len(events), total)
	fmt.Println("Demo credentials: admin@communityreg.sg / admin123, alice.tan@gmail.com / demo123")
	return nil
}
