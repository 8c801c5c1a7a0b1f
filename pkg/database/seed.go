package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"pollpay/internal/domain/poll"
	"pollpay/internal/domain/user"
	"pollpay/internal/domain/vote"
	"pollpay/internal/domain/wallet"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedConfig holds configuration for seeding the database
type SeedConfig struct {
	AdminUsername    string
	AdminEmail       string
	AdminPassword    string
	AdminDisplayName string
	CreateTestUsers  bool
	TestUserCount    int
	StartingBalance  decimal.Decimal
}

// DefaultSeedConfig returns default seed configuration
func DefaultSeedConfig() *SeedConfig {
	return &SeedConfig{
		AdminUsername:    "admin",
		AdminEmail:       "admin@pollpay.app",
		AdminPassword:    "Admin@123!",
		AdminDisplayName: "Platform Admin",
		CreateTestUsers:  true,
		TestUserCount:    5,
		StartingBalance:  decimal.RequireFromString("100.00"),
	}
}

// SeedResult holds the result of the seeding operation
type SeedResult struct {
	AdminUser *user.User
	TestUsers []*user.User
	Polls     []*poll.Poll
	VoteCount int
}

// Seed populates the database with an admin, funded test users, a few
// sample polls and votes on them. Existing users are kept as-is.
func Seed(db *gorm.DB, cfg *SeedConfig) (*SeedResult, error) {
	if cfg == nil {
		cfg = DefaultSeedConfig()
	}

	result := &SeedResult{}

	log.Println("Starting database seeding...")

	admin, err := seedAdminUser(db, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to seed admin user: %w", err)
	}
	result.AdminUser = admin

	if cfg.CreateTestUsers {
		testUsers, err := seedTestUsers(db, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to seed test users: %w", err)
		}
		result.TestUsers = testUsers

		polls, err := seedPolls(db, admin, testUsers)
		if err != nil {
			return nil, fmt.Errorf("failed to seed polls: %w", err)
		}
		result.Polls = polls

		voteCount, err := seedVotes(db, polls, testUsers)
		if err != nil {
			return nil, fmt.Errorf("failed to seed votes: %w", err)
		}
		result.VoteCount = voteCount
	}

	log.Println("Database seeding completed")
	return result, nil
}

// SeedMinimal creates only the admin user.
func SeedMinimal(db *gorm.DB, cfg *SeedConfig) (*user.User, error) {
	if cfg == nil {
		cfg = DefaultSeedConfig()
	}
	return seedAdminUser(db, cfg)
}

func seedAdminUser(db *gorm.DB, cfg *SeedConfig) (*user.User, error) {
	var existing user.User
	if err := db.Where("username = ?", cfg.AdminUsername).First(&existing).Error; err == nil {
		log.Printf("Admin user %s already exists, skipping", cfg.AdminUsername)
		return &existing, nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := &user.User{
		ID:            uuid.New(),
		Username:      cfg.AdminUsername,
		Email:         sql.NullString{String: cfg.AdminEmail, Valid: true},
		PasswordHash:  string(hashed),
		DisplayName:   cfg.AdminDisplayName,
		WalletBalance: cfg.StartingBalance,
	}
	if err := db.Create(admin).Error; err != nil {
		return nil, err
	}
	if err := recordSeedDeposit(db, admin, cfg.StartingBalance); err != nil {
		return nil, err
	}

	log.Printf("Admin user created: %s (ID: %s)", cfg.AdminUsername, admin.ID)
	return admin, nil
}

func seedTestUsers(db *gorm.DB, cfg *SeedConfig) ([]*user.User, error) {
	testUserData := []struct {
		username    string
		email       string
		displayName string
	}{
		{"alice", "alice@test.com", "Alice Johnson"},
		{"bob", "bob@test.com", "Bob Smith"},
		{"charlie", "charlie@test.com", "Charlie Brown"},
		{"diana", "diana@test.com", "Diana Prince"},
		{"edward", "edward@test.com", "Edward Chen"},
		{"fiona", "fiona@test.com", "Fiona Green"},
		{"george", "george@test.com", "George Miller"},
		{"hannah", "hannah@test.com", "Hannah White"},
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("Test@123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*user.User, 0, cfg.TestUserCount)
	for i := 0; i < cfg.TestUserCount && i < len(testUserData); i++ {
		data := testUserData[i]

		var existing user.User
		if err := db.Where("username = ?", data.username).First(&existing).Error; err == nil {
			log.Printf("Test user %s already exists, skipping", data.username)
			users = append(users, &existing)
			continue
		}

		newUser := &user.User{
			ID:            uuid.New(),
			Username:      data.username,
			Email:         sql.NullString{String: data.email, Valid: true},
			PasswordHash:  string(hashed),
			DisplayName:   data.displayName,
			WalletBalance: cfg.StartingBalance,
		}
		if err := db.Create(newUser).Error; err != nil {
			return nil, err
		}
		if err := recordSeedDeposit(db, newUser, cfg.StartingBalance); err != nil {
			return nil, err
		}
		users = append(users, newUser)
	}

	log.Printf("Created %d test users", len(users))
	return users, nil
}

// recordSeedDeposit keeps the ledger consistent with the seeded balance.
func recordSeedDeposit(db *gorm.DB, u *user.User, amount decimal.Decimal) error {
	if amount.IsZero() {
		return nil
	}
	return db.Create(&wallet.Transaction{
		ID:            uuid.New(),
		UserID:        u.ID,
		Type:          wallet.TypeDeposit,
		Amount:        amount,
		BalanceBefore: decimal.Zero,
		BalanceAfter:  amount,
		Description:   "Seed deposit",
		ReferenceID:   "seed-" + u.Username,
		Status:        wallet.StatusCompleted,
	}).Error
}

func seedPolls(db *gorm.DB, admin *user.User, users []*user.User) ([]*poll.Poll, error) {
	creators := append([]*user.User{admin}, users...)

	pollData := []struct {
		question string
		optionA  string
		optionB  string
		maxVotes int
	}{
		{"Coffee or tea to start the day?", "Coffee", "Tea", 10},
		{"Tabs or spaces?", "Tabs", "Spaces", 10},
		{"Best pizza topping?", "Pepperoni", "Pineapple", 20},
		{"Morning workout or evening workout?", "Morning", "Evening", 10},
	}

	// fee(20) = 5.00 + 10 * 0.50, pool keeps 90% of the fee
	paidFee := decimal.RequireFromString("10.00")
	paidPool := decimal.RequireFromString("9.00")
	paidPerVoter := decimal.RequireFromString("0.45")

	polls := make([]*poll.Poll, 0, len(pollData))
	for i, data := range pollData {
		creator := creators[i%len(creators)]

		var existing poll.Poll
		if err := db.Where("question = ?", data.question).First(&existing).Error; err == nil {
			polls = append(polls, &existing)
			continue
		}

		p := &poll.Poll{
			ID:                uuid.New(),
			CreatorID:         creator.ID,
			Question:          data.question,
			OptionAText:       data.optionA,
			OptionBText:       data.optionB,
			MaxVotes:          data.maxVotes,
			Status:            poll.StatusActive,
			MaxRewardedVoters: poll.DefaultMaxRewardedVoters,
		}
		if data.maxVotes > 10 {
			p.IsPaid = true
			p.PollFee = paidFee
			p.RewardPool = paidPool
			p.RewardPerVoter = paidPerVoter
			if err := chargeSeedPollFee(db, creator, p); err != nil {
				return nil, err
			}
		}
		if err := db.Create(p).Error; err != nil {
			return nil, err
		}
		if err := db.Model(creator).UpdateColumn("total_polls_created", gorm.Expr("total_polls_created + 1")).Error; err != nil {
			return nil, err
		}
		polls = append(polls, p)
	}

	log.Printf("Created %d polls", len(polls))
	return polls, nil
}

func chargeSeedPollFee(db *gorm.DB, creator *user.User, p *poll.Poll) error {
	before := creator.WalletBalance
	after := before.Sub(p.PollFee)
	if after.IsNegative() {
		return fmt.Errorf("seed user %s cannot afford poll fee", creator.Username)
	}

	if err := db.Model(creator).UpdateColumn("wallet_balance", after).Error; err != nil {
		return err
	}
	creator.WalletBalance = after

	return db.Create(&wallet.Transaction{
		ID:            uuid.New(),
		UserID:        creator.ID,
		PollID:        uuid.NullUUID{UUID: p.ID, Valid: true},
		Type:          wallet.TypePollPayment,
		Amount:        p.PollFee.Neg(),
		BalanceBefore: before,
		BalanceAfter:  after,
		Description:   "Payment for poll: " + p.Question,
		Status:        wallet.StatusCompleted,
	}).Error
}

func seedVotes(db *gorm.DB, polls []*poll.Poll, users []*user.User) (int, error) {
	count := 0
	for i, p := range polls {
		// Leave the last poll untouched so discovery always has a fresh one.
		if i == len(polls)-1 {
			continue
		}
		for j, u := range users {
			if u.ID == p.CreatorID {
				continue
			}
			// Vote only some users on each poll so results vary.
			if (i+j)%3 == 0 {
				continue
			}

			option := vote.OptionA
			column := "votes_count_a"
			if j%2 == 1 {
				option = vote.OptionB
				column = "votes_count_b"
			}

			v := &vote.Vote{
				ID:             uuid.New(),
				PollID:         p.ID,
				UserID:         u.ID,
				SelectedOption: option,
				VoteSequence:   p.TotalVotes() + 1,
				CreatedAt:      time.Now(),
			}
			if err := db.Create(v).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					continue
				}
				return count, err
			}
			if err := db.Model(p).UpdateColumn(column, gorm.Expr(column+" + 1")).Error; err != nil {
				return count, err
			}
			if option == vote.OptionA {
				p.VotesCountA++
			} else {
				p.VotesCountB++
			}
			if err := db.Model(u).UpdateColumn("total_votes_cast", gorm.Expr("total_votes_cast + 1")).Error; err != nil {
				return count, err
			}
			count++
		}
	}

	log.Printf("Created %d votes", count)
	return count, nil
}

// ClearAndReseed truncates all tables then seeds from scratch.
func ClearAndReseed(db *gorm.DB, cfg *SeedConfig) (*SeedResult, error) {
	if err := Truncate(db); err != nil {
		return nil, fmt.Errorf("failed to clear tables: %w", err)
	}
	return Seed(db, cfg)
}

// SeedDevelopment seeds with the full development dataset.
func SeedDevelopment(db *gorm.DB) (*SeedResult, error) {
	return Seed(db, DefaultSeedConfig())
}

// SeedProduction creates only the admin user with the given credentials.
func SeedProduction(db *gorm.DB, adminEmail, adminPassword string) (*user.User, error) {
	cfg := DefaultSeedConfig()
	cfg.AdminEmail = adminEmail
	cfg.AdminPassword = adminPassword
	cfg.CreateTestUsers = false
	cfg.StartingBalance = decimal.Zero
	return SeedMinimal(db, cfg)
}
