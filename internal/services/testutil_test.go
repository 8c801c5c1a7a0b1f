package services

import (
	"fmt"
	"testing"

	"pollpay/internal/domain/poll"
	"pollpay/internal/domain/user"
	"pollpay/internal/domain/vote"
	"pollpay/internal/repository"
	"pollpay/pkg/database"
	"pollpay/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory database to avoid cross-test
// interference. A single connection keeps concurrent transactions
// serialized the way a row lock would on the real database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

type testServices struct {
	db     *gorm.DB
	users  repository.UserRepository
	polls  repository.PollRepository
	votes  repository.VoteRepository
	ledger repository.WalletTransactionRepository
	wallet *WalletService
	poll   *PollService
	vote   *VoteService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	db := newTestDB(t)
	log := logger.NewNop()

	users := repository.NewUserRepository(db)
	polls := repository.NewPollRepository(db)
	votes := repository.NewVoteRepository(db)
	ledger := repository.NewWalletTransactionRepository(db)

	wallet := NewWalletService(db, users, polls, votes, ledger, log)
	return &testServices{
		db:     db,
		users:  users,
		polls:  polls,
		votes:  votes,
		ledger: ledger,
		wallet: wallet,
		poll:   NewPollService(polls, votes, users, wallet, NopHooks{}, log),
		vote:   NewVoteService(db, polls, votes, users, wallet, NopHooks{}, log),
	}
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func seedUser(t *testing.T, db *gorm.DB, username, balance string) user.User {
	t.Helper()
	u := user.User{
		ID:            uuid.New(),
		Username:      username,
		PasswordHash:  "x",
		WalletBalance: decimal.RequireFromString(balance),
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// seedPaidPoll inserts a paid poll row directly, bypassing the payment flow,
// so reward behavior can be tested with chosen pool figures.
func seedPaidPoll(t *testing.T, db *gorm.DB, creatorID uuid.UUID, maxVotes int, pool, perVoter string) poll.Poll {
	t.Helper()
	p := poll.Poll{
		ID:                uuid.New(),
		CreatorID:         creatorID,
		Question:          "paid poll " + uuid.NewString(),
		OptionAText:       "A",
		OptionBText:       "B",
		MaxVotes:          maxVotes,
		Status:            poll.StatusActive,
		IsPaid:            true,
		PollFee:           decimal.RequireFromString(pool).Div(decimal.RequireFromString("0.9")).Round(2),
		RewardPool:        decimal.RequireFromString(pool),
		RewardPerVoter:    decimal.RequireFromString(perVoter),
		MaxRewardedVoters: poll.DefaultMaxRewardedVoters,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedFreePoll(t *testing.T, db *gorm.DB, creatorID uuid.UUID, maxVotes int) poll.Poll {
	t.Helper()
	p := poll.Poll{
		ID:                uuid.New(),
		CreatorID:         creatorID,
		Question:          "free poll " + uuid.NewString(),
		OptionAText:       "A",
		OptionBText:       "B",
		MaxVotes:          maxVotes,
		Status:            poll.StatusActive,
		MaxRewardedVoters: poll.DefaultMaxRewardedVoters,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedVote(t *testing.T, db *gorm.DB, pollID, userID uuid.UUID, option string, sequence int) vote.Vote {
	t.Helper()
	v := vote.Vote{
		ID:             uuid.New(),
		PollID:         pollID,
		UserID:         userID,
		SelectedOption: option,
		VoteSequence:   sequence,
	}
	require.NoError(t, db.Create(&v).Error)
	return v
}

func reloadUser(t *testing.T, db *gorm.DB, id uuid.UUID) user.User {
	t.Helper()
	var u user.User
	require.NoError(t, db.First(&u, "id = ?", id).Error)
	return u
}

func reloadPoll(t *testing.T, db *gorm.DB, id uuid.UUID) poll.Poll {
	t.Helper()
	var p poll.Poll
	require.NoError(t, db.First(&p, "id = ?", id).Error)
	return p
}
