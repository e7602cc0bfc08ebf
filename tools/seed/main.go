package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hotel-ledger/internal/auth"
	reporting "hotel-ledger/internal/reporting/domain"
	"hotel-ledger/internal/reporting/infrastructure/postgres"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type config struct {
	dsn           string
	migrationsDir string
	startDate     string
	days          int
	rooms         int
	startHour     int
	seed          int64
	jwtSecret     string
	tokenRole     string
	tokenTTL      time.Duration
}

func main() {
	cfg := parseConfig()
	if cfg.dsn == "" {
		log.Fatal("PG_DSN or DATABASE_URL is required")
	}
	if cfg.days <= 0 {
		log.Fatal("days must be > 0")
	}
	if cfg.rooms <= 0 {
		log.Fatal("rooms must be > 0")
	}

	start, err := parseStartDate(cfg.startDate)
	if err != nil {
		log.Fatalf("invalid start-date: %v", err)
	}

	db, err := sql.Open("pgx", cfg.dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := postgres.ApplyMigrations(ctx, db, cfg.migrationsDir); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	repo := postgres.NewLedgerRepository(db)
	if err := repo.SaveTariff(ctx, reporting.Tariff{
		HourRate:   decimal.NewFromInt(50000),
		NightRate:  decimal.NewFromInt(150000),
		TaxPercent: decimal.NewFromInt(18),
	}); err != nil {
		log.Fatalf("save tariff: %v", err)
	}

	roomIDs, err := seedRooms(ctx, repo, cfg.rooms)
	if err != nil {
		log.Fatalf("seed rooms: %v", err)
	}
	log.Printf("seeded rooms: %d", len(roomIDs))

	rng := rand.New(rand.NewSource(cfg.seed))
	stays, expenses, entries := 0, 0, 0
	for i := 0; i < cfg.days; i++ {
		dayStart := time.Date(start.Year(), start.Month(), start.Day()+i, cfg.startHour, 0, 0, 0, time.UTC)
		s, e, n, err := seedWorkday(ctx, repo, rng, roomIDs, dayStart)
		if err != nil {
			log.Fatalf("seed workday %s: %v", dayStart.Format("2006-01-02"), err)
		}
		stays += s
		expenses += e
		entries += n
	}
	log.Printf("seeded days=%d stays=%d expenses=%d entries=%d", cfg.days, stays, expenses, entries)

	if cfg.jwtSecret != "" {
		role, ok := auth.NormalizeRole(cfg.tokenRole)
		if !ok {
			log.Fatalf("unknown token role %q", cfg.tokenRole)
		}
		token, err := auth.IssueToken([]byte(cfg.jwtSecret), "seed-"+string(role), "seed "+string(role), role, cfg.tokenTTL)
		if err != nil {
			log.Fatalf("issue token: %v", err)
		}
		fmt.Println(token)
	}
}

func parseConfig() config {
	cfg := config{}
	flag.StringVar(&cfg.dsn, "pg-dsn", envOrDefault("PG_DSN", envOrDefault("DATABASE_URL", "")), "Postgres DSN")
	flag.StringVar(&cfg.migrationsDir, "migrations", envOrDefault("MIGRATIONS_DIR", "migrations"), "migrations directory")
	flag.StringVar(&cfg.startDate, "start-date", envOrDefault("START_DATE", ""), "first workday (YYYY-MM-DD)")
	flag.IntVar(&cfg.days, "days", envOrInt("DAYS", 14), "number of workdays to seed")
	flag.IntVar(&cfg.rooms, "rooms", envOrInt("ROOMS", 12), "number of rooms")
	flag.IntVar(&cfg.startHour, "workday-start-hour", envOrInt("WORKDAY_START_HOUR", reporting.DefaultWorkdayStartHour), "workday start hour")
	flag.Int64Var(&cfg.seed, "seed", 1, "random seed")
	flag.StringVar(&cfg.jwtSecret, "jwt-secret", envOrDefault("AUTH_JWT_SECRET", ""), "print a dev token signed with this secret")
	flag.StringVar(&cfg.tokenRole, "token-role", "admin", "role of the printed dev token")
	flag.DurationVar(&cfg.tokenTTL, "token-ttl", 24*time.Hour, "dev token lifetime")
	flag.Parse()
	return cfg
}

func parseStartDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Now().UTC().AddDate(0, 0, -14).Truncate(24 * time.Hour), nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, err
	}
	return parsed.UTC(), nil
}

func seedRooms(ctx context.Context, repo *postgres.LedgerRepository, count int) ([]string, error) {
	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.NewString()
		number := strconv.Itoa(100*(i/10+1) + i%10 + 1)
		if err := repo.InsertRoom(ctx, reporting.Room{ID: id, Number: number}); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// seedWorkday writes hour stays during the day, night stays in the evening,
// a few free-standing expenses and the day and night cash-register entries.
func seedWorkday(ctx context.Context, repo *postgres.LedgerRepository, rng *rand.Rand, roomIDs []string, dayStart time.Time) (int, int, int, error) {
	var (
		stays  int
		nights []reporting.Stay
	)
	dayIncome := decimal.Zero
	for i, n := 0, 2+rng.Intn(len(roomIDs)); i < n; i++ {
		begin := dayStart.Add(time.Duration(rng.Intn(12*60)) * time.Minute)
		end := begin.Add(time.Duration(1+rng.Intn(3)) * time.Hour)
		stay := reporting.Stay{
			ID:            uuid.NewString(),
			RoomID:        roomIDs[rng.Intn(len(roomIDs))],
			StartTime:     begin,
			EndTime:       &end,
			Phase:         reporting.PhaseHour,
			Amount:        decimal.NewFromInt(int64(50000 * (1 + rng.Intn(3)))),
			PaymentMethod: pickPayment(rng),
			CreatedBy:     "seed",
		}
		if rng.Intn(4) == 0 {
			stay.Expenses = []reporting.LineItem{{Description: "minibar", Amount: decimal.NewFromInt(5000)}}
		}
		if err := repo.InsertStay(ctx, stay); err != nil {
			return 0, 0, 0, err
		}
		dayIncome = dayIncome.Add(stay.Amount)
		stays++
	}
	for i, n := 0, rng.Intn(len(roomIDs)/2+1); i < n; i++ {
		begin := dayStart.Add(12*time.Hour + time.Duration(rng.Intn(6*60))*time.Minute)
		end := dayStart.Add(24*time.Hour - time.Hour)
		stay := reporting.Stay{
			ID:            uuid.NewString(),
			RoomID:        roomIDs[rng.Intn(len(roomIDs))],
			StartTime:     begin,
			EndTime:       &end,
			Phase:         reporting.PhaseNight,
			Amount:        decimal.NewFromInt(150000),
			PaymentMethod: pickPayment(rng),
			CreatedBy:     "seed",
		}
		if err := repo.InsertStay(ctx, stay); err != nil {
			return 0, 0, 0, err
		}
		nights = append(nights, stay)
		stays++
	}

	expenses := 0
	for _, desc := range []string{"laundry", "cleaning supplies", "electricity"} {
		if rng.Intn(2) == 0 {
			continue
		}
		expense := reporting.Expense{
			ID:          uuid.NewString(),
			Description: desc,
			Amount:      decimal.NewFromInt(int64(5000 * (1 + rng.Intn(6)))),
			Date:        dayStart.Add(time.Duration(1+rng.Intn(10)) * time.Hour),
		}
		if err := repo.InsertExpense(ctx, expense); err != nil {
			return 0, 0, 0, err
		}
		expenses++
	}

	day, err := reporting.NewEntry(reporting.EntryInput{
		Date:        dayStart.Add(11 * time.Hour),
		Phase:       reporting.PhaseDay,
		TotalIncome: dayIncome,
		Expenses:    []reporting.LineItem{{Description: "staff meal", Amount: decimal.NewFromInt(10000)}},
		CreatedBy:   "seed",
	})
	if err != nil {
		return 0, 0, 0, err
	}
	night, err := reporting.NewEntry(reporting.EntryInput{
		Date:        dayStart.Add(23 * time.Hour),
		Phase:       reporting.PhaseNight,
		LinkedStays: nights,
		CreatedBy:   "seed",
	})
	if err != nil {
		return 0, 0, 0, err
	}
	for _, entry := range []reporting.Entry{day, night} {
		entry.ID = uuid.NewString()
		if err := repo.InsertEntry(ctx, entry); err != nil {
			return 0, 0, 0, err
		}
	}
	return stays, expenses, 2, nil
}

func pickPayment(rng *rand.Rand) reporting.PaymentMethod {
	switch rng.Intn(5) {
	case 0:
		return reporting.PaymentCard
	case 1:
		return reporting.PaymentOther
	default:
		return reporting.PaymentCash
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
