package infra

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"workforce/internal/config"
	"workforce/internal/model"
	"workforce/internal/repository"
	"workforce/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker_Cycle(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2, SuccessThreshold: 1, OpenTimeout: time.Minute})
	cb.now = func() time.Time { return now }
	var transitions []string
	cb.OnTransition(func(from, to CBState) { transitions = append(transitions, from.String()+"->"+to.String()) })

	boom := errors.New("boom")
	fail := func() error { return boom }
	ok := func() error { return nil }

	assert.ErrorIs(t, cb.Execute(fail), boom)
	assert.Equal(t, CBClosed, cb.State())
	assert.ErrorIs(t, cb.Execute(fail), boom)
	assert.Equal(t, CBOpen, cb.State())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)

	now = now.Add(time.Minute)
	assert.Equal(t, CBHalfOpen, cb.State())
	assert.ErrorIs(t, cb.Execute(fail), boom)
	assert.Equal(t, CBOpen, cb.State(), "a failed probe reopens")

	now = now.Add(time.Minute)
	require.NoError(t, cb.Execute(ok))
	assert.Equal(t, CBClosed, cb.State())

	assert.Equal(t, []string{
		"closed->open", "open->half-open", "half-open->open", "open->half-open", "half-open->closed",
	}, transitions)
}

func TestCircuitBreaker_SuccessResetsFailures(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2})
	_ = cb.Execute(func() error { return errors.New("x") })
	require.NoError(t, cb.Execute(func() error { return nil }))
	_ = cb.Execute(func() error { return errors.New("x") })
	assert.Equal(t, CBClosed, cb.State())
}

func TestNewMailer_DisabledWithoutHost(t *testing.T) {
	assert.Nil(t, NewMailer(&config.Config{}, nil))
	var m *Mailer
	assert.Equal(t, CBClosed, m.BreakerState())

	m = NewMailer(&config.Config{SMTPHost: "smtp.test", SMTPPort: 2525, SMTPUser: "bot@acme.test"}, nil)
	require.NotNil(t, m)
	assert.Equal(t, "bot@acme.test", m.from)
	assert.Equal(t, "smtp.test:2525", m.addr)
}

func TestMailer_UnreachableServerTripsBreaker(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2, OpenTimeout: time.Hour})
	m := NewMailer(&config.Config{SMTPHost: "127.0.0.1", SMTPPort: 1, SMTPFrom: "noreply@acme.test"}, cb)

	assert.Error(t, m.Send("a@b.test", "s", "b"))
	assert.Error(t, m.Send("a@b.test", "s", "b"))
	assert.ErrorIs(t, m.Send("a@b.test", "s", "b"), ErrCircuitOpen)
	assert.Equal(t, CBOpen, m.BreakerState())
}

func TestTimesheetPDF(t *testing.T) {
	worker := &model.User{ID: 1, Name: "José Núñez", Username: "jose", IDType: "id", IDNumber: strPtr("12345")}
	cases := map[string]*model.Signature{
		"unsigned": nil,
		"full":     {Type: "full", SignedAt: time.Now()},
		"partial":  {Type: "partial", Days: model.DayList{1, 2}, SignedAt: time.Now()},
	}
	for name, sig := range cases {
		t.Run(name, func(t *testing.T) {
			ts := service.Timesheet{
				Worker:      worker,
				CompanyName: "Acme",
				Year:        2026,
				Month:       3,
				Hours: []model.WorkerHours{
					{WorkDate: "2026-03-01", Hours: decimal.NewFromInt(8), StartTime: strPtr("08:00"), EndTime: strPtr("16:00")},
					{WorkDate: "2026-03-02", Hours: decimal.NewFromFloat(4.5), Note: strPtr("half day, left early for a doctor's appointment in town")},
				},
				Total:     decimal.NewFromFloat(12.5),
				Signature: sig,
			}
			out, err := TimesheetPDF{}.RenderTimesheet(ts)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
		})
	}

	out, err := TimesheetPDF{AppName: "WFP"}.RenderTimesheet(service.Timesheet{Year: 2026, Month: 1})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestTimesheetPDF_MissingFont(t *testing.T) {
	r := TimesheetPDF{FontPath: filepath.Join(t.TempDir(), "nope.ttf")}
	assert.Error(t, r.Validate())
	_, err := r.RenderTimesheet(service.Timesheet{Year: 2026, Month: 1})
	assert.Error(t, err)

	assert.NoError(t, TimesheetPDF{}.Validate())
}

// dejaVuSans is where fonts-dejavu-core installs the font on Debian images.
const dejaVuSans = "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf"

func TestTimesheetPDF_UTF8Font(t *testing.T) {
	if _, err := os.Stat(dejaVuSans); err != nil {
		t.Skip("DejaVuSans.ttf not installed")
	}
	r := TimesheetPDF{FontPath: dejaVuSans}
	require.NoError(t, r.Validate())

	out, err := r.RenderTimesheet(service.Timesheet{
		Worker:      &model.User{ID: 1, Name: "משה כהן", Username: "moshe", IDType: "id"},
		CompanyName: "בנייה בע״מ",
		Year:        2026,
		Month:       3,
		Hours: []model.WorkerHours{
			{WorkDate: "2026-03-01", Hours: decimal.NewFromInt(8), Note: strPtr(strings.Repeat("ש", 80))},
		},
		Total: decimal.NewFromInt(8),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Contains(t, string(out), "FontFile2", "the TrueType font is embedded")
}

func TestNewDatabase_SQLiteMigrate(t *testing.T) {
	db, err := NewDatabase("sqlite://" + filepath.Join(t.TempDir(), "wfp.db"))
	require.NoError(t, err)
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db))
	for _, m := range Models() {
		assert.True(t, db.Migrator().HasTable(m), "%T", m)
	}

	users := repository.NewUserRepository(db)
	require.NoError(t, users.Create(context.Background(), &model.User{Username: "a", PasswordHash: "x", Name: "A", Role: model.RoleAdmin}))
	err = users.Create(context.Background(), &model.User{Username: "a", PasswordHash: "x", Name: "B", Role: model.RoleAdmin})
	assert.Error(t, err, "usernames are unique")

	_, _, err = MigrationVersion(db)
	assert.Error(t, err)
	assert.Error(t, MigrateDown(db))
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file::memory:?cache=shared&_foreign_keys=on", sqliteDSN(":memory:"))
	assert.Equal(t, "/tmp/x.db?_foreign_keys=on", sqliteDSN("/tmp/x.db"))
	assert.Equal(t, "/tmp/x.db?mode=rwc&_foreign_keys=on", sqliteDSN("/tmp/x.db?mode=rwc"))
}

func strPtr(s string) *string { return &s }
