package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"workforce/internal/dto"
	"workforce/internal/model"
	"workforce/internal/session"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

type hoursFixture struct {
	svc      HoursService
	hours    *stubHoursRepo
	sigs     *stubSignatureRepo
	users    *stubUserRepo
	renderer *stubRenderer

	workerUser, outsider *model.User
	worker, ceo, emp     *session.Claims
}

func newHoursFixture(t *testing.T) *hoursFixture {
	t.Helper()
	f := &hoursFixture{hours: newStubHoursRepo(), sigs: &stubSignatureRepo{}, users: newStubUserRepo(), renderer: &stubRenderer{}}
	companies := newStubCompanyRepo()
	companies.companies["acme"] = &model.Company{ID: "acme", Name: "Acme"}
	svc := NewHoursService(f.hours, f.sigs, f.users, companies, f.renderer).(*hoursService)
	svc.now = func() time.Time { return fixedNow }
	f.svc = svc

	f.workerUser, f.worker = seed(t, f.users, model.User{Username: "w", Role: model.RoleWorker, CompanyID: strPtr("acme")})
	_, f.ceo = seed(t, f.users, model.User{Username: "boss", Role: model.RoleCEO, CompanyID: strPtr("acme")})
	_, f.emp = seed(t, f.users, model.User{Username: "emp", Role: model.RoleEmployee, CompanyID: strPtr("acme")})
	f.outsider, _ = seed(t, f.users, model.User{Username: "x", Role: model.RoleWorker, CompanyID: strPtr("globex")})
	return f
}

func TestHoursUpsert_OverwritesSameDay(t *testing.T) {
	f := newHoursFixture(t)
	ctx := context.Background()

	_, err := f.svc.Upsert(ctx, f.worker, dto.UpsertHoursRequest{WorkDate: "2026-03-10", Hours: decimal.NewFromFloat(7.5)})
	require.NoError(t, err)
	row, err := f.svc.Upsert(ctx, f.worker, dto.UpsertHoursRequest{WorkDate: "2026-03-10", Hours: decimal.NewFromFloat(8.255)})
	require.NoError(t, err)
	assert.Equal(t, "8.26", row.Hours.StringFixed(2))
	assert.Len(t, f.hours.rows, 1)
}

func TestHoursUpsert_WorkerForcedToSelf(t *testing.T) {
	f := newHoursFixture(t)
	row, err := f.svc.Upsert(context.Background(), f.worker, dto.UpsertHoursRequest{
		WorkerID: &f.outsider.ID, WorkDate: "2026-03-10", Hours: decimal.NewFromInt(4),
	})
	require.NoError(t, err)
	assert.Equal(t, f.workerUser.ID, row.WorkerID)
}

func TestHoursUpsert_WorkerFutureDateForbidden(t *testing.T) {
	f := newHoursFixture(t)
	_, err := f.svc.Upsert(context.Background(), f.worker, dto.UpsertHoursRequest{WorkDate: "2026-03-16", Hours: decimal.NewFromInt(4)})
	assert.True(t, errors.Is(err, ErrForbidden))

	_, err = f.svc.Upsert(context.Background(), f.worker, dto.UpsertHoursRequest{WorkDate: "2026-03-15", Hours: decimal.NewFromInt(4)})
	assert.NoError(t, err, "today is allowed")

	_, err = f.svc.Upsert(context.Background(), f.ceo, dto.UpsertHoursRequest{WorkerID: &f.workerUser.ID, WorkDate: "2026-04-01", Hours: decimal.NewFromInt(4)})
	assert.NoError(t, err, "managers may plan ahead")
}

func TestHoursUpsert_Validation(t *testing.T) {
	f := newHoursFixture(t)
	ctx := context.Background()

	_, err := f.svc.Upsert(ctx, f.worker, dto.UpsertHoursRequest{WorkDate: "2026-03-10", Hours: decimal.NewFromInt(25)})
	assert.True(t, errors.Is(err, ErrBadRequest))

	_, err = f.svc.Upsert(ctx, f.ceo, dto.UpsertHoursRequest{WorkDate: "2026-03-10", Hours: decimal.NewFromInt(1)})
	assert.True(t, errors.Is(err, ErrBadRequest), "worker_id required for managers")
}

func TestHoursScoping(t *testing.T) {
	f := newHoursFixture(t)
	ctx := context.Background()

	_, err := f.svc.Month(ctx, f.ceo, dto.HoursQuery{WorkerID: &f.outsider.ID})
	assert.True(t, errors.Is(err, ErrForbidden), "ceo cannot read another company")

	_, err = f.svc.Month(ctx, f.emp, dto.HoursQuery{WorkerID: &f.workerUser.ID})
	assert.True(t, errors.Is(err, ErrForbidden), "plain employee reads only themselves")

	_, err = f.svc.Month(ctx, f.ceo, dto.HoursQuery{WorkerID: i64Ptr(999)})
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = f.svc.Month(ctx, f.ceo, dto.HoursQuery{WorkerID: &f.workerUser.ID, Month: 13})
	assert.True(t, errors.Is(err, ErrBadRequest))
}

func TestHoursMonth_TotalAndSignatures(t *testing.T) {
	f := newHoursFixture(t)
	ctx := context.Background()
	for date, h := range map[string]float64{"2026-03-01": 8, "2026-03-02": 6.5, "2026-02-28": 5} {
		_, err := f.svc.Upsert(ctx, f.ceo, dto.UpsertHoursRequest{WorkerID: &f.workerUser.ID, WorkDate: date, Hours: decimal.NewFromFloat(h)})
		require.NoError(t, err)
	}
	f.sigs.sigs = append(f.sigs.sigs, model.Signature{ID: 1, WorkerID: f.workerUser.ID, CompanyID: "acme", Year: 2026, Month: 3, Type: "full"})

	m, err := f.svc.Month(ctx, f.worker, dto.HoursQuery{})
	require.NoError(t, err)
	assert.Equal(t, f.workerUser.ID, m.WorkerID)
	assert.Len(t, m.Hours, 2)
	assert.True(t, m.Total.Equal(decimal.NewFromFloat(14.5)), m.Total.String())
	assert.Len(t, m.Signatures, 1)
}

func TestHoursDelete(t *testing.T) {
	f := newHoursFixture(t)
	ctx := context.Background()
	_, err := f.svc.Upsert(ctx, f.worker, dto.UpsertHoursRequest{WorkDate: "2026-03-10", Hours: decimal.NewFromInt(3)})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, f.worker, dto.DeleteHoursRequest{WorkDate: "2026-03-10"}))
	assert.Empty(t, f.hours.rows)
}

func TestHoursReport(t *testing.T) {
	f := newHoursFixture(t)
	ctx := context.Background()
	_, err := f.svc.Upsert(ctx, f.worker, dto.UpsertHoursRequest{WorkDate: "2026-03-10", Hours: decimal.NewFromInt(3)})
	require.NoError(t, err)

	out, err := f.svc.Report(ctx, f.worker, dto.HoursQuery{Year: 2026, Month: 3})
	require.NoError(t, err)
	assert.Equal(t, "%PDF-stub", string(out))
	assert.Equal(t, "Acme", f.renderer.last.CompanyName)
	assert.Equal(t, "Timesheet 2026-03", f.renderer.last.Title())
	assert.Nil(t, f.renderer.last.Signature)
	assert.Len(t, f.renderer.last.Hours, 1)
}

func TestMonthBounds(t *testing.T) {
	from, to := monthBounds(2024, 2)
	assert.Equal(t, "2024-02-01", from)
	assert.Equal(t, "2024-02-29", to)
}
