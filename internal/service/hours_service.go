package service

import (
	"context"
	"fmt"
	"time"

	"workforce/internal/dto"
	"workforce/internal/model"
	"workforce/internal/repository"
	"workforce/internal/session"

	"github.com/shopspring/decimal"
)

type HoursService interface {
	Month(ctx context.Context, claims *session.Claims, q dto.HoursQuery) (*dto.HoursMonthResponse, error)
	Upsert(ctx context.Context, claims *session.Claims, req dto.UpsertHoursRequest) (*model.WorkerHours, error)
	Delete(ctx context.Context, claims *session.Claims, req dto.DeleteHoursRequest) error
	// Report renders the monthly timesheet of one worker.
	Report(ctx context.Context, claims *session.Claims, q dto.HoursQuery) ([]byte, error)
}

type hoursService struct {
	hours     repository.HoursRepository
	sigs      repository.SignatureRepository
	users     repository.UserRepository
	companies repository.CompanyRepository
	renderer  TimesheetRenderer
	now       func() time.Time
}

func NewHoursService(
	hours repository.HoursRepository,
	sigs repository.SignatureRepository,
	users repository.UserRepository,
	companies repository.CompanyRepository,
	renderer TimesheetRenderer,
) HoursService {
	return &hoursService{
		hours:     hours,
		sigs:      sigs,
		users:     users,
		companies: companies,
		renderer:  renderer,
		now:       time.Now,
	}
}

func (s *hoursService) Month(ctx context.Context, claims *session.Claims, q dto.HoursQuery) (*dto.HoursMonthResponse, error) {
	worker, err := s.scopedWorker(ctx, claims, q.WorkerID)
	if err != nil {
		return nil, err
	}
	year, month, err := s.period(q)
	if err != nil {
		return nil, err
	}
	return s.month(ctx, worker.ID, year, month)
}

func (s *hoursService) month(ctx context.Context, workerID int64, year, month int) (*dto.HoursMonthResponse, error) {
	from, to := monthBounds(year, month)
	rows, err := s.hours.List(ctx, repository.HoursFilter{WorkerID: &workerID, From: from, To: to})
	if err != nil {
		return nil, err
	}
	sigs, err := s.sigs.List(ctx, repository.SignatureFilter{WorkerID: &workerID, Year: year, Month: month})
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, h := range rows {
		total = total.Add(h.Hours)
	}
	if rows == nil {
		rows = []model.WorkerHours{}
	}
	if sigs == nil {
		sigs = []model.Signature{}
	}
	return &dto.HoursMonthResponse{WorkerID: workerID, Hours: rows, Signatures: sigs, Total: total}, nil
}

func (s *hoursService) Upsert(ctx context.Context, claims *session.Claims, req dto.UpsertHoursRequest) (*model.WorkerHours, error) {
	if req.WorkDate == "" {
		return nil, badRequest("work_date is required")
	}
	if req.WorkerID == nil && !claims.IsWorker() {
		return nil, badRequest("worker_id is required")
	}
	worker, err := s.scopedWorker(ctx, claims, req.WorkerID)
	if err != nil {
		return nil, err
	}
	if claims.IsWorker() && req.WorkDate > s.now().UTC().Format(time.DateOnly) {
		return nil, &Error{Kind: ErrForbidden, Msg: "hours cannot be entered for a future date"}
	}
	if req.Hours.IsNegative() || req.Hours.GreaterThan(decimal.NewFromInt(24)) {
		return nil, badRequest("hours must be between 0 and 24")
	}
	return s.hours.Upsert(ctx, &model.WorkerHours{
		WorkerID:  worker.ID,
		WorkDate:  req.WorkDate,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Hours:     req.Hours.Round(2),
		Note:      req.Note,
	})
}

func (s *hoursService) Delete(ctx context.Context, claims *session.Claims, req dto.DeleteHoursRequest) error {
	if req.WorkerID == nil && !claims.IsWorker() {
		return badRequest("worker_id is required")
	}
	worker, err := s.scopedWorker(ctx, claims, req.WorkerID)
	if err != nil {
		return err
	}
	return notFoundOr(s.hours.Delete(ctx, worker.ID, req.WorkDate), "hours")
}

func (s *hoursService) Report(ctx context.Context, claims *session.Claims, q dto.HoursQuery) ([]byte, error) {
	worker, err := s.scopedWorker(ctx, claims, q.WorkerID)
	if err != nil {
		return nil, err
	}
	year, month, err := s.period(q)
	if err != nil {
		return nil, err
	}
	m, err := s.month(ctx, worker.ID, year, month)
	if err != nil {
		return nil, err
	}
	ts := Timesheet{Worker: worker, Year: year, Month: month, Hours: m.Hours, Total: m.Total}
	if len(m.Signatures) > 0 {
		ts.Signature = &m.Signatures[0]
	}
	if worker.CompanyID != nil {
		if c, err := s.companies.FindByID(ctx, *worker.CompanyID); err == nil {
			ts.CompanyName = c.Name
		}
	}
	return s.renderer.RenderTimesheet(ts)
}

// scopedWorker resolves whose hours the caller is addressing. Workers and
// plain employees are limited to themselves; acting CEOs to their company.
func (s *hoursService) scopedWorker(ctx context.Context, claims *session.Claims, workerID *int64) (*model.User, error) {
	id := claims.UserID
	if workerID != nil && *workerID != 0 {
		id = *workerID
	}
	if claims.IsWorker() {
		id = claims.UserID
	}
	if id != claims.UserID && !claims.IsAdmin() && !claims.ActsAsCEO() {
		return nil, forbidden()
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "worker")
	}
	if id != claims.UserID && !claims.IsAdmin() && !u.InCompany(claims.Company()) {
		return nil, forbidden()
	}
	return u, nil
}

func (s *hoursService) period(q dto.HoursQuery) (int, int, error) {
	now := s.now().UTC()
	year, month := q.Year, q.Month
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 {
		return 0, 0, badRequest("month must be between 1 and 12")
	}
	return year, month, nil
}

// monthBounds returns the first and last YYYY-MM-DD of a month.
func monthBounds(year, month int) (string, string) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format(time.DateOnly), last.Format(time.DateOnly)
}

// Timesheet is the data of a monthly hours report.
type Timesheet struct {
	Worker      *model.User
	CompanyName string
	Year        int
	Month       int
	Hours       []model.WorkerHours
	Total       decimal.Decimal
	Signature   *model.Signature
}

// Title is the report heading, e.g. "Timesheet 2026-03".
func (t Timesheet) Title() string {
	return fmt.Sprintf("Timesheet %04d-%02d", t.Year, t.Month)
}
