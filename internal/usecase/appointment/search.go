package appointment

import (
	"context"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

const dateLayout = "2006-01-02"

// SearchAppointmentsInput holds raw query values. DateFrom and DateTo are
// local days and both are inclusive.
type SearchAppointmentsInput struct {
	Query      string
	DateFrom   string
	DateTo     string
	Status     string
	Service    string
	Attendance string
	Limit      int
	Offset     int
}

type SearchAppointments struct {
	repo domain.AppointmentQuery
	loc  *time.Location
}

func NewSearchAppointments(
	repo domain.AppointmentQuery,
	loc *time.Location,
) *SearchAppointments {
	return &SearchAppointments{
		repo: repo,
		loc:  loc,
	}
}

func (uc *SearchAppointments) Execute(
	ctx context.Context,
	in SearchAppointmentsInput,
) ([]dto.AppointmentListDTO, int64, error) {

	f := domain.AppointmentFilter{
		Query:   strings.TrimSpace(in.Query),
		Service: strings.TrimSpace(in.Service),
		Limit:   in.Limit,
		Offset:  in.Offset,
	}

	if s := strings.TrimSpace(in.DateFrom); s != "" {
		from, err := time.ParseInLocation(dateLayout, s, uc.loc)
		if err != nil {
			return nil, 0, httperr.ErrBusiness("invalid_date")
		}
		f.From = from
	}
	if s := strings.TrimSpace(in.DateTo); s != "" {
		to, err := time.ParseInLocation(dateLayout, s, uc.loc)
		if err != nil {
			return nil, 0, httperr.ErrBusiness("invalid_date")
		}
		f.To = to.AddDate(0, 0, 1)
	}
	if !f.From.IsZero() && !f.To.IsZero() && !f.From.Before(f.To) {
		return nil, 0, httperr.ErrBusiness("invalid_date_range")
	}

	if s := strings.TrimSpace(in.Status); s != "" {
		st, ok := domain.ParseStatus(s)
		if !ok {
			return nil, 0, httperr.ErrBusiness("invalid_status")
		}
		f.Status = string(st)
	}
	if s := strings.TrimSpace(in.Attendance); s != "" {
		a, ok := domain.ParseAttendance(s)
		if !ok {
			return nil, 0, httperr.ErrBusiness("invalid_attendance")
		}
		f.Attendance = string(a)
	}

	appointments, total, err := uc.repo.SearchAppointments(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for i := range appointments {
		out = append(out, dto.NewAppointmentListDTO(&appointments[i], uc.loc))
	}

	return out, total, nil
}
