package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
	// MaxPage bounds the page number so the row offset fits in an int32.
	MaxPage = 10000
)

// Service mengoordinasikan pengambilan data penolakan akses.
type Service struct {
	repo Repository
}

// NewService membuat service audit timeline baru.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Timeline mengambil data audit dengan paging.
func (s *Service) Timeline(ctx context.Context, filters TimelineFilters) (Result, error) {
	if s.repo == nil {
		return Result{}, fmt.Errorf("audit: repository not configured")
	}
	pageSize := filters.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	page := filters.Page
	if page <= 0 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	params := windowParams(filters)
	params.OffsetRows = int32((page - 1) * pageSize)
	params.LimitRows = int32(pageSize + 1)

	rows, err := s.repo.Window(ctx, params)
	if err != nil {
		return Result{}, err
	}
	hasNext := len(rows) > pageSize
	if hasNext {
		rows = rows[:pageSize]
	}
	paging := PagingInfo{Page: page, PageSize: pageSize, HasNext: hasNext}
	if page > 1 {
		paging.PrevPage = page - 1
	}
	if hasNext {
		paging.NextPage = page + 1
	}
	return Result{Rows: mapRows(rows), Paging: paging}, nil
}

// Export mengambil seluruh data timeline tanpa paging.
func (s *Service) Export(ctx context.Context, filters TimelineFilters) ([]TimelineRow, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("audit: repository not configured")
	}
	rows, err := s.repo.All(ctx, windowParams(filters))
	if err != nil {
		return nil, err
	}
	return mapRows(rows), nil
}

func windowParams(filters TimelineFilters) WindowParams {
	return WindowParams{
		Action:  ActionAccessDenied,
		FromAt:  toPgTime(filters.From),
		ToAt:    toPgTime(filters.To),
		ActorID: optionalText(filters.ActorID),
		Reason:  optionalText(filters.Reason),
	}
}

func toPgTime(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func optionalText(value string) pgtype.Text {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: trimmed, Valid: true}
}

type denialMeta struct {
	Role   string `json:"role"`
	Reason string `json:"reason"`
}

func mapRows(rows []Row) []TimelineRow {
	out := make([]TimelineRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapTimelineRow(row))
	}
	return out
}

// mapTimelineRow splits the "METHOD path" entity id written by the audit job.
// Unreadable meta leaves role and reason empty.
func mapTimelineRow(row Row) TimelineRow {
	out := TimelineRow{Path: row.EntityID}
	if row.At.Valid {
		out.At = row.At.Time
	}
	if row.ActorID.Valid {
		out.ActorID = row.ActorID.String
	}
	if method, path, ok := strings.Cut(row.EntityID, " "); ok {
		out.Method, out.Path = method, path
	}
	var meta denialMeta
	if len(row.Meta) > 0 && json.Unmarshal(row.Meta, &meta) == nil {
		out.Role = meta.Role
		out.Reason = meta.Reason
	}
	return out
}
