package forms

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jrsteele09/survey-admin/customers"
	apperrors "github.com/jrsteele09/survey-admin/internal/errors"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ResponseSource is the part of Client the analytics need.
type ResponseSource interface {
	Responses(ctx context.Context, formID string, pageSize int) (ResponseList, error)
}

type CustomerSummary struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Templates  int    `json:"templates"`
}

type FormSummary struct {
	FormID          string     `json:"form_id"`
	Customers       int        `json:"customers"`
	Responses       int        `json:"responses"`
	LastSubmittedAt *time.Time `json:"last_submitted_at,omitempty"`
}

type Report struct {
	TotalCustomers   int               `json:"total_customers"`
	TotalAssignments int               `json:"total_assignments"`
	TotalResponses   int               `json:"total_responses"`
	Customers        []CustomerSummary `json:"customers"`
	Forms            []FormSummary     `json:"forms"`
	ProviderQueried  bool              `json:"provider_queried"`
	GeneratedAt      time.Time         `json:"generated_at"`
}

type Analytics struct {
	concurrency int
	nowFunc     func() time.Time
}

type AnalyticsOption func(*Analytics)

// WithConcurrency bounds the number of provider calls in flight.
func WithConcurrency(n int) AnalyticsOption {
	return func(a *Analytics) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

func WithAnalyticsNowFunc(nowFunc func() time.Time) AnalyticsOption {
	return func(a *Analytics) {
		a.nowFunc = nowFunc
	}
}

func NewAnalytics(options ...AnalyticsOption) *Analytics {
	a := &Analytics{concurrency: 4, nowFunc: time.Now}
	for _, opt := range options {
		opt(a)
	}
	return a
}

// Report counts assignments per customer and, when src is not nil, fetches
// response totals for every assigned form concurrently. A form the provider
// no longer knows counts as zero responses.
func (a *Analytics) Report(ctx context.Context, custs []*customers.Customer, src ResponseSource) (Report, error) {
	report := Report{
		TotalCustomers: len(custs),
		Customers:      make([]CustomerSummary, 0, len(custs)),
		GeneratedAt:    a.nowFunc(),
	}

	byForm := make(map[string]*FormSummary)
	for _, c := range custs {
		report.Customers = append(report.Customers, CustomerSummary{CustomerID: c.ID, Name: c.Name, Templates: len(c.Templates)})
		report.TotalAssignments += len(c.Templates)
		for _, t := range c.Templates {
			fs, ok := byForm[t.FormID]
			if !ok {
				fs = &FormSummary{FormID: t.FormID}
				byForm[t.FormID] = fs
			}
			fs.Customers++
		}
	}

	if src != nil && len(byForm) > 0 {
		report.ProviderQueried = true
		var mu sync.Mutex
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(a.concurrency)
		for id, fs := range byForm {
			g.Go(func() error {
				list, err := src.Responses(gctx, id, 0)
				if apperrors.Is(err, apperrors.ErrNotFound) {
					return nil
				}
				if err != nil {
					return errors.Wrapf(err, "responses for form %s", id)
				}
				last := latestSubmission(list.Items)
				mu.Lock()
				defer mu.Unlock()
				fs.Responses = list.TotalItems
				fs.LastSubmittedAt = last
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Report{}, err
		}
	}

	report.Forms = make([]FormSummary, 0, len(byForm))
	for _, fs := range byForm {
		report.TotalResponses += fs.Responses
		report.Forms = append(report.Forms, *fs)
	}
	sort.Slice(report.Forms, func(i, j int) bool { return report.Forms[i].FormID < report.Forms[j].FormID })
	return report, nil
}

func latestSubmission(items []Response) *time.Time {
	var latest time.Time
	for _, r := range items {
		if r.SubmittedAt.After(latest) {
			latest = r.SubmittedAt
		}
	}
	if latest.IsZero() {
		return nil
	}
	return &latest
}
