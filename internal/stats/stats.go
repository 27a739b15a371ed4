package stats

import "github.com/spec-kit/crm-console/internal/domain"

// Summary aggregates the customer pipeline for dashboard display.
type Summary struct {
	Total      int
	InProgress int // new + noresponse
	Buyed      int
	Cancelled  int
}

// Summarize computes pipeline counts over a directory snapshot.
func Summarize(customers []domain.Customer) Summary {
	var s Summary
	s.Total = len(customers)
	for _, c := range customers {
		switch c.Status {
		case domain.CustomerStatusNew, domain.CustomerStatusNoResponse:
			s.InProgress++
		case domain.CustomerStatusBuyed:
			s.Buyed++
		case domain.CustomerStatusCancelled:
			s.Cancelled++
		}
	}
	return s
}

// ConversionRate returns buyed/total, or 0 for an empty pipeline.
func (s Summary) ConversionRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Buyed) / float64(s.Total)
}
