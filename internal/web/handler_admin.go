package web

import (
	"context"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/vbonduro/urbanhomes/internal/apiclient"
	"github.com/vbonduro/urbanhomes/internal/domain"
	"github.com/vbonduro/urbanhomes/internal/query"
	"github.com/vbonduro/urbanhomes/internal/session"
)

const (
	dashboardLimit  = 5
	recentInquiries = 3
	adminListLimit  = 50
)

// scope keys admin queries to the request's session.
func scope(r *http.Request) string {
	if sess := session.FromContext(r.Context()); sess != nil {
		return query.ScopeForToken(sess.Token(r.Context()))
	}
	return ""
}

func (s *Server) adminProperties(r *http.Request, limit int) (*domain.PropertyList, error) {
	filter := domain.PropertyFilter{Limit: limit}
	return query.Fetch(r.Context(), s.queries,
		query.Key{Namespace: query.NSAdminProperties, Scope: scope(r), Params: filter.Params()},
		func(ctx context.Context) (*domain.PropertyList, error) {
			return s.properties.List(ctx, filter)
		})
}

func (s *Server) adminInquiries(r *http.Request, limit int) (*domain.InquiryList, error) {
	filter := domain.InquiryFilter{Limit: limit}
	return query.Fetch(r.Context(), s.queries,
		query.Key{Namespace: query.NSAdminInquiries, Scope: scope(r), Params: filter.Params()},
		func(ctx context.Context) (*domain.InquiryList, error) {
			return s.inquiries.List(ctx, filter)
		})
}

// handleDashboard loads properties and inquiries concurrently. Each section
// renders on its own, so one failing query only blanks its own panel.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	var (
		props           *domain.PropertyList
		inqs            *domain.InquiryList
		propErr, inqErr error
	)
	// Each goroutine returns nil: a failed section is reported through its
	// own error and must not cancel or hide the other.
	var g errgroup.Group
	g.Go(func() error {
		props, propErr = s.adminProperties(r, dashboardLimit)
		return nil
	})
	g.Go(func() error {
		inqs, inqErr = s.adminInquiries(r, dashboardLimit)
		return nil
	})
	_ = g.Wait() // always nil

	for _, err := range []error{propErr, inqErr} {
		if apiclient.Classify(err) == apiclient.OutcomeAuthExpired {
			s.expireSession(w, r)
			return
		}
	}

	data := map[string]any{}
	if propErr != nil {
		s.log(r).Error("dashboard properties failed", "error", propErr)
		data["PropertiesError"] = "Failed to load properties"
	} else {
		available := 0
		for _, p := range props.Properties {
			if p.Status == domain.PropertyStatusAvailable {
				available++
			}
		}
		data["TotalProperties"] = props.Pagination.Total
		data["ActiveListings"] = available
	}
	if inqErr != nil {
		s.log(r).Error("dashboard inquiries failed", "error", inqErr)
		data["InquiriesError"] = "Failed to load inquiries"
	} else {
		recent := inqs.Inquiries
		if len(recent) > recentInquiries {
			recent = recent[:recentInquiries]
		}
		data["TotalInquiries"] = inqs.Pagination.Total
		data["RecentInquiries"] = recent
	}

	if err := s.renderPage(w, s.page(r, "admin", data), "pages/admin_dashboard.html"); err != nil {
		s.log(r).Error("render page failed", "error", err)
	}
}

// notices maps the ?notice= values set by admin redirects to banners.
var notices = map[string]string{
	"created":         "Property created.",
	"updated":         "Property updated.",
	"deleted":         "Property deleted.",
	"images-uploaded": "Images uploaded.",
	"images-pending":  "Property saved, but its images could not be uploaded. They are pending and can be retried.",
	"images-failed":   "Property saved, but its images could not be stored for upload.",
	"nothing-pending": "No images were pending for that property.",
	"inquiry-deleted": "Inquiry deleted.",
}

func notice(r *http.Request) string {
	return notices[r.URL.Query().Get("notice")]
}

func withNotice(path, code string) string {
	return path + "?notice=" + code
}

func countLabel(n int) string {
	if n == 1 {
		return "1 image pending"
	}
	return strconv.Itoa(n) + " images pending"
}
