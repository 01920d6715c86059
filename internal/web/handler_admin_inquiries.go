package web

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vbonduro/urbanhomes/internal/apiclient"
	"github.com/vbonduro/urbanhomes/internal/domain"
	"github.com/vbonduro/urbanhomes/internal/query"
)

var inquiryNamespaces = []string{query.NSInquiries, query.NSAdminInquiries}

type inquiryRow struct {
	Inquiry  domain.ContactInquiry
	Statuses []domain.InquiryStatus
	Error    string
}

func (s *Server) handleAdminInquiries(w http.ResponseWriter, r *http.Request) {
	list, err := s.adminInquiries(r, adminListLimit)
	if err != nil {
		s.fail(w, r, err, "Failed to load inquiries")
		return
	}
	rows := make([]inquiryRow, 0, len(list.Inquiries))
	for _, inq := range list.Inquiries {
		rows = append(rows, inquiryRow{Inquiry: inq, Statuses: domain.InquiryStatuses})
	}
	data := s.page(r, "admin-inquiries", map[string]any{"Rows": rows, "Notice": notice(r)})
	if err := s.renderPage(w, data, "pages/admin_inquiries.html", "partials/inquiry_row.html"); err != nil {
		s.log(r).Error("render page failed", "error", err)
	}
}

func (s *Server) handleInquiryStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	status := domain.InquiryStatus(r.FormValue("status"))
	if !status.Valid() {
		http.Error(w, "invalid inquiry status", http.StatusBadRequest)
		return
	}

	updated, err := s.inquiries.UpdateStatus(r.Context(), id, status)
	if err != nil {
		if apiclient.Classify(err) == apiclient.OutcomeAuthExpired || !isHTMX(r) {
			s.fail(w, r, err, "Failed to update inquiry")
			return
		}
		// HTMX only swaps 2xx responses, so the error is reported in the row.
		s.log(r).Error("update inquiry status failed", "inquiry_id", id, "error", err)
		row := inquiryRow{Inquiry: domain.ContactInquiry{ID: id, Status: status}, Statuses: domain.InquiryStatuses, Error: "Failed to update status"}
		if err := s.renderPartial(w, "partials/inquiry_row.html", "inquiry_row", row); err != nil {
			s.log(r).Error("render partial failed", "error", err)
		}
		return
	}
	s.queries.Invalidate(r.Context(), inquiryNamespaces...)

	if !isHTMX(r) {
		http.Redirect(w, r, "/admin/inquiries", http.StatusSeeOther)
		return
	}
	row := inquiryRow{Inquiry: *updated, Statuses: domain.InquiryStatuses}
	if err := s.renderPartial(w, "partials/inquiry_row.html", "inquiry_row", row); err != nil {
		s.log(r).Error("render partial failed", "error", err)
	}
}

func (s *Server) handleConfirmDeleteInquiry(w http.ResponseWriter, r *http.Request) {
	s.renderConfirmDeleteInquiry(w, r, mux.Vars(r)["id"])
}

// renderConfirmDeleteInquiry names the sender when the inquiry is on the
// cached admin list. The API has no single-inquiry endpoint.
func (s *Server) renderConfirmDeleteInquiry(w http.ResponseWriter, r *http.Request, id string) {
	subject := ""
	if list, err := s.adminInquiries(r, adminListLimit); err == nil {
		for _, inq := range list.Inquiries {
			if inq.ID == id {
				subject = inq.Name + " <" + inq.Email + ">"
				break
			}
		}
	} else if apiclient.Classify(err) == apiclient.OutcomeAuthExpired {
		s.expireSession(w, r)
		return
	}
	data := s.page(r, "admin-inquiries", map[string]any{
		"Title":   "Delete inquiry",
		"Prompt":  "Are you sure you want to delete this inquiry?",
		"Subject": subject,
		"Action":  "/admin/inquiries/" + id + "/delete",
		"Cancel":  "/admin/inquiries",
	})
	if err := s.renderPage(w, data, "pages/confirm_delete.html"); err != nil {
		s.log(r).Error("render page failed", "error", err)
	}
}

func (s *Server) handleDeleteInquiry(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if r.FormValue("confirm") != "yes" {
		s.renderConfirmDeleteInquiry(w, r, id)
		return
	}
	if err := s.inquiries.Delete(r.Context(), id); err != nil && !apiclient.IsNotFound(err) {
		s.fail(w, r, err, "Failed to delete inquiry")
		return
	}
	s.queries.Invalidate(r.Context(), inquiryNamespaces...)
	s.redirect(w, r, withNotice("/admin/inquiries", "inquiry-deleted"))
}
