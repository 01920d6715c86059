package web

import (
	"bytes"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vbonduro/urbanhomes/internal/apiclient"
	"github.com/vbonduro/urbanhomes/internal/domain"
	"github.com/vbonduro/urbanhomes/internal/form"
	"github.com/vbonduro/urbanhomes/internal/query"
	"github.com/vbonduro/urbanhomes/internal/service"
)

// propertyNamespaces are dropped after any property mutation.
var propertyNamespaces = []string{query.NSProperties, query.NSAdminProperties, query.NSProperty}

type propertyEditor struct {
	ID     string // empty when creating
	Form   form.PropertyForm
	Errors form.Errors
	Error  string
}

func (s *Server) handleAdminProperties(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var editor *propertyEditor
	switch {
	case q.Get("edit") != "":
		p, err := s.fetchProperty(r, q.Get("edit"))
		if err != nil {
			if apiclient.IsNotFound(err) {
				s.renderAdminProperties(w, r, http.StatusNotFound, nil, "Property not found")
				return
			}
			s.fail(w, r, err, "Failed to load property")
			return
		}
		editor = &propertyEditor{ID: p.ID, Form: form.PropertyFormFrom(p)}
	case q.Get("new") != "":
		editor = &propertyEditor{Form: form.NewPropertyForm()}
	}
	s.renderAdminProperties(w, r, http.StatusOK, editor, "")
}

func (s *Server) renderAdminProperties(w http.ResponseWriter, r *http.Request, status int, editor *propertyEditor, banner string) {
	list, err := s.adminProperties(r, adminListLimit)
	if err != nil {
		s.fail(w, r, err, "Failed to load properties")
		return
	}
	pending, err := s.uploader.PendingCounts(r.Context())
	if err != nil {
		s.log(r).Error("pending image counts failed", "error", err)
		pending = map[string]int{}
	}

	data := s.page(r, "admin-properties", map[string]any{
		"Properties":  list.Properties,
		"Pending":     pending,
		"Editor":      editor,
		"Types":       domain.PropertyTypes,
		"Statuses":    domain.PropertyStatuses,
		"Notice":      notice(r),
		"Error":       banner,
		"CanDescribe": s.describer != nil,
	})
	if err := s.renderPageStatus(w, status, data, "pages/admin_properties.html", "partials/property_form.html"); err != nil {
		s.log(r).Error("render page failed", "error", err)
	}
}

func (s *Server) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	s.saveProperty(w, r, "")
}

func (s *Server) handleUpdateProperty(w http.ResponseWriter, r *http.Request) {
	s.saveProperty(w, r, mux.Vars(r)["id"])
}

// saveProperty runs both phases of a property save. The property itself is
// created or updated first; images are then staged and pushed separately, and
// a failed push never undoes the first phase.
func (s *Server) saveProperty(w http.ResponseWriter, r *http.Request, id string) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Invalid form submission")
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			s.log(r).Warn("failed to remove multipart temp files", "error", err)
		}
	}()

	editor := &propertyEditor{ID: id, Form: form.ParseProperty(r.PostForm)}
	editor.Errors = s.validator.Validate(editor.Form)
	uploads, err := s.readUploads(r, "images")
	if err != nil {
		if editor.Errors == nil {
			editor.Errors = form.Errors{}
		}
		editor.Errors["images"] = err.Error()
	}
	if editor.Errors != nil {
		s.renderAdminProperties(w, r, http.StatusUnprocessableEntity, editor, "")
		return
	}

	ctx := r.Context()
	var saved *domain.Property
	if id == "" {
		saved, err = s.properties.Create(ctx, editor.Form.Input())
	} else {
		saved, err = s.properties.Update(ctx, id, editor.Form.Input())
	}
	if err != nil {
		if apiclient.Classify(err) == apiclient.OutcomeAuthExpired {
			s.expireSession(w, r)
			return
		}
		s.log(r).Error("save property failed", "property_id", id, "error", err)
		editor.Error = "Failed to save property: " + apiclient.Message(err)
		s.renderAdminProperties(w, r, http.StatusBadGateway, editor, "")
		return
	}
	s.queries.Invalidate(ctx, propertyNamespaces...)

	code := "created"
	if id != "" {
		code = "updated"
	}
	next, expired := s.pushImages(r, saved.ID, uploads)
	if expired {
		s.expireSession(w, r)
		return
	}
	if next != "" {
		code = next
	}
	s.redirect(w, r, withNotice("/admin/properties", code))
}

// pushImages runs the second phase of a save and returns the notice code to
// show, or "" when there was nothing to push. expired reports a 401 from the
// image upload.
func (s *Server) pushImages(r *http.Request, propertyID string, uploads []service.Upload) (code string, expired bool) {
	ctx := r.Context()
	res, err := s.uploader.StageAndPush(ctx, propertyID, uploads)
	if err != nil {
		s.log(r).Error("staging images failed", "property_id", propertyID, "error", err)
		return "images-failed", false
	}
	if res.Err != nil {
		if apiclient.Classify(res.Err) == apiclient.OutcomeAuthExpired {
			return "", true
		}
		return "images-pending", false
	}
	if res.Uploaded == 0 {
		return "", false
	}
	s.queries.Invalidate(ctx, propertyNamespaces...)
	return "images-uploaded", false
}

func (s *Server) handleRetryImages(w http.ResponseWriter, r *http.Request) {
	code, expired := s.pushImages(r, mux.Vars(r)["id"], nil)
	if expired {
		s.expireSession(w, r)
		return
	}
	if code == "" {
		code = "nothing-pending"
	}
	s.redirect(w, r, withNotice("/admin/properties", code))
}

func (s *Server) handleConfirmDeleteProperty(w http.ResponseWriter, r *http.Request) {
	s.renderConfirmDeleteProperty(w, r, mux.Vars(r)["id"])
}

func (s *Server) renderConfirmDeleteProperty(w http.ResponseWriter, r *http.Request, id string) {
	p, err := s.fetchProperty(r, id)
	if err != nil {
		if apiclient.IsNotFound(err) {
			s.renderError(w, r, http.StatusNotFound, "Property not found")
			return
		}
		s.fail(w, r, err, "Failed to load property")
		return
	}
	data := s.page(r, "admin-properties", map[string]any{
		"Title":   "Delete property",
		"Prompt":  "Are you sure you want to delete this property?",
		"Subject": p.Title,
		"Action":  "/admin/properties/" + p.ID + "/delete",
		"Cancel":  "/admin/properties",
	})
	if err := s.renderPage(w, data, "pages/confirm_delete.html"); err != nil {
		s.log(r).Error("render page failed", "error", err)
	}
}

func (s *Server) handleDeleteProperty(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if r.FormValue("confirm") != "yes" {
		s.renderConfirmDeleteProperty(w, r, id)
		return
	}
	if err := s.properties.Delete(r.Context(), id); err != nil && !apiclient.IsNotFound(err) {
		s.fail(w, r, err, "Failed to delete property")
		return
	}
	if err := s.uploader.Discard(r.Context(), id); err != nil {
		s.log(r).Error("discard pending images failed", "property_id", id, "error", err)
	}
	s.queries.Invalidate(r.Context(), propertyNamespaces...)
	s.redirect(w, r, withNotice("/admin/properties", "deleted"))
}

// handleDescribePhoto suggests listing copy for one uploaded photo.
func (s *Server) handleDescribePhoto(w http.ResponseWriter, r *http.Request) {
	if s.describer == nil {
		http.Error(w, "description suggestions are not configured", http.StatusNotFound)
		return
	}
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	uploads, err := s.readUploads(r, "photo")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(uploads) == 0 {
		http.Error(w, "photo required", http.StatusBadRequest)
		return
	}

	desc, err := s.describer.Describe(r.Context(), bytes.NewReader(uploads[0].Data), uploads[0].MimeType)
	if err != nil {
		s.log(r).Error("describe photo failed", "error", err)
		http.Error(w, "failed to describe photo", http.StatusBadGateway)
		return
	}
	if err := s.renderPartial(w, "partials/description_suggestion.html", "description_suggestion", desc); err != nil {
		s.log(r).Error("render partial failed", "error", err)
	}
}
