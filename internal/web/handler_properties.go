package web

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vbonduro/urbanhomes/internal/apiclient"
	"github.com/vbonduro/urbanhomes/internal/domain"
	"github.com/vbonduro/urbanhomes/internal/query"
)

func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	filter := domain.ParsePropertyFilter(r.URL.Query())

	list, err := query.Fetch(r.Context(), s.queries,
		query.Key{Namespace: query.NSProperties, Params: filter.Params()},
		func(ctx context.Context) (*domain.PropertyList, error) {
			return s.properties.List(ctx, filter)
		})
	if err != nil {
		s.fail(w, r, err, "Failed to load properties")
		return
	}

	data := s.page(r, "properties", map[string]any{
		"Filter":     filter,
		"Types":      domain.PropertyTypes,
		"Properties": list.Properties,
		"Pagination": list.Pagination,
	})
	if err := s.renderPage(w, data, "pages/properties.html", "partials/property_card.html"); err != nil {
		s.log(r).Error("render page failed", "error", err)
	}
}

func (s *Server) handlePropertyDetail(w http.ResponseWriter, r *http.Request) {
	p, err := s.fetchProperty(r, mux.Vars(r)["id"])
	if err != nil {
		if apiclient.IsNotFound(err) {
			s.renderError(w, r, http.StatusNotFound, "Property not found")
			return
		}
		s.fail(w, r, err, "Failed to load property")
		return
	}

	data := s.page(r, "properties", map[string]any{"Property": p})
	if err := s.renderPage(w, data, "pages/property_detail.html"); err != nil {
		s.log(r).Error("render page failed", "error", err)
	}
}

func (s *Server) fetchProperty(r *http.Request, id string) (*domain.Property, error) {
	return query.Fetch(r.Context(), s.queries,
		query.Key{Namespace: query.NSProperty, Params: map[string]string{"id": id}},
		func(ctx context.Context) (*domain.Property, error) {
			return s.properties.Get(ctx, id)
		})
}
