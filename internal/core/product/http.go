// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/tastedees/internal/platform/middleware"
	requestutil "github.com/taibuivan/tastedees/internal/platform/request"
	"github.com/taibuivan/tastedees/internal/platform/respond"
)

// Handler implements the /products endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the product router. Reads are public, writes need a session
// of any role.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/categories", handler.categories)
	router.Get("/{id}", handler.get)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.create)
		r.Put("/{id}", handler.update)
		r.Delete("/{id}", handler.delete)
	})

	return router
}

/*
GET /api/products?source=admin&category=vintage,art-series&minPrice=20&maxPrice=40&sale=true&sort=price-low

Without source=admin only publicly visible products are returned. The other
parameters are optional storefront filters, see [FilterFromQuery].
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	scope := ScopeFromSource(request.URL.Query().Get("source"))

	products, err := handler.service.List(request.Context(), scope)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, FieldProducts, FilterFromQuery(request.URL.Query()).Apply(products))
}

func (handler *Handler) categories(writer http.ResponseWriter, request *http.Request) {
	scope := ScopeFromSource(request.URL.Query().Get("source"))

	categories, err := handler.service.Categories(request.Context(), scope)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, FieldCategories, categories)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	p, err := handler.service.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, FieldProduct, p)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	p, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, FieldProduct, p)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var patch Patch
	if err := requestutil.DecodeJSON(writer, request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	p, err := handler.service.Update(request.Context(), requestutil.Param(request, "id"), patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, FieldProduct, p)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Done(writer)
}
