// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/tastedees/internal/platform/request"
	"github.com/taibuivan/tastedees/internal/platform/respond"
)

// Handler serves the checkout hand-off.
type Handler struct {
	quoter *Quoter
}

func NewHandler(quoter *Quoter) *Handler {
	return &Handler{quoter: quoter}
}

func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/quote", handler.quote)
	return router
}

type quoteRequest struct {
	Items []Line `json:"items"`
}

/*
POST /api/cart/quote

Response:
  - 200: {"success":true,"quote":{items,itemCount,totalPrice,adjustments}}
*/
func (handler *Handler) quote(writer http.ResponseWriter, request *http.Request) {
	var input quoteRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	q, err := handler.quoter.Quote(request.Context(), input.Items)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, "quote", q)
}
