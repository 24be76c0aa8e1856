// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product

import (
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/taibuivan/tastedees/internal/platform/apperr"
	"github.com/taibuivan/tastedees/internal/platform/constants"
	"github.com/taibuivan/tastedees/internal/platform/middleware"
	requestutil "github.com/taibuivan/tastedees/internal/platform/request"
	"github.com/taibuivan/tastedees/internal/platform/respond"
	"github.com/taibuivan/tastedees/internal/platform/validate"
)

// LegacyHandler serves the flat-list endpoint kept for older admin forms.
type LegacyHandler struct {
	list *LegacyList
}

func NewLegacyHandler(list *LegacyList) *LegacyHandler {
	return &LegacyHandler{list: list}
}

// Handler returns the authenticated POST handler.
func (handler *LegacyHandler) Handler() http.Handler {
	return middleware.RequireAuth(http.HandlerFunc(handler.add))
}

type legacyRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
}

/*
POST /api/add-tshirt

Accepts JSON or a form. JSON callers get {"success":true,"item":...}; form
posts are redirected back to the admin console.
*/
func (handler *LegacyHandler) add(writer http.ResponseWriter, request *http.Request) {
	isJSON := isJSONRequest(request)

	var input legacyRequest
	if isJSON {
		if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}
	} else {
		request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxUploadSize)
		if err := request.ParseMultipartForm(constants.MaxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			respond.Error(writer, request, apperr.ValidationError("Invalid form payload"))
			return
		}
		input = legacyRequest{
			Name:        request.FormValue("name"),
			Description: request.FormValue("description"),
			Image:       request.FormValue("image"),
			Category:    request.FormValue("category"),
		}
		if raw := strings.TrimSpace(request.FormValue("price")); raw != "" {
			price, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				respond.Error(writer, request, apperr.ValidationError("Price must be a number"))
				return
			}
			input.Price = price
		}
	}

	v := &validate.Validator{}
	v.Required(FieldName, input.Name).NonNegative(FieldPrice, input.Price)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	item, err := handler.list.Append(request.Context(), LegacyItem{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		Image:       input.Image,
		Category:    orDefault(strings.TrimSpace(input.Category), constants.DefaultCategory),
	})
	if err != nil {
		respond.Error(writer, request, apperr.StorageFailure("Failed to add t-shirt", err))
		return
	}

	if !isJSON {
		http.Redirect(writer, request, "/admin", http.StatusSeeOther)
		return
	}
	respond.OK(writer, "item", item)
}

func isJSONRequest(request *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(request.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}
