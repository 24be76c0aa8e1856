// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"path"
	"strings"
)

// EdgeGuard redirects browser navigation under prefix to loginPath when no
// session cookie is present. It only checks presence; token verification
// happens in the API.
//
// loginPath and every path in open are always let through. Paths are matched
// in their cleaned form, the same form http.FileServer resolves.
func EdgeGuard(reader TokenReader, prefix, loginPath string, open ...string) func(http.Handler) http.Handler {
	exempt := make(map[string]struct{}, len(open)+1)
	exempt[strings.TrimSuffix(loginPath, "/")] = struct{}{}
	for _, p := range open {
		exempt[strings.TrimSuffix(p, "/")] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			cleaned := path.Clean("/" + request.URL.Path)
			if !underPrefix(cleaned, prefix) {
				next.ServeHTTP(writer, request)
				return
			}

			if _, ok := exempt[cleaned]; ok {
				next.ServeHTTP(writer, request)
				return
			}

			if _, ok := reader.Read(request); !ok {
				http.Redirect(writer, request, loginPath, http.StatusFound)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

func underPrefix(p, prefix string) bool {
	return p == prefix || strings.HasPrefix(p, strings.TrimSuffix(prefix, "/")+"/")
}
