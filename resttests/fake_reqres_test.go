package resttests

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// fakeReqres imitates the responses of the parts of the reqres.in API that the built-in
// suites use.
type fakeReqres struct{}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func (fakeReqres) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api")
	switch r.Method + " " + path {
	case "GET /users":
		page := r.URL.Query().Get("page")
		if page == "" {
			page = "1"
		}
		writeJSON(w, 200, `{"page":`+page+`,"per_page":6,"total":12,"total_pages":2,`+
			`"data":[{"id":7,"email":"michael.lawson@reqres.in","first_name":"Michael"}]}`)
	case "GET /users/2":
		writeJSON(w, 200, `{"data":{"id":2,"email":"janet.weaver@reqres.in","first_name":"Janet","last_name":"Weaver"}}`)
	case "GET /unknown":
		writeJSON(w, 200, `{"page":1,"per_page":6,"total":12,"total_pages":2,"data":[{"id":1,"name":"cerulean"}]}`)
	case "GET /unknown/2":
		writeJSON(w, 200, `{"data":{"id":2,"name":"fuchsia rose","year":2001,"color":"#C74375"}}`)
	case "POST /users":
		writeJSON(w, 201, echoWith(r, `"id":"318","createdAt":"2026-10-19T10:00:00.000Z"`))
	case "PUT /users/2", "PATCH /users/2":
		writeJSON(w, 200, echoWith(r, `"updatedAt":"2026-10-19T10:00:00.000Z"`))
	case "DELETE /users/2":
		w.WriteHeader(204)
	case "POST /register", "POST /login":
		var creds struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&creds)
		switch {
		case creds.Password == "":
			writeJSON(w, 400, `{"error":"Missing password"}`)
		case path == "/register":
			writeJSON(w, 200, `{"id":4,"token":"QpwL5tke4Pnpja7X4"}`)
		default:
			writeJSON(w, 200, `{"token":"QpwL5tke4Pnpja7X4"}`)
		}
	default:
		writeJSON(w, 404, `{}`)
	}
}

func echoWith(r *http.Request, extra string) string {
	body, _ := io.ReadAll(r.Body)
	s := strings.TrimSpace(string(body))
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return "{" + extra + "}"
	}
	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return "{" + extra + "}"
	}
	return "{" + inner + "," + extra + "}"
}
