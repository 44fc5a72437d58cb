package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/SakastLord/ideas/service"
)

// HTTPService registers the /api handler: one op per POST.
func HTTPService(ctx context.Context, s *service.Service) {

	api := func(w http.ResponseWriter, r *http.Request) {
		bs, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var op service.Op
		if err := json.Unmarshal(bs, &op); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		res := s.Do(ctx, &op)

		w.Header().Set("Content-Type", "application/json")
		if res.Error != "" {
			w.WriteHeader(http.StatusBadRequest)
		}

		js, err := json.Marshal(res)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Write(js)
	}

	http.HandleFunc("/api", api)
}
