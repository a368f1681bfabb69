package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"

	"watchhub/pkg/models"
)

func main() {
	// serves a dataset snapshot at GET /orders.json, same shape as the
	// upstream community file, so the api-server can point at it offline
	addr := flag.String("addr", ":9000", "listen address")
	dataPath := flag.String("data", "data/mirror.json", "snapshot path")
	flag.Parse()

	http.HandleFunc("/orders.json", func(w http.ResponseWriter, r *http.Request) {
		b, err := os.ReadFile(*dataPath)
		if err != nil {
			http.Error(w, "cannot read snapshot: "+err.Error(), http.StatusInternalServerError)
			return
		}
		// validate the shape so a bad file doesn't silently break lookups
		var tmp []models.Series
		if err := json.Unmarshal(b, &tmp); err != nil {
			http.Error(w, "snapshot is not a valid dataset: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(b)
	})

	log.Printf("mirror-server listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, nil))
}
