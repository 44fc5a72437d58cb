/* Copyright 2018 Comcast Cable Communications Management, LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

  http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package main is a solving service: rulesets on disk, sessions in a
// database, stepping over HTTP or WebSockets.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"

	"github.com/SakastLord/ideas/service"
)

func main() {

	var (
		dbFile      = flag.String("d", "sessions.db", "storage filename")
		rulesetsDir = flag.String("r", "rulesets", "rulesets directory")
		httpPort    = flag.String("h", ":8080", "HTTP port for our service")
		httpDir     = flag.String("f", "", "directory to serve via HTTP")
		verbose     = flag.Bool("v", false, "log lots of wonderful things")
	)

	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := service.NewService(ctx, *rulesetsDir, *dbFile)
	if err != nil {
		log.Fatal(err)
	}
	s.Verbose = *verbose
	defer s.Close()

	WebSocketService(ctx, s)
	HTTPService(ctx, s)

	if *httpDir != "" {
		fs := http.FileServer(http.Dir(*httpDir))
		http.Handle("/static/", http.StripPrefix("/static/", fs))
	}

	log.Printf("listening on %s", *httpPort)
	if err = http.ListenAndServe(*httpPort, nil); err != nil {
		log.Fatal(err)
	}
}
