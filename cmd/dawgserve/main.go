// Command dawgserve serves rank and prefix lookups over HTTP from an
// automaton written by dawgc.
//
//	dawgserve -dawg words.dawg [-addr :8080]
package main

import (
	"flag"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/milden6/dictomaton"
)

var (
	addr     string
	dawgName string
)

func init() {
	flag.StringVar(&addr, "addr", ":8080", "Listen address.")
	flag.StringVar(&dawgName, "dawg", "", "Automaton file written by dawgc.")
}

func main() {
	flag.Parse()
	if dawgName == "" {
		log.Fatal("missing -dawg")
	}

	tracing.SetTraceSelector(tracing.SelectorForAdapter(gologadapter.GetAdapter()))
	tracing.Select("root").SetTraceLevel(tracing.LevelInfo)

	dict, err := dictomaton.Load(dawgName)
	if err != nil {
		log.Fatal("Failed to load automaton: ", err)
	}

	router := gin.Default()
	NewHandler(dict).RegisterRoutes(router)

	log.Printf("Serving %d words on %s", dict.Size(), addr)
	if err := router.Run(addr); err != nil {
		log.Fatal("Server failed to start: ", err)
	}
}
