package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/JMTC-dev/snake/pkg/game"
	"github.com/JMTC-dev/snake/pkg/network"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	width := flag.Int("width", game.DefaultWidth, "grid width in cells")
	height := flag.Int("height", game.DefaultHeight, "grid height in cells")
	tickMs := flag.Int("tick", game.DefaultTickMs, "tick interval in milliseconds")
	flag.Parse()

	cfg := game.Config{
		Width:  int32(*width),
		Height: int32(*height),
		TickMs: int32(*tickMs),
	}

	session := game.NewSession(cfg)
	hub := network.NewHub(session)
	go hub.Run()
	defer hub.Stop()

	http.HandleFunc("/ws", hub.HandleWS)

	log.Printf("server: listening on %s, grid %dx%d, tick %dms", *addr, cfg.Width, cfg.Height, cfg.TickMs)
	if err := http.ListenAndServe(*addr, nil); err != nil {
		log.Fatalf("server: %v", err)
	}
}
