package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/JMTC-dev/snake/pkg/game"
	"github.com/JMTC-dev/snake/pkg/network"
	"github.com/JMTC-dev/snake/pkg/ui"
)

func main() {
	server := flag.String("server", "ws://localhost:8080/ws", "server websocket URL")
	name := flag.String("name", "", "player name")
	flag.Parse()

	client := game.NewClient()

	manager, err := network.Dial(*server, *name, client)
	if err != nil {
		fmt.Printf("Failed to connect to %s: %v\n", *server, err)
		os.Exit(1)
	}
	defer manager.Close()

	gameUI := ui.NewGUI(client, manager)
	if err := gameUI.Run(); err != nil {
		fmt.Printf("UI error: %v\n", err)
		os.Exit(1)
	}
}
