package main

import (
	"flag"
	"fmt"

	"qpackProbe/internal/controlserver"
)

func main() {
	var configFile = flag.String("config", "", "config file")

	flag.Parse()

	if *configFile == "" {
		panic("Config file arg is required!")
	}

	server := controlserver.NewServer(*configFile)
	if err := server.Start(); err != nil {
		fmt.Printf("control server stopped: %v", err)
	}
}
