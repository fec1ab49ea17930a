package main

import (
	"log"

	"github.com/clipnote/clipnote/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ clipnote failed to start: %v", err)
	}
}
