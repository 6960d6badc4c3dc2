package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/krizhnx/CarnivalLDN-sub000/internal/server"
)

func main() {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	if err := server.Start(); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
